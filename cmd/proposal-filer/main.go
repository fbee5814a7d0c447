// Package main is the command line entry point for the proposal filer. It
// runs one filing pass over the response sheet and prints the run report as
// JSON on stdout.
package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cots-conf/proposal-filer/internal/config"
	"github.com/cots-conf/proposal-filer/internal/models"
	"github.com/cots-conf/proposal-filer/internal/services"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "proposal-filer",
	Short: "File conference proposals from the response sheet into Drive",
	Long: `proposal-filer reads new rows from the submission form's response sheet,
renders each proposal as a Google Doc in the folder for its category, and
advances a persisted checkpoint so the next run resumes where this one
stopped.`,
	SilenceUsage: true,
	RunE:         runFiler,
}

func init() {
	// An explicitly named file must exist; without the flag an optional
	// ./.env is picked up when present, plain environment otherwise.
	rootCmd.Flags().String("env-file", "", "dotenv file with the filer configuration (default: ./.env if present)")
	rootCmd.Flags().Int("max-rows", 0, "stop after this many new rows (0 means no cap)")
}

func runFiler(cmd *cobra.Command, args []string) error {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	envFile, _ := cmd.Flags().GetString("env-file")
	maxRows, _ := cmd.Flags().GetInt("max-rows")

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	// SIGINT or SIGTERM cancels the run between rows. The checkpoint already
	// covers every row handled before the signal.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := services.NewFiler(ctx, cfg)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := f.Process(ctx, &models.FileRequest{MaxRows: maxRows})
	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			slog.Error("Failed to write report", "error", encErr)
		}
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
