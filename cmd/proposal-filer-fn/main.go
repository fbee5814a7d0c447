package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/cots-conf/proposal-filer/internal/config"
	"github.com/cots-conf/proposal-filer/internal/models"
	"github.com/cots-conf/proposal-filer/internal/services"
)

var (
	filerInstance *services.FilerFunction
	once          sync.Once
	initErr       error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register both triggers with the framework. "FileProposals" serves
	// manual HTTP invocations, "FileProposalsPubSub" the scheduled Pub/Sub
	// messages.
	functions.HTTP("FileProposals", fileProposals)
	functions.CloudEvent("FileProposalsPubSub", fileProposalsPubSub)
}

// main is required by the Go Functions Framework.
func main() {}

// initFiler performs one-time initialization of configuration and clients.
func initFiler() (*services.FilerFunction, error) {
	once.Do(func() {
		var cfg *config.Config
		cfg, initErr = config.Load("")
		if initErr != nil {
			return
		}
		filerInstance, initErr = services.NewFiler(context.Background(), cfg)
	})
	return filerInstance, initErr
}

// fileProposals is the HTTP entry point for a filing run.
func fileProposals(w http.ResponseWriter, r *http.Request) {
	f, err := initFiler()
	if err != nil {
		slog.Error("Critical error during function initialization", "error", err)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	// An empty body means a full run with the configured defaults.
	var req models.FileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn("Could not decode request body", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	report, err := f.Process(r.Context(), &req)
	res := models.FileResponse{Status: "completed"}
	if report != nil {
		res.Report = *report
	}
	if err != nil {
		// The specific error is already logged inside the Process method.
		res.Status = "failed"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("Failed to write response", "error", err)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}

// fileProposalsPubSub is the CloudEvent entry point for scheduled runs.
func fileProposalsPubSub(ctx context.Context, e cloudevents.Event) error {
	f, err := initFiler()
	if err != nil {
		slog.Error("Critical error during function initialization", "error", err)
		return err
	}

	// The scheduler publishes an empty message for a default run; a message
	// body, when present, carries a FileRequest.
	var msg models.MessagePublishedData
	if err := json.Unmarshal(e.Data(), &msg); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return err
	}
	var req models.FileRequest
	if len(msg.Message.Data) > 0 {
		if err := json.Unmarshal(msg.Message.Data, &req); err != nil {
			slog.Warn("Could not decode message payload, running with defaults", "error", err)
		}
	}

	if _, err := f.Process(ctx, &req); err != nil {
		// The error is already logged with context within the Process method.
		// Returning it marks the function invocation as failed.
		return err
	}
	return nil
}
