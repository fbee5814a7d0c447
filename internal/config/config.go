// Package config loads the filer's configuration from environment
// variables, optionally seeded from a .env file the way the deployed
// container is. Variable names are kept exactly as the running deployment
// already defines them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	"github.com/cots-conf/proposal-filer/internal/models"
)

// Working storage backends accepted in WORKING_STORAGE_TYPE.
const (
	StorageFirestore = "firestore"
	StorageGCS       = "gcs"
	StorageFile      = "file"
)

// Config is everything a single invocation needs.
type Config struct {
	// SpreadsheetID and SheetName locate the form's response sheet.
	SpreadsheetID string
	SheetName     string

	Storage StorageConfig

	// Folders maps each proposal category to its Drive folder ID.
	Folders map[models.Category]string

	// MaxRows caps how many rows one invocation handles; 0 means no cap.
	MaxRows int

	// RowPause is idle time between consecutive rows.
	RowPause time.Duration
}

// StorageConfig selects and locates the checkpoint's working storage.
type StorageConfig struct {
	Type string

	// Firestore coordinates.
	ProjectID  string
	Collection string
	Document   string

	// GCS coordinates.
	Bucket string
	Object string

	// Local file path.
	Path string
}

// Load reads configuration from the environment. When envFile is non-empty
// that file must exist and is read first; otherwise an optional ./.env is
// picked up when present. Real environment variables always win over the
// file, matching how the original deployment layered dotenv under its
// environment.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("WORKING_STORAGE_TYPE", StorageFile)
	v.SetDefault("WORKING_FILE_PATH", "checkpoint.json")
	v.SetDefault("WORKING_OBJECT_NAME", "checkpoint.json")
	v.SetDefault("APP_ROW_PAUSE", "3s")
	v.SetDefault("APP_MAX_ROWS", 0)

	path := envFile
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// A missing default .env is fine; a missing explicit file is not.
		if envFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
	}

	cfg := &Config{
		SpreadsheetID: v.GetString("APP_FORM_RESPONSE_ID"),
		SheetName:     v.GetString("APP_SHEET_NAME"),
		Storage: StorageConfig{
			Type:       v.GetString("WORKING_STORAGE_TYPE"),
			ProjectID:  v.GetString("FIREBASE_PROJECT_ID"),
			Collection: v.GetString("WORKING_COLLECTION_NAME"),
			Document:   v.GetString("WORKING_DOCUMENT_NAME"),
			Bucket:     v.GetString("WORKING_BUCKET_NAME"),
			Object:     v.GetString("WORKING_OBJECT_NAME"),
			Path:       v.GetString("WORKING_FILE_PATH"),
		},
		Folders: map[models.Category]string{
			models.CategoryIndividual: v.GetString("INDIVIDUAL_PROPOSAL_FOLDER_ID"),
			models.CategoryPanel:      v.GetString("PANEL_PROPOSAL_FOLDER_ID"),
			models.CategoryRoundtable: v.GetString("ROUNDTABLE_PROPOSAL_FOLDER_ID"),
		},
		MaxRows:  v.GetInt("APP_MAX_ROWS"),
		RowPause: v.GetDuration("APP_ROW_PAUSE"),
	}

	// The original deployment called the Firestore backend "firebase".
	if cfg.Storage.Type == "firebase" {
		cfg.Storage.Type = StorageFirestore
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("APP_FORM_RESPONSE_ID environment variable must be set")
	}
	if c.SheetName == "" {
		return fmt.Errorf("APP_SHEET_NAME environment variable must be set")
	}
	if c.Folders[models.CategoryIndividual] == "" {
		return fmt.Errorf("INDIVIDUAL_PROPOSAL_FOLDER_ID environment variable must be set")
	}
	if c.Folders[models.CategoryPanel] == "" {
		return fmt.Errorf("PANEL_PROPOSAL_FOLDER_ID environment variable must be set")
	}
	if c.Folders[models.CategoryRoundtable] == "" {
		return fmt.Errorf("ROUNDTABLE_PROPOSAL_FOLDER_ID environment variable must be set")
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("APP_MAX_ROWS must not be negative")
	}
	if c.RowPause < 0 {
		return fmt.Errorf("APP_ROW_PAUSE must not be negative")
	}

	switch c.Storage.Type {
	case StorageFirestore:
		if c.Storage.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID environment variable must be set")
		}
		if c.Storage.Collection == "" {
			return fmt.Errorf("WORKING_COLLECTION_NAME environment variable must be set")
		}
		if c.Storage.Document == "" {
			return fmt.Errorf("WORKING_DOCUMENT_NAME environment variable must be set")
		}
	case StorageGCS:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("WORKING_BUCKET_NAME environment variable must be set")
		}
	case StorageFile:
		// Path always has a default.
	default:
		return fmt.Errorf("unknown working storage type %q", c.Storage.Type)
	}
	return nil
}
