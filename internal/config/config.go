// Package config loads the editing engine's startup configuration from
// config.yaml with environment variable overrides, following the same
// cleanenv-based loading shape the rest of the ambient stack uses.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the engine's startup configuration.
type Config struct {
	// StoreDSN is the SQLite DSN the store opens (a file path, or
	// ":memory:" for an ephemeral store).
	StoreDSN string `yaml:"store_dsn" env:"WNEDITOR_STORE_DSN" env-default:":memory:"`

	// AutoInverse is the default for Engine.Config.AutoInverse on new
	// Editor instances.
	AutoInverse bool `yaml:"auto_inverse" env:"WNEDITOR_AUTO_INVERSE" env-default:"true"`

	// TreatAlsoAsSymmetric overrides the catalogue's asymmetric treatment
	// of the "also" relation type, making AddRelation/RemoveRelation
	// insert/delete it in both directions.
	TreatAlsoAsSymmetric bool `yaml:"treat_also_as_symmetric" env:"WNEDITOR_ALSO_SYMMETRIC" env-default:"false"`

	// DefaultExportVersion is a WN-LMF schema version setting (default
	// 1.4). It is loaded but not read by the editor or the CLI: Export
	// always emits 1.4, and ExportVersion takes its version as an argument.
	DefaultExportVersion string `yaml:"default_export_version" env:"WNEDITOR_EXPORT_VERSION" env-default:"1.4"`

	// RecordHistory is the default for Engine.Config.RecordHistory.
	RecordHistory bool `yaml:"record_history" env:"WNEDITOR_RECORD_HISTORY" env-default:"true"`
}

// Load reads configuration from path (typically "config.yaml") with
// environment variable overrides. A missing file is not an error —
// env-default tags and any set environment variables still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return cfg, nil
}
