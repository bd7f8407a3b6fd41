// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// cuisine-app runtime. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string.
	App App `envPrefix:"APP_"`

	// Remote holds the cloud backend settings. Leaving both BaseURL and
	// AnonKey empty runs the application in local-only mode: the sync
	// layer never attempts a network call.
	Remote Remote `envPrefix:"REMOTE_"`

	// Storage holds the local database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds background job settings (weekly backup re-check,
	// recurring task pass).
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Remote holds connection settings for the hosted backend (table REST API,
// auth endpoints and blob storage).
type Remote struct {
	// BaseURL is the root URL of the remote backend
	// (e.g. "https://abc.backend.example"). Empty disables cloud sync.
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// AnonKey is the anonymous API key sent with every request and used
	// as the bearer fallback when no user session exists.
	// Env: REMOTE_ANON_KEY
	AnonKey string `env:"ANON_KEY"`

	// Tenant is the workspace identifier scoping all remote rows.
	// Env: REMOTE_TENANT
	Tenant string `env:"TENANT"`

	// Bucket is the blob storage bucket name for invoice and product images.
	// Env: REMOTE_BUCKET
	Bucket string `env:"BUCKET"`

	// RequestTimeout is the default timeout for outbound requests
	// (e.g. "15s"). Zero lets the gateway pick its default.
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for the local persistence backend.
type Storage struct {
	// DB holds the local SQLite settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local embedded database.
type DB struct {
	// DSN is the SQLite file path (e.g. "cuisine.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// BackupCheckInterval defines how often the weekly auto-backup marker
	// is re-checked while the application runs (e.g. "6h"). The backup
	// itself still fires at most once per calendar week.
	// Env: WORKERS_BACKUP_CHECK_INTERVAL
	BackupCheckInterval time.Duration `env:"BACKUP_CHECK_INTERVAL"`
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

// CloudEnabled reports whether remote sync is configured. Both the base URL
// and the anonymous key must be present.
func (cfg *StructuredConfig) CloudEnabled() bool {
	return cfg.Remote.BaseURL != "" && cfg.Remote.AnonKey != ""
}
