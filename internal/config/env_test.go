// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_VERSION": "1.4.0",

		"REMOTE_BASE_URL":        "https://kitchen.backend.example",
		"REMOTE_ANON_KEY":        "anon_secret",
		"REMOTE_TENANT":          "brasserie-1",
		"REMOTE_BUCKET":          "invoice-images",
		"REMOTE_REQUEST_TIMEOUT": "30s",

		// Storage has nested prefixes: STORAGE_ + DB_
		"STORAGE_DB_DATABASE_URI": "cuisine.db",

		"WORKERS_BACKUP_CHECK_INTERVAL": "6h",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "1.4.0", cfg.App.Version)

	assert.Equal(t, "https://kitchen.backend.example", cfg.Remote.BaseURL)
	assert.Equal(t, "anon_secret", cfg.Remote.AnonKey)
	assert.Equal(t, "brasserie-1", cfg.Remote.Tenant)
	assert.Equal(t, "invoice-images", cfg.Remote.Bucket)
	assert.Equal(t, 30*time.Second, cfg.Remote.RequestTimeout)

	assert.Equal(t, "cuisine.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 6*time.Hour, cfg.Workers.BackupCheckInterval)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"STORAGE_DB_DATABASE_URI": "cuisine.db",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "cuisine.db", cfg.Storage.DB.DSN)
	assert.Empty(t, cfg.Remote.BaseURL)
	assert.Empty(t, cfg.Remote.AnonKey)
	assert.Zero(t, cfg.Remote.RequestTimeout)
	assert.Zero(t, cfg.Workers.BackupCheckInterval)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{
		"REMOTE_REQUEST_TIMEOUT": "not-a-duration",
	})

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.Error(t, err)
}

func TestCloudEnabled(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		anonKey string
		want    bool
	}{
		{"both set", "https://kitchen.backend.example", "key", true},
		{"url only", "https://kitchen.backend.example", "", false},
		{"key only", "", "key", false},
		{"neither", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &StructuredConfig{Remote: Remote{BaseURL: tt.baseURL, AnonKey: tt.anonKey}}
			assert.Equal(t, tt.want, cfg.CloudEnabled())
		})
	}
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",
		"APP_VERSION",
		"REMOTE_BASE_URL",
		"REMOTE_ANON_KEY",
		"REMOTE_TENANT",
		"REMOTE_BUCKET",
		"REMOTE_REQUEST_TIMEOUT",
		"STORAGE_DB_DATABASE_URI",
		"WORKERS_BACKUP_CHECK_INTERVAL",
	}
	for _, k := range keys {
		require.NoError(t, os.Unsetenv(k))
	}
}
