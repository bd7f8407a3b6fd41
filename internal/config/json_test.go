package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	// Durations in JSON may be strings ("30s") or nanosecond numbers.
	jsonBody := `{
		"app": { "version": "1.4.0" },
		"remote": {
			"base_url": "https://kitchen.backend.example",
			"anon_key": "anon_secret",
			"tenant": "brasserie-1",
			"bucket": "invoice-images",
			"request_timeout": "30s"
		},
		"storage": {
			"db": { "dsn": "cuisine.db" }
		},
		"workers": {
			"backup_check_interval": "6h"
		}
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "1.4.0", cfg.App.Version)
	assert.Equal(t, "https://kitchen.backend.example", cfg.Remote.BaseURL)
	assert.Equal(t, "anon_secret", cfg.Remote.AnonKey)
	assert.Equal(t, "brasserie-1", cfg.Remote.Tenant)
	assert.Equal(t, "invoice-images", cfg.Remote.Bucket)
	assert.Equal(t, 30*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, "cuisine.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 6*time.Hour, cfg.Workers.BackupCheckInterval)
	assert.Empty(t, cfg.JSONFilePath, "json source must not re-point to itself")
}

func TestParseJSON_FileMissing(t *testing.T) {
	cfg, err := parseJSON(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestParseJSON_MalformedBody(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"remote": `), 0o600))

	cfg, err := parseJSON(p)
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		want  time.Duration
		isErr bool
	}{
		{"string form", `"45s"`, 45 * time.Second, false},
		{"numeric nanoseconds", `1000000000`, time.Second, false},
		{"garbage", `"later"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalJSON([]byte(tt.body))
			if tt.isErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StructuredConfig
		wantErr error
	}{
		{
			name: "local only",
			cfg:  StructuredConfig{Storage: Storage{DB: DB{DSN: "cuisine.db"}}},
		},
		{
			name: "cloud complete",
			cfg: StructuredConfig{
				Remote:  Remote{BaseURL: "https://kitchen.backend.example", AnonKey: "k"},
				Storage: Storage{DB: DB{DSN: "cuisine.db"}},
			},
		},
		{
			name:    "missing dsn",
			cfg:     StructuredConfig{},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "in-memory dsn rejected",
			cfg:  StructuredConfig{Storage: Storage{DB: DB{DSN: ":memory:"}}},
			// an in-memory database would silently drop all local-first
			// guarantees on restart
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "url without key",
			cfg: StructuredConfig{
				Remote:  Remote{BaseURL: "https://kitchen.backend.example"},
				Storage: Storage{DB: DB{DSN: "cuisine.db"}},
			},
			wantErr: ErrInvalidRemoteConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
