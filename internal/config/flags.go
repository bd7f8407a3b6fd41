package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d local database file path (SQLite)
//	-remote-url remote backend base URL
//	-anon-key remote anonymous API key
//	-tenant workspace identifier
//	-bucket blob storage bucket name
//	-request-timeout outbound request timeout (e.g., "15s", "1m")
//	-backup-check-interval weekly backup re-check interval (e.g., "6h")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var databaseDSN string
	var remoteURL string
	var anonKey string
	var tenant string
	var bucket string
	var requestTimeout time.Duration
	var backupCheckInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&databaseDSN, "d", "", "Local database file path")
	flag.StringVar(&remoteURL, "remote-url", "", "Remote backend base URL")
	flag.StringVar(&anonKey, "anon-key", "", "Remote anonymous API key")
	flag.StringVar(&tenant, "tenant", "", "Workspace identifier")
	flag.StringVar(&bucket, "bucket", "", "Blob storage bucket name")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s, 1m)")
	flag.DurationVar(&backupCheckInterval, "backup-check-interval", 0, "Weekly backup re-check interval (e.g., 6h)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Remote: Remote{
			BaseURL:        remoteURL,
			AnonKey:        anonKey,
			Tenant:         tenant,
			Bucket:         bucket,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Workers: Workers{
			BackupCheckInterval: backupCheckInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
