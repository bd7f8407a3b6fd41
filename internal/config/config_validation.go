// SPDX-License-Identifier: Apache-2.0

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The local database is mandatory: the application is local-first and the
// SQLite file is the fallback of record even when cloud sync is enabled.
// Remote settings are optional but must be complete when present — a base
// URL without an anonymous key (or the reverse) is a misconfiguration, not
// local-only mode.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if (cfg.Remote.BaseURL == "") != (cfg.Remote.AnonKey == "") {
		return ErrInvalidRemoteConfigs
	}

	return nil
}
