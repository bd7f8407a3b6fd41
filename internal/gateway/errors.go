package gateway

import "errors"

var (
	// ErrNotConfigured is returned when the remote backend settings are
	// incomplete and no network call can be made.
	ErrNotConfigured = errors.New("remote backend not configured")

	// ErrUnauthorized is returned for 401 responses after the token source
	// has exhausted its refresh and anon-key fallbacks.
	ErrUnauthorized = errors.New("remote unauthorized")

	// ErrNoFilter is returned by DeleteRows when no filter was supplied.
	// An unfiltered DELETE would clear the whole remote table.
	ErrNoFilter = errors.New("delete requires at least one filter")
)
