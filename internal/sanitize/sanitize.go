// Package sanitize strips unsafe markup from free-text fields before they
// are persisted locally or pushed to the remote backend.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy removes every HTML element and attribute. Free text in this
// application is plain text; anything tag-shaped is hostile input.
var policy = bluemonday.StrictPolicy()

// Text strips markup from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}

// TextSlice sanitizes every entry of values, drops entries that end up
// empty, and removes duplicates while preserving first-seen order.
func TextSlice(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		clean := Text(v)
		if clean == "" {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
