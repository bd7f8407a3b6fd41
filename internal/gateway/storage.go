// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"fmt"
	"strings"
)

// UploadBlob stores data under path in the configured bucket, overwriting any
// existing object, and returns the public URL of the object.
func (g *Gateway) UploadBlob(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if !g.IsConfigured() {
		return "", ErrNotConfigured
	}
	if g.cfg.Bucket == "" {
		return "", fmt.Errorf("%w: no storage bucket", ErrNotConfigured)
	}

	path = strings.TrimLeft(path, "/")

	resp, err := g.restRequest(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(data).
		Post("/storage/v1/object/" + g.cfg.Bucket + "/" + path)
	if err != nil {
		return "", fmt.Errorf("upload blob request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", fmt.Errorf("upload blob %s: %w", path, err)
	}

	return g.publicURLPrefix() + path, nil
}

// RemoveStorageFiles deletes the objects behind the given public URLs.
// URLs outside the configured bucket are skipped. Failures are reported but
// never affect more than the failing object; the first error is returned
// after all URLs were attempted.
func (g *Gateway) RemoveStorageFiles(ctx context.Context, publicURLs []string) error {
	if !g.IsConfigured() {
		return ErrNotConfigured
	}

	prefix := g.publicURLPrefix()
	var firstErr error

	for _, url := range publicURLs {
		if !strings.HasPrefix(url, prefix) {
			continue
		}
		path := strings.TrimPrefix(url, prefix)

		resp, err := g.restRequest(ctx).
			Delete("/storage/v1/object/" + g.cfg.Bucket + "/" + path)
		if err == nil {
			err = mapHTTPError(resp)
		}
		if err != nil {
			g.logger.Warn().Err(err).
				Str("func", "Gateway.RemoveStorageFiles").
				Str("path", path).
				Msg("failed to remove storage object")
			if firstErr == nil {
				firstErr = fmt.Errorf("remove storage object %s: %w", path, err)
			}
		}
	}

	return firstErr
}

func (g *Gateway) publicURLPrefix() string {
	return strings.TrimRight(g.cfg.BaseURL, "/") + "/storage/v1/object/public/" + g.cfg.Bucket + "/"
}
