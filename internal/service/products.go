// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/sanitize"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// ProductService manages traceability entries (photographed product labels).
// Media follows the same rules as invoices: raw payloads stay local, hosted
// URLs travel.
// TracePages reads one page of cached traces. Satisfied by
// [store.PageRepository].
type TracePages interface {
	ProductTracesPage(ctx context.Context, limit, offset int) ([]models.ProductTrace, error)
}

type ProductService struct {
	*Collection[models.ProductTrace]

	pages  TracePages
	blobs  BlobStore
	logger *logger.Logger
}

// NewProductService wires the product-trace collection.
func NewProductService(storages *store.Storages, remote RemoteTable, blobs BlobStore, log *logger.Logger) *ProductService {
	collection := NewCollection("product_traces", storages.ProductTraces, remote, log,
		func(v models.ProductTrace) string { return v.ID }).
		WithSanitize(sanitizeProductTrace).
		WithMerge(mergeProductMedia).
		WithOrder("created_at.desc")

	return &ProductService{
		Collection: collection,
		pages:      storages.Pages,
		blobs:      blobs,
		logger:     log,
	}
}

// ListPage returns one page of locally cached traces, newest first. The
// first page triggers a full resync.
func (s *ProductService) ListPage(ctx context.Context, limit, offset int) ([]models.ProductTrace, error) {
	if offset == 0 {
		if err := s.Resync(ctx); err != nil {
			return nil, err
		}
	}

	return s.pages.ProductTracesPage(ctx, limit, offset)
}

// Resync runs the full reconcile pass over the trace collection.
func (s *ProductService) Resync(ctx context.Context) error {
	_, err := s.List(ctx)
	return err
}

// Save writes a trace: sanitize, best-effort image upload, durable local
// write, best-effort remote push without raw payloads.
func (s *ProductService) Save(ctx context.Context, trace models.ProductTrace) (models.ProductTrace, error) {
	trace = sanitizeProductTrace(trace)
	s.uploadImages(ctx, &trace)

	if err := s.local.Upsert(ctx, trace); err != nil {
		return models.ProductTrace{}, fmt.Errorf("save local product trace: %w", err)
	}

	s.bestEffort(ctx, "push product trace row", func() error {
		remote := trace
		remote.Images = nil
		_, err := s.remote.UpsertRows(ctx, s.table, []models.ProductTrace{remote}, nil)
		return err
	})

	return trace, nil
}

// Delete removes the trace locally, then best-effort removes the remote row
// and its hosted images.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	trace, err := s.local.Get(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load product trace for delete: %w", err)
	}

	if err = s.Collection.Delete(ctx, id); err != nil {
		return err
	}

	if len(trace.ImageURLs) > 0 {
		s.bestEffort(ctx, "remove product trace images", func() error {
			return s.blobs.RemoveStorageFiles(ctx, trace.ImageURLs)
		})
	}

	return nil
}

func (s *ProductService) uploadImages(ctx context.Context, trace *models.ProductTrace) {
	if !s.blobs.IsConfigured() || len(trace.Images) == 0 {
		return
	}

	urls := make(map[string]bool, len(trace.ImageURLs))
	for _, u := range trace.ImageURLs {
		urls[u] = true
	}

	for i, payload := range trace.Images {
		data, err := base64.StdEncoding.DecodeString(trimDataURLPrefix(payload))
		if err != nil {
			s.logger.Warn().Err(err).
				Str("func", "ProductService.uploadImages").
				Str("trace_id", trace.ID).
				Int("index", i).
				Msg("trace image payload is not valid base64, skipping upload")
			continue
		}

		path := fmt.Sprintf("products/%s/%d.jpg", trace.ID, i)
		url, err := s.blobs.UploadBlob(ctx, path, "image/jpeg", data)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("func", "ProductService.uploadImages").
				Str("trace_id", trace.ID).
				Str("path", path).
				Msg("failed to upload trace image")
			continue
		}

		if !urls[url] {
			trace.ImageURLs = append(trace.ImageURLs, url)
			urls[url] = true
		}
	}
}

func mergeProductMedia(remote, local models.ProductTrace) models.ProductTrace {
	if len(remote.Images) == 0 && len(remote.ImageURLs) == 0 &&
		(len(local.Images) > 0 || len(local.ImageURLs) > 0) {
		remote.Images = local.Images
		remote.ImageURLs = local.ImageURLs
	}
	return remote
}

func sanitizeProductTrace(v models.ProductTrace) models.ProductTrace {
	v.Name = sanitize.Text(v.Name)
	v.LotNumber = sanitize.Text(v.LotNumber)
	v.Supplier = sanitize.Text(v.Supplier)
	return v
}
