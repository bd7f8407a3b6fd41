// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/sanitize"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// BlobStore uploads and removes remote-hosted media. Satisfied by
// [gateway.Gateway].
type BlobStore interface {
	IsConfigured() bool
	UploadBlob(ctx context.Context, path, contentType string, data []byte) (string, error)
	RemoveStorageFiles(ctx context.Context, publicURLs []string) error
}

// InvoiceService manages supplier invoices. Raw scanned pages (base64) live
// only in the local cache; explicit saves upload them to blob storage and
// record the public URLs, which is what the remote row and the backup
// export carry. A remote row lacking media never erases local media.
// InvoicePages reads one page of cached invoices. Satisfied by
// [store.PageRepository].
type InvoicePages interface {
	InvoicesPage(ctx context.Context, limit, offset int) ([]models.Invoice, error)
}

type InvoiceService struct {
	*Collection[models.Invoice]

	pages   InvoicePages
	blobs   BlobStore
	pricing *PricingService
	logger  *logger.Logger
}

// NewInvoiceService wires the invoice collection with media handling and
// the price-history hook.
func NewInvoiceService(storages *store.Storages, remote RemoteTable, blobs BlobStore, pricing *PricingService, log *logger.Logger) *InvoiceService {
	collection := NewCollection("invoices", storages.Invoices, remote, log,
		func(v models.Invoice) string { return v.ID }).
		WithSanitize(sanitizeInvoice).
		WithMerge(mergeInvoiceMedia).
		WithOrder("invoice_date.desc")

	return &InvoiceService{
		Collection: collection,
		pages:      storages.Pages,
		blobs:      blobs,
		pricing:    pricing,
		logger:     log,
	}
}

// ListPage returns one page of locally cached invoices, newest first. The
// first page triggers a full resync so the cache converges with the remote
// table before the page is read.
func (s *InvoiceService) ListPage(ctx context.Context, limit, offset int) ([]models.Invoice, error) {
	if offset == 0 {
		if err := s.Resync(ctx); err != nil {
			return nil, err
		}
	}

	return s.pages.InvoicesPage(ctx, limit, offset)
}

// Resync runs the full reconcile pass over the invoice collection. Remote
// failures degrade to the local cache as in every collection read.
func (s *InvoiceService) Resync(ctx context.Context) error {
	_, err := s.List(ctx)
	return err
}

// Save writes an invoice: sanitize, upload raw images to blob storage
// (best-effort, collected URLs recorded on the row), durable local write,
// best-effort remote push without the raw payloads, then fold the line
// items into the price history.
func (s *InvoiceService) Save(ctx context.Context, invoice models.Invoice) (models.Invoice, error) {
	invoice = sanitizeInvoice(invoice)
	s.uploadImages(ctx, &invoice)

	if err := s.local.Upsert(ctx, invoice); err != nil {
		return models.Invoice{}, fmt.Errorf("save local invoice: %w", err)
	}

	s.bestEffort(ctx, "push invoice row", func() error {
		_, err := s.remote.UpsertRows(ctx, s.table, []models.Invoice{stripRawImages(invoice)}, nil)
		return err
	})

	if err := s.pricing.UpdatePriceHistory(ctx, invoice); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "InvoiceService.Save").
			Str("invoice_id", invoice.ID).
			Msg("failed to update price history from invoice")
	}

	return invoice, nil
}

// Delete removes the invoice locally, then best-effort removes the remote
// row and its hosted images.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	invoice, err := s.local.Get(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load invoice for delete: %w", err)
	}

	if err = s.Collection.Delete(ctx, id); err != nil {
		return err
	}

	if len(invoice.ImageURLs) > 0 {
		s.bestEffort(ctx, "remove invoice images", func() error {
			return s.blobs.RemoveStorageFiles(ctx, invoice.ImageURLs)
		})
	}

	return nil
}

// uploadImages pushes each raw base64 page to blob storage and records the
// returned URL. Upload failures leave the raw payload in place; the image
// is retried on the next explicit save.
func (s *InvoiceService) uploadImages(ctx context.Context, invoice *models.Invoice) {
	if !s.blobs.IsConfigured() || len(invoice.Images) == 0 {
		return
	}

	urls := make(map[string]bool, len(invoice.ImageURLs))
	for _, u := range invoice.ImageURLs {
		urls[u] = true
	}

	for i, payload := range invoice.Images {
		data, err := base64.StdEncoding.DecodeString(trimDataURLPrefix(payload))
		if err != nil {
			s.logger.Warn().Err(err).
				Str("func", "InvoiceService.uploadImages").
				Str("invoice_id", invoice.ID).
				Int("index", i).
				Msg("invoice image payload is not valid base64, skipping upload")
			continue
		}

		path := fmt.Sprintf("invoices/%s/%d.jpg", invoice.ID, i)
		url, err := s.blobs.UploadBlob(ctx, path, "image/jpeg", data)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("func", "InvoiceService.uploadImages").
				Str("invoice_id", invoice.ID).
				Str("path", path).
				Msg("failed to upload invoice image")
			continue
		}

		if !urls[url] {
			invoice.ImageURLs = append(invoice.ImageURLs, url)
			urls[url] = true
		}
	}
}

// mergeInvoiceMedia keeps local media alive when the remote row carries
// none: an older client may have synced the row without its images.
func mergeInvoiceMedia(remote, local models.Invoice) models.Invoice {
	if !remote.HasMedia() && local.HasMedia() {
		remote.Images = local.Images
		remote.ImageURLs = local.ImageURLs
	}
	return remote
}

// stripRawImages drops the base64 payloads from the remote copy; the remote
// row references hosted media by URL only.
func stripRawImages(invoice models.Invoice) models.Invoice {
	invoice.Images = nil
	return invoice
}

func trimDataURLPrefix(payload string) string {
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		return payload[idx+1:]
	}
	return payload
}

func sanitizeInvoice(v models.Invoice) models.Invoice {
	v.Supplier = sanitize.Text(v.Supplier)
	v.Number = sanitize.Text(v.Number)
	v.Notes = sanitize.Text(v.Notes)
	for i := range v.Items {
		v.Items[i].Name = sanitize.Text(v.Items[i].Name)
		v.Items[i].Unit = sanitize.Text(v.Items[i].Unit)
	}
	return v
}
