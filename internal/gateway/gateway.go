// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Atomixxxx/cuisine-app/internal/config"
	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/models"
)

const defaultRequestTimeout = 15 * time.Second

// Gateway is the REST client for the hosted backend. It is safe for
// concurrent use; the session is guarded by an internal mutex.
type Gateway struct {
	client *resty.Client
	cfg    config.Remote
	logger *logger.Logger

	mu      sync.RWMutex
	session models.Session
}

// NewGateway constructs a gateway from the remote configuration. A gateway
// built from an empty configuration is valid but refuses every call with
// [ErrNotConfigured].
func NewGateway(cfg config.Remote, log *logger.Logger) *Gateway {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout)

	return &Gateway{client: cli, cfg: cfg, logger: log}
}

// IsConfigured reports whether both the base URL and the anon key are set.
// When false the sync layer runs local-only and never calls the gateway.
func (g *Gateway) IsConfigured() bool {
	return g.cfg.BaseURL != "" && g.cfg.AnonKey != ""
}

// FetchRows reads rows from table and returns the raw JSON array.
func (g *Gateway) FetchRows(ctx context.Context, table string, q Query) (json.RawMessage, error) {
	if !g.IsConfigured() {
		return nil, ErrNotConfigured
	}

	resp, err := g.restRequest(ctx).
		SetQueryParams(q.params()).
		Get("/rest/v1/" + table)
	if err != nil {
		return nil, fmt.Errorf("fetch %s request: %w", table, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}

	return json.RawMessage(resp.Body()), nil
}

// FetchAll reads rows from table and decodes them into a typed slice.
func FetchAll[T any](ctx context.Context, g *Gateway, table string, q Query) ([]T, error) {
	raw, err := g.FetchRows(ctx, table, q)
	if err != nil {
		return nil, err
	}

	var items []T
	if err = json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", table, err)
	}

	return items, nil
}

// UpsertRows writes rows into table and returns the server representation
// of the written rows. Duplicates merge on the primary key unless
// onConflict names the column set to merge on instead (rendered as the
// on_conflict query parameter).
func (g *Gateway) UpsertRows(ctx context.Context, table string, rows any, onConflict []string) (json.RawMessage, error) {
	if !g.IsConfigured() {
		return nil, ErrNotConfigured
	}

	req := g.restRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "resolution=merge-duplicates,return=representation").
		SetBody(rows)
	if len(onConflict) > 0 {
		req.SetQueryParam("on_conflict", strings.Join(onConflict, ","))
	}

	resp, err := req.Post("/rest/v1/" + table)
	if err != nil {
		return nil, fmt.Errorf("upsert %s request: %w", table, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", table, err)
	}

	return json.RawMessage(resp.Body()), nil
}

// DeleteRows removes the rows of table matching filters. At least one filter
// is required; see [ErrNoFilter].
func (g *Gateway) DeleteRows(ctx context.Context, table string, filters map[string]string) error {
	if !g.IsConfigured() {
		return ErrNotConfigured
	}
	if len(filters) == 0 {
		return ErrNoFilter
	}

	resp, err := g.restRequest(ctx).
		SetQueryParams(filters).
		Delete("/rest/v1/" + table)
	if err != nil {
		return fmt.Errorf("delete %s request: %w", table, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}

	return nil
}

// restRequest builds a request carrying the anon api key and the current
// bearer token. Tenant scoping is applied through the PostgREST schema
// profile headers when a tenant is configured.
func (g *Gateway) restRequest(ctx context.Context) *resty.Request {
	req := g.client.R().
		SetContext(ctx).
		SetHeader("apikey", g.cfg.AnonKey).
		SetHeader("Authorization", "Bearer "+g.bearerToken(ctx))

	if g.cfg.Tenant != "" {
		req.SetHeader("Accept-Profile", g.cfg.Tenant)
		req.SetHeader("Content-Profile", g.cfg.Tenant)
	}

	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
