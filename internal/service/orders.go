// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Atomixxxx/cuisine-app/internal/gateway"
	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/sanitize"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// OrderService manages supplier purchase orders and allocates their
// CMD-<year>-NNN numbers.
type OrderService struct {
	*Collection[models.Order]

	logger *logger.Logger
}

// NewOrderService wires the order collection.
func NewOrderService(storages *store.Storages, remote RemoteTable, log *logger.Logger) *OrderService {
	collection := NewCollection("orders", storages.Orders, remote, log,
		func(v models.Order) string { return v.ID }).
		WithSanitize(sanitizeOrder).
		WithOrder("created_at.desc")

	return &OrderService{Collection: collection, logger: log}
}

// NextOrderNumber allocates the next CMD-<year>-NNN number by scanning the
// union of remote and local orders for the year. The remote read is
// best-effort; a not-yet-synced local order can hold the highest sequence,
// so local rows are always included.
func (s *OrderService) NextOrderNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("CMD-%d-", year)
	maxSeq := 0

	scan := func(orders []models.Order) {
		for _, o := range orders {
			if !strings.HasPrefix(o.OrderNumber, prefix) {
				continue
			}
			seq, err := strconv.Atoi(strings.TrimPrefix(o.OrderNumber, prefix))
			if err != nil {
				continue
			}
			if seq > maxSeq {
				maxSeq = seq
			}
		}
	}

	if s.remote.IsConfigured() {
		remote, err := gatewayFetchOrders(ctx, s.remote)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("func", "OrderService.NextOrderNumber").
				Msg("remote orders unavailable, allocating from local rows only")
		} else {
			scan(remote)
		}
	}

	locals, err := s.local.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list local orders: %w", err)
	}
	scan(locals)

	return fmt.Sprintf("%s%03d", prefix, maxSeq+1), nil
}

func gatewayFetchOrders(ctx context.Context, remote RemoteTable) ([]models.Order, error) {
	raw, err := remote.FetchRows(ctx, "orders", gateway.Query{Select: "id,order_number"})
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err = json.Unmarshal(raw, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func sanitizeOrder(v models.Order) models.Order {
	v.Supplier = sanitize.Text(v.Supplier)
	v.Status = sanitize.Text(v.Status)
	v.Notes = sanitize.Text(v.Notes)
	for i := range v.Items {
		v.Items[i].Name = sanitize.Text(v.Items[i].Name)
		v.Items[i].Unit = sanitize.Text(v.Items[i].Unit)
	}
	return v
}
