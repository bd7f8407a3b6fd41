package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Atomixxxx/cuisine-app/internal/gateway"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// memoryTable is an in-memory LocalTable keeping insertion order.
type memoryTable[T any] struct {
	mu    sync.Mutex
	id    func(T) string
	order []string
	rows  map[string]T

	upsertErr error
}

func newMemoryTable[T any](id func(T) string) *memoryTable[T] {
	return &memoryTable[T]{id: id, rows: make(map[string]T)}
}

func (m *memoryTable[T]) List(context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.rows[id])
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (m *memoryTable[T]) Get(_ context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.rows[id]
	if !ok {
		var zero T
		return zero, store.ErrNotFound
	}
	return v, nil
}

func (m *memoryTable[T]) Upsert(_ context.Context, v T) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.id(v)
	if _, ok := m.rows[id]; !ok {
		m.order = append(m.order, id)
	}
	m.rows[id] = v
	return nil
}

func (m *memoryTable[T]) ReplaceAll(_ context.Context, vs []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = nil
	m.rows = make(map[string]T, len(vs))
	for _, v := range vs {
		id := m.id(v)
		m.order = append(m.order, id)
		m.rows[id] = v
	}
	return nil
}

func (m *memoryTable[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; ok {
		delete(m.rows, id)
		for i, existing := range m.order {
			if existing == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

// stubRemote is a scriptable RemoteTable and BlobStore.
type stubRemote struct {
	mu sync.Mutex

	configured bool
	fetchBody  map[string]string // table -> JSON array
	fetchErr   error

	upserts   []upsertCall
	upsertErr error
	// upsertBody scripts the representation returned per table; absent
	// tables echo the request body.
	upsertBody map[string]string
	deletes    []deleteCall
	deleteErr  error
	uploads    []string
	uploadErr  error
	removed    [][]string
}

type upsertCall struct {
	table      string
	body       string
	onConflict []string
}

type deleteCall struct {
	table   string
	filters map[string]string
}

func newStubRemote() *stubRemote {
	return &stubRemote{configured: true, fetchBody: make(map[string]string)}
}

func (s *stubRemote) IsConfigured() bool { return s.configured }

func (s *stubRemote) FetchRows(_ context.Context, table string, _ gateway.Query) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	body, ok := s.fetchBody[table]
	if !ok {
		body = "[]"
	}
	return json.RawMessage(body), nil
}

func (s *stubRemote) UpsertRows(_ context.Context, table string, rows any, onConflict []string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	s.upserts = append(s.upserts, upsertCall{table: table, body: string(body), onConflict: onConflict})

	if scripted, ok := s.upsertBody[table]; ok {
		return json.RawMessage(scripted), nil
	}
	return json.RawMessage(body), nil
}

func (s *stubRemote) DeleteRows(_ context.Context, table string, filters map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes = append(s.deletes, deleteCall{table: table, filters: filters})
	return nil
}

func (s *stubRemote) UploadBlob(_ context.Context, path, _ string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads = append(s.uploads, path)
	return "https://cdn.example/" + path, nil
}

func (s *stubRemote) RemoveStorageFiles(_ context.Context, publicURLs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removed = append(s.removed, publicURLs)
	return nil
}

func (s *stubRemote) upsertCount(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, call := range s.upserts {
		if call.table == table {
			n++
		}
	}
	return n
}

// stubPriceLookup resolves lookup keys against an in-memory table.
type stubPriceLookup struct {
	local *memoryTable[models.PriceHistory]
}

func (s *stubPriceLookup) PriceHistoryByLookupKey(ctx context.Context, key string) (models.PriceHistory, error) {
	rows, _ := s.local.List(ctx)
	for _, r := range rows {
		if r.LookupKey == key {
			return r, nil
		}
	}
	return models.PriceHistory{}, store.ErrNotFound
}
