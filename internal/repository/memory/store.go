// Package memory keeps the workspace in process memory. It is the default
// storage of the reference backend and the fixture store of its tests.
package memory

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sync"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	"github.com/dm0114/capacitor-push-prototype/internal/domain/repositories"
)

type state struct {
	pages  []models.Page
	blocks map[string]models.Blocks
	props  []models.Property
	rows   []models.Row
	views  []models.View
	users  map[string]models.User
}

func (s *state) clone() *state {
	c := &state{
		pages:  slices.Clone(s.pages),
		blocks: maps.Clone(s.blocks),
		props:  make([]models.Property, len(s.props)),
		rows:   make([]models.Row, len(s.rows)),
		views:  make([]models.View, len(s.views)),
		users:  maps.Clone(s.users),
	}
	for i, p := range s.props {
		c.props[i] = cloneProperty(p)
	}
	for i, r := range s.rows {
		c.rows[i] = r.Clone()
	}
	for i, v := range s.views {
		c.views[i] = cloneView(v)
	}
	return c
}

// Store owns the data behind every memory repository.
type Store struct {
	mu   sync.RWMutex
	data *state

	// txMu serializes ExecTx callers
	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{data: &state{
		blocks: make(map[string]models.Blocks),
		users:  make(map[string]models.User),
	}}
}

func (s *Store) read(fn func(*state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// TransactionManager runs functions against the store atomically: writes
// made by a failing function are discarded.
type TransactionManager struct {
	store *Store
}

func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	s := tm.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneProperty(p models.Property) models.Property {
	p.Config = cloneJSONMap(p.Config)
	p.Options = slices.Clone(p.Options)
	return p
}

func cloneView(v models.View) models.View {
	v.Config = cloneJSONMap(v.Config)
	return v
}

// cloneJSONMap deep-copies a decoded JSON object.
func cloneJSONMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return maps.Clone(m)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return maps.Clone(m)
	}
	return out
}
