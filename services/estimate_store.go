package services

import (
	"context"
	"sync"
)

// TableStore is the durable, per-table keyed storage behind an Editor.
type TableStore interface {
	// Load returns the stored table or ErrTableNotFound.
	Load(ctx context.Context, tableID string) (Table, error)
	// Save replaces the stored state of table.ID.
	Save(ctx context.Context, table Table) error
}

// TableDeleter is implemented by stores that keep grid state outside the
// estimate_tables record and must be told when a table goes away.
type TableDeleter interface {
	Delete(ctx context.Context, tableID string) error
}

// MemoryStore keeps tables in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]Table
}

var _ TableStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]Table)}
}

func (s *MemoryStore) Load(ctx context.Context, tableID string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[tableID]
	if !ok {
		return Table{}, ErrTableNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, table Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table.ID] = table.Clone()
	return nil
}

// Delete drops a table. Missing tables are ignored.
func (s *MemoryStore) Delete(ctx context.Context, tableID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, tableID)
	return nil
}
