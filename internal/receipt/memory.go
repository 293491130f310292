package receipt

import (
	"context"
	"fmt"
	"sync"
)

// MemoryDB keeps records in a map for the lifetime of the process
type MemoryDB struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryDB creates an empty MemoryDB
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{records: make(map[string]Record)}
}

// SavePoints stores a copy of the record
func (m *MemoryDB) SavePoints(_ context.Context, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = *record
	return nil
}

// GetPoints returns a copy of the stored record
func (m *MemoryDB) GetPoints(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &record, nil
}

// Close is a no-op
func (m *MemoryDB) Close() error {
	return nil
}
