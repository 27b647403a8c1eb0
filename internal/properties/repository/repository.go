// Package repository keeps property records in memory.
package repository

import (
	"context"
	"errors"
	"sync"

	"estate_dashboard_backend/internal/properties/domain"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("property not found")
	ErrDuplicate = errors.New("duplicate property id")
)

type Repository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]domain.PropertyRecord
}

func New() *Repository {
	return &Repository{records: make(map[uuid.UUID]domain.PropertyRecord)}
}

func (r *Repository) Insert(_ context.Context, record domain.PropertyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[record.ID]; exists {
		return ErrDuplicate
	}
	r.records[record.ID] = record.Clone()
	return nil
}

func (r *Repository) Get(_ context.Context, id uuid.UUID) (domain.PropertyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return domain.PropertyRecord{}, ErrNotFound
	}
	return record.Clone(), nil
}

// Update applies fn to a copy of the record under the write lock and stores
// the result only when fn succeeds.
func (r *Repository) Update(_ context.Context, id uuid.UUID, fn func(*domain.PropertyRecord) error) (domain.PropertyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return domain.PropertyRecord{}, ErrNotFound
	}
	working := record.Clone()
	if err := fn(&working); err != nil {
		return domain.PropertyRecord{}, err
	}
	r.records[id] = working.Clone()
	return working, nil
}
