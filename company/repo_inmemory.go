package company

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/ironrent/internal/errors"
)

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu        sync.RWMutex
	documents map[uuid.UUID]Document
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		documents: make(map[uuid.UUID]Document),
	}
}

func (r *InMemoryRepo) CreateDocument(_ context.Context, d *Document) error {
	if d == nil || d.ID == uuid.Nil {
		return fmt.Errorf("document with an ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.documents[d.ID]; exists {
		return errors.Wrapf(errors.ErrConflict, "document %s", d.ID)
	}
	r.documents[d.ID] = *d
	return nil
}

func (r *InMemoryRepo) GetDocument(_ context.Context, id uuid.UUID) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.documents[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "document %s", id)
	}
	return &d, nil
}

func (r *InMemoryRepo) ListDocuments(_ context.Context, activeOnly bool) ([]*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Document, 0, len(r.documents))
	for _, d := range r.documents {
		if activeOnly && !d.IsActive {
			continue
		}
		doc := d
		list = append(list, &doc)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].SortOrder != list[j].SortOrder {
			return list[i].SortOrder < list[j].SortOrder
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *InMemoryRepo) UpdateDocument(_ context.Context, d *Document) error {
	if d == nil {
		return fmt.Errorf("document is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.documents[d.ID]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "document %s", d.ID)
	}
	r.documents[d.ID] = *d
	return nil
}

func (r *InMemoryRepo) DeleteDocument(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.documents[id]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "document %s", id)
	}
	delete(r.documents, id)
	return nil
}
