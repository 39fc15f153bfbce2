package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/ironrent/internal/errors"
)

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]Category
	machines   map[uuid.UUID]*Machine
}

var _ Repo = (*InMemoryRepo)(nil)

// NewInMemoryRepo creates a new in-memory catalog repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		categories: make(map[uuid.UUID]Category),
		machines:   make(map[uuid.UUID]*Machine),
	}
}

func (r *InMemoryRepo) CreateCategory(_ context.Context, c *Category) error {
	if c == nil || c.ID == uuid.Nil {
		return fmt.Errorf("category with an ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[c.ID]; exists {
		return errors.Wrapf(errors.ErrConflict, "category %s", c.ID)
	}
	if r.categorySlugTaken(c.Slug, c.ID) {
		return errors.Wrapf(errors.ErrConflict, "category slug %q", c.Slug)
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *InMemoryRepo) GetCategory(_ context.Context, id uuid.UUID) (*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "category %s", id)
	}
	return &c, nil
}

func (r *InMemoryRepo) ListCategories(_ context.Context) ([]CategorySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[uuid.UUID]int, len(r.categories))
	for _, m := range r.machines {
		counts[m.CategoryID]++
	}
	list := make([]CategorySummary, 0, len(r.categories))
	for id, c := range r.categories {
		list = append(list, CategorySummary{Category: c, MachineCount: counts[id]})
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	return list, nil
}

func (r *InMemoryRepo) UpdateCategory(_ context.Context, c *Category) error {
	if c == nil {
		return fmt.Errorf("category is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[c.ID]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "category %s", c.ID)
	}
	if r.categorySlugTaken(c.Slug, c.ID) {
		return errors.Wrapf(errors.ErrConflict, "category slug %q", c.Slug)
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *InMemoryRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "category %s", id)
	}
	for _, m := range r.machines {
		if m.CategoryID == id {
			return errors.Wrapf(errors.ErrCategoryInUse, "category %s", id)
		}
	}
	delete(r.categories, id)
	return nil
}

func (r *InMemoryRepo) CreateMachine(_ context.Context, m *Machine) error {
	if m == nil || m.ID == uuid.Nil {
		return fmt.Errorf("machine with an ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.machines[m.ID]; exists {
		return errors.Wrapf(errors.ErrConflict, "machine %s", m.ID)
	}
	if err := r.checkMachine(m); err != nil {
		return err
	}
	r.machines[m.ID] = m.Clone()
	return nil
}

func (r *InMemoryRepo) GetMachine(_ context.Context, id uuid.UUID) (*Machine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.machines[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "machine %s", id)
	}
	return m.Clone(), nil
}

func (r *InMemoryRepo) MachineBySlug(_ context.Context, slug string) (*Machine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.machines {
		if m.Slug == slug {
			return m.Clone(), nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "machine slug %q", slug)
}

func (r *InMemoryRepo) ListMachines(_ context.Context) ([]*Machine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Machine, 0, len(r.machines))
	for _, m := range r.machines {
		list = append(list, m.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *InMemoryRepo) UpdateMachine(_ context.Context, m *Machine) error {
	if m == nil {
		return fmt.Errorf("machine is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.machines[m.ID]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "machine %s", m.ID)
	}
	if err := r.checkMachine(m); err != nil {
		return err
	}
	r.machines[m.ID] = m.Clone()
	return nil
}

func (r *InMemoryRepo) DeleteMachine(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.machines[id]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "machine %s", id)
	}
	delete(r.machines, id)
	return nil
}

// checkMachine enforces what the database does with constraints. Callers
// hold the write lock.
func (r *InMemoryRepo) checkMachine(m *Machine) error {
	if _, ok := r.categories[m.CategoryID]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "category %s", m.CategoryID)
	}
	for id, other := range r.machines {
		if id != m.ID && other.Slug == m.Slug {
			return errors.Wrapf(errors.ErrConflict, "machine slug %q", m.Slug)
		}
	}
	return nil
}

func (r *InMemoryRepo) categorySlugTaken(slug string, except uuid.UUID) bool {
	for id, c := range r.categories {
		if id != except && c.Slug == slug {
			return true
		}
	}
	return false
}
