package leads

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
	mu    sync.RWMutex
	leads map[uuid.UUID]Lead
}

var _ Repo = (*InMemoryRepo)(nil)

// NewInMemoryRepo creates a new in-memory lead repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		leads: make(map[uuid.UUID]Lead),
	}
}

func (r *InMemoryRepo) Create(_ context.Context, lead *Lead) error {
	if lead == nil {
		return fmt.Errorf("lead is required")
	}
	if lead.ID == uuid.Nil {
		return fmt.Errorf("lead ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.leads[lead.ID]; exists {
		return fmt.Errorf("lead %s already exists", lead.ID)
	}
	r.leads[lead.ID] = *lead
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, id uuid.UUID) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "lead %s", id)
	}
	return &lead, nil
}

func (r *InMemoryRepo) List(_ context.Context) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		l := lead
		list = append(list, &l)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *InMemoryRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	status, err := ParseStatus(string(status))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "lead %s", id)
	}
	lead.Status = status
	r.leads[id] = lead
	return nil
}

func (r *InMemoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[id]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "lead %s", id)
	}
	delete(r.leads, id)
	return nil
}

func (r *InMemoryRepo) CountByStatus(_ context.Context) (map[Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[Status]int, len(Statuses))
	for _, lead := range r.leads {
		counts[lead.Status]++
	}
	return counts, nil
}
