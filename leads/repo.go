package leads

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	Create(ctx context.Context, lead *Lead) error
	Get(ctx context.Context, id uuid.UUID) (*Lead, error)
	List(ctx context.Context) ([]*Lead, error) // newest first
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
