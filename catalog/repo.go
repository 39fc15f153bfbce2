package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repo stores the catalog. Slugs are unique per kind; creating or updating
// with a taken slug fails with errors.ErrConflict. A category that still
// has machines cannot be deleted (errors.ErrCategoryInUse).
type Repo interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context) ([]CategorySummary, error) // by name
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateMachine(ctx context.Context, m *Machine) error
	GetMachine(ctx context.Context, id uuid.UUID) (*Machine, error)
	MachineBySlug(ctx context.Context, slug string) (*Machine, error)
	ListMachines(ctx context.Context) ([]*Machine, error) // newest first
	UpdateMachine(ctx context.Context, m *Machine) error
	DeleteMachine(ctx context.Context, id uuid.UUID) error
}
