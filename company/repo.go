package company

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	CreateDocument(ctx context.Context, d *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, activeOnly bool) ([]*Document, error) // by sort order
	UpdateDocument(ctx context.Context, d *Document) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}
