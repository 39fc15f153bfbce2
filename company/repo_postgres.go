package company

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/ironrent/internal/errors"
)

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
    id         UUID PRIMARY KEY,
    title      TEXT NOT NULL,
    number     TEXT NOT NULL DEFAULT '',
    image_url  TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    is_active  BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const documentColumns = `id, title, number, image_url, sort_order, is_active, created_at`

// PostgresRepo stores company documents in PostgreSQL
type PostgresRepo struct {
	pool *pgxpool.Pool
}

var _ Repo = (*PostgresRepo)(nil)

type documentModel struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Number    string    `db:"number"`
	ImageURL  string    `db:"image_url"`
	SortOrder int32     `db:"sort_order"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

func (m documentModel) toDocument() *Document {
	return &Document{
		ID:        m.ID,
		Title:     m.Title,
		Number:    m.Number,
		ImageURL:  m.ImageURL,
		SortOrder: int(m.SortOrder),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

// NewPostgresRepo creates the documents table if it does not exist yet. The
// pool is owned by the caller.
func NewPostgresRepo(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepo, error) {
	if _, err := pool.Exec(ctx, createDocumentsTable); err != nil {
		return nil, fmt.Errorf("creating documents table: %w", err)
	}
	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) CreateDocument(ctx context.Context, d *Document) error {
	if d == nil {
		return fmt.Errorf("document is required")
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.Title, d.Number, d.ImageURL, int32(d.SortOrder), d.IsActive, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[documentModel])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "document %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return m.toDocument(), nil
}

func (r *PostgresRepo) ListDocuments(ctx context.Context, activeOnly bool) ([]*Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE is_active OR NOT $1 ORDER BY sort_order, created_at`,
		activeOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[documentModel])
	if err != nil {
		return nil, fmt.Errorf("scanning documents: %w", err)
	}
	list := make([]*Document, 0, len(models))
	for _, m := range models {
		list = append(list, m.toDocument())
	}
	return list, nil
}

func (r *PostgresRepo) UpdateDocument(ctx context.Context, d *Document) error {
	if d == nil {
		return fmt.Errorf("document is required")
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET title = $2, number = $3, image_url = $4, sort_order = $5, is_active = $6 WHERE id = $1`,
		d.ID, d.Title, d.Number, d.ImageURL, int32(d.SortOrder), d.IsActive,
	)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errors.ErrNotFound, "document %s", d.ID)
	}
	return nil
}

func (r *PostgresRepo) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errors.ErrNotFound, "document %s", id)
	}
	return nil
}
