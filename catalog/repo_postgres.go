package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/ironrent/internal/database"
	"github.com/jrsteele09/ironrent/internal/errors"
)

const createCatalogTables = `
CREATE TABLE IF NOT EXISTS categories (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL,
    slug        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    image_url   TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS machines (
    id           UUID PRIMARY KEY,
    title        TEXT NOT NULL,
    slug         TEXT NOT NULL UNIQUE,
    category_id  UUID NOT NULL REFERENCES categories (id) ON DELETE RESTRICT,
    shift_price  DOUBLE PRECISION NOT NULL,
    hourly_price DOUBLE PRECISION,
    description  TEXT NOT NULL DEFAULT '',
    specs        JSONB NOT NULL DEFAULT '{}',
    image_url    TEXT NOT NULL DEFAULT '',
    images       TEXT[] NOT NULL DEFAULT '{}',
    is_featured  BOOLEAN NOT NULL DEFAULT false,
    is_available BOOLEAN NOT NULL DEFAULT true,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const (
	categoryColumns = `id, name, slug, description, image_url, created_at`
	machineColumns  = `id, title, slug, category_id, shift_price, hourly_price, description, specs,
	image_url, images, is_featured, is_available, created_at, updated_at`
)

// PostgresRepo stores the catalog in PostgreSQL
type PostgresRepo struct {
	pool *pgxpool.Pool
}

var _ Repo = (*PostgresRepo)(nil)

type categoryModel struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	ImageURL    string    `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`
}

func (m categoryModel) toCategory() Category {
	return Category{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
	}
}

type categorySummaryModel struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Slug         string    `db:"slug"`
	Description  string    `db:"description"`
	ImageURL     string    `db:"image_url"`
	CreatedAt    time.Time `db:"created_at"`
	MachineCount int64     `db:"machine_count"`
}

type machineModel struct {
	ID          uuid.UUID         `db:"id"`
	Title       string            `db:"title"`
	Slug        string            `db:"slug"`
	CategoryID  uuid.UUID         `db:"category_id"`
	ShiftPrice  float64           `db:"shift_price"`
	HourlyPrice *float64          `db:"hourly_price"`
	Description string            `db:"description"`
	Specs       map[string]string `db:"specs"`
	ImageURL    string            `db:"image_url"`
	Images      []string          `db:"images"`
	IsFeatured  bool              `db:"is_featured"`
	IsAvailable bool              `db:"is_available"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
}

func (m machineModel) toMachine() *Machine {
	return &Machine{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		CategoryID:  m.CategoryID,
		ShiftPrice:  m.ShiftPrice,
		HourlyPrice: m.HourlyPrice,
		Description: m.Description,
		Specs:       m.Specs,
		ImageURL:    m.ImageURL,
		Images:      m.Images,
		IsFeatured:  m.IsFeatured,
		IsAvailable: m.IsAvailable,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// NewPostgresRepo creates the catalog tables if they do not exist yet. The
// pool is owned by the caller.
func NewPostgresRepo(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepo, error) {
	if _, err := pool.Exec(ctx, createCatalogTables); err != nil {
		return nil, fmt.Errorf("creating catalog tables: %w", err)
	}
	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) CreateCategory(ctx context.Context, c *Category) error {
	if c == nil {
		return fmt.Errorf("category is required")
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Slug, c.Description, c.ImageURL, c.CreatedAt,
	)
	if database.IsUniqueViolation(err) {
		return errors.Wrapf(errors.ErrConflict, "category slug %q", c.Slug)
	}
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying category: %w", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[categoryModel])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "category %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning category: %w", err)
	}
	c := m.toCategory()
	return &c, nil
}

func (r *PostgresRepo) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	rows, err := r.pool.Query(ctx, `
SELECT c.id, c.name, c.slug, c.description, c.image_url, c.created_at, count(m.id) AS machine_count
FROM categories c
LEFT JOIN machines m ON m.category_id = c.id
GROUP BY c.id
ORDER BY lower(c.name)`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[categorySummaryModel])
	if err != nil {
		return nil, fmt.Errorf("scanning categories: %w", err)
	}
	list := make([]CategorySummary, 0, len(models))
	for _, m := range models {
		c := categoryModel{ID: m.ID, Name: m.Name, Slug: m.Slug, Description: m.Description, ImageURL: m.ImageURL, CreatedAt: m.CreatedAt}
		list = append(list, CategorySummary{Category: c.toCategory(), MachineCount: int(m.MachineCount)})
	}
	return list, nil
}

func (r *PostgresRepo) UpdateCategory(ctx context.Context, c *Category) error {
	if c == nil {
		return fmt.Errorf("category is required")
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $2, slug = $3, description = $4, image_url = $5 WHERE id = $1`,
		c.ID, c.Name, c.Slug, c.Description, c.ImageURL,
	)
	if database.IsUniqueViolation(err) {
		return errors.Wrapf(errors.ErrConflict, "category slug %q", c.Slug)
	}
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errors.ErrNotFound, "category %s", c.ID)
	}
	return nil
}

func (r *PostgresRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return errors.Wrapf(errors.ErrCategoryInUse, "category %s", id)
	}
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errors.ErrNotFound, "category %s", id)
	}
	return nil
}

func (r *PostgresRepo) CreateMachine(ctx context.Context, m *Machine) error {
	if m == nil {
		return fmt.Errorf("machine is required")
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO machines (`+machineColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.ID, m.Title, m.Slug, m.CategoryID, m.ShiftPrice, m.HourlyPrice, m.Description, specsOrEmpty(m.Specs),
		m.ImageURL, imagesOrEmpty(m.Images), m.IsFeatured, m.IsAvailable, m.CreatedAt, m.UpdatedAt,
	)
	if err := machineWriteError(err, m); err != nil {
		return fmt.Errorf("inserting machine: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetMachine(ctx context.Context, id uuid.UUID) (*Machine, error) {
	return r.oneMachine(ctx, `SELECT `+machineColumns+` FROM machines WHERE id = $1`, id)
}

func (r *PostgresRepo) MachineBySlug(ctx context.Context, slug string) (*Machine, error) {
	return r.oneMachine(ctx, `SELECT `+machineColumns+` FROM machines WHERE slug = $1`, slug)
}

func (r *PostgresRepo) oneMachine(ctx context.Context, query string, key any) (*Machine, error) {
	rows, err := r.pool.Query(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("querying machine: %w", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[machineModel])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "machine %v", key)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning machine: %w", err)
	}
	return m.toMachine(), nil
}

func (r *PostgresRepo) ListMachines(ctx context.Context) ([]*Machine, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+machineColumns+` FROM machines ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying machines: %w", err)
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[machineModel])
	if err != nil {
		return nil, fmt.Errorf("scanning machines: %w", err)
	}
	list := make([]*Machine, 0, len(models))
	for _, m := range models {
		list = append(list, m.toMachine())
	}
	return list, nil
}

func (r *PostgresRepo) UpdateMachine(ctx context.Context, m *Machine) error {
	if m == nil {
		return fmt.Errorf("machine is required")
	}
	tag, err := r.pool.Exec(ctx, `
UPDATE machines SET title = $2, slug = $3, category_id = $4, shift_price = $5, hourly_price = $6,
    description = $7, specs = $8, image_url = $9, images = $10, is_featured = $11,
    is_available = $12, updated_at = $13
WHERE id = $1`,
		m.ID, m.Title, m.Slug, m.CategoryID, m.ShiftPrice, m.HourlyPrice, m.Description, specsOrEmpty(m.Specs),
		m.ImageURL, imagesOrEmpty(m.Images), m.IsFeatured, m.IsAvailable, m.UpdatedAt,
	)
	if err := machineWriteError(err, m); err != nil {
		return fmt.Errorf("updating machine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errors.ErrNotFound, "machine %s", m.ID)
	}
	return nil
}

func (r *PostgresRepo) DeleteMachine(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM machines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting machine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errors.ErrNotFound, "machine %s", id)
	}
	return nil
}

func machineWriteError(err error, m *Machine) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return errors.Wrapf(errors.ErrConflict, "machine slug %q", m.Slug)
	case database.IsForeignKeyViolation(err):
		return errors.Wrapf(errors.ErrNotFound, "category %s", m.CategoryID)
	default:
		return err
	}
}

// The columns are NOT NULL, and pgx writes nil maps and slices as NULL.
func specsOrEmpty(specs map[string]string) map[string]string {
	if specs == nil {
		return map[string]string{}
	}
	return specs
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
