package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/ironrent/internal/errors"
)

const createLeadsTable = `
CREATE TABLE IF NOT EXISTS leads (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    phone      TEXT NOT NULL,
    email      TEXT NOT NULL DEFAULT '',
    machine    TEXT NOT NULL DEFAULT '',
    interest   TEXT NOT NULL DEFAULT '',
    message    TEXT NOT NULL DEFAULT '',
    source     TEXT NOT NULL DEFAULT 'website',
    status     TEXT NOT NULL DEFAULT 'NEW',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const leadColumns = `id, name, phone, email, machine, interest, message, source, status, created_at`

// PostgresRepo stores leads in PostgreSQL
type PostgresRepo struct {
	pool *pgxpool.Pool
}

var _ Repo = (*PostgresRepo)(nil)

// leadModel is the row shape of the leads table
type leadModel struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Phone     string    `db:"phone"`
	Email     string    `db:"email"`
	Machine   string    `db:"machine"`
	Interest  string    `db:"interest"`
	Message   string    `db:"message"`
	Source    string    `db:"source"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func (m leadModel) toLead() *Lead {
	return &Lead{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Email:     m.Email,
		Machine:   m.Machine,
		Interest:  m.Interest,
		Message:   m.Message,
		Source:    m.Source,
		Status:    Status(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

// NewPostgresRepo creates the leads table if it does not exist yet. The
// pool is owned by the caller.
func NewPostgresRepo(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepo, error) {
	if _, err := pool.Exec(ctx, createLeadsTable); err != nil {
		return nil, fmt.Errorf("creating leads table: %w", err)
	}
	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) Create(ctx context.Context, lead *Lead) error {
	if lead == nil {
		return fmt.Errorf("lead is required")
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO leads (`+leadColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		lead.ID, lead.Name, lead.Phone, lead.Email, lead.Machine, lead.Interest, lead.Message,
		lead.Source, string(lead.Status), lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting lead: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, id uuid.UUID) (*Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying lead: %w", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[leadModel])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "lead %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning lead: %w", err)
	}
	return m.toLead(), nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]*Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying leads: %w", err)
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[leadModel])
	if err != nil {
		return nil, fmt.Errorf("scanning leads: %w", err)
	}
	list := make([]*Lead, 0, len(models))
	for _, m := range models {
		list = append(list, m.toLead())
	}
	return list, nil
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	status, err := ParseStatus(string(status))
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `UPDATE leads SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("updating lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errors.ErrNotFound, "lead %s", id)
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errors.ErrNotFound, "lead %s", id)
	}
	return nil
}

func (r *PostgresRepo) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting leads: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int, len(Statuses))
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning lead count: %w", err)
		}
		counts[Status(status)] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting leads: %w", err)
	}
	return counts, nil
}
