package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 5
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	county     TEXT NOT NULL DEFAULT '',
	top_match  TEXT NOT NULL DEFAULT '',
	crm_tags   TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	synced_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_leads_synced_at ON leads(synced_at);
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	if lead.Source == "" {
		lead.Source = model.LeadSourceManual
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO leads (name, email, phone, county, top_match, crm_tags, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		lead.Name, lead.Email, lead.Phone, lead.County,
		lead.TopMatch, lead.CRMTags, lead.Source, lead.CreatedAt,
	)
	if err := row.Scan(&lead.ID); err != nil {
		return nil, eris.Wrap(err, "postgres: insert lead")
	}
	return &lead, nil
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, email, phone, county, top_match, crm_tags, source, created_at, synced_at
		 FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("postgres: lead %s not found", id)
		}
		return nil, eris.Wrap(err, "postgres: get lead")
	}
	return lead, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT id, name, email, phone, county, top_match, crm_tags, source, created_at, synced_at FROM leads WHERE true`
	var args []any
	if filter.Unsynced {
		query += ` AND synced_at IS NULL`
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		query += ` AND source = $1`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		if len(args) == 1 {
			query += ` LIMIT $1`
		} else {
			query += ` LIMIT $2`
		}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate leads")
	}
	return leads, nil
}

func (s *PostgresStore) MarkSynced(ctx context.Context, id string, syncedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE leads SET synced_at = $1 WHERE id = $2`, syncedAt.UTC(), id)
	if err != nil {
		return eris.Wrap(err, "postgres: mark synced")
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: lead %s not found", id)
	}
	return nil
}
