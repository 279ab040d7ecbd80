package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "leads.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	county     TEXT NOT NULL DEFAULT '',
	top_match  TEXT NOT NULL DEFAULT '',
	crm_tags   TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	synced_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_leads_synced_at ON leads(synced_at);
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	if lead.Source == "" {
		lead.Source = model.LeadSourceManual
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, name, email, phone, county, top_match, crm_tags, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.County,
		lead.TopMatch, lead.CRMTags, lead.Source, lead.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert lead")
	}
	return &lead, nil
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, county, top_match, crm_tags, source, created_at, synced_at
		 FROM leads WHERE id = ?`, id)

	lead, err := scanLead(row)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("sqlite: lead %s not found", id)
		}
		return nil, eris.Wrap(err, "sqlite: get lead")
	}
	return lead, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT id, name, email, phone, county, top_match, crm_tags, source, created_at, synced_at FROM leads WHERE 1=1`
	var args []any
	if filter.Unsynced {
		query += ` AND synced_at IS NULL`
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, filter.Source)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate leads")
	}
	return leads, nil
}

func (s *SQLiteStore) MarkSynced(ctx context.Context, id string, syncedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE leads SET synced_at = ? WHERE id = ?`, syncedAt.UTC(), id)
	if err != nil {
		return eris.Wrap(err, "sqlite: mark synced")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: lead %s not found", id)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLead(row scanner) (*model.Lead, error) {
	var lead model.Lead
	var syncedAt sql.NullTime
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.County,
		&lead.TopMatch, &lead.CRMTags, &lead.Source, &lead.CreatedAt, &syncedAt,
	)
	if err != nil {
		return nil, err
	}
	if syncedAt.Valid {
		t := syncedAt.Time
		lead.SyncedAt = &t
	}
	return &lead, nil
}
