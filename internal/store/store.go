// Package store persists captured leads locally (SQLite) or in Postgres,
// selected by configuration. Leads are the only persisted state; scored quiz
// results themselves never touch a database.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Unsynced bool   `json:"unsynced,omitempty"`
	Source   string `json:"source,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Store defines the lead persistence interface.
type Store interface {
	CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	MarkSynced(ctx context.Context, id string, syncedAt time.Time) error

	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
