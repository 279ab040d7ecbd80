package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteCreateAndGetLead(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	created, err := s.CreateLead(ctx, model.Lead{
		Name:     "Jordan Miller",
		Email:    "jordan@example.com",
		Phone:    "414-555-0101",
		County:   "waukesha",
		TopMatch: "New Berlin",
		CRMTags:  "Relocation|WaukeshaCounty|TopMatch_NewBerlin|Budget_275-400K|familyFriendly",
		Source:   model.LeadSourceQuiz,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.Synced())

	got, err := s.GetLead(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Email, got.Email)
	assert.Equal(t, created.CRMTags, got.CRMTags)
	assert.Nil(t, got.SyncedAt)
}

func TestSQLiteCreateLeadDefaults(t *testing.T) {
	s := newTestSQLite(t)

	created, err := s.CreateLead(context.Background(), model.Lead{
		Name:  "Sam Park",
		Email: "sam@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, model.LeadSourceManual, created.Source)
}

func TestSQLiteGetLeadNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetLead(context.Background(), "missing-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteListLeads(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i, src := range []string{model.LeadSourceQuiz, model.LeadSourceQuiz, model.LeadSourceDeal} {
		created, err := s.CreateLead(ctx, model.Lead{
			Name:      "Lead",
			Email:     "lead@example.com",
			Source:    src,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	require.NoError(t, s.MarkSynced(ctx, ids[0], base.Add(24*time.Hour)))

	tests := []struct {
		name   string
		filter LeadFilter
		want   int
	}{
		{"all", LeadFilter{}, 3},
		{"unsynced only", LeadFilter{Unsynced: true}, 2},
		{"by source", LeadFilter{Source: model.LeadSourceDeal}, 1},
		{"limit", LeadFilter{Limit: 2}, 2},
		{"unsynced quiz", LeadFilter{Unsynced: true, Source: model.LeadSourceQuiz}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListLeads(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	// Newest first.
	all, err := s.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
}

func TestSQLiteMarkSynced(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	created, err := s.CreateLead(ctx, model.Lead{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	syncedAt := time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.MarkSynced(ctx, created.ID, syncedAt))

	got, err := s.GetLead(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SyncedAt)
	assert.True(t, got.Synced())

	// Unknown id is an error, not a silent no-op.
	err = s.MarkSynced(ctx, "missing-id", syncedAt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
