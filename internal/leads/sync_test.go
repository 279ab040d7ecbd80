package leads

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
	"github.com/harborview-realty/neighborhood-cli/internal/store"
)

// fakeCRM records inserts and optionally fails for chosen emails.
type fakeCRM struct {
	mu       sync.Mutex
	inserted []map[string]any
	failFor  map[string]bool
}

func (f *fakeCRM) InsertOne(_ context.Context, _ string, record map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if email, _ := record["Email"].(string); f.failFor[email] {
		return "", eris.New("fake: insert rejected")
	}
	f.inserted = append(f.inserted, record)
	return "sf-id", nil
}

func (f *fakeCRM) Query(context.Context, string, any) error {
	return nil
}

func newSyncStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSyncPushesUnsyncedLeads(t *testing.T) {
	ctx := context.Background()
	s := newSyncStore(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := s.CreateLead(ctx, model.Lead{Name: "Test Lead", Email: email, Source: model.LeadSourceQuiz})
		require.NoError(t, err)
	}

	crm := &fakeCRM{}
	n, err := NewSyncer(s, crm, 2).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, crm.inserted, 3)

	remaining, err := s.ListLeads(ctx, store.LeadFilter{Unsynced: true})
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// A second run has nothing to do.
	n, err = NewSyncer(s, crm, 2).Sync(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSyncFailedLeadsStayUnsynced(t *testing.T) {
	ctx := context.Background()
	s := newSyncStore(t)

	// Leads list newest-first; the failing lead is oldest so with a single
	// worker the good lead completes before the group context cancels.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	_, err := s.CreateLead(ctx, model.Lead{Name: "Bad", Email: "bad@example.com", CreatedAt: base})
	require.NoError(t, err)
	_, err = s.CreateLead(ctx, model.Lead{Name: "Good", Email: "good@example.com", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)

	crm := &fakeCRM{failFor: map[string]bool{"bad@example.com": true}}
	n, err := NewSyncer(s, crm, 1).Sync(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, n)

	remaining, err := s.ListLeads(ctx, store.LeadFilter{Unsynced: true})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "bad@example.com", remaining[0].Email)
}

func TestRecord(t *testing.T) {
	lead := model.Lead{
		Name:    "Jordan Q Miller",
		Email:   "jordan@example.com",
		Phone:   "414-555-0101",
		Source:  model.LeadSourceQuiz,
		CRMTags: "Relocation|WaukeshaCounty|TopMatch_NewBerlin|Budget_275-400K|familyFriendly",
	}

	rec := Record(lead)
	assert.Equal(t, "Jordan Q", rec["FirstName"])
	assert.Equal(t, "Miller", rec["LastName"])
	assert.Equal(t, leadCompanyPlaceholder, rec["Company"])
	assert.Equal(t, "jordan@example.com", rec["Email"])
	assert.Equal(t, model.LeadSourceQuiz, rec["LeadSource"])
	assert.Equal(t, "414-555-0101", rec["Phone"])
	assert.Equal(t, lead.CRMTags, rec["Description"])
}

func TestRecordOmitsEmptyOptionalFields(t *testing.T) {
	rec := Record(model.Lead{Name: "Cher", Email: "cher@example.com"})
	assert.NotContains(t, rec, "FirstName")
	assert.NotContains(t, rec, "Phone")
	assert.NotContains(t, rec, "Description")
	assert.Equal(t, "Cher", rec["LastName"])
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		first string
		last  string
	}{
		{"two tokens", "Jordan Miller", "Jordan", "Miller"},
		{"middle name", "Jordan Q Miller", "Jordan Q", "Miller"},
		{"single token", "Cher", "", "Cher"},
		{"empty", "", "", "Unknown"},
		{"extra whitespace", "  Jordan   Miller  ", "Jordan", "Miller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := splitName(tt.in)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}
