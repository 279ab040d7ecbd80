// Package leads routes captured leads to the CRM.
package leads

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
	"github.com/harborview-realty/neighborhood-cli/internal/store"
	"github.com/harborview-realty/neighborhood-cli/pkg/crm"
)

// Salesforce requires Company on Lead records; prospects have none.
const leadCompanyPlaceholder = "[Relocation Prospect]"

// Syncer pushes unsynced leads from the local store to Salesforce.
type Syncer struct {
	store       store.Store
	crm         crm.Client
	concurrency int
}

// NewSyncer creates a Syncer. Concurrency below 1 defaults to 4.
func NewSyncer(s store.Store, c crm.Client, concurrency int) *Syncer {
	if concurrency < 1 {
		concurrency = 4
	}
	return &Syncer{store: s, crm: c, concurrency: concurrency}
}

// Sync pushes every unsynced lead and marks it synced on success. Failed
// leads stay unsynced for the next run; the first error is returned after
// the group drains.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	pending, err := s.store.ListLeads(ctx, store.LeadFilter{Unsynced: true})
	if err != nil {
		return 0, eris.Wrap(err, "leads: list unsynced")
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var synced atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, lead := range pending {
		g.Go(func() error {
			sfID, err := s.crm.InsertOne(ctx, "Lead", Record(lead))
			if err != nil {
				zap.L().Warn("leads: push failed",
					zap.String("lead_id", lead.ID),
					zap.Error(err),
				)
				return eris.Wrapf(err, "leads: push %s", lead.ID)
			}
			if err := s.store.MarkSynced(ctx, lead.ID, time.Now().UTC()); err != nil {
				return err
			}
			synced.Add(1)
			zap.L().Info("leads: pushed to CRM",
				zap.String("lead_id", lead.ID),
				zap.String("sf_id", sfID),
			)
			return nil
		})
	}

	err = g.Wait()
	return int(synced.Load()), err
}

// Record maps a lead to Salesforce Lead fields. The CRM tag string travels
// in Description; routing rules on the Salesforce side parse it from there.
func Record(lead model.Lead) map[string]any {
	first, last := splitName(lead.Name)
	rec := map[string]any{
		"LastName":   last,
		"Company":    leadCompanyPlaceholder,
		"Email":      lead.Email,
		"LeadSource": lead.Source,
	}
	if first != "" {
		rec["FirstName"] = first
	}
	if lead.Phone != "" {
		rec["Phone"] = lead.Phone
	}
	if lead.CRMTags != "" {
		rec["Description"] = lead.CRMTags
	}
	return rec
}

// splitName separates a free-form name into first/last. A single token
// becomes the last name, which is the only required part.
func splitName(name string) (first, last string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", "Unknown"
	case 1:
		return "", fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
	}
}
