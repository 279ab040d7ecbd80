package model

import "time"

// Lead is a captured prospect: contact info plus the quiz outcome used for
// CRM routing. Leads are the only thing this tool persists; scored result
// lists themselves are never stored.
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	County    string     `json:"county,omitempty"`
	TopMatch  string     `json:"top_match,omitempty"`
	CRMTags   string     `json:"crm_tags,omitempty"`
	Source    string     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	SyncedAt  *time.Time `json:"synced_at,omitempty"`
}

// Lead sources.
const (
	LeadSourceQuiz   = "neighborhood_quiz"
	LeadSourceDeal   = "house_hack_tool"
	LeadSourceManual = "manual"
)

// Synced reports whether the lead has been pushed to the CRM.
func (l Lead) Synced() bool {
	return l.SyncedAt != nil
}
