package scorer

import (
	"fmt"
	"strings"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
)

// countyTags maps county slugs to their CRM segment. Unmapped counties fall
// back to the raw slug.
var countyTags = map[string]string{
	model.CountyMilwaukee:  "MilwaukeeCounty",
	model.CountyWaukesha:   "WaukeshaCounty",
	model.CountyOzaukee:    "OzaukeeCounty",
	model.CountyWashington: "WashingtonCounty",
}

// budgetTagLabels maps budget choice labels to their CRM segment.
var budgetTagLabels = map[string]string{
	"A": "Under275K",
	"B": "275-400K",
	"C": "400-600K",
	"D": "600KPlus",
}

// Fallback segments when an answer or tag is unavailable.
const (
	unknownBudgetTag    = "Unknown"
	defaultLifestyleTag = "General"
)

// CRMTags builds the pipe-delimited routing string for a lead from the quiz
// answers and the top-ranked area. Segment order is a wire contract with the
// CRM's parsing rules and must not change.
func (e *Engine) CRMTags(answers []model.Answer, topMatch model.ScoredArea) string {
	budget := unknownBudgetTag
	for _, a := range answers {
		if a.QuestionID != e.budgetQuestion {
			continue
		}
		if label, ok := budgetTagLabels[a.ChoiceLabel]; ok {
			budget = label
		}
		break
	}

	county, ok := countyTags[topMatch.County]
	if !ok {
		county = topMatch.County
	}

	// Display name with all whitespace stripped.
	area := strings.Join(strings.Fields(topMatch.DisplayName), "")

	lifestyle := defaultLifestyleTag
	if len(topMatch.Tags) > 0 {
		lifestyle = strings.TrimPrefix(topMatch.Tags[0], "#")
	}

	return fmt.Sprintf("Relocation|%s|TopMatch_%s|Budget_%s|%s", county, area, budget, lifestyle)
}
