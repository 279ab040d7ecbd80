package scorer

import (
	"github.com/rotisserie/eris"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
	"github.com/harborview-realty/neighborhood-cli/internal/refdata"
)

// Guardrail rule names recognized in the scoring block.
const (
	ruleBudgetDownrank = "budget_downrank"
	ruleTypeUprank     = "type_uprank"
	ruleLakeExclusion  = "lake_exclusion"
)

// Defaults applied when a descriptor omits a parameter. They mirror the
// published quiz behavior and keep older data files loadable.
const (
	defaultBudgetQuestion = "q1_budget"
	defaultTypeQuestion   = "q2_home_type"
	defaultLakeQuestion   = "q8_lake"
	defaultBudgetPenalty  = 8
	defaultTypeBonus      = 6
	defaultLakeAttribute  = "lake_access"
	defaultLakeThreshold  = 2
	defaultLakeMinResults = 3
)

// budgetCeilings maps budget choice labels to the top of each price bracket.
// The top bracket (D) has no ceiling and never triggers the downrank.
var budgetCeilings = map[string]float64{
	"A": 275_000,
	"B": 400_000,
	"C": 600_000,
}

// budgetStretch is how far above the stated ceiling an area's median price
// may sit before the downrank applies.
const budgetStretch = 1.2

// Context gives guardrails read access to the resolved answer set and the
// area store for the duration of one scoring call.
type Context struct {
	answers answerSet
	data    *refdata.Store
}

// ChoiceLabel returns the winning choice label for a question, if the user
// gave a resolvable answer to it.
func (c Context) ChoiceLabel(questionID string) (string, bool) {
	return c.answers.choiceLabel(questionID)
}

// AreaAttribute returns an attribute value from the store, 0 when the area
// or attribute is unknown.
func (c Context) AreaAttribute(areaID, attr string) float64 {
	a, ok := c.data.Area(areaID)
	if !ok {
		return 0
	}
	return a.Attribute(attr)
}

// Guardrail is one business rule applied to the working result set after the
// base weighted pass. Rules run in declaration order; a rule may adjust raw
// scores or replace the set, and returns the set to hand to the next rule.
type Guardrail struct {
	Name  string
	Apply func(ctx Context, set []model.ScoredArea) []model.ScoredArea
}

// buildGuardrails turns descriptors from the scoring block into executable
// rules. An unrecognized rule name is a load-time integrity error.
func buildGuardrails(descriptors []refdata.GuardrailDescriptor) ([]Guardrail, error) {
	var rules []Guardrail
	for _, d := range descriptors {
		switch d.Rule {
		case ruleBudgetDownrank:
			rules = append(rules, budgetDownrank(d))
		case ruleTypeUprank:
			rules = append(rules, typeUprank(d))
		case ruleLakeExclusion:
			rules = append(rules, lakeExclusion(d))
		default:
			return nil, eris.Errorf("scorer: unknown guardrail rule %q", d.Rule)
		}
	}
	return rules, nil
}

// budgetDownrank subtracts a fixed penalty from areas whose median sale price
// exceeds the buyer's bracket ceiling by more than the stretch factor. Only
// brackets with a finite ceiling apply; no budget answer means no penalty.
func budgetDownrank(d refdata.GuardrailDescriptor) Guardrail {
	question := d.TriggerQuestion
	if question == "" {
		question = defaultBudgetQuestion
	}
	penalty := d.Penalty
	if penalty == 0 {
		penalty = defaultBudgetPenalty
	}
	return Guardrail{
		Name: ruleBudgetDownrank,
		Apply: func(ctx Context, set []model.ScoredArea) []model.ScoredArea {
			label, ok := ctx.ChoiceLabel(question)
			if !ok {
				return set
			}
			ceiling, ok := budgetCeilings[label]
			if !ok {
				return set
			}
			for i := range set {
				if set[i].MedianSalePrice > ceiling*budgetStretch {
					set[i].RawScore -= penalty
				}
			}
			return set
		},
	}
}

// typeUprank adds a fixed bonus to every area when the buyer picked the
// condo/low-maintenance choice.
func typeUprank(d refdata.GuardrailDescriptor) Guardrail {
	question := d.TriggerQuestion
	if question == "" {
		question = defaultTypeQuestion
	}
	trigger := d.TriggerChoice
	if trigger == "" {
		trigger = "B"
	}
	bonus := d.Bonus
	if bonus == 0 {
		bonus = defaultTypeBonus
	}
	return Guardrail{
		Name: ruleTypeUprank,
		Apply: func(ctx Context, set []model.ScoredArea) []model.ScoredArea {
			if label, ok := ctx.ChoiceLabel(question); !ok || label != trigger {
				return set
			}
			for i := range set {
				set[i].RawScore += bonus
			}
			return set
		},
	}
}

// lakeExclusion restricts the result set to areas with sufficient lake
// access when the buyer marked it a must-have, but never shrinks the set
// below the configured minimum: with too few qualifying areas the full set
// is kept unchanged.
func lakeExclusion(d refdata.GuardrailDescriptor) Guardrail {
	question := d.TriggerQuestion
	if question == "" {
		question = defaultLakeQuestion
	}
	trigger := d.TriggerChoice
	if trigger == "" {
		trigger = "A"
	}
	attr := d.Attribute
	if attr == "" {
		attr = defaultLakeAttribute
	}
	threshold := d.ExcludeBelow
	if threshold == 0 {
		threshold = defaultLakeThreshold
	}
	minResults := d.MinResults
	if minResults == 0 {
		minResults = defaultLakeMinResults
	}
	return Guardrail{
		Name: ruleLakeExclusion,
		Apply: func(ctx Context, set []model.ScoredArea) []model.ScoredArea {
			if label, ok := ctx.ChoiceLabel(question); !ok || label != trigger {
				return set
			}
			var subset []model.ScoredArea
			for _, s := range set {
				if ctx.AreaAttribute(s.ID, attr) >= threshold {
					subset = append(subset, s)
				}
			}
			if len(subset) >= minResults {
				return subset
			}
			return set
		},
	}
}
