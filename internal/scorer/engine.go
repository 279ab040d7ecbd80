// Package scorer implements the neighborhood-fit quiz engine: a weighted
// attribute sum over the area store, followed by an ordered guardrail pass,
// normalization, and deterministic tie-break ordering.
package scorer

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
	"github.com/harborview-realty/neighborhood-cli/internal/refdata"
)

// Engine scores areas against a set of quiz answers. It only reads the
// injected reference data, so a single Engine is safe for concurrent use.
type Engine struct {
	data           *refdata.Store
	guardrails     []Guardrail
	budgetQuestion string
}

// New builds an Engine from validated reference data. Unknown guardrail rule
// names in the scoring block are a data integrity error, reported here rather
// than at scoring time.
func New(data *refdata.Store) (*Engine, error) {
	rules, err := buildGuardrails(data.Scoring().Guardrails)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		data:           data,
		guardrails:     rules,
		budgetQuestion: defaultBudgetQuestion,
	}
	for _, d := range data.Scoring().Guardrails {
		if d.Rule == ruleBudgetDownrank && d.TriggerQuestion != "" {
			e.budgetQuestion = d.TriggerQuestion
		}
	}
	return e, nil
}

// resolvedAnswer is one answer after question/choice lookup succeeded.
type resolvedAnswer struct {
	label  string
	boosts map[string]float64
}

// answerSet maps question id to the resolved answer that won. Built by
// successive insertion, so a later duplicate for the same question overrides
// an earlier one (last-write-wins).
type answerSet map[string]resolvedAnswer

func (s answerSet) choiceLabel(questionID string) (string, bool) {
	a, ok := s[questionID]
	return a.label, ok
}

// resolveAnswers drops answers whose question id or choice label does not
// resolve against the bank. Malformed or stale client state must never make
// a scoring call fail.
func (e *Engine) resolveAnswers(answers []model.Answer) answerSet {
	set := make(answerSet, len(answers))
	for _, ans := range answers {
		q, ok := e.data.Question(ans.QuestionID)
		if !ok {
			continue
		}
		c, ok := q.Choice(ans.ChoiceLabel)
		if !ok {
			continue
		}
		set[ans.QuestionID] = resolvedAnswer{label: ans.ChoiceLabel, boosts: c.Boosts}
	}
	return set
}

// ScoreAreas scores every area (restricted to filterCounty when non-empty)
// against the given answers and returns the full ranked list. Identical
// inputs always produce identical, identically ordered output; the caller
// slices to top-N as needed.
func (e *Engine) ScoreAreas(answers []model.Answer, filterCounty string) []model.ScoredArea {
	resolved := e.resolveAnswers(answers)

	var scored []model.ScoredArea
	for _, area := range e.data.Areas() {
		if filterCounty != "" && area.County != filterCounty {
			continue
		}
		scored = append(scored, model.ScoredArea{
			ID:              area.ID,
			DisplayName:     area.DisplayName,
			County:          area.County,
			RawScore:        e.baseScore(area, resolved),
			MedianSalePrice: area.MedianSalePrice,
			Tags:            area.Tags,
		})
	}

	ctx := Context{answers: resolved, data: e.data}
	for _, g := range e.guardrails {
		scored = g.Apply(ctx, scored)
	}

	normalize(scored)
	e.sortResults(scored)

	zap.L().Debug("scorer: scored areas",
		zap.Int("answers", len(resolved)),
		zap.String("filter_county", filterCounty),
		zap.Int("results", len(scored)),
	)

	return scored
}

// baseScore computes the generic weighted sum for one area: every answered
// question contributes attribute * boost * weight, with missing area
// attributes treated as 0.
func (e *Engine) baseScore(area model.Area, resolved answerSet) float64 {
	var score float64
	for _, q := range e.data.Questions() {
		ans, ok := resolved[q.ID]
		if !ok {
			continue
		}
		for attr, boost := range ans.boosts {
			score += area.Attribute(attr) * boost * q.Weight
		}
	}
	return score
}

// normalize rescales raw scores so the current maximum maps to 100. The
// maximum is floored at 1 to avoid dividing by zero; when every raw score is
// non-positive the outputs can leave [0, 100], which downstream consumers
// knowingly accept.
func normalize(scored []model.ScoredArea) {
	maxRaw := 1.0
	for _, s := range scored {
		if s.RawScore > maxRaw {
			maxRaw = s.RawScore
		}
	}
	for i := range scored {
		scored[i].NormalizedScore = int(math.Round(scored[i].RawScore / maxRaw * 100))
	}
}

// sortResults orders descending by normalized score, breaking ties with the
// configured tie_break_priority attributes (missing attributes compare as 0).
// Fully tied areas keep their input order.
func (e *Engine) sortResults(scored []model.ScoredArea) {
	tiebreaks := e.data.Scoring().TieBreakPriority
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].NormalizedScore != scored[j].NormalizedScore {
			return scored[i].NormalizedScore > scored[j].NormalizedScore
		}
		for _, attr := range tiebreaks {
			ai, _ := e.data.Area(scored[i].ID)
			aj, _ := e.data.Area(scored[j].ID)
			vi, vj := ai.Attribute(attr), aj.Attribute(attr)
			if vi != vj {
				return vi > vj
			}
		}
		return false
	})
}

// TopCount returns the number of results the presentation layer shows by
// default, per the scoring block.
func (e *Engine) TopCount() int {
	if n := e.data.Scoring().OutputCount; n > 0 {
		return n
	}
	return 3
}
