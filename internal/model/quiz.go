package model

// Choice is one selectable option on a quiz question. The label is the
// answer key and is unique within its question.
type Choice struct {
	Label  string             `json:"label"`
	Text   string             `json:"text"`
	Boosts map[string]float64 `json:"attribute_boosts"`
}

// Question is one quiz question. Weight multiplies every boost contributed
// by answers to this question.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"question_text"`
	Weight  float64  `json:"weight"`
	Choices []Choice `json:"choices"`
}

// Choice returns the choice with the given label, if present.
func (q Question) Choice(label string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.Label == label {
			return c, true
		}
	}
	return Choice{}, false
}

// Answer pairs a question with the choice label the user picked. Callers
// supply at most one intended answer per question; when duplicates appear,
// the engine keeps the last one.
type Answer struct {
	QuestionID  string `json:"question_id"`
	ChoiceLabel string `json:"choice_label"`
}
