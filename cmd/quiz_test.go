package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
)

func TestParseAnswers(t *testing.T) {
	answers, err := parseAnswers([]string{"q1_budget=B", " q4_schools = A "})
	require.NoError(t, err)
	assert.Equal(t, []model.Answer{
		{QuestionID: "q1_budget", ChoiceLabel: "B"},
		{QuestionID: "q4_schools", ChoiceLabel: "A"},
	}, answers)

	// Order is preserved so a repeated question keeps its last answer.
	answers, err = parseAnswers([]string{"q1_budget=A", "q1_budget=C"})
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "C", answers[1].ChoiceLabel)
}

func TestParseAnswersMalformed(t *testing.T) {
	for _, raw := range []string{"q1_budget", "=B", "q1_budget=", "="} {
		_, err := parseAnswers([]string{raw})
		assert.Error(t, err, "input %q", raw)
	}
}

func TestParseAnswersEmpty(t *testing.T) {
	answers, err := parseAnswers(nil)
	require.NoError(t, err)
	assert.Nil(t, answers)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactlyten", truncate("exactlyten", 10))
	assert.Equal(t, "a long ...", truncate("a long string here", 10))
}
