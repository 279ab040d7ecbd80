package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
)

func TestCRMTags(t *testing.T) {
	engine := newTestEngine(t)

	newBerlin := model.ScoredArea{
		DisplayName: "New Berlin",
		County:      model.CountyWaukesha,
		Tags:        []string{"#familyFriendly"},
	}

	tests := []struct {
		name     string
		answers  []model.Answer
		topMatch model.ScoredArea
		want     string
	}{
		{
			name:     "documented example",
			answers:  []model.Answer{{QuestionID: "q1_budget", ChoiceLabel: "B"}},
			topMatch: newBerlin,
			want:     "Relocation|WaukeshaCounty|TopMatch_NewBerlin|Budget_275-400K|familyFriendly",
		},
		{
			name:     "no budget answer",
			answers:  []model.Answer{{QuestionID: "q4_schools", ChoiceLabel: "A"}},
			topMatch: newBerlin,
			want:     "Relocation|WaukeshaCounty|TopMatch_NewBerlin|Budget_Unknown|familyFriendly",
		},
		{
			name: "first budget answer wins",
			answers: []model.Answer{
				{QuestionID: "q1_budget", ChoiceLabel: "C"},
				{QuestionID: "q1_budget", ChoiceLabel: "A"},
			},
			topMatch: newBerlin,
			want:     "Relocation|WaukeshaCounty|TopMatch_NewBerlin|Budget_400-600K|familyFriendly",
		},
		{
			name:     "unrecognized budget label",
			answers:  []model.Answer{{QuestionID: "q1_budget", ChoiceLabel: "Z"}},
			topMatch: newBerlin,
			want:     "Relocation|WaukeshaCounty|TopMatch_NewBerlin|Budget_Unknown|familyFriendly",
		},
		{
			name:    "no tags falls back to General",
			answers: []model.Answer{{QuestionID: "q1_budget", ChoiceLabel: "A"}},
			topMatch: model.ScoredArea{
				DisplayName: "Gamma Heights",
				County:      model.CountyMilwaukee,
			},
			want: "Relocation|MilwaukeeCounty|TopMatch_GammaHeights|Budget_Under275K|General",
		},
		{
			name:    "unmapped county keeps the raw slug",
			answers: []model.Answer{{QuestionID: "q1_budget", ChoiceLabel: "D"}},
			topMatch: model.ScoredArea{
				DisplayName: "Sister Bay",
				County:      "door",
				Tags:        []string{"#lakeLife"},
			},
			want: "Relocation|door|TopMatch_SisterBay|Budget_600KPlus|lakeLife",
		},
		{
			name:    "interior whitespace stripped",
			answers: []model.Answer{{QuestionID: "q1_budget", ChoiceLabel: "B"}},
			topMatch: model.ScoredArea{
				DisplayName: "  Whitefish   Bay ",
				County:      model.CountyMilwaukee,
				Tags:        []string{"#upscale"},
			},
			want: "Relocation|MilwaukeeCounty|TopMatch_WhitefishBay|Budget_275-400K|upscale",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.CRMTags(tt.answers, tt.topMatch))
		})
	}
}
