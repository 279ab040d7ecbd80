package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
	"github.com/harborview-realty/neighborhood-cli/internal/refdata"
	"github.com/harborview-realty/neighborhood-cli/internal/scorer"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Run the neighborhood-fit quiz",
}

var quizScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score areas against quiz answers",
	Long: `Scores every area in the reference data against the supplied answers and
prints the ranked results plus the CRM routing tag for the top match.

Answers are question=choice pairs. Unknown questions or choices are ignored;
a partial answer set is fine. Repeating a question keeps the last answer.

Examples:
  # Full quiz run
  quiz score -a q1_budget=B -a q2_home_type=A -a q4_schools=A -a q8_lake=C

  # Restrict to one county and export the ranking
  quiz score -a q1_budget=A --county milwaukee --format csv --output ranks.csv

  # Lake-access must-have, top matches only
  quiz score -a q8_lake=A --limit 3`,
	RunE: runQuizScore,
}

var quizQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the question bank",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, data, err := initEngine()
		if err != nil {
			return err
		}
		for i, q := range data.Questions() {
			fmt.Printf("%2d. [%s] %s (weight %.1f)\n", i+1, q.ID, q.Text, q.Weight)
			for _, c := range q.Choices {
				fmt.Printf("      %s) %s\n", c.Label, c.Text)
			}
		}
		return nil
	},
}

func init() {
	f := quizScoreCmd.Flags()
	f.StringArrayP("answer", "a", nil, "answer as question=choice (repeatable)")
	f.String("county", "", "restrict scoring to one county slug")
	f.Int("limit", 0, "truncate output to the top N areas (0=all)")
	f.String("format", "table", "output format: table, csv, or xlsx")
	f.String("output", "", "output file path (default: stdout; required for xlsx)")

	quizCmd.AddCommand(quizScoreCmd)
	quizCmd.AddCommand(quizQuestionsCmd)
	rootCmd.AddCommand(quizCmd)
}

// initEngine loads reference data per config and builds the scoring engine.
func initEngine() (*scorer.Engine, *refdata.Store, error) {
	data, err := refdata.Load(cfg.Data.AreasPath, cfg.Data.QuestionsPath)
	if err != nil {
		return nil, nil, err
	}
	engine, err := scorer.New(data)
	if err != nil {
		return nil, nil, err
	}
	return engine, data, nil
}

func runQuizScore(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetStringArray("answer")
	county, _ := cmd.Flags().GetString("county")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if format != "table" && format != "csv" && format != "xlsx" {
		return eris.Errorf("quiz: --format must be table, csv, or xlsx (got %q)", format)
	}
	if format == "xlsx" && outputPath == "" {
		return eris.New("quiz: --output is required with --format xlsx")
	}
	if county != "" && !model.IsKnownCounty(county) {
		return eris.Errorf("quiz: unknown county %q (want one of %s)", county, strings.Join(model.KnownCounties, ", "))
	}

	answers, err := parseAnswers(raw)
	if err != nil {
		return err
	}

	engine, _, err := initEngine()
	if err != nil {
		return err
	}

	zap.L().Info("scoring quiz",
		zap.Int("answers", len(answers)),
		zap.String("county", county),
	)

	results := engine.ScoreAreas(answers, county)
	if len(results) == 0 {
		fmt.Println("No areas matched.")
		return nil
	}

	tag := engine.CRMTags(answers, results[0])

	full := results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if err := outputScoredAreas(results, format, outputPath); err != nil {
		return err
	}
	fmt.Printf("\nTop match: %s (%d of %d areas ranked)\n", full[0].DisplayName, len(results), len(full))
	fmt.Printf("CRM tag:   %s\n", tag)
	return nil
}

// parseAnswers converts question=choice pairs into Answers, preserving
// order so the engine's last-write-wins contract holds.
func parseAnswers(raw []string) ([]model.Answer, error) {
	var answers []model.Answer
	for _, pair := range raw {
		q, c, ok := strings.Cut(pair, "=")
		q, c = strings.TrimSpace(q), strings.TrimSpace(c)
		if !ok || q == "" || c == "" {
			return nil, eris.Errorf("quiz: malformed answer %q (want question=choice)", pair)
		}
		answers = append(answers, model.Answer{QuestionID: q, ChoiceLabel: c})
	}
	return answers, nil
}
