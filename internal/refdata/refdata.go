// Package refdata loads and validates the quiz reference data: the area
// attribute store and the question bank. Both are read once at startup and
// are immutable afterwards; schema violations fail fast at load time rather
// than surfacing during scoring.
package refdata

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
)

//go:embed data/areas.yaml data/questions.yaml
var defaultData embed.FS

// areasDoc mirrors the areas.yaml document.
type areasDoc struct {
	Meta                 map[string]any       `yaml:"meta"`
	AttributeDefinitions map[string]string    `yaml:"attribute_definitions"`
	Areas                map[string]areaEntry `yaml:"areas"`
}

type areaEntry struct {
	DisplayName     string             `yaml:"display_name"`
	County          string             `yaml:"county"`
	MedianSalePrice float64            `yaml:"median_sale_price"`
	Attributes      map[string]float64 `yaml:"attributes"`
	Tags            []string           `yaml:"tags"`
}

// questionsDoc mirrors the questions.yaml document.
type questionsDoc struct {
	Meta      map[string]any  `yaml:"meta"`
	Questions []questionEntry `yaml:"questions"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	CRM       CRMTagging      `yaml:"crm_tagging"`
}

type questionEntry struct {
	ID      string        `yaml:"id"`
	Text    string        `yaml:"question_text"`
	Weight  float64       `yaml:"weight"`
	Choices []choiceEntry `yaml:"choices"`
}

type choiceEntry struct {
	Label  string             `yaml:"label"`
	Text   string             `yaml:"text"`
	Boosts map[string]float64 `yaml:"attribute_boosts"`
}

// ScoringConfig carries the scoring block of the question bank.
type ScoringConfig struct {
	Method           string                `yaml:"method"`
	TieBreakPriority []string              `yaml:"tie_break_priority"`
	Guardrails       []GuardrailDescriptor `yaml:"guardrails"`
	OutputCount      int                   `yaml:"output_count"`
}

// GuardrailDescriptor declares one business rule layered on top of the base
// weighted pass. The rule name selects the implementation; the remaining
// fields parameterize it.
type GuardrailDescriptor struct {
	Rule            string  `yaml:"rule"`
	Description     string  `yaml:"description"`
	TriggerQuestion string  `yaml:"trigger_question"`
	TriggerChoice   string  `yaml:"trigger_choice"`
	Penalty         float64 `yaml:"penalty"`
	Bonus           float64 `yaml:"bonus"`
	Attribute       string  `yaml:"attribute"`
	ExcludeBelow    float64 `yaml:"exclude_below"`
	MinResults      int     `yaml:"min_results"`
}

// CRMTagging documents the tag string contract for downstream CRM parsing.
type CRMTagging struct {
	Format  string `yaml:"format"`
	Example string `yaml:"example"`
}

// Store holds the loaded, validated reference data. Construct one with Load
// or LoadDefault and inject it where needed; there is no package-level cache.
type Store struct {
	areas     []model.Area
	areasByID map[string]model.Area
	questions []model.Question
	byID      map[string]model.Question
	scoring   ScoringConfig
	crm       CRMTagging
}

// Load reads reference data from the given file paths. An empty path falls
// back to the embedded default dataset for that document.
func Load(areasPath, questionsPath string) (*Store, error) {
	areasRaw, err := readDoc(areasPath, "data/areas.yaml")
	if err != nil {
		return nil, eris.Wrap(err, "refdata: read areas")
	}
	questionsRaw, err := readDoc(questionsPath, "data/questions.yaml")
	if err != nil {
		return nil, eris.Wrap(err, "refdata: read questions")
	}
	return Parse(areasRaw, questionsRaw)
}

// LoadDefault loads the embedded metro dataset.
func LoadDefault() (*Store, error) {
	return Load("", "")
}

func readDoc(path, embedded string) ([]byte, error) {
	if path == "" {
		return defaultData.ReadFile(embedded)
	}
	return os.ReadFile(path)
}

// Parse decodes and validates raw YAML documents into a Store.
func Parse(areasRaw, questionsRaw []byte) (*Store, error) {
	var ad areasDoc
	if err := yaml.Unmarshal(areasRaw, &ad); err != nil {
		return nil, eris.Wrap(err, "refdata: unmarshal areas")
	}
	var qd questionsDoc
	if err := yaml.Unmarshal(questionsRaw, &qd); err != nil {
		return nil, eris.Wrap(err, "refdata: unmarshal questions")
	}

	s := &Store{
		areasByID: make(map[string]model.Area, len(ad.Areas)),
		byID:      make(map[string]model.Question, len(qd.Questions)),
		scoring:   qd.Scoring,
		crm:       qd.CRM,
	}

	if len(ad.Areas) == 0 {
		return nil, eris.New("refdata: areas document has no areas")
	}
	for id, entry := range ad.Areas {
		if err := validateArea(id, entry); err != nil {
			return nil, err
		}
		area := model.Area{
			ID:              id,
			DisplayName:     entry.DisplayName,
			County:          entry.County,
			MedianSalePrice: entry.MedianSalePrice,
			Attributes:      entry.Attributes,
			Tags:            entry.Tags,
		}
		s.areasByID[id] = area
		s.areas = append(s.areas, area)
	}
	// Deterministic sweep order regardless of YAML map iteration.
	sort.Slice(s.areas, func(i, j int) bool { return s.areas[i].ID < s.areas[j].ID })

	if len(qd.Questions) == 0 {
		return nil, eris.New("refdata: questions document has no questions")
	}
	for _, entry := range qd.Questions {
		q, err := validateQuestion(entry)
		if err != nil {
			return nil, err
		}
		if _, dup := s.byID[q.ID]; dup {
			return nil, eris.Errorf("refdata: duplicate question id %q", q.ID)
		}
		s.byID[q.ID] = q
		s.questions = append(s.questions, q)
	}

	if len(qd.Scoring.TieBreakPriority) == 0 {
		return nil, eris.New("refdata: scoring.tie_break_priority is empty")
	}
	for i, g := range qd.Scoring.Guardrails {
		if g.Rule == "" {
			return nil, eris.Errorf("refdata: guardrail %d has no rule name", i)
		}
	}

	return s, nil
}

func validateArea(id string, entry areaEntry) error {
	if id == "" {
		return eris.New("refdata: area with empty id")
	}
	if entry.DisplayName == "" {
		return eris.Errorf("refdata: area %q missing display_name", id)
	}
	if !model.IsKnownCounty(entry.County) {
		return eris.Errorf("refdata: area %q has unknown county %q", id, entry.County)
	}
	if entry.MedianSalePrice < 0 {
		return eris.Errorf("refdata: area %q has negative median_sale_price", id)
	}
	return nil
}

func validateQuestion(entry questionEntry) (model.Question, error) {
	if entry.ID == "" {
		return model.Question{}, eris.New("refdata: question with empty id")
	}
	if entry.Text == "" {
		return model.Question{}, eris.Errorf("refdata: question %q missing question_text", entry.ID)
	}
	if len(entry.Choices) == 0 {
		return model.Question{}, eris.Errorf("refdata: question %q has no choices", entry.ID)
	}
	q := model.Question{
		ID:     entry.ID,
		Text:   entry.Text,
		Weight: entry.Weight,
	}
	seen := make(map[string]bool, len(entry.Choices))
	for _, c := range entry.Choices {
		if c.Label == "" {
			return model.Question{}, eris.Errorf("refdata: question %q has a choice with empty label", entry.ID)
		}
		if seen[c.Label] {
			return model.Question{}, eris.Errorf("refdata: question %q has duplicate choice label %q", entry.ID, c.Label)
		}
		seen[c.Label] = true
		q.Choices = append(q.Choices, model.Choice{Label: c.Label, Text: c.Text, Boosts: c.Boosts})
	}
	return q, nil
}

// Areas returns every area in sorted id order. Callers must not mutate the
// returned slice.
func (s *Store) Areas() []model.Area {
	return s.areas
}

// Area returns the area with the given id.
func (s *Store) Area(id string) (model.Area, bool) {
	a, ok := s.areasByID[id]
	return a, ok
}

// Questions returns the question bank in document order.
func (s *Store) Questions() []model.Question {
	return s.questions
}

// Question returns the question with the given id.
func (s *Store) Question(id string) (model.Question, bool) {
	q, ok := s.byID[id]
	return q, ok
}

// Scoring returns the scoring configuration block.
func (s *Store) Scoring() ScoringConfig {
	return s.scoring
}

// CRMTagging returns the documented tag string contract.
func (s *Store) CRMTagging() CRMTagging {
	return s.crm
}

// String summarizes the store for log output.
func (s *Store) String() string {
	return fmt.Sprintf("refdata.Store{areas:%d questions:%d}", len(s.areas), len(s.questions))
}
