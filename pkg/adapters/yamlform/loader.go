// Package yamlform loads form definitions from YAML or JSON files, for
// seeding stores and for offline validation of authored forms.
package yamlform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/formroute/formroute/internal/validator"
	"github.com/formroute/formroute/pkg/domain"
)

// document is the on-disk file layout.
type document struct {
	Form fileForm `yaml:"form" json:"form"`
}

type fileForm struct {
	ID              int            `yaml:"id" json:"id"`
	Title           string         `yaml:"title" json:"title"`
	SecureMode      bool           `yaml:"secure_mode" json:"secure_mode"`
	DefaultRedirect string         `yaml:"default_redirect" json:"default_redirect"`
	Questions       []fileQuestion `yaml:"questions" json:"questions"`
}

type fileQuestion struct {
	ID          int    `yaml:"id" json:"id"`
	TempID      string `yaml:"temp_id" json:"temp_id"`
	FinalScreen bool   `yaml:"final_screen" json:"final_screen"`
	Required    bool   `yaml:"required" json:"required"`
	Payload     string `yaml:"payload" json:"payload"`

	// Position may be omitted; file order is used then.
	Position *int `yaml:"position" json:"position"`

	// Rules use a loose map shorthand so authors do not have to spell
	// the storage field names. See ruleSpec for the accepted keys.
	Rules []map[string]any `yaml:"rules" json:"rules"`
}

// ruleSpec is the authoring shorthand for a condition.
type ruleSpec struct {
	Position *int   `mapstructure:"position"`
	If       string `mapstructure:"if"`
	Value    string `mapstructure:"value"`
	Then     string `mapstructure:"then"`
	Target   string `mapstructure:"target"`
	Amount   int    `mapstructure:"amount"`
	Compare  string `mapstructure:"compare"`
}

// Load reads a form definition file. The format follows the extension:
// .json is JSON, everything else is YAML.
func Load(path string) (*domain.FormGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form definition: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes and validates a form definition.
func Parse(data []byte, ext string) (*domain.FormGraph, error) {
	var doc document
	if strings.ToLower(ext) == ".json" {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse form definition: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse form definition: %w", err)
		}
	}

	graph, err := buildGraph(doc.Form)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateGraph(graph); err != nil {
		return nil, err
	}
	return graph, nil
}

func buildGraph(f fileForm) (*domain.FormGraph, error) {
	graph := &domain.FormGraph{
		ID:              f.ID,
		Title:           f.Title,
		SecureMode:      f.SecureMode,
		DefaultRedirect: f.DefaultRedirect,
		Questions:       make([]domain.Question, 0, len(f.Questions)),
	}

	seq := 0
	for _, fq := range f.Questions {
		q := domain.Question{
			ID:          fq.ID,
			TempID:      fq.TempID,
			FinalScreen: fq.FinalScreen,
			Required:    fq.Required,
			Payload:     fq.Payload,
		}
		if fq.Position != nil {
			q.Position = *fq.Position
		} else if !fq.FinalScreen {
			q.Position = seq
		}
		if !fq.FinalScreen {
			seq++
		}

		for i, raw := range fq.Rules {
			cond, err := buildCondition(raw, i)
			if err != nil {
				return nil, fmt.Errorf("question %q rule %d: %w", fq.Payload, i, err)
			}
			q.Conditions = append(q.Conditions, cond)
		}
		graph.Questions = append(graph.Questions, q)
	}
	return graph, nil
}

func buildCondition(raw map[string]any, index int) (domain.Condition, error) {
	var spec ruleSpec
	if err := mapstructure.Decode(raw, &spec); err != nil {
		return domain.Condition{}, fmt.Errorf("failed to decode rule: %w", err)
	}

	cond := domain.Condition{
		Position:        index,
		Type:            domain.ConditionType(spec.If),
		Value:           spec.Value,
		Action:          domain.ActionType(spec.Then),
		ActionValue:     spec.Target,
		Amount:          spec.Amount,
		ComparisonValue: spec.Compare,
	}
	if spec.Position != nil {
		cond.Position = *spec.Position
	}
	if err := cond.Validate(); err != nil {
		return domain.Condition{}, err
	}
	return cond, nil
}
