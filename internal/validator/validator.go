package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/formroute/formroute/pkg/domain"
)

// ValidateGraph checks a form definition for structural problems before
// it is handed to a store: dangling goto targets, rule enums outside the
// closed sets, and duplicate sequential positions.
//
// Temporary-id goto targets are resolved against the TempIDs present in
// the same graph, mirroring what the save remapper will do.
func ValidateGraph(graph *domain.FormGraph) error {
	ids := make(map[string]bool)
	tempIDs := make(map[string]bool)
	positions := make(map[int]string)

	var problems []string

	for _, q := range graph.Questions {
		if q.ID > 0 {
			ids[strconv.Itoa(q.ID)] = true
		}
		if q.TempID != "" {
			if tempIDs[q.TempID] {
				problems = append(problems, fmt.Sprintf("duplicate temp id %q", q.TempID))
			}
			tempIDs[q.TempID] = true
		}
		if q.ID == 0 && q.TempID == "" && len(q.Conditions) == 0 && q.Payload == "" {
			problems = append(problems, "question with no id, temp id or payload")
		}
		if !q.FinalScreen {
			if prev, dup := positions[q.Position]; dup {
				problems = append(problems, fmt.Sprintf("position %d used by %q and %q", q.Position, prev, q.Payload))
			}
			positions[q.Position] = q.Payload
		}
	}

	for _, q := range graph.Questions {
		for _, c := range q.Conditions {
			if err := c.Validate(); err != nil {
				problems = append(problems, fmt.Sprintf("question %q: %v", q.Payload, err))
				continue
			}
			if c.Action != domain.ActionGotoQuestion {
				continue
			}
			if ids[c.ActionValue] || tempIDs[c.ActionValue] {
				continue
			}
			problems = append(problems, fmt.Sprintf("question %q: goto target %q does not exist in graph", q.Payload, c.ActionValue))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("graph validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
