package validator

import (
	"testing"

	"github.com/formroute/formroute/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateGraph_OK(t *testing.T) {
	graph := &domain.FormGraph{
		Questions: []domain.Question{
			{ID: 1, Position: 0, Payload: "Q1", Conditions: []domain.Condition{
				{Type: domain.CondAnswerEquals, Value: "yes", Action: domain.ActionGotoQuestion, ActionValue: "2"},
			}},
			{ID: 2, Position: 1, Payload: "Q2"},
			{TempID: "tmp1", Position: 2, Payload: "Q3", Conditions: []domain.Condition{
				{Type: domain.CondAnswerEquals, Value: "again", Action: domain.ActionGotoQuestion, ActionValue: "tmp1"},
			}},
		},
	}
	assert.NoError(t, ValidateGraph(graph))
}

func TestValidateGraph_DanglingGoto(t *testing.T) {
	graph := &domain.FormGraph{
		Questions: []domain.Question{
			{ID: 1, Position: 0, Payload: "Q1", Conditions: []domain.Condition{
				{Type: domain.CondAnswerEquals, Value: "yes", Action: domain.ActionGotoQuestion, ActionValue: "99"},
			}},
		},
	}
	err := ValidateGraph(graph)
	assert.ErrorContains(t, err, "goto target")
}

func TestValidateGraph_BadEnums(t *testing.T) {
	graph := &domain.FormGraph{
		Questions: []domain.Question{
			{ID: 1, Position: 0, Payload: "Q1", Conditions: []domain.Condition{
				{Type: "answer_sounds_like", Value: "yes", Action: domain.ActionShowMessage},
			}},
		},
	}
	err := ValidateGraph(graph)
	assert.ErrorContains(t, err, "invalid condition type")
}

func TestValidateGraph_DuplicatePositions(t *testing.T) {
	graph := &domain.FormGraph{
		Questions: []domain.Question{
			{ID: 1, Position: 0, Payload: "Q1"},
			{ID: 2, Position: 0, Payload: "Q2"},
			// Final screens have no position semantics, so this is fine.
			{ID: 3, Position: 0, Payload: "End", FinalScreen: true},
		},
	}
	err := ValidateGraph(graph)
	assert.ErrorContains(t, err, "position 0")
}
