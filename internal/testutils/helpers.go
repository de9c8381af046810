// Package testutils provides shared fixtures for engine and adapter tests.
package testutils

import (
	"github.com/formroute/formroute/pkg/domain"
)

// ScoringQuiz builds a three-question quiz where answering Q1 with "yes"
// both awards five points and jumps straight to Q3, plus a final screen.
// Question ids are 1..3 sequential, 9 for the final screen.
func ScoringQuiz() *domain.FormGraph {
	return &domain.FormGraph{
		ID:              1,
		Title:           "scoring quiz",
		SecureMode:      true,
		DefaultRedirect: "https://example.com/thanks",
		Questions: []domain.Question{
			{
				ID: 1, Position: 0, Payload: "Do you like Go?",
				Conditions: []domain.Condition{
					{Position: 0, Type: domain.CondAnswerEquals, Value: "yes", Action: domain.ActionAddVariable, ActionValue: "score", Amount: 5},
					{Position: 1, Type: domain.CondAnswerEquals, Value: "yes", Action: domain.ActionGotoQuestion, ActionValue: "3"},
				},
			},
			{ID: 2, Position: 1, Payload: "Why not?"},
			{
				ID: 3, Position: 2, Payload: "Favorite package?",
				Conditions: []domain.Condition{
					{Position: 0, Type: domain.CondVariableGreater, Value: "score", ComparisonValue: "4", Action: domain.ActionRedirectURL, ActionValue: "https://example.com/fans"},
				},
			},
			{ID: 9, FinalScreen: true, Payload: "All done."},
		},
	}
}
