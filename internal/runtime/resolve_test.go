package runtime

import (
	"testing"

	"github.com/formroute/formroute/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolve_NoMatchLeavesFallbackToCaller(t *testing.T) {
	conds := []domain.Condition{
		{Position: 0, Type: domain.CondAnswerEquals, Value: "yes", Action: domain.ActionGotoQuestion, ActionValue: "7"},
	}

	res := Resolve(conds, "no", domain.NewVariables())

	assert.False(t, res.Matched, "no condition matched, caller must fall back to sequential order")
	assert.Zero(t, res.NextQuestionID)
	assert.False(t, res.Terminate)
	assert.Empty(t, res.RedirectURL)
}

func TestResolve_AppliesEveryMatchingAction(t *testing.T) {
	// Two rules fire on the same answer: one awards points, one branches.
	// Both must execute; this is the reason the loop has no break.
	conds := []domain.Condition{
		{Position: 0, Type: domain.CondAnswerEquals, Value: "yes", Action: domain.ActionAddVariable, ActionValue: "score", Amount: 5},
		{Position: 1, Type: domain.CondAnswerEquals, Value: "yes", Action: domain.ActionGotoQuestion, ActionValue: "3"},
	}

	res := Resolve(conds, "yes", domain.NewVariables())

	assert.True(t, res.Matched)
	assert.Equal(t, 3, res.NextQuestionID)
	score, _ := res.Variables.Number("score")
	assert.Equal(t, float64(5), score)
}

func TestResolve_AccumulatesAllVariableActions(t *testing.T) {
	conds := []domain.Condition{
		{Position: 0, Type: domain.CondAnswerContains, Value: "a", Action: domain.ActionAddVariable, ActionValue: "score", Amount: 2},
		{Position: 1, Type: domain.CondAnswerContains, Value: "a", Action: domain.ActionAddVariable, ActionValue: "score", Amount: 3},
		{Position: 2, Type: domain.CondAnswerContains, Value: "z", Action: domain.ActionAddVariable, ActionValue: "score", Amount: 100},
		{Position: 3, Type: domain.CondAnswerContains, Value: "a", Action: domain.ActionSetVariable, ActionValue: "tier", ComparisonValue: "silver"},
	}

	res := Resolve(conds, "banana", domain.Variables{"score": float64(1)})

	score, _ := res.Variables.Number("score")
	assert.Equal(t, float64(6), score, "cumulative effect of all matching add_variable rules")
	assert.Equal(t, "silver", res.Variables.String("tier"))
	assert.False(t, res.Matched, "variable actions alone do not claim navigation")
}

func TestResolve_LastNavigationActionWins(t *testing.T) {
	cases := []struct {
		name  string
		conds []domain.Condition
		check func(t *testing.T, res domain.NavigationResult)
	}{
		{
			name: "later goto overrides earlier goto",
			conds: []domain.Condition{
				{Position: 0, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionGotoQuestion, ActionValue: "5"},
				{Position: 1, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionGotoQuestion, ActionValue: "9"},
			},
			check: func(t *testing.T, res domain.NavigationResult) {
				assert.Equal(t, 9, res.NextQuestionID)
			},
		},
		{
			name: "goto after skip cancels termination",
			conds: []domain.Condition{
				{Position: 0, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionSkipToEnd},
				{Position: 1, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionGotoQuestion, ActionValue: "2"},
			},
			check: func(t *testing.T, res domain.NavigationResult) {
				assert.False(t, res.Terminate)
				assert.Equal(t, 2, res.NextQuestionID)
			},
		},
		{
			name: "skip after goto clears target",
			conds: []domain.Condition{
				{Position: 0, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionGotoQuestion, ActionValue: "2"},
				{Position: 1, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionSkipToEnd},
			},
			check: func(t *testing.T, res domain.NavigationResult) {
				assert.True(t, res.Terminate)
				assert.Zero(t, res.NextQuestionID)
			},
		},
		{
			name: "redirect last wins over goto",
			conds: []domain.Condition{
				{Position: 0, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionGotoQuestion, ActionValue: "2"},
				{Position: 1, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionRedirectURL, ActionValue: "https://example.com/done"},
			},
			check: func(t *testing.T, res domain.NavigationResult) {
				assert.Equal(t, "https://example.com/done", res.RedirectURL)
				assert.Zero(t, res.NextQuestionID)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Resolve(tc.conds, "x", domain.NewVariables())
			assert.True(t, res.Matched)
			tc.check(t, res)
		})
	}
}

func TestResolve_OrdersByPositionNotSliceOrder(t *testing.T) {
	// Conditions arrive out of order; position decides who wins.
	conds := []domain.Condition{
		{Position: 5, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionGotoQuestion, ActionValue: "50"},
		{Position: 1, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionGotoQuestion, ActionValue: "10"},
	}

	res := Resolve(conds, "x", domain.NewVariables())
	assert.Equal(t, 50, res.NextQuestionID)
}

func TestResolve_DoesNotMutateCallerVariables(t *testing.T) {
	vars := domain.Variables{"score": float64(1)}
	conds := []domain.Condition{
		{Position: 0, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionAddVariable, ActionValue: "score", Amount: 10},
	}

	_ = Resolve(conds, "x", vars)

	score, _ := vars.Number("score")
	assert.Equal(t, float64(1), score, "resolver must work on a copy")
}

func TestResolve_MalformedGotoTargetDegrades(t *testing.T) {
	conds := []domain.Condition{
		{Position: 0, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionGotoQuestion, ActionValue: "not-a-number"},
	}

	res := Resolve(conds, "x", domain.NewVariables())
	assert.False(t, res.Matched)
	assert.Zero(t, res.NextQuestionID)
}

func TestResolve_ShowMessageIsNoOp(t *testing.T) {
	conds := []domain.Condition{
		{Position: 0, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionShowMessage, ActionValue: "well done"},
	}

	res := Resolve(conds, "x", domain.Variables{"score": float64(2)})
	assert.False(t, res.Matched)
	score, _ := res.Variables.Number("score")
	assert.Equal(t, float64(2), score)
}

func TestResolve_SetVariableOperandPrecedence(t *testing.T) {
	conds := []domain.Condition{
		{Position: 0, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionSetVariable, ActionValue: "a", Amount: 7},
		{Position: 1, Type: domain.CondAnswerEquals, Value: "x", Action: domain.ActionSetVariable, ActionValue: "b", Amount: 7, ComparisonValue: "gold"},
	}

	res := Resolve(conds, "x", domain.NewVariables())

	n, ok := res.Variables.Number("a")
	assert.True(t, ok)
	assert.Equal(t, float64(7), n)
	assert.Equal(t, "gold", res.Variables.String("b"))
}
