package runtime

import (
	"sort"
	"strconv"

	"github.com/formroute/formroute/pkg/domain"
)

// Resolve runs a question's ordered condition list against an answer and
// produces the navigation outcome plus the mutated variable store.
//
// Every matching condition's action executes; the loop never stops at the
// first match. A question may therefore both award points and branch from
// two different rules firing on the same answer. When several navigation
// actions match, the one with the highest position wins because later
// matches overwrite earlier ones.
func Resolve(conditions []domain.Condition, answer string, vars domain.Variables) domain.NavigationResult {
	result := domain.NavigationResult{
		Variables: vars.Clone(),
	}

	ordered := make([]domain.Condition, len(conditions))
	copy(ordered, conditions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	for _, cond := range ordered {
		if !Evaluate(cond, answer, result.Variables) {
			continue
		}
		apply(cond, &result)
	}

	return result
}

// apply executes one matched condition's action against the result.
// Navigation actions overwrite the whole navigation triple so that the
// final outcome equals the effect of the last matching navigation rule.
func apply(cond domain.Condition, result *domain.NavigationResult) {
	switch cond.Action {
	case domain.ActionGotoQuestion:
		id, err := strconv.Atoi(cond.ActionValue)
		if err != nil {
			return // malformed target degrades to no-op
		}
		result.NextQuestionID = id
		result.Terminate = false
		result.RedirectURL = ""
		result.Matched = true

	case domain.ActionSkipToEnd:
		result.Terminate = true
		result.NextQuestionID = 0
		result.RedirectURL = ""
		result.Matched = true

	case domain.ActionRedirectURL:
		result.RedirectURL = cond.ActionValue
		result.NextQuestionID = 0
		result.Terminate = false
		result.Matched = true

	case domain.ActionAddVariable:
		result.Variables.Add(cond.ActionValue, cond.Amount)

	case domain.ActionSetVariable:
		if cond.ComparisonValue != "" {
			result.Variables.Set(cond.ActionValue, cond.ComparisonValue)
		} else {
			result.Variables.Set(cond.ActionValue, float64(cond.Amount))
		}

	case domain.ActionShowMessage:
		// Deferred to the presentation layer; no state change here.
	}
}
