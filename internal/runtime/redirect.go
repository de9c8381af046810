package runtime

import (
	"sort"

	"github.com/formroute/formroute/pkg/domain"
)

// DetermineRedirect scans every redirect_url condition across the whole
// form after submission, not just the last question answered. Each rule
// is evaluated against the stored answer for its own question and the
// final variable snapshot. The first match in form-wide scan order
// (questions by position, conditions by position) wins; when none match
// the form's static default redirect applies.
//
// This is a separate pass from per-question resolution and runs once at
// completion time.
func DetermineRedirect(graph *domain.FormGraph, answers map[int]string, vars domain.Variables) string {
	questions := make([]domain.Question, len(graph.Questions))
	copy(questions, graph.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Position < questions[j].Position
	})

	for _, q := range questions {
		conds := make([]domain.Condition, len(q.Conditions))
		copy(conds, q.Conditions)
		sort.SliceStable(conds, func(i, j int) bool {
			return conds[i].Position < conds[j].Position
		})

		for _, cond := range conds {
			if cond.Action != domain.ActionRedirectURL {
				continue
			}
			if Evaluate(cond, answers[q.ID], vars) {
				return cond.ActionValue
			}
		}
	}

	return graph.DefaultRedirect
}
