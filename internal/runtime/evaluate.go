package runtime

import (
	"strconv"
	"strings"

	"github.com/formroute/formroute/pkg/domain"
)

// Evaluate tests one condition against the submitted answer and the
// variable store. It never returns an error: an unrecognized condition
// type evaluates to false so a single malformed rule cannot break a
// form session.
func Evaluate(cond domain.Condition, answer string, vars domain.Variables) bool {
	switch cond.Type {
	case domain.CondAnswerEquals:
		return answer == cond.Value
	case domain.CondAnswerNotEquals:
		return answer != cond.Value
	case domain.CondAnswerContains:
		return strings.Contains(answer, cond.Value)
	case domain.CondVariableGreater:
		return smartCompare(vars.String(cond.Value), cond.Operand()) > 0
	case domain.CondVariableLess:
		return smartCompare(vars.String(cond.Value), cond.Operand()) < 0
	case domain.CondVariableEquals:
		return smartCompare(vars.String(cond.Value), cond.Operand()) == 0
	}
	return false
}

// smartCompare orders two operands the way a scoring rule expects:
// numerically when both sides parse as numbers, lexicographically
// otherwise. Returns -1, 0 or 1.
func smartCompare(left, right string) int {
	lf, lerr := strconv.ParseFloat(strings.TrimSpace(left), 64)
	rf, rerr := strconv.ParseFloat(strings.TrimSpace(right), 64)
	if lerr == nil && rerr == nil {
		switch {
		case lf < rf:
			return -1
		case lf > rf:
			return 1
		}
		return 0
	}
	return strings.Compare(left, right)
}
