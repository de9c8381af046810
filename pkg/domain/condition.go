package domain

import "fmt"

// ConditionType identifies the test a condition performs against the
// answer or the variable store.
type ConditionType string

const (
	CondAnswerEquals    ConditionType = "answer_equals"
	CondAnswerContains  ConditionType = "answer_contains"
	CondAnswerNotEquals ConditionType = "answer_not_equals"
	CondVariableGreater ConditionType = "variable_greater"
	CondVariableLess    ConditionType = "variable_less"
	CondVariableEquals  ConditionType = "variable_equals"
)

// ActionType identifies the side effect executed when a condition matches.
type ActionType string

const (
	ActionGotoQuestion ActionType = "goto_question"
	ActionSkipToEnd    ActionType = "skip_to_end"
	ActionRedirectURL  ActionType = "redirect_url"
	ActionAddVariable  ActionType = "add_variable"
	ActionSetVariable  ActionType = "set_variable"
	ActionShowMessage  ActionType = "show_message"
)

// Condition is a rule attached to a question. It pairs a test against the
// submitted answer (or a variable) with an action to run on match.
//
// The operand for variable comparisons and variable actions lives in two
// fields for historical reasons: ComparisonValue is the preferred string
// operand and supersedes Amount whenever it is non-empty. Amount is kept
// so that older persisted rules keep evaluating.
type Condition struct {
	ID         int    `json:"id,omitempty" yaml:"id,omitempty"`
	QuestionID int    `json:"question_id,omitempty" yaml:"question_id,omitempty"`

	// Position orders conditions within one question, ascending.
	Position int `json:"position" yaml:"position"`

	Type  ConditionType `json:"type" yaml:"type"`
	Value string        `json:"value" yaml:"value"`

	Action ActionType `json:"action" yaml:"action"`

	// ActionValue is interpreted per Action: a question id (possibly a
	// temporary one) for goto_question, a URL for redirect_url, a
	// variable name for add_variable/set_variable.
	ActionValue string `json:"action_value" yaml:"action_value"`

	Amount          int    `json:"amount,omitempty" yaml:"amount,omitempty"`
	ComparisonValue string `json:"comparison_value,omitempty" yaml:"comparison_value,omitempty"`
}

// Operand resolves the comparison operand, preferring ComparisonValue
// over the legacy integer Amount.
func (c Condition) Operand() string {
	if c.ComparisonValue != "" {
		return c.ComparisonValue
	}
	return fmt.Sprintf("%d", c.Amount)
}

// IsNavigation reports whether the action moves the session somewhere
// (as opposed to mutating variables or deferring to presentation).
func (c Condition) IsNavigation() bool {
	switch c.Action {
	case ActionGotoQuestion, ActionSkipToEnd, ActionRedirectURL:
		return true
	}
	return false
}

// ValidConditionType reports whether t is one of the closed set of tests.
func ValidConditionType(t ConditionType) bool {
	switch t {
	case CondAnswerEquals, CondAnswerContains, CondAnswerNotEquals,
		CondVariableGreater, CondVariableLess, CondVariableEquals:
		return true
	}
	return false
}

// ValidActionType reports whether a is one of the closed set of actions.
func ValidActionType(a ActionType) bool {
	switch a {
	case ActionGotoQuestion, ActionSkipToEnd, ActionRedirectURL,
		ActionAddVariable, ActionSetVariable, ActionShowMessage:
		return true
	}
	return false
}

// NewCondition builds a validated condition. Invalid type/action
// combinations are rejected here so they cannot reach the evaluator.
func NewCondition(condType ConditionType, value string, action ActionType, actionValue string) (Condition, error) {
	if !ValidConditionType(condType) {
		return Condition{}, fmt.Errorf("%w: %q", ErrInvalidConditionType, condType)
	}
	if !ValidActionType(action) {
		return Condition{}, fmt.Errorf("%w: %q", ErrInvalidActionType, action)
	}
	return Condition{
		Type:        condType,
		Value:       value,
		Action:      action,
		ActionValue: actionValue,
	}, nil
}

// Validate checks a condition that was built by direct struct literal
// (e.g. decoded from storage or YAML).
func (c Condition) Validate() error {
	if !ValidConditionType(c.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidConditionType, c.Type)
	}
	if !ValidActionType(c.Action) {
		return fmt.Errorf("%w: %q", ErrInvalidActionType, c.Action)
	}
	return nil
}
