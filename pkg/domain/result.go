package domain

// NavigationResult is the outcome of resolving one question's conditions
// against an answer.
//
// Matched reports whether any condition fired at all. When it is false
// the navigation fields are not authoritative and the caller MUST fall
// back to sequential traversal (position + 1); the resolver only claims
// a destination when some condition actually matched.
type NavigationResult struct {
	// NextQuestionID is the explicit jump target, zero when none.
	NextQuestionID int `json:"next_question_id,omitempty"`

	// Terminate is set by skip_to_end: the session is complete.
	Terminate bool `json:"terminate,omitempty"`

	// RedirectURL is set by a matching redirect_url action.
	RedirectURL string `json:"redirect_url,omitempty"`

	// Variables is the mutated store after all matching actions ran.
	Variables Variables `json:"variables"`

	Matched bool `json:"matched"`
}

// StepOutcome is what Engine.Answer hands back to transports: the
// resolved navigation plus the sequential fallback already applied.
type StepOutcome struct {
	// NextQuestionID is the id of the question to show next, zero when
	// the form is complete or a redirect applies.
	NextQuestionID int `json:"next_question_id,omitempty"`

	// NextIndex is the sequential index of the next question when the
	// resolver did not pick an explicit target.
	NextIndex int `json:"next_index,omitempty"`

	// Jumped is true when a condition chose the destination, meaning
	// NextQuestionID (not NextIndex) identifies the next step.
	Jumped bool `json:"jumped,omitempty"`

	Completed   bool      `json:"completed,omitempty"`
	RedirectURL string    `json:"redirect_url,omitempty"`
	Variables   Variables `json:"variables"`
}
