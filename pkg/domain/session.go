package domain

// Session captures one respondent's progress through a form: the mutable
// variable store plus every answer given so far.
type Session struct {
	ID     string `json:"id"`
	FormID int    `json:"form_id"`

	Variables Variables `json:"variables"`

	// Answers maps question id to the submitted answer text.
	Answers map[int]string `json:"answers"`

	// Steps counts resolver calls for this session. The engine uses it
	// as a budget to break goto cycles.
	Steps int `json:"steps"`
}

// NewSession creates a clean session for a form.
func NewSession(id string, formID int) *Session {
	return &Session{
		ID:        id,
		FormID:    formID,
		Variables: NewVariables(),
		Answers:   make(map[int]string),
	}
}

// Clone returns an independent copy safe for mutation.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Variables = s.Variables.Clone()
	next.Answers = make(map[int]string, len(s.Answers))
	for k, v := range s.Answers {
		next.Answers[k] = v
	}
	return &next
}
