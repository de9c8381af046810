package domain

// QuestionRef addresses exactly one question for secure rendering:
// either by id (after a conditional jump) or by sequential index
// (normal forward progress).
type QuestionRef struct {
	ID    int
	Index int
	ByID  bool

	// Final hints that the id refers to a final-screen node, which are
	// held outside the sequential order and searched first.
	Final bool
}

// SecurePage is the gateway's answer: one question at most, plus enough
// positional context for the client to keep stepping without ever seeing
// the rest of the graph.
type SecurePage struct {
	Question Question `json:"question"`
	Index    int      `json:"index"`
	Last     bool     `json:"last"`

	// Completed is set when the requested index walked past the end of
	// the sequential questions. It is a terminal state, not an error.
	Completed bool `json:"completed"`
}
