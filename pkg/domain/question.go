package domain

// Question represents one step in a form.
//
// IDs are stable integers once persisted. Before the first save a node may
// instead carry a caller-chosen TempID; the graph store assigns a real id
// during the save transaction and rewrites any condition that referenced
// the temporary token.
type Question struct {
	ID int `json:"id,omitempty" yaml:"id,omitempty"`

	// TempID is a placeholder identifier for a node that has not been
	// persisted yet. It is meaningful only inside a single save call.
	TempID string `json:"temp_id,omitempty" yaml:"temp_id,omitempty"`

	// Position defines sequential traversal order among non-final
	// questions. Final screens carry no position semantics.
	Position int `json:"position" yaml:"position"`

	// FinalScreen excludes the node from sequential traversal; it is
	// reachable only via an explicit goto_question.
	FinalScreen bool `json:"final_screen,omitempty" yaml:"final_screen,omitempty"`

	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Payload is the rendering content. The engine never interprets it;
	// it is also the fallback matching key when an edited node arrives
	// without its id.
	Payload string `json:"payload" yaml:"payload"`

	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// FormGraph is a read-only snapshot of a form: its questions plus the
// title/metadata block. The graph store owns it exclusively during a save.
type FormGraph struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`

	// SecureMode gates the single-question gateway. When false the
	// gateway refuses and callers must render the whole form.
	SecureMode bool `json:"secure_mode,omitempty" yaml:"secure_mode,omitempty"`

	// DefaultRedirect is the fallback destination when no redirect_url
	// condition matched at completion time.
	DefaultRedirect string `json:"default_redirect,omitempty" yaml:"default_redirect,omitempty"`

	Questions []Question `json:"questions" yaml:"questions"`
}

// Normal returns the non-final questions in ascending position order.
// The slice is freshly allocated; mutating it does not touch the graph.
func (g *FormGraph) Normal() []Question {
	out := make([]Question, 0, len(g.Questions))
	for _, q := range g.Questions {
		if !q.FinalScreen {
			out = append(out, q)
		}
	}
	sortQuestionsByPosition(out)
	return out
}

// FinalScreens returns the out-of-band final screen nodes.
func (g *FormGraph) FinalScreens() []Question {
	var out []Question
	for _, q := range g.Questions {
		if q.FinalScreen {
			out = append(out, q)
		}
	}
	return out
}

// QuestionByID finds a question by its persistent id.
func (g *FormGraph) QuestionByID(id int) (Question, bool) {
	for _, q := range g.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func sortQuestionsByPosition(qs []Question) {
	// Insertion sort keeps equal positions in insertion order, which is
	// the tie-break rule for traversal.
	for i := 1; i < len(qs); i++ {
		for j := i; j > 0 && qs[j].Position < qs[j-1].Position; j-- {
			qs[j], qs[j-1] = qs[j-1], qs[j]
		}
	}
}
