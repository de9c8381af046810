package memory

import (
	"context"
	"sync"

	"github.com/formroute/formroute/internal/remap"
	"github.com/formroute/formroute/pkg/domain"
)

// GraphStore implements ports.GraphStore in memory. It runs the same
// reconciliation/remapping algorithm as the durable stores, which makes
// it a faithful stand-in for engine tests and local development.
type GraphStore struct {
	mu     sync.RWMutex
	forms  map[int]*domain.FormGraph
	subs   []*domain.Submission
	nextID int
}

// NewGraphStore creates an empty in-memory graph store.
func NewGraphStore() *GraphStore {
	return &GraphStore{
		forms:  make(map[int]*domain.FormGraph),
		nextID: 1,
	}
}

// Seed installs a full graph snapshot, assigning ids to questions that
// lack one. Intended for tests and for loading YAML definitions.
func (s *GraphStore) Seed(graph *domain.FormGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := cloneGraph(graph)
	for i := range copied.Questions {
		if copied.Questions[i].ID == 0 {
			copied.Questions[i].ID = s.nextID
		}
		if copied.Questions[i].ID >= s.nextID {
			s.nextID = copied.Questions[i].ID + 1
		}
	}
	s.forms[copied.ID] = copied
}

// LoadGraph returns a snapshot of the stored form.
func (s *GraphStore) LoadGraph(ctx context.Context, formID int) (*domain.FormGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	graph, ok := s.forms[formID]
	if !ok {
		return nil, domain.ErrFormNotFound
	}
	return cloneGraph(graph), nil
}

// LoadConditions returns the ordered condition list for one question.
func (s *GraphStore) LoadConditions(ctx context.Context, questionID int) ([]domain.Condition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, graph := range s.forms {
		for _, q := range graph.Questions {
			if q.ID == questionID {
				out := make([]domain.Condition, len(q.Conditions))
				copy(out, q.Conditions)
				return out, nil
			}
		}
	}
	return nil, domain.ErrQuestionNotFound
}

// SaveGraph reconciles the incoming question set against stored state.
// The whole operation happens under one lock, so a failure cannot leave
// a partially updated graph behind.
func (s *GraphStore) SaveGraph(ctx context.Context, formID int, incoming []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, ok := s.forms[formID]
	if !ok {
		return domain.ErrFormNotFound
	}

	plan := remap.Build(graph.Questions, incoming)

	next := make([]domain.Question, 0, len(incoming))

	for _, q := range plan.Updates {
		next = append(next, q)
	}
	for _, q := range plan.Inserts {
		q.ID = s.nextID
		s.nextID++
		plan.Assign(q.TempID, q.ID)
		next = append(next, q)
	}

	// Rewrite temporary goto targets now that every node has a real id.
	for i := range next {
		next[i].TempID = ""
		next[i].Conditions = plan.Rewrite(next[i].Conditions)
	}

	graph.Questions = next
	return nil
}

// SaveSubmission records a completed session snapshot.
func (s *GraphStore) SaveSubmission(ctx context.Context, sub *domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	return nil
}

// Submissions returns the recorded submissions (test helper).
func (s *GraphStore) Submissions() []*domain.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Submission, len(s.subs))
	copy(out, s.subs)
	return out
}

func cloneGraph(g *domain.FormGraph) *domain.FormGraph {
	copied := *g
	copied.Questions = make([]domain.Question, len(g.Questions))
	copy(copied.Questions, g.Questions)
	for i, q := range copied.Questions {
		conds := make([]domain.Condition, len(q.Conditions))
		copy(conds, q.Conditions)
		copied.Questions[i].Conditions = conds
	}
	return &copied
}
