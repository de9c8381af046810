package runtime

import (
	"fmt"

	"github.com/formroute/formroute/pkg/domain"
)

// SecureQuestion resolves one question from the graph without exposing
// any other node. Non-final questions form the sequential order; final
// screens are reachable only by explicit id.
func SecureQuestion(graph *domain.FormGraph, ref domain.QuestionRef) (*domain.SecurePage, error) {
	if !graph.SecureMode {
		return nil, domain.ErrSecureModeDisabled
	}

	normal := graph.Normal()

	if ref.ByID {
		if ref.Final {
			for _, q := range graph.FinalScreens() {
				if q.ID == ref.ID {
					return &domain.SecurePage{Question: q, Index: -1, Last: true}, nil
				}
			}
			return nil, fmt.Errorf("final screen %d: %w", ref.ID, domain.ErrQuestionNotFound)
		}
		for i, q := range normal {
			if q.ID == ref.ID {
				return &domain.SecurePage{Question: q, Index: i, Last: i == len(normal)-1}, nil
			}
		}
		return nil, fmt.Errorf("question %d: %w", ref.ID, domain.ErrQuestionNotFound)
	}

	if ref.Index < 0 {
		return nil, fmt.Errorf("question index %d: %w", ref.Index, domain.ErrQuestionNotFound)
	}
	if ref.Index >= len(normal) {
		// Walked past the last question: the form is complete.
		return &domain.SecurePage{Completed: true, Index: ref.Index}, nil
	}

	q := normal[ref.Index]
	return &domain.SecurePage{Question: q, Index: ref.Index, Last: ref.Index == len(normal)-1}, nil
}
