package ports

import (
	"context"

	"github.com/formroute/formroute/pkg/domain"
)

// GraphStore is the persistence boundary for form graphs.
//
// SaveGraph must be atomic: it reconciles the incoming question set
// against stored state, assigns real ids to new nodes, rewrites
// goto_question targets that reference caller-supplied temporary ids,
// and removes orphaned nodes, all inside one transaction. A failure at
// any step leaves the stored graph untouched.
type GraphStore interface {
	// LoadGraph retrieves the full graph snapshot for a form.
	// Returns domain.ErrFormNotFound if the form does not exist.
	LoadGraph(ctx context.Context, formID int) (*domain.FormGraph, error)

	// SaveGraph persists the incoming question set for the form.
	// Incoming nodes may carry a real ID, a TempID, or neither.
	SaveGraph(ctx context.Context, formID int, incoming []domain.Question) error

	// LoadConditions returns the ordered condition list for one question.
	LoadConditions(ctx context.Context, questionID int) ([]domain.Condition, error)

	// SaveSubmission records a completed session's answers and variables.
	SaveSubmission(ctx context.Context, sub *domain.Submission) error
}
