package ports

import (
	"context"

	"github.com/formroute/formroute/pkg/domain"
)

// Renderer turns a question into a presentation payload. The engine only
// decides which question to render; the payload format is opaque to it.
type Renderer interface {
	RenderQuestion(ctx context.Context, q domain.Question, vars domain.Variables) (any, error)
}
