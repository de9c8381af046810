package middleware

import (
	"context"
	"regexp"

	"github.com/formroute/formroute/pkg/domain"
	"github.com/formroute/formroute/pkg/ports"
)

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks variables whose names
// match the patterns before the session is persisted. The in-memory
// session the engine works with is left untouched.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.Session) error {
	cloned := state.Clone()
	maskVariables(cloned.Variables, m.patterns)
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskVariables(vars domain.Variables, patterns []*regexp.Regexp) {
	for k := range vars {
		for _, p := range patterns {
			if p.MatchString(k) {
				vars[k] = "***"
				break
			}
		}
	}
}
