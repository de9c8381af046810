// Package middleware wraps a ports.SessionStore with cross-cutting
// persistence behavior such as encryption at rest and PII masking.
package middleware

import "github.com/formroute/formroute/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain applies middlewares right to left, so the first one listed sees
// the call first.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
