// Package middleware wraps a session store with at-rest behavior:
// encryption of the stored session and masking of sensitive answers.
// Middlewares compose; the engine never sees them.
package middleware

import "github.com/counciltech/intake/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain applies middlewares so that the first one listed is outermost.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
