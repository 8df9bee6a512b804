// Package middleware provides composable wrappers around a RunStore:
// cross-cutting persistence behavior that no single adapter should own.
package middleware

import "github.com/aretw0/burette/pkg/ports"

// Middleware allows wrapping a RunStore to add behavior.
type Middleware func(ports.RunStore) ports.RunStore

// Chain applies middlewares so the first listed is the outermost.
func Chain(store ports.RunStore, middlewares ...Middleware) ports.RunStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
