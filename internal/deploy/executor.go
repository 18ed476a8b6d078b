// Package deploy: executor boundary.
package deploy

import (
	"context"

	"github.com/skiffd/skiff/internal/remote"
)

// Executor is the remote execution surface the deploy components depend on.
// Satisfied by *remote.Runner; tests substitute a fake.
type Executor interface {
	// Test executes script and classifies the outcome with pred, never
	// returning an error.
	Test(ctx context.Context, script remote.Script, pred remote.Predicate, opts ...remote.Option) remote.Result

	// Run executes script and propagates transport failure as an error.
	Run(ctx context.Context, script remote.Script) (string, error)
}
