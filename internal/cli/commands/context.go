// Package commands provides the shared context type and all CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"time"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/core/config"
	"github.com/skiffd/skiff/internal/core/logger"
	"github.com/skiffd/skiff/internal/core/state"
	"github.com/skiffd/skiff/internal/deploy"
	"github.com/skiffd/skiff/internal/remote"
)

// contextKey is the key type for values stored in a command context.
type contextKey string

const runtimeContextKey contextKey = "skiff.runtime"

// GlobalFlags holds the parsed global flags for use by subcommands.
type GlobalFlags struct {
	Debug      bool
	JSONOutput bool
}

// Runtime is the shared dependency bundle injected into each subcommand via context.
type Runtime struct {
	Config *config.Config
	Log    *logger.Logger
	State  *state.DB
	Flags  GlobalFlags
}

// NewContext returns a new context carrying the Runtime.
func NewContext(parent context.Context, rt *Runtime) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, runtimeContextKey, rt)
}

// FromContext extracts the Runtime from ctx. Panics if not present (programming error).
func FromContext(ctx context.Context) *Runtime {
	rt, ok := ctx.Value(runtimeContextKey).(*Runtime)
	if !ok || rt == nil {
		panic("skiff: Runtime not found in context — missing PersistentPreRunE?")
	}
	return rt
}

// Session wires the SSH transport, executor, and registry for one command
// invocation. Callers must Close it to release the connection.
type Session struct {
	Transport *remote.SSHTransport
	Runner    *remote.Runner
	Registry  *deploy.Registry
}

// Close releases the session's SSH connection.
func (s *Session) Close() {
	s.Transport.Close()
}

// OpenSession builds a Session from the loaded configuration.
func (rt *Runtime) OpenSession() *Session {
	target := rt.Config.Target()
	tr := remote.NewSSHTransport(target, rt.State, rt.Log)
	runner := remote.NewRunner(tr, rt.Log)
	return &Session{
		Transport: tr,
		Runner:    runner,
		Registry:  deploy.NewRegistry(target, rt.Config.Services, runner, rt.Log),
	}
}

// RecordOp persists an operation record and emits an audit entry.
func (rt *Runtime) RecordOp(op, service, release string, started time.Time, success bool, errText string) {
	result := "success"
	if !success {
		result = "failure"
	}
	completed := time.Now().UTC()

	rec := v1.OpRecord{
		ID:          fmt.Sprintf("%s-%d", op, completed.UnixNano()),
		Op:          op,
		Service:     service,
		Release:     release,
		StartedAt:   started.UTC(),
		CompletedAt: completed,
		Result:      result,
		DurationMS:  completed.Sub(started.UTC()).Milliseconds(),
		Error:       errText,
	}
	if err := rt.State.PutOp(rec); err != nil {
		rt.Log.Warn("op record persist failed", "op", op, "err", err)
	}

	rt.Log.Audit(logger.AuditEntry{
		Timestamp: completed,
		Op:        op,
		Host:      rt.Config.Host.Address,
		Service:   service,
		Release:   release,
		Result:    result,
	})
}
