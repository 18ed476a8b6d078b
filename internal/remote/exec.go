// Package remote: the executor entry points — Test (never raises) and Run
// (propagates transport failure).
package remote

import (
	"context"
	"fmt"
	"io"

	"github.com/skiffd/skiff/internal/core/logger"
)

// Transport delivers one script to the remote shell and returns the captured
// streams. Implementations must leave stdout/stderr intact on error so the
// caller can classify partial output.
type Transport interface {
	Exec(ctx context.Context, script string, stdin io.Reader) (stdout, stderr string, err error)
}

// Runner is the remote executor. It holds no deployment state; every call is
// a fresh remote shell invocation.
type Runner struct {
	tr  Transport
	log *logger.Logger
}

// NewRunner constructs a Runner on top of a Transport.
func NewRunner(tr Transport, log *logger.Logger) *Runner {
	return &Runner{tr: tr, log: log}
}

// callOptions holds per-call options.
type callOptions struct {
	stdin io.Reader
}

// Option adjusts a single Test invocation.
type Option func(*callOptions)

// WithStdin pipes r to the remote command's standard input. Used for the
// upload-then-write pattern, e.g. piping a unit file body to a privileged tee.
func WithStdin(r io.Reader) Option {
	return func(o *callOptions) {
		o.stdin = r
	}
}

// Test executes the script and classifies the outcome with pred, never
// returning an error. On transport failure the captured streams are kept; if
// no stderr was produced, the transport error text stands in for it.
func (r *Runner) Test(ctx context.Context, script Script, pred Predicate, opts ...Option) Result {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	stdout, stderr, err := r.tr.Exec(ctx, script.String(), o.stdin)
	if err != nil && stderr == "" {
		stderr = err.Error()
	}

	res := Result{Stdout: stdout, Stderr: stderr}
	res.Success = pred(res)

	if r.log != nil {
		r.log.Debug("remote.test", "lines", len(script), "success", res.Success)
	}
	return res
}

// Run executes the script and propagates transport failure as an error. Used
// where the caller wants to branch with ordinary control flow.
func (r *Runner) Run(ctx context.Context, script Script) (string, error) {
	stdout, stderr, err := r.tr.Exec(ctx, script.String(), nil)
	if err != nil {
		if stderr != "" {
			return stdout, fmt.Errorf("remote command failed: %w: %s", err, stderr)
		}
		return stdout, fmt.Errorf("remote command failed: %w", err)
	}
	return stdout, nil
}
