// Package remote executes shell scripts on the deployment target over SSH.
// Every deploy operation is ultimately one invocation of Test or Run; the
// remote shell itself provides ordering and short-circuit-on-failure
// guarantees for multi-line scripts executed under set -e.
package remote

import "strings"

// Script is an ordered sequence of shell lines executed as one remote
// invocation, so set -e semantics and shell variables span the whole script.
type Script []string

// Line wraps a single command line as a Script.
func Line(cmd string) Script {
	return Script{cmd}
}

// String joins the script lines with newlines for transmission.
func (s Script) String() string {
	return strings.Join(s, "\n")
}

// Result is the structured outcome of a Test invocation. It is returned
// instead of an error for operations whose failure is an expected, handled
// outcome.
type Result struct {
	Stdout  string
	Stderr  string
	Success bool
}

// Predicate classifies a Result as success or failure. Every Test call names
// its predicate explicitly; there is no implicit default.
type Predicate func(Result) bool

// StderrEmpty reports success iff the command produced no standard error.
func StderrEmpty(r Result) bool {
	return r.Stderr == ""
}

// AlwaysOK accepts any outcome. Used where the command's effects are
// best-effort and output is informational only.
func AlwaysOK(Result) bool {
	return true
}

// GuardEchoed returns a predicate requiring the guard string in stdout and an
// empty stderr, positively confirming every preceding script step executed.
func GuardEchoed(guard string) Predicate {
	return func(r Result) bool {
		return strings.Contains(r.Stdout, guard) && r.Stderr == ""
	}
}
