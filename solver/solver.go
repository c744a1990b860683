// Package solver drives an external SMT-LIB v2 decision procedure
// over a textual pipe protocol.
package solver

import "errors"

// ErrAborted is returned by every operation after the underlying
// process has been aborted. A strategy receiving it must exit without
// a verdict.
var ErrAborted = errors.New("solver aborted")

// Result classifies a check-sat response.
type Result int

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Solver is the capability surface a proof strategy needs from a
// decision procedure. Implementations own exactly one external
// process; they are not safe for concurrent use and are not meant to
// be shared between strategies.
type Solver interface {
	// Write sends raw protocol text.
	Write(input string) error

	// ReadLine reads one response line.
	ReadLine() (string, error)

	// Push saves the current assertion-stack height.
	Push() error

	// Pop discards everything asserted since the matching Push.
	// Unbalanced pops are a caller error.
	Pop() error

	// Reset erases all assertions and declarations.
	Reset() error

	// CheckSat flushes pending writes and classifies the response.
	// Anything other than sat or unsat aborts the solver.
	CheckSat() (Result, error)

	// Abort kills the process and poisons the solver; every later
	// operation returns ErrAborted.
	Abort()

	// Kill terminates the process. Idempotent, safe after Abort.
	Kill()

	// Aborted reports whether the solver has been aborted.
	Aborted() bool
}

// Factory builds a fresh solver. Each strategy worker calls it once
// and owns the result.
type Factory func() (Solver, error)
