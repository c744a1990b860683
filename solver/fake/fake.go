// Package fake provides a scripted in-memory solver for exercising
// proof strategies without a z3 binary.
package fake

import (
	"strings"
	"sync"

	"github.com/jt05610/reach/solver"
)

// Solver replays a fixed script of check-sat results and records
// every query written to it. A solver whose script runs out, or whose
// Hang flag is set, blocks on check-sat until killed, imitating a
// backend that never answers.
type Solver struct {
	Hang bool

	mu      sync.Mutex
	script  []solver.Result
	writes  []string
	checks  int
	depth   int
	aborted bool
	killed  chan struct{}
	once    sync.Once
}

func New(script ...solver.Result) *Solver {
	return &Solver{script: script, killed: make(chan struct{})}
}

// Factory wraps the fake in a solver.Factory handing out this exact
// instance.
func (s *Solver) Factory() solver.Factory {
	return func() (solver.Solver, error) { return s, nil }
}

func (s *Solver) Write(input string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.aborted {
		return solver.ErrAborted
	}
	s.writes = append(s.writes, input)
	return nil
}

func (s *Solver) ReadLine() (string, error) {
	if s.Aborted() {
		return "", solver.ErrAborted
	}
	return "", nil
}

func (s *Solver) Push() error { s.bump(1); return s.Write("(push)\n") }

func (s *Solver) Pop() error { s.bump(-1); return s.Write("(pop)\n") }

func (s *Solver) Reset() error { return s.Write("(reset)\n") }

func (s *Solver) CheckSat() (solver.Result, error) {
	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		return solver.Unknown, solver.ErrAborted
	}
	if s.Hang || s.checks >= len(s.script) {
		s.mu.Unlock()
		<-s.killed
		return solver.Unknown, solver.ErrAborted
	}
	res := s.script[s.checks]
	s.checks++
	s.mu.Unlock()

	if res == solver.Unknown {
		s.Abort()
		return solver.Unknown, solver.ErrAborted
	}
	return res, nil
}

func (s *Solver) Abort() {
	s.mu.Lock()
	s.aborted = true
	s.mu.Unlock()
	s.Kill()
}

func (s *Solver) Kill() {
	s.once.Do(func() { close(s.killed) })
}

func (s *Solver) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

// Checks reports how many check-sat queries were answered.
func (s *Solver) Checks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checks
}

// Depth reports the current push/pop nesting.
func (s *Solver) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depth
}

// Transcript joins everything written to the solver.
func (s *Solver) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.writes, "")
}

func (s *Solver) bump(d int) {
	s.mu.Lock()
	s.depth += d
	s.mu.Unlock()
}
