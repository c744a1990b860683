// Package supervisor races proof strategies against each other: one
// worker per selected strategy, each owning a private solver process,
// first verdict wins and cancels the rest.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jt05610/reach"
	"github.com/jt05610/reach/checker"
	"github.com/jt05610/reach/formula"
	"github.com/jt05610/reach/solver"
)

// Method names accepted by New.
const (
	BMC           = "BMC"
	KInduction    = "K-INDUCTION"
	Induction     = "INDUCTION"
	StateEquation = "STATE-EQUATION"
)

// Methods lists every selectable strategy.
var Methods = []string{StateEquation, Induction, BMC, KInduction}

// DefaultTimeout bounds a run when no explicit budget is given.
const DefaultTimeout = 225 * time.Second

// Factory builds the per-worker solver factory for a run, wiring
// each spawned process into the cohort.
type Factory func(c *Cohort) solver.Factory

type Supervisor struct {
	net     *reach.Net
	formula formula.Expression
	methods []string
	timeout time.Duration
	factory Factory
	logger  *zap.Logger
}

type Option func(*Supervisor)

func WithTimeout(d time.Duration) Option {
	return func(s *Supervisor) { s.timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Supervisor) { s.logger = logger }
}

// WithFactory overrides how worker solvers are built; tests use it to
// substitute scripted solvers.
func WithFactory(f Factory) Option {
	return func(s *Supervisor) { s.factory = f }
}

// New validates the method selection and prepares a run. Selecting
// K-INDUCTION force-selects BMC: k-induction only ever proves a
// bound, and BMC is the consumer that turns it into a verdict.
func New(net *reach.Net, f formula.Expression, methods []string, opts ...Option) (*Supervisor, error) {
	selected := make([]string, 0, len(methods))
	seen := make(map[string]bool)
	for _, m := range methods {
		switch m {
		case BMC, KInduction, Induction, StateEquation:
			if !seen[m] {
				selected = append(selected, m)
				seen[m] = true
			}
		default:
			return nil, fmt.Errorf("unknown method %q", m)
		}
	}
	if len(selected) == 0 {
		return nil, errors.New("no methods selected")
	}
	if seen[KInduction] && !seen[BMC] {
		selected = append(selected, BMC)
	}

	s := &Supervisor{
		net:     net,
		formula: f,
		methods: selected,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.factory == nil {
		s.factory = func(c *Cohort) solver.Factory {
			return func() (solver.Solver, error) {
				return solver.NewZ3(solver.WithRegistry(c.Register))
			}
		}
	}
	return s, nil
}

type result struct {
	worker  string
	method  string
	verdict reach.Verdict
	err     error
}

// Run races the selected strategies and returns the first verdict.
// The boolean is false when the time budget elapsed or every worker
// exited without a verdict.
func (s *Supervisor) Run(ctx context.Context) (reach.Verdict, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cohort := NewCohort()
	defer cohort.KillAll()

	bound := checker.NewBoundCell()
	factory := s.factory(cohort)

	checkers := make([]checker.Checker, 0, len(s.methods))
	for _, m := range s.methods {
		switch m {
		case BMC:
			checkers = append(checkers, checker.NewBMC(s.net, s.formula, factory, bound, s.logger))
		case KInduction:
			checkers = append(checkers, checker.NewKInduction(s.net, s.formula, factory, bound, s.logger))
		case Induction:
			checkers = append(checkers, checker.NewInduction(s.net, s.formula, factory, s.logger))
		case StateEquation:
			checkers = append(checkers, checker.NewStateEquation(s.net, s.formula, factory, s.logger))
		}
	}

	// Buffered so a late worker can always deliver and exit; stale
	// verdicts are simply never read.
	results := make(chan result, len(checkers))
	for _, c := range checkers {
		go func(c checker.Checker) {
			worker := uuid.NewString()
			logger := s.logger.With(zap.String("worker", worker), zap.String("method", c.Name()))
			logger.Info("worker started")
			v, err := c.Prove(ctx)
			logger.Info("worker finished", zap.Error(err))
			results <- result{worker: worker, method: c.Name(), verdict: v, err: err}
		}(c)
	}

	pending := len(checkers)
	for pending > 0 {
		select {
		case r := <-results:
			pending--
			if r.err != nil {
				// A lost racer: aborted solver, no-verdict strategy,
				// or cancellation. Silence, not a wrong answer.
				continue
			}
			s.logger.Info("verdict",
				zap.String("method", r.method),
				zap.Stringer("verdict", r.verdict))
			cancel()
			cohort.KillAll()
			return r.verdict, true
		case <-ctx.Done():
			cohort.KillAll()
			return reach.Unknown, false
		}
	}
	return reach.Unknown, false
}
