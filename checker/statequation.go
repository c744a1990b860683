package checker

import (
	"context"

	"go.uber.org/zap"

	"github.com/jt05610/reach"
	"github.com/jt05610/reach/formula"
	"github.com/jt05610/reach/smtlib"
	"github.com/jt05610/reach/solver"
)

// StateEquation relaxes reachability to the net's state equation: a
// marking is reachable only if some non-negative firing-count vector
// produces it from the initial marking, ignoring firing order. One
// check-sat over unindexed variables; unsat refutes reachability,
// sat proves nothing.
type StateEquation struct {
	net     *reach.Net
	formula formula.Expression
	factory solver.Factory
	logger  *zap.Logger
}

func NewStateEquation(net *reach.Net, f formula.Expression, factory solver.Factory, logger *zap.Logger) *StateEquation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateEquation{
		net:     net,
		formula: f,
		factory: factory,
		logger:  logger.Named("state-equation"),
	}
}

func (se *StateEquation) Name() string { return "STATE-EQUATION" }

func (se *StateEquation) Prove(ctx context.Context) (reach.Verdict, error) {
	s, err := se.factory()
	if err != nil {
		return reach.Unknown, err
	}
	defer s.Kill()

	se.logger.Info("running")

	if err := s.Write(smtlib.DeclarePlaces(se.net, smtlib.NoIndex)); err != nil {
		return reach.Unknown, err
	}
	if err := s.Write(smtlib.DeclareFiringCounts(se.net)); err != nil {
		return reach.Unknown, err
	}
	if err := s.Write(smtlib.StateEquation(se.net)); err != nil {
		return reach.Unknown, err
	}
	if err := s.Write(smtlib.AssertFormula(se.formula, smtlib.NoIndex, false)); err != nil {
		return reach.Unknown, err
	}
	if err := cancelled(ctx); err != nil {
		return reach.Unknown, err
	}

	res, err := s.CheckSat()
	if err != nil {
		return reach.Unknown, err
	}
	if res == solver.Unsat {
		se.logger.Info("state equation infeasible")
		return reach.NotReachable, nil
	}
	se.logger.Info("state equation admits a solution")
	return reach.Unknown, nil
}
