package checker

import (
	"context"

	"go.uber.org/zap"

	"github.com/jt05610/reach"
	"github.com/jt05610/reach/formula"
	"github.com/jt05610/reach/smtlib"
	"github.com/jt05610/reach/solver"
)

// Induction checks whether the negated formula is an inductive
// invariant of the net: the initial marking avoids the formula and no
// single firing can move from a marking avoiding it to one satisfying
// it. One unrolling step, two check-sat queries, and a verdict either
// way - Unknown when the invariant simply is not inductive.
type Induction struct {
	net     *reach.Net
	formula formula.Expression
	factory solver.Factory
	logger  *zap.Logger
}

func NewInduction(net *reach.Net, f formula.Expression, factory solver.Factory, logger *zap.Logger) *Induction {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Induction{
		net:     net,
		formula: f,
		factory: factory,
		logger:  logger.Named("induction"),
	}
}

func (ind *Induction) Name() string { return "INDUCTION" }

func (ind *Induction) Prove(ctx context.Context) (reach.Verdict, error) {
	s, err := ind.factory()
	if err != nil {
		return reach.Unknown, err
	}
	defer s.Kill()

	ind.logger.Info("running")

	if err := s.Write(smtlib.DeclarePlaces(ind.net, 0)); err != nil {
		return reach.Unknown, err
	}

	// Base: does the initial marking itself satisfy the formula?
	if err := s.Push(); err != nil {
		return reach.Unknown, err
	}
	if err := s.Write(smtlib.InitialMarking(ind.net, 0)); err != nil {
		return reach.Unknown, err
	}
	if err := s.Write(smtlib.AssertFormula(ind.formula, 0, false)); err != nil {
		return reach.Unknown, err
	}
	res, err := s.CheckSat()
	if err != nil {
		return reach.Unknown, err
	}
	if res == solver.Sat {
		ind.logger.Info("formula holds initially")
		return reach.Reachable, nil
	}
	if err := cancelled(ctx); err != nil {
		return reach.Unknown, err
	}
	if err := s.Pop(); err != nil {
		return reach.Unknown, err
	}

	// Step: can one firing leave the invariant?
	if err := s.Write(smtlib.AssertFormula(ind.formula, 0, true)); err != nil {
		return reach.Unknown, err
	}
	if err := s.Write(smtlib.DeclarePlaces(ind.net, 1)); err != nil {
		return reach.Unknown, err
	}
	if err := s.Write(smtlib.TransitionRelation(ind.net, 0, 1)); err != nil {
		return reach.Unknown, err
	}
	if err := s.Write(smtlib.AssertFormula(ind.formula, 1, false)); err != nil {
		return reach.Unknown, err
	}
	res, err = s.CheckSat()
	if err != nil {
		return reach.Unknown, err
	}
	if res == solver.Unsat {
		ind.logger.Info("invariant is inductive")
		return reach.NotReachable, nil
	}
	ind.logger.Info("invariant is not inductive")
	return reach.Unknown, nil
}
