package checker

import (
	"context"

	"go.uber.org/zap"

	"github.com/jt05610/reach"
	"github.com/jt05610/reach/formula"
	"github.com/jt05610/reach/smtlib"
	"github.com/jt05610/reach/solver"
)

// KInduction looks for the smallest j at which the inductive step is
// unsatisfiable: a chain of j firings starting from any marking that
// avoids the formula for its first j frames cannot end in a marking
// satisfying it. Such a j bounds how deep BMC has to unroll, so the
// strategy never produces a verdict itself; it publishes j through
// the shared bound cell and exits.
//
// After Sheeran, Singh and Stalmarck, FMCAD 2000, adapted to Petri
// nets.
type KInduction struct {
	net     *reach.Net
	formula formula.Expression
	factory solver.Factory
	bound   *BoundCell
	logger  *zap.Logger
}

func NewKInduction(net *reach.Net, f formula.Expression, factory solver.Factory, bound *BoundCell, logger *zap.Logger) *KInduction {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bound == nil {
		bound = NewBoundCell()
	}
	return &KInduction{
		net:     net,
		formula: f,
		factory: factory,
		bound:   bound,
		logger:  logger.Named("k-induction"),
	}
}

func (k *KInduction) Name() string { return "K-INDUCTION" }

func (k *KInduction) Prove(ctx context.Context) (reach.Verdict, error) {
	s, err := k.factory()
	if err != nil {
		return reach.Unknown, err
	}
	defer s.Kill()

	k.logger.Info("running")

	// The chain starts from an arbitrary marking: places at frame 0
	// are declared but the initial marking is never asserted.
	if err := s.Write(smtlib.DeclarePlaces(k.net, 0)); err != nil {
		return reach.Unknown, err
	}

	for i := 0; ; i++ {
		if err := s.Write(smtlib.AssertFormula(k.formula, i, true)); err != nil {
			return reach.Unknown, err
		}
		if err := s.Write(smtlib.DeclarePlaces(k.net, i+1)); err != nil {
			return reach.Unknown, err
		}
		if err := s.Write(smtlib.TransitionRelation(k.net, i, i+1)); err != nil {
			return reach.Unknown, err
		}
		if err := s.Push(); err != nil {
			return reach.Unknown, err
		}
		if err := s.Write(smtlib.AssertFormula(k.formula, i+1, false)); err != nil {
			return reach.Unknown, err
		}

		res, err := s.CheckSat()
		if err != nil {
			return reach.Unknown, err
		}
		if res == solver.Unsat {
			k.logger.Info("inductive step closed", zap.Int("bound", i+1))
			k.bound.Set(i + 1)
			return reach.Unknown, ErrNoVerdict
		}
		if err := cancelled(ctx); err != nil {
			return reach.Unknown, err
		}
		if err := s.Pop(); err != nil {
			return reach.Unknown, err
		}
	}
}
