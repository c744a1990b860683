package checker

import (
	"context"

	"go.uber.org/zap"

	"github.com/jt05610/reach"
	"github.com/jt05610/reach/formula"
	"github.com/jt05610/reach/smtlib"
	"github.com/jt05610/reach/solver"
)

// BMC searches for a firing sequence witnessing the formula,
// unrolling the transition relation one step per iteration. A sat
// answer at depth k is a length-k witness; reaching a bound published
// by K-Induction with every depth unsat proves the formula
// unreachable.
type BMC struct {
	net     *reach.Net
	formula formula.Expression
	factory solver.Factory
	bound   *BoundCell
	logger  *zap.Logger
}

func NewBMC(net *reach.Net, f formula.Expression, factory solver.Factory, bound *BoundCell, logger *zap.Logger) *BMC {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bound == nil {
		bound = NewBoundCell()
	}
	return &BMC{
		net:     net,
		formula: f,
		factory: factory,
		bound:   bound,
		logger:  logger.Named("bmc"),
	}
}

func (b *BMC) Name() string { return "BMC" }

func (b *BMC) Prove(ctx context.Context) (reach.Verdict, error) {
	s, err := b.factory()
	if err != nil {
		return reach.Unknown, err
	}
	defer s.Kill()

	b.logger.Info("running")

	if err := s.Write(smtlib.DeclarePlaces(b.net, 0)); err != nil {
		return reach.Unknown, err
	}
	if err := s.Write(smtlib.InitialMarking(b.net, 0)); err != nil {
		return reach.Unknown, err
	}

	for k := 0; ; k++ {
		if k > 0 {
			if err := s.Write(smtlib.DeclarePlaces(b.net, k)); err != nil {
				return reach.Unknown, err
			}
			if err := s.Write(smtlib.TransitionRelation(b.net, k-1, k)); err != nil {
				return reach.Unknown, err
			}
		}
		if err := s.Push(); err != nil {
			return reach.Unknown, err
		}
		if err := s.Write(smtlib.AssertFormula(b.formula, k, false)); err != nil {
			return reach.Unknown, err
		}

		res, err := s.CheckSat()
		if err != nil {
			return reach.Unknown, err
		}
		if res == solver.Sat {
			b.logger.Info("witness found", zap.Int("depth", k))
			return reach.Reachable, nil
		}

		// Depth k exhausted; K-Induction may already know that no
		// deeper trace can newly satisfy the formula.
		if bound, ok := b.bound.Get(); ok && k+1 >= bound {
			b.logger.Info("bound reached", zap.Int("depth", k), zap.Int("bound", bound))
			return reach.NotReachable, nil
		}
		if err := cancelled(ctx); err != nil {
			return reach.Unknown, err
		}
		if err := s.Pop(); err != nil {
			return reach.Unknown, err
		}
	}
}
