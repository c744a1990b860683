package checker_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jt05610/reach"
	"github.com/jt05610/reach/checker"
	"github.com/jt05610/reach/formula"
	"github.com/jt05610/reach/solver"
	"github.com/jt05610/reach/solver/fake"
)

// One token on p1 and a single transition moving it to p2.
func hopNet(t *testing.T) (*reach.Net, formula.Expression) {
	t.Helper()
	n := reach.NewNet("hop")
	n.EnsurePlace("p1").Initial = 1
	n.EnsurePlace("p2")
	t1 := n.EnsureTransition("t1")
	t1.Pre["p1"] = 1
	t1.Post["p2"] = 1
	f, err := formula.Parse("p2 >= 1")
	if err != nil {
		t.Fatal(err)
	}
	return n, f
}

func TestBoundCell(t *testing.T) {
	c := checker.NewBoundCell()
	if _, ok := c.Get(); ok {
		t.Fatal("expected an empty cell")
	}
	c.Set(3)
	if v, ok := c.Get(); !ok || v != 3 {
		t.Fatalf("expected (3, true), got (%d, %v)", v, ok)
	}
	c.Set(1)
	if v, _ := c.Get(); v != 1 {
		t.Fatalf("expected the later bound to win, got %d", v)
	}
}

func TestBMCFindsWitness(t *testing.T) {
	n, f := hopNet(t)
	s := fake.New(solver.Unsat, solver.Sat)
	b := checker.NewBMC(n, f, s.Factory(), nil, nil)

	v, err := b.Prove(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v != reach.Reachable {
		t.Fatalf("expected REACHABLE, got %s", v)
	}
	if s.Checks() != 2 {
		t.Errorf("expected 2 check-sat queries, got %d", s.Checks())
	}

	transcript := s.Transcript()
	for _, want := range []string{
		"(declare-const p1@0 Int)",
		"(assert (= p1@0 1))",
		"(declare-const p2@1 Int)",
		"(assert (>= p2@0 1))",
		"(assert (>= p2@1 1))",
	} {
		if !strings.Contains(transcript, want) {
			t.Errorf("transcript missing %q", want)
		}
	}
}

func TestBMCStopsAtPublishedBound(t *testing.T) {
	n, f := hopNet(t)
	bound := checker.NewBoundCell()
	bound.Set(1)
	s := fake.New(solver.Unsat)
	b := checker.NewBMC(n, f, s.Factory(), bound, nil)

	v, err := b.Prove(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v != reach.NotReachable {
		t.Fatalf("expected NOT REACHABLE, got %s", v)
	}
	if s.Checks() != 1 {
		t.Errorf("expected 1 check-sat query, got %d", s.Checks())
	}
}

func TestBMCStopsWhenCancelled(t *testing.T) {
	n, f := hopNet(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := fake.New(solver.Unsat)
	b := checker.NewBMC(n, f, s.Factory(), nil, nil)

	_, err := b.Prove(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBMCSurfacesAbort(t *testing.T) {
	n, f := hopNet(t)
	s := fake.New(solver.Unknown)
	b := checker.NewBMC(n, f, s.Factory(), nil, nil)

	_, err := b.Prove(context.Background())
	if !errors.Is(err, solver.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestKInductionPublishesBound(t *testing.T) {
	n, f := hopNet(t)
	bound := checker.NewBoundCell()
	s := fake.New(solver.Sat, solver.Unsat)
	k := checker.NewKInduction(n, f, s.Factory(), bound, nil)

	_, err := k.Prove(context.Background())
	if !errors.Is(err, checker.ErrNoVerdict) {
		t.Fatalf("expected ErrNoVerdict, got %v", err)
	}
	if v, ok := bound.Get(); !ok || v != 2 {
		t.Fatalf("expected bound 2, got (%d, %v)", v, ok)
	}
	// The chain is anchored nowhere: the initial marking must never be
	// asserted.
	if strings.Contains(s.Transcript(), "(assert (= p1@0 1))") {
		t.Error("transcript pins the initial marking")
	}
}

func TestInductionBaseCase(t *testing.T) {
	n, f := hopNet(t)
	s := fake.New(solver.Sat)
	ind := checker.NewInduction(n, f, s.Factory(), nil)

	v, err := ind.Prove(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v != reach.Reachable {
		t.Fatalf("expected REACHABLE, got %s", v)
	}
}

func TestInductionInvariant(t *testing.T) {
	n, f := hopNet(t)
	s := fake.New(solver.Unsat, solver.Unsat)
	ind := checker.NewInduction(n, f, s.Factory(), nil)

	v, err := ind.Prove(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v != reach.NotReachable {
		t.Fatalf("expected NOT REACHABLE, got %s", v)
	}
	if !strings.Contains(s.Transcript(), "(assert (not (>= p2@0 1)))") {
		t.Error("transcript missing the negated invariant")
	}
}

func TestInductionNotInductive(t *testing.T) {
	n, f := hopNet(t)
	s := fake.New(solver.Unsat, solver.Sat)
	ind := checker.NewInduction(n, f, s.Factory(), nil)

	v, err := ind.Prove(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v != reach.Unknown {
		t.Fatalf("expected UNKNOWN, got %s", v)
	}
}

func TestStateEquationRefutes(t *testing.T) {
	n, f := hopNet(t)
	s := fake.New(solver.Unsat)
	se := checker.NewStateEquation(n, f, s.Factory(), nil)

	v, err := se.Prove(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v != reach.NotReachable {
		t.Fatalf("expected NOT REACHABLE, got %s", v)
	}
	transcript := s.Transcript()
	for _, want := range []string{
		"(declare-const p1 Int)",
		"(declare-const x@t1 Int)",
		"(assert (>= p2 1))",
	} {
		if !strings.Contains(transcript, want) {
			t.Errorf("transcript missing %q", want)
		}
	}
}

func TestStateEquationAdmitsSolution(t *testing.T) {
	n, f := hopNet(t)
	s := fake.New(solver.Sat)
	se := checker.NewStateEquation(n, f, s.Factory(), nil)

	v, err := se.Prove(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v != reach.Unknown {
		t.Fatalf("expected UNKNOWN, got %s", v)
	}
}
