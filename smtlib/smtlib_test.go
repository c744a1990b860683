package smtlib_test

import (
	"testing"

	"github.com/jt05610/reach"
	"github.com/jt05610/reach/formula"
	"github.com/jt05610/reach/smtlib"
)

// One transition moving two tokens from p1 to one token on p2.
func swapNet() *reach.Net {
	n := reach.NewNet("")
	n.EnsurePlace("p1").Initial = 2
	n.EnsurePlace("p2")
	t1 := n.EnsureTransition("t1")
	t1.Pre["p1"] = 2
	t1.Post["p2"] = 1
	return n
}

func TestDeclarePlaces(t *testing.T) {
	want := "(declare-const p1@0 Int)\n" +
		"(assert (>= p1@0 0))\n" +
		"(declare-const p2@0 Int)\n" +
		"(assert (>= p2@0 0))\n"
	if got := smtlib.DeclarePlaces(swapNet(), 0); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDeclarePlacesUnindexed(t *testing.T) {
	want := "(declare-const p1 Int)\n" +
		"(assert (>= p1 0))\n" +
		"(declare-const p2 Int)\n" +
		"(assert (>= p2 0))\n"
	if got := smtlib.DeclarePlaces(swapNet(), smtlib.NoIndex); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestInitialMarking(t *testing.T) {
	want := "(assert (= p1@0 2))\n(assert (= p2@0 0))\n"
	if got := smtlib.InitialMarking(swapNet(), 0); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTransitionRelation(t *testing.T) {
	want := "(assert (and" +
		" (>= p1@0 2) (= p1@1 (- p1@0 2))" +
		" (= p2@1 (+ p2@0 1))" +
		"))\n"
	if got := smtlib.TransitionRelation(swapNet(), 0, 1); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTransitionRelationFrameAxioms(t *testing.T) {
	n := swapNet()
	n.EnsurePlace("p3").Initial = 1
	want := "(assert (and" +
		" (>= p1@0 2) (= p1@1 (- p1@0 2))" +
		" (= p2@1 (+ p2@0 1))" +
		" (= p3@1 p3@0)" +
		"))\n"
	if got := smtlib.TransitionRelation(n, 0, 1); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTransitionRelationDisjoins(t *testing.T) {
	n := swapNet()
	t2 := n.EnsureTransition("t2")
	t2.Pre["p2"] = 1
	t2.Post["p1"] = 1
	want := "(assert (or " +
		"(and (>= p1@0 2) (= p1@1 (- p1@0 2)) (= p2@1 (+ p2@0 1))) " +
		"(and (= p1@1 (+ p1@0 1)) (>= p2@0 1) (= p2@1 (- p2@0 1)))" +
		"))\n"
	if got := smtlib.TransitionRelation(n, 0, 1); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTransitionRelationEmptyNet(t *testing.T) {
	n := reach.NewNet("")
	n.EnsurePlace("p1")
	if got := smtlib.TransitionRelation(n, 0, 1); got != "(assert false)\n" {
		t.Errorf("expected an unsatisfiable relation, got %q", got)
	}
}

func TestDeclareFiringCounts(t *testing.T) {
	want := "(declare-const x@t1 Int)\n(assert (>= x@t1 0))\n"
	if got := smtlib.DeclareFiringCounts(swapNet()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStateEquation(t *testing.T) {
	want := "(assert (= p1 (+ 2 (* (- 2) x@t1))))\n" +
		"(assert (= p2 (+ 0 (* 1 x@t1))))\n"
	if got := smtlib.StateEquation(swapNet()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAssertFormula(t *testing.T) {
	f, err := formula.Parse("p2 >= 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := smtlib.AssertFormula(f, 2, false); got != "(assert (>= p2@2 1))\n" {
		t.Errorf("unexpected assertion %q", got)
	}
	if got := smtlib.AssertFormula(f, smtlib.NoIndex, true); got != "(assert (not (>= p2 1)))\n" {
		t.Errorf("unexpected assertion %q", got)
	}
}
