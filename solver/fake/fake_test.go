package fake_test

import (
	"errors"
	"testing"

	"github.com/jt05610/reach/solver"
	"github.com/jt05610/reach/solver/fake"
)

func TestReplaysScript(t *testing.T) {
	s := fake.New(solver.Unsat, solver.Sat)
	res, err := s.CheckSat()
	if err != nil || res != solver.Unsat {
		t.Fatalf("expected unsat, got %s (%v)", res, err)
	}
	res, err = s.CheckSat()
	if err != nil || res != solver.Sat {
		t.Fatalf("expected sat, got %s (%v)", res, err)
	}
	if s.Checks() != 2 {
		t.Errorf("expected 2 checks, got %d", s.Checks())
	}
}

func TestUnknownAborts(t *testing.T) {
	s := fake.New(solver.Unknown)
	if _, err := s.CheckSat(); !errors.Is(err, solver.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !s.Aborted() {
		t.Error("expected the solver marked aborted")
	}
	if err := s.Write("(check-sat)\n"); !errors.Is(err, solver.ErrAborted) {
		t.Errorf("expected writes poisoned, got %v", err)
	}
}

func TestHangsUntilKilled(t *testing.T) {
	s := fake.New()
	done := make(chan struct{})
	go func() {
		_, _ = s.CheckSat()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("expected check-sat to block with an exhausted script")
	default:
	}
	s.Kill()
	<-done
}

func TestTranscriptAndDepth(t *testing.T) {
	s := fake.New()
	if err := s.Push(); err != nil {
		t.Fatal(err)
	}
	if err := s.Write("(assert (> x 0))\n"); err != nil {
		t.Fatal(err)
	}
	if s.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", s.Depth())
	}
	if err := s.Pop(); err != nil {
		t.Fatal(err)
	}
	if s.Depth() != 0 {
		t.Errorf("expected depth 0, got %d", s.Depth())
	}
	want := "(push)\n(assert (> x 0))\n(pop)\n"
	if got := s.Transcript(); got != want {
		t.Errorf("expected transcript %q, got %q", want, got)
	}
}
