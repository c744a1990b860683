package supervisor_test

import (
	"os/exec"
	"testing"
	"time"

	"github.com/jt05610/reach/supervisor"
)

func TestCohortIgnoresNil(t *testing.T) {
	c := supervisor.NewCohort()
	c.Register(nil)
	if c.Size() != 0 {
		t.Fatalf("expected an empty cohort, got %d", c.Size())
	}
}

func TestCohortKillAll(t *testing.T) {
	cmd := exec.Command("sleep", "60")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start helper process: %s", err)
	}

	c := supervisor.NewCohort()
	c.Register(cmd.Process)
	if c.Size() != 1 {
		t.Fatalf("expected one registered process, got %d", c.Size())
	}

	c.KillAll()
	c.KillAll() // idempotent
	if c.Size() != 0 {
		t.Fatalf("expected an empty cohort after KillAll, got %d", c.Size())
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		if err == nil {
			t.Error("expected the process to die from the kill")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("process survived KillAll")
	}
}

func TestCohortKillsLateRegistrations(t *testing.T) {
	cmd := exec.Command("sleep", "60")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start helper process: %s", err)
	}

	c := supervisor.NewCohort()
	c.KillAll()
	c.Register(cmd.Process)
	if c.Size() != 0 {
		t.Fatalf("expected the late registration rejected, got size %d", c.Size())
	}
	if err := cmd.Wait(); err == nil {
		t.Error("expected the late registration killed immediately")
	}
}
