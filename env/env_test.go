package env_test

import (
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jt05610/reach/env"
)

// unsetenv clears key for the duration of the test; t.Setenv alone
// leaves the variable present with an empty value.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatal(err)
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	for _, key := range []string{"REACH_Z3", "REACH_TIMEOUT", "REACH_DEBUG"} {
		unsetenv(t, key)
	}

	e := env.LoadEnv(zap.NewNop())
	if e.Z3 != "z3" {
		t.Errorf("expected default solver z3, got %q", e.Z3)
	}
	if e.Timeout != 225*time.Second {
		t.Errorf("expected default timeout 225s, got %s", e.Timeout)
	}
	if e.Debug {
		t.Error("expected debug off by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REACH_Z3", "/opt/z3/bin/z3")
	t.Setenv("REACH_TIMEOUT", "60")
	t.Setenv("REACH_DEBUG", "true")

	e := env.LoadEnv(zap.NewNop())
	if e.Z3 != "/opt/z3/bin/z3" {
		t.Errorf("unexpected solver path %q", e.Z3)
	}
	if e.Timeout != 60*time.Second {
		t.Errorf("expected timeout 60s, got %s", e.Timeout)
	}
	if !e.Debug {
		t.Error("expected debug on")
	}
}
