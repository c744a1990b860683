// Package env loads process configuration from the environment, with
// an optional .env file.
package env

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Environment struct {
	// Z3 is the solver binary to spawn.
	Z3 string
	// Timeout is the overall verification budget.
	Timeout time.Duration
	// Debug echoes the SMT-LIB traffic of every solver.
	Debug bool
}

const defaultTimeout = 225 * time.Second

// LoadEnv reads REACH_Z3, REACH_TIMEOUT and REACH_DEBUG, falling back
// to defaults; a .env file in the working directory is honored when
// present.
func LoadEnv(logger *zap.Logger) *Environment {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not read .env file", zap.Error(err))
	}

	e := &Environment{
		Z3:      "z3",
		Timeout: defaultTimeout,
	}
	if v, ok := os.LookupEnv("REACH_Z3"); ok {
		e.Z3 = v
	}
	if v, ok := os.LookupEnv("REACH_TIMEOUT"); ok {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			logger.Fatal("Failed to parse REACH_TIMEOUT", zap.String("value", v))
		}
		e.Timeout = time.Duration(seconds) * time.Second
	}
	if v, ok := os.LookupEnv("REACH_DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			logger.Fatal("Failed to parse REACH_DEBUG", zap.String("value", v))
		}
		e.Debug = debug
	}
	return e
}
