package solver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Z3 talks SMT-LIB v2 to a z3 process through its standard streams.
// Any backend speaking the same line protocol can be substituted by
// pointing Path at it.
type Z3 struct {
	cmd     *exec.Cmd
	stdin   io.Closer
	in      *bufio.Writer
	out     *bufio.Reader
	aborted bool
	debug   bool
	logger  *zap.Logger
}

type z3Config struct {
	path     string
	timeout  int
	debug    bool
	logger   *zap.Logger
	register func(*os.Process)
}

type Z3Option func(*z3Config)

// WithPath sets the solver binary (default z3).
func WithPath(path string) Z3Option {
	return func(c *z3Config) { c.path = path }
}

// WithTimeout bounds each check-sat, in seconds, via z3's -T flag.
func WithTimeout(seconds int) Z3Option {
	return func(c *z3Config) { c.timeout = seconds }
}

// WithDebug echoes every query and response through the logger.
func WithDebug(debug bool) Z3Option {
	return func(c *z3Config) { c.debug = debug }
}

func WithLogger(logger *zap.Logger) Z3Option {
	return func(c *z3Config) { c.logger = logger }
}

// WithRegistry publishes the spawned process handle as soon as it
// exists, so a supervisor can force-terminate the solver even after
// the owning worker is gone.
func WithRegistry(register func(*os.Process)) Z3Option {
	return func(c *z3Config) { c.register = register }
}

// NewZ3 spawns the solver process.
func NewZ3(opts ...Z3Option) (*Z3, error) {
	cfg := z3Config{path: "z3", logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	args := []string{"-in"}
	if cfg.timeout > 0 {
		args = append(args, fmt.Sprintf("-T:%d", cfg.timeout))
	}
	cmd := exec.Command(cfg.path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cfg.path, err)
	}
	if cfg.register != nil {
		cfg.register(cmd.Process)
	}
	return &Z3{
		cmd:    cmd,
		stdin:  stdin,
		in:     bufio.NewWriter(stdin),
		out:    bufio.NewReader(stdout),
		debug:  cfg.debug,
		logger: cfg.logger.Named("z3"),
	}, nil
}

func (z *Z3) Write(input string) error {
	if z.aborted {
		return ErrAborted
	}
	if input == "" {
		return nil
	}
	if z.debug {
		z.logger.Debug("query", zap.String("input", input))
	}
	if _, err := z.in.WriteString(input); err != nil {
		z.Abort()
		return ErrAborted
	}
	return nil
}

func (z *Z3) flush() error {
	if z.aborted {
		return ErrAborted
	}
	if err := z.in.Flush(); err != nil {
		z.Abort()
		return ErrAborted
	}
	return nil
}

func (z *Z3) ReadLine() (string, error) {
	if z.aborted {
		return "", ErrAborted
	}
	line, err := z.out.ReadString('\n')
	if err != nil && line == "" {
		z.Abort()
		return "", ErrAborted
	}
	line = strings.TrimSpace(line)
	if z.debug {
		z.logger.Debug("response", zap.String("output", line))
	}
	return line, nil
}

func (z *Z3) Push() error { return z.Write("(push)\n") }

func (z *Z3) Pop() error { return z.Write("(pop)\n") }

func (z *Z3) Reset() error { return z.Write("(reset)\n") }

func (z *Z3) CheckSat() (Result, error) {
	if err := z.Write("(check-sat)\n"); err != nil {
		return Unknown, err
	}
	if err := z.flush(); err != nil {
		return Unknown, err
	}
	line, err := z.ReadLine()
	if err != nil {
		return Unknown, err
	}
	switch line {
	case "sat":
		return Sat, nil
	case "unsat":
		return Unsat, nil
	}
	// A definite answer was required; anything else poisons the
	// solver so the owning strategy exits without a verdict.
	z.Abort()
	return Unknown, ErrAborted
}

func (z *Z3) Abort() {
	if z.aborted {
		return
	}
	z.logger.Warn("solver process aborted")
	z.aborted = true
	z.Kill()
}

func (z *Z3) Kill() {
	_ = z.stdin.Close()
	if z.cmd.Process != nil {
		_ = z.cmd.Process.Kill()
	}
	go func() {
		_ = z.cmd.Wait()
	}()
}

func (z *Z3) Aborted() bool { return z.aborted }
