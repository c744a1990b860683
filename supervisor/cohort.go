package supervisor

import (
	"os"
	"sync"
)

// Cohort owns the solver process handles spawned during one run.
// Handles are registered at process creation, independent of the
// owning worker's lifecycle, so a solver stays reachable for forced
// termination even after its worker has exited.
type Cohort struct {
	mu     sync.Mutex
	procs  map[int]*os.Process
	killed bool
}

func NewCohort() *Cohort {
	return &Cohort{procs: make(map[int]*os.Process)}
}

// Register adds a live process handle. Registering into an already
// killed cohort terminates the process immediately.
func (c *Cohort) Register(p *os.Process) {
	if p == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.killed {
		_ = p.Kill()
		return
	}
	c.procs[p.Pid] = p
}

// KillAll terminates every registered process and marks the cohort
// killed. Idempotent.
func (c *Cohort) KillAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.killed = true
	for pid, p := range c.procs {
		_ = p.Kill()
		delete(c.procs, pid)
	}
}

// Size reports the number of live registered handles.
func (c *Cohort) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.procs)
}
