package serv

import "sync"

type (
	// Gate bounds how many submitted tasks run concurrently.
	// The zero value is not usable; construct with NewGate.
	Gate struct {
		mu    sync.Mutex
		cond  *sync.Cond
		count int
		max   int
	}
)

// NewGate returns a Gate admitting at most max concurrent tasks.
// A Gate with max == 0 blocks every Submit forever; callers must avoid it.
func NewGate(max int) *Gate {
	g := &Gate{max: max}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Submit blocks until a capacity unit is free, then runs task on its own
// goroutine and returns. The unit is released when task finishes, whether
// it returns or panics; a panic is contained and never reaches the caller.
// No wake order among blocked Submit calls is guaranteed.
func (g *Gate) Submit(task func()) {
	g.mu.Lock()
	for g.count >= g.max {
		g.cond.Wait()
	}
	g.count++
	g.mu.Unlock()
	go func() {
		defer g.release()
		defer func() {
			// Last line of containment. The server logs panics with a
			// stack before they get here; direct Gate users get the same
			// guarantee without the logging.
			_ = recover()
		}()
		task()
	}()
}

func (g *Gate) release() {
	g.mu.Lock()
	g.count--
	g.mu.Unlock()
	g.cond.Signal()
}

// InFlight reports how many tasks currently hold a capacity unit.
func (g *Gate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}
