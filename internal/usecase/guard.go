package usecase

import "sync"

// SweepGuard prevents sweep runs from stacking up inside one process when a
// tick fires while the previous run is still going. It is advisory only:
// cross-process overlap is handled by the pending-claim conditional update,
// not by this guard.
type SweepGuard struct {
	mu   sync.Mutex
	held bool
}

// TryAcquire takes the guard, returning false when it is already held.
func (g *SweepGuard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held {
		return false
	}
	g.held = true
	return true
}

// Release frees the guard.
func (g *SweepGuard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.held = false
}

// Held reports the guard's current state.
func (g *SweepGuard) Held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held
}
