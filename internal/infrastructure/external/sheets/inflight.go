package sheets

import (
	"sync"

	"github.com/alga4school/katysym/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-FLIGHT GUARD
// ══════════════════════════════════════════════════════════════════════════════

// inflightGuard enforces the single-outstanding-request model: each
// user-triggered action issues at most one provider request at a time, and a
// second identical action while the first is pending is rejected rather than
// queued or retried.
type inflightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{active: make(map[string]struct{})}
}

// acquire reserves the action slot. Returns ErrRequestInFlight when the same
// action is already pending.
func (g *inflightGuard) acquire(action string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[action]; busy {
		return shared.WrapError("provider", action, shared.ErrRequestInFlight,
			"a request for this action is already pending", nil)
	}
	g.active[action] = struct{}{}
	return nil
}

// release frees the action slot.
func (g *inflightGuard) release(action string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, action)
}
