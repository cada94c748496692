package zstdadapter

import (
	"sync"
	"time"
)

// reapInterval is the fixed idle interval after which Reap is willing to
// free a pool's contexts, matching spec.md §4.D/§9.
const reapInterval = 15 * time.Second

// Pool is a thread-safe elastic free-list of codec working contexts. It
// lends out contexts on Grab and reclaims them on Ungrab, growing on
// demand and reaping idle contexts after a quiescent interval.
//
// The slot array doubles as both the free-list and the set of in-flight
// borrows: a nil entry is a "hole" marking a context currently lent out.
// This lets Grab/Ungrab avoid a separate in-use set, at the cost of Reap
// having to refuse whenever any slot is nil.
type Pool struct {
	mu         sync.Mutex
	name       string
	slots      []any
	lastAccess time.Time

	newCtx   func() (any, error)
	resetCtx func(any)
	closeCtx func(any)

	stats  *Stats
	ledger *allocLedger
}

// NewPool prepares an empty, named pool. newCtx allocates a fresh context,
// resetCtx performs the lightweight per-checkout reset (not a full session
// reset), and closeCtx destroys a context. stats and ledger feed the
// pool_bufs/pool_bytes gauges.
func NewPool(name string, newCtx func() (any, error), resetCtx, closeCtx func(any), stats *Stats, ledger *allocLedger) *Pool {
	return &Pool{
		name:       name,
		lastAccess: time.Now(),
		newCtx:     newCtx,
		resetCtx:   resetCtx,
		closeCtx:   closeCtx,
		stats:      stats,
		ledger:     ledger,
	}
}

// Grab lends a context to the caller, or nil if newCtx failed. Callers
// must treat a nil return as "compression disabled for this block", not as
// an error to propagate.
func (p *Pool) Grab() any {
	p.mu.Lock()
	for i, c := range p.slots {
		if c != nil {
			p.slots[i] = nil
			p.lastAccess = time.Now()
			// The mutex is held across reset_fn deliberately: it is the
			// one lightweight, bounded exception to "never hold the lock
			// across a context operation".
			p.resetCtx(c)
			p.mu.Unlock()
			return c
		}
	}
	p.mu.Unlock()

	c, err := p.newCtx()
	if err != nil || c == nil {
		p.stats.Bump(StatAllocFailed)
		return nil
	}
	p.ledger.recordAlloc(p.stats)

	// Grow the slot array by one hole for this new borrow. In Go this
	// cannot fail short of the runtime aborting on OOM, so unlike the
	// pointer-array original there is no distinct "growth failed, return
	// the context anyway" branch to implement — append always succeeds
	// or the program is already dying.
	p.mu.Lock()
	p.slots = append(p.slots, nil)
	p.lastAccess = time.Now()
	p.mu.Unlock()

	return c
}

// Ungrab returns a context to the pool. If every slot is occupied by a
// live context (no hole is open, e.g. concurrent borrows are racing to
// return at once), the context is destroyed instead of queued.
func (p *Pool) Ungrab(c any) {
	p.mu.Lock()
	for i, s := range p.slots {
		if s == nil {
			p.slots[i] = c
			p.lastAccess = time.Now()
			p.mu.Unlock()
			return
		}
	}
	p.lastAccess = time.Now()
	p.mu.Unlock()

	p.closeCtx(c)
	p.ledger.recordFree(p.stats)
}

// Reap frees every pooled context if the pool has been idle longer than
// reapInterval and no borrow is currently outstanding. It is a no-op
// otherwise, including while any borrow is in flight.
func (p *Pool) Reap() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.lastAccess) < reapInterval {
		return
	}
	p.clearUnusedLocked()
}

// clearUnusedLocked is the internal "clear unused" routine: it refuses to
// free anything unless every slot holds a live context, since a nil slot
// represents an outstanding borrow whose backing array entry would
// otherwise be invalidated out from under it.
func (p *Pool) clearUnusedLocked() {
	for _, c := range p.slots {
		if c == nil {
			return
		}
	}
	for _, c := range p.slots {
		p.closeCtx(c)
		p.ledger.recordFree(p.stats)
	}
	p.slots = p.slots[:0]
	p.lastAccess = time.Now()
}

// Destroy frees every context unconditionally. Callers must have drained
// all outstanding borrows first; Destroy does not check for holes.
func (p *Pool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range p.slots {
		if c != nil {
			p.closeCtx(c)
			p.ledger.recordFree(p.stats)
		}
	}
	p.slots = nil
}
