package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type cooldownEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// Cooldown suppresses repeated add-to-cart submissions for the same product
// within a short interval. It is a UX debounce, not a consistency mechanism.
// Entries idle for longer than the interval are pruned, so the map only holds
// products added recently.
type Cooldown struct {
	mu        sync.Mutex
	interval  time.Duration
	entries   map[int64]*cooldownEntry
	lastSweep time.Time
	now       func() time.Time
}

func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{
		interval: interval,
		entries:  make(map[int64]*cooldownEntry),
		now:      time.Now,
	}
}

// Allow reports whether the trigger for productID is enabled and, if so,
// starts its cooldown.
func (c *Cooldown) Allow(productID int64) bool {
	if c == nil || c.interval <= 0 {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweep(now)

	e, ok := c.entries[productID]
	if !ok {
		e = &cooldownEntry{limiter: rate.NewLimiter(rate.Every(c.interval), 1)}
		c.entries[productID] = e
	}
	e.lastUsed = now
	return e.limiter.AllowN(now, 1)
}

// sweep drops limiters idle for a full interval; their bucket has refilled,
// so a fresh limiter behaves the same. Runs at most once per interval.
func (c *Cooldown) sweep(now time.Time) {
	if now.Sub(c.lastSweep) < c.interval {
		return
	}
	c.lastSweep = now
	for id, e := range c.entries {
		if now.Sub(e.lastUsed) >= c.interval {
			delete(c.entries, id)
		}
	}
}

func (c *Cooldown) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
