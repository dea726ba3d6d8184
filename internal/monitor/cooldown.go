package monitor

import "time"

// DefaultCooldown is the minimum spacing between generated responses.
const DefaultCooldown = 30 * time.Second

// Cooldown enforces a minimum interval between responses regardless of how
// many qualifying messages arrive. Single writer, no locking needed.
type Cooldown struct {
	period time.Duration
	last   time.Time
}

// NewCooldown builds a gate with the given period.
func NewCooldown(period time.Duration) *Cooldown {
	if period <= 0 {
		period = DefaultCooldown
	}
	return &Cooldown{period: period}
}

// TryAcquire reports whether a response may be sent at now, and on success
// records now as the last response time in the same step. The first call
// always succeeds.
func (c *Cooldown) TryAcquire(now time.Time) bool {
	if !c.last.IsZero() && now.Sub(c.last) < c.period {
		return false
	}
	c.last = now
	return true
}

// Remaining returns how long until the gate would open again at now.
func (c *Cooldown) Remaining(now time.Time) time.Duration {
	if c.last.IsZero() {
		return 0
	}
	rem := c.period - now.Sub(c.last)
	if rem < 0 {
		return 0
	}
	return rem
}
