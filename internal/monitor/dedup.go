package monitor

import (
	"github.com/hack2infi/mindmate/backend/internal/model/feed"
)

// DefaultDedupCapacity bounds each dedup set. Oldest entries are evicted
// first once the cap is reached, keeping memory flat over long sessions.
const DefaultDedupCapacity = 512

// Dedup tracks which message identities have been observed and which reply
// texts the monitor itself has emitted. Not safe for concurrent use: the
// orchestrator loop is the only writer by design.
type Dedup struct {
	seen *ringSet
	sent *ringSet
}

// NewDedup builds a store capped at the given number of entries per set.
func NewDedup(capacity int) *Dedup {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	return &Dedup{
		seen: newRingSet(capacity),
		sent: newRingSet(capacity),
	}
}

// Observe records the message identity and reports whether it was new.
// A message observed once is never treated as new again (until evicted).
func (d *Dedup) Observe(msg feed.Message) bool {
	return d.seen.add(msg.Identity())
}

// MarkSent records reply text we dispatched, keyed by normalized form, so
// the echo of our own message in the feed is never treated as user input.
func (d *Dedup) MarkSent(text string) {
	d.sent.add(feed.Normalize(text))
}

// WasSentByUs reports whether the normalized text matches something the
// monitor previously dispatched.
func (d *Dedup) WasSentByUs(text string) bool {
	return d.sent.contains(feed.Normalize(text))
}

// ringSet is a set with insertion-ordered eviction once capacity is hit.
type ringSet struct {
	capacity int
	members  map[string]struct{}
	order    []string
	head     int
}

func newRingSet(capacity int) *ringSet {
	return &ringSet{
		capacity: capacity,
		members:  make(map[string]struct{}, capacity),
		order:    make([]string, 0, capacity),
	}
}

// add inserts the key and reports true when it was not already present.
func (r *ringSet) add(key string) bool {
	if _, exists := r.members[key]; exists {
		return false
	}
	if len(r.order) < r.capacity {
		r.order = append(r.order, key)
	} else {
		delete(r.members, r.order[r.head])
		r.order[r.head] = key
		r.head = (r.head + 1) % r.capacity
	}
	r.members[key] = struct{}{}
	return true
}

func (r *ringSet) contains(key string) bool {
	_, exists := r.members[key]
	return exists
}
