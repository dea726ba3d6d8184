package monitor

import (
	"testing"
	"time"
)

func TestCooldownSpacing(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCooldown(30 * time.Second)

	if !c.TryAcquire(base) {
		t.Fatal("first acquire at t=0 should succeed")
	}
	if c.TryAcquire(base.Add(10 * time.Second)) {
		t.Fatal("acquire at t=10 inside the 30s window should be denied")
	}
	if !c.TryAcquire(base.Add(31 * time.Second)) {
		t.Fatal("acquire at t=31 after the window should succeed")
	}
}

func TestCooldownExactBoundary(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCooldown(30 * time.Second)

	c.TryAcquire(base)
	// now - last == period satisfies the >= contract.
	if !c.TryAcquire(base.Add(30 * time.Second)) {
		t.Fatal("acquire exactly at the period boundary should succeed")
	}
}

func TestCooldownDenialDoesNotResetWindow(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCooldown(30 * time.Second)

	c.TryAcquire(base)
	c.TryAcquire(base.Add(10 * time.Second)) // denied
	if !c.TryAcquire(base.Add(30 * time.Second)) {
		t.Fatal("a denied attempt must not extend the cooldown window")
	}
}

func TestCooldownRemaining(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCooldown(30 * time.Second)

	if c.Remaining(base) != 0 {
		t.Fatal("fresh gate should have zero remaining")
	}
	c.TryAcquire(base)
	if got := c.Remaining(base.Add(10 * time.Second)); got != 20*time.Second {
		t.Fatalf("remaining = %v, want 20s", got)
	}
	if got := c.Remaining(base.Add(45 * time.Second)); got != 0 {
		t.Fatalf("remaining after expiry = %v, want 0", got)
	}
}
