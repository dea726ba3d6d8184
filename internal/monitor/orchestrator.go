package monitor

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/hack2infi/mindmate/backend/internal/analysis/affect"
	"github.com/hack2infi/mindmate/backend/internal/metrics"
	"github.com/hack2infi/mindmate/backend/internal/model/feed"
	"github.com/hack2infi/mindmate/backend/internal/transport"
)

// Generator produces empathetic reply prose. Implementations never fail:
// on any model error they return a fixed supportive fallback.
type Generator interface {
	ReplyTo(ctx context.Context, userText string) string
}

// Options tunes the polling loop.
type Options struct {
	PollInterval     time.Duration // sleep between cycles
	ErrorBackoff     time.Duration // sleep after a failed cycle
	DispatchAttempts int           // send attempts before giving up
	RetryDelay       time.Duration // sleep between send attempts
}

// DefaultOptions mirrors the production tuning.
func DefaultOptions() Options {
	return Options{
		PollInterval:     5 * time.Second,
		ErrorBackoff:     5 * time.Second,
		DispatchAttempts: 3,
		RetryDelay:       5 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PollInterval <= 0 {
		o.PollInterval = def.PollInterval
	}
	if o.ErrorBackoff <= 0 {
		o.ErrorBackoff = def.ErrorBackoff
	}
	if o.DispatchAttempts <= 0 {
		o.DispatchAttempts = def.DispatchAttempts
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = def.RetryDelay
	}
	return o
}

// Orchestrator runs the polling-deduplication-cooldown loop that decides
// which incoming messages get a generated response. All mutable state is
// owned by its single goroutine; there are no concurrent writers.
type Orchestrator struct {
	chat     transport.Chat
	gen      Generator
	classify affect.Classifier
	dedup    *Dedup
	cooldown *Cooldown
	catalog  *MediaCatalog
	opts     Options

	rng   *rand.Rand
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)

	lastMarker string
}

// New wires an orchestrator. A nil classifier falls back to the keyword
// matcher; nil catalog means no companion media is ever sent.
func New(chat transport.Chat, gen Generator, dedup *Dedup, cooldown *Cooldown, catalog *MediaCatalog, opts Options) *Orchestrator {
	if catalog == nil {
		catalog = NewMediaCatalog(nil, nil, nil, nil)
	}
	return &Orchestrator{
		chat:     chat,
		gen:      gen,
		classify: affect.IsDistressSignal,
		dedup:    dedup,
		cooldown: cooldown,
		catalog:  catalog,
		opts:     opts.withDefaults(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// WithClassifier swaps the distress classifier. Intended for tests and for
// replacing the keyword policy with a model-backed one.
func (o *Orchestrator) WithClassifier(c affect.Classifier) *Orchestrator {
	if c != nil {
		o.classify = c
	}
	return o
}

// Run polls until the context is cancelled. Every cycle error is recovered:
// the monitor backs off and keeps going rather than terminating.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.seed(ctx)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := o.cycle(ctx); err != nil {
			log.Printf("[monitor] cycle error: %v", err)
			metrics.CycleErrors.Inc()
			o.sleep(ctx, o.opts.ErrorBackoff)
			continue
		}
		o.sleep(ctx, o.opts.PollInterval)
	}
}

// seed marks the messages already on screen as seen so that history present
// at startup never triggers a response.
func (o *Orchestrator) seed(ctx context.Context) {
	if marker, err := o.chat.LastActivityMarker(ctx); err == nil {
		o.lastMarker = marker
	}
	msgs, err := o.chat.FetchRecentMessages(ctx)
	if err != nil {
		log.Printf("[monitor] seed fetch failed, starting cold: %v", err)
		return
	}
	for _, m := range msgs {
		o.dedup.Observe(m)
	}
	log.Printf("[monitor] seeded %d pre-existing messages", len(msgs))
}

// cycle is one pass of the state machine: marker check, fetch, filter,
// respond to at most one qualifying message. Panics are contained at this
// boundary so a bad cycle can never kill the loop.
func (o *Orchestrator) cycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	marker, err := o.chat.LastActivityMarker(ctx)
	if err != nil {
		return fmt.Errorf("read activity marker: %w", err)
	}
	if marker == o.lastMarker {
		return nil // nothing new, no-op cycle
	}

	msgs, err := o.chat.FetchRecentMessages(ctx)
	if err != nil {
		return fmt.Errorf("fetch messages: %w", err)
	}

	var candidates []feed.Message
	for _, m := range msgs {
		if o.dedup.Observe(m) {
			candidates = append(candidates, m)
			metrics.MessagesSeen.Inc()
		}
	}

	for _, m := range candidates {
		if o.dedup.WasSentByUs(m.Normalized) {
			continue // self-echo
		}
		if !o.classify(m.Text) {
			continue
		}
		// At most one trigger per cycle; remaining qualifying messages in
		// this window are dropped, not deferred.
		o.respond(ctx, m)
		break
	}

	o.lastMarker = marker
	return nil
}

// respond runs the cooldown gate and, when open, generates and dispatches
// the reply plus one companion media item.
func (o *Orchestrator) respond(ctx context.Context, m feed.Message) {
	now := o.now()
	if !o.cooldown.TryAcquire(now) {
		log.Printf("[monitor] cooldown active, dropping qualifying message; next response in %s",
			o.cooldown.Remaining(now).Round(time.Second))
		metrics.CooldownDenied.Inc()
		return
	}

	log.Printf("[monitor] distress signal detected: %q", m.Text)
	reply := o.gen.ReplyTo(ctx, m.Text)

	if err := o.dispatch(ctx, reply, ""); err != nil {
		log.Printf("[monitor] reply dispatch failed: %v", err)
	} else {
		metrics.ResponsesSent.Inc()
	}
	o.dedup.MarkSent(reply)

	o.sendCompanionMedia(ctx)
}

// sendCompanionMedia picks one media item and dispatches it with retries,
// falling back to a single best-effort calming-link text on failure.
func (o *Orchestrator) sendCompanionMedia(ctx context.Context) {
	item, ok := o.catalog.Pick(o.rng)
	if !ok {
		return
	}

	if err := o.dispatch(ctx, item.Caption, item.Path); err == nil {
		o.dedup.MarkSent(item.Caption)
		return
	}

	link, ok := o.catalog.CalmingLink(o.rng)
	if !ok {
		return
	}
	fallback := "Here's a calming link to help you relax: " + link
	if err := o.chat.SendMessage(ctx, fallback, ""); err != nil {
		log.Printf("[monitor] calming link fallback failed: %v", err)
		metrics.DispatchFailures.Inc()
		return
	}
	o.dedup.MarkSent(fallback)
}

// dispatch drives the retry policy: up to DispatchAttempts sends with a
// fixed delay between attempts. Exhausting retries yields an error result;
// nothing escapes to kill the loop.
func (o *Orchestrator) dispatch(ctx context.Context, text, mediaPath string) error {
	var lastErr error
	for attempt := 1; attempt <= o.opts.DispatchAttempts; attempt++ {
		err := o.chat.SendMessage(ctx, text, mediaPath)
		if err == nil {
			return nil
		}
		lastErr = err
		metrics.DispatchFailures.Inc()
		log.Printf("[monitor] send attempt %d/%d failed: %v", attempt, o.opts.DispatchAttempts, err)
		if attempt < o.opts.DispatchAttempts {
			o.sleep(ctx, o.opts.RetryDelay)
		}
	}
	return fmt.Errorf("dispatch failed after %d attempts: %w", o.opts.DispatchAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
