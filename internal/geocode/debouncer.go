// Package geocode turns typed addresses into coordinates without calling
// the backend on every keystroke.
package geocode

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"droneFoodOrdering/models"
)

const (
	DefaultDelay     = 600 * time.Millisecond
	DefaultMinLength = 5
)

type Resolver interface {
	Geocode(ctx context.Context, text string) (models.Coordinates, error)
}

// Result is delivered for the latest input only.
type Result struct {
	Text        string
	Coordinates models.Coordinates
	Err         error
}

// Debouncer resolves input once it has been quiet for the configured delay.
// A newer Update cancels a pending lookup; a lookup already sent is not
// aborted, but its result is dropped if the input moved on meanwhile.
type Debouncer struct {
	resolver Resolver
	delay    time.Duration
	minLen   int
	onResult func(Result)
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
	pending sync.WaitGroup
}

func NewDebouncer(resolver Resolver, delay time.Duration, minLen int, onResult func(Result)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if minLen <= 0 {
		minLen = DefaultMinLength
	}
	return &Debouncer{resolver: resolver, delay: delay, minLen: minLen, onResult: onResult, logger: slog.Default()}
}

// SetLogger replaces the default logger.
func (d *Debouncer) SetLogger(l *slog.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = l
}

// Update records new input. Input shorter than the minimum length only
// cancels whatever was pending.
func (d *Debouncer) Update(ctx context.Context, text string) {
	text = strings.TrimSpace(text)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.cancelLocked()
	if d.stopped || utf8.RuneCountInString(text) < d.minLen {
		return
	}
	gen := d.gen
	d.pending.Add(1)
	d.timer = time.AfterFunc(d.delay, func() { d.fire(ctx, gen, text) })
}

// Stop cancels any pending lookup and ignores further input.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.stopped = true
	d.cancelLocked()
}

// Drain blocks until the pending lookup, if any, has fired and finished.
func (d *Debouncer) Drain() {
	d.pending.Wait()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil && d.timer.Stop() {
		d.pending.Done()
	}
	d.timer = nil
}

func (d *Debouncer) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

func (d *Debouncer) fire(ctx context.Context, gen uint64, text string) {
	defer d.pending.Done()
	if !d.current(gen) {
		return
	}
	coords, err := d.resolver.Geocode(ctx, text)
	if !d.current(gen) {
		d.logger.Debug("dropping geocode result for stale input", "text", text)
		return
	}
	if d.onResult != nil {
		d.onResult(Result{Text: text, Coordinates: coords, Err: err})
	}
}
