package geocode

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droneFoodOrdering/models"
)

type stubResolver struct {
	mu    sync.Mutex
	calls []string
	block map[string]chan struct{}
}

func (r *stubResolver) Geocode(_ context.Context, text string) (models.Coordinates, error) {
	r.mu.Lock()
	r.calls = append(r.calls, text)
	ch := r.block[text]
	r.mu.Unlock()
	if ch != nil {
		<-ch
	}
	if text == "unknown place" {
		return models.Coordinates{}, errors.New("address not found")
	}
	return models.Coordinates{Lat: float64(len(text)), Lng: 1}, nil
}

func (r *stubResolver) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type collector struct {
	mu      sync.Mutex
	results []Result
}

func (c *collector) add(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *collector) all() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

func TestDebouncer_OnlyLastInputResolves(t *testing.T) {
	r := &stubResolver{}
	var got collector
	d := NewDebouncer(r, 30*time.Millisecond, 5, got.add)
	ctx := context.Background()

	for _, s := range []string{"227 N", "227 Ng", "227 Nguyen", "227 Nguyen Van Cu"} {
		d.Update(ctx, s)
	}
	d.Drain()

	assert.Equal(t, []string{"227 Nguyen Van Cu"}, r.Calls())
	results := got.all()
	require.Len(t, results, 1)
	assert.Equal(t, "227 Nguyen Van Cu", results[0].Text)
	assert.NoError(t, results[0].Err)
}

func TestDebouncer_ShortInputCancelsPending(t *testing.T) {
	r := &stubResolver{}
	var got collector
	d := NewDebouncer(r, 30*time.Millisecond, 5, got.add)
	ctx := context.Background()

	d.Update(ctx, "Ben Thanh")
	d.Update(ctx, "Ben")
	d.Drain()
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, r.Calls())
	assert.Empty(t, got.all())
}

func TestDebouncer_StaleResultDropped(t *testing.T) {
	release := make(chan struct{})
	r := &stubResolver{block: map[string]chan struct{}{"first address": release}}
	var got collector
	d := NewDebouncer(r, 10*time.Millisecond, 5, got.add)
	ctx := context.Background()

	d.Update(ctx, "first address")
	require.Eventually(t, func() bool { return len(r.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	d.Update(ctx, "second address")
	close(release)
	d.Drain()

	results := got.all()
	require.Len(t, results, 1)
	assert.Equal(t, "second address", results[0].Text)
	assert.Equal(t, []string{"first address", "second address"}, r.Calls())
}

func TestDebouncer_ErrorsAreDelivered(t *testing.T) {
	var got collector
	d := NewDebouncer(&stubResolver{}, 5*time.Millisecond, 5, got.add)
	d.Update(context.Background(), "unknown place")
	d.Drain()

	results := got.all()
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestDebouncer_StopIgnoresInput(t *testing.T) {
	r := &stubResolver{}
	d := NewDebouncer(r, 10*time.Millisecond, 5, nil)
	ctx := context.Background()

	d.Update(ctx, "Ben Thanh market")
	d.Stop()
	d.Update(ctx, "Ben Thanh market")
	d.Drain()
	time.Sleep(30 * time.Millisecond)

	assert.Empty(t, r.Calls())
}

func TestNewDebouncer_Defaults(t *testing.T) {
	d := NewDebouncer(&stubResolver{}, 0, 0, nil)
	assert.Equal(t, DefaultDelay, d.delay)
	assert.Equal(t, DefaultMinLength, d.minLen)
}
