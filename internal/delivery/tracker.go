// Package delivery gates "order received" on the drone being close to the
// drop-off point and then completes both the order and the drone flight.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"droneFoodOrdering/internal/geo"
	"droneFoodOrdering/models"
)

// Backend is the remote surface a Tracker needs.
type Backend interface {
	DronesForOrder(ctx context.Context, orderID string) ([]models.DroneSighting, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error
	CompleteDroneFlight(ctx context.Context, droneID string) error
}

// Proximity is the outcome of one drone lookup. DistanceMeters is nil when
// either side has no coordinates.
type Proximity struct {
	DroneID        string
	Drone          *models.DroneSighting
	DistanceMeters *float64
	CanConfirm     bool
}

type Option func(*Tracker)

// WithRadius overrides the confirmation radius in meters.
func WithRadius(meters float64) Option {
	return func(t *Tracker) {
		if meters > 0 {
			t.radius = meters
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// Tracker holds the client's copy of one order while it is followed.
type Tracker struct {
	backend Backend
	radius  float64
	logger  *slog.Logger

	mu       sync.Mutex
	order    models.Order
	last     Proximity
	hasCheck bool
}

func NewTracker(backend Backend, order models.Order, opts ...Option) *Tracker {
	t := &Tracker{
		backend: backend,
		radius:  geo.ConfirmRadiusMeters,
		logger:  slog.Default(),
		order:   order,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Order returns the local copy of the order.
func (t *Tracker) Order() models.Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.order
}

// Last returns the most recent proximity reading, if any.
func (t *Tracker) Last() (Proximity, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.hasCheck
}

// CheckProximity looks up the order's drone and measures how far it is from
// the drop-off point. Only the first drone returned is considered.
func (t *Tracker) CheckProximity(ctx context.Context) (Proximity, error) {
	order := t.Order()
	if order.Status != models.OrderStatusDelivering {
		return Proximity{}, ErrNotDelivering
	}

	drones, err := t.backend.DronesForOrder(ctx, order.ID)
	if err != nil {
		return Proximity{}, err
	}

	var p Proximity
	if len(drones) > 0 {
		d := drones[0]
		p.DroneID = d.DroneID
		p.Drone = &d
		pos, okDrone := d.Position()
		dst, okDest := order.Destination()
		if okDrone && okDest && d.DroneID != "" {
			dist := geo.HaversineMeters(pos.Lat, pos.Lng, dst.Lat, dst.Lng)
			p.DistanceMeters = &dist
			p.CanConfirm = dist <= t.radius
		}
	}

	t.mu.Lock()
	t.last, t.hasCheck = p, true
	t.mu.Unlock()
	if p.DistanceMeters != nil {
		t.logger.Debug("drone proximity", "order_id", order.ID, "drone_id", p.DroneID,
			"distance_m", *p.DistanceMeters, "can_confirm", p.CanConfirm)
	}
	return p, nil
}

// Watch checks proximity now and then every interval until ctx ends, the
// order stops being delivered, or confirmation becomes possible. Lookup
// errors are handed to fn and polling goes on.
func (t *Tracker) Watch(ctx context.Context, interval time.Duration, fn func(Proximity, error)) error {
	if interval <= 0 {
		return fmt.Errorf("delivery: poll interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		p, err := t.CheckProximity(ctx)
		if errors.Is(err, ErrNotDelivering) {
			return nil
		}
		if fn != nil {
			fn(p, err)
		}
		if err == nil && p.CanConfirm {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ConfirmDelivered marks the order completed and the drone flight complete.
// It needs a drone id from a previous CheckProximity and a reading inside
// the confirmation radius; otherwise it fails without calling the backend.
// The local order becomes completed only when both calls succeed.
func (t *Tracker) ConfirmDelivered(ctx context.Context) error {
	t.mu.Lock()
	order, last := t.order, t.last
	t.mu.Unlock()

	if last.DroneID == "" {
		return ErrDroneNotReady
	}
	if order.Status != models.OrderStatusDelivering {
		return ErrNotDelivering
	}
	if !last.CanConfirm {
		if last.DistanceMeters == nil {
			return fmt.Errorf("%w: distance unknown", ErrOutOfRange)
		}
		return fmt.Errorf("%w: %.0f m away, need %.0f m", ErrOutOfRange, *last.DistanceMeters, t.radius)
	}

	var orderErr, droneErr error
	var g errgroup.Group
	g.Go(func() error {
		orderErr = t.backend.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCompleted)
		return nil
	})
	g.Go(func() error {
		droneErr = t.backend.CompleteDroneFlight(ctx, last.DroneID)
		return nil
	})
	_ = g.Wait()

	if orderErr != nil || droneErr != nil {
		cerr := &ConfirmError{OrderID: order.ID, DroneID: last.DroneID, OrderErr: orderErr, DroneErr: droneErr}
		if errors.Is(cerr, ErrPartialCompletion) {
			t.logger.Warn("order completed but drone flight was not", "order_id", order.ID, "drone_id", last.DroneID, "error", droneErr)
		}
		return cerr
	}

	t.mu.Lock()
	t.order.Status = models.OrderStatusCompleted
	t.mu.Unlock()
	t.logger.Info("delivery confirmed", "order_id", order.ID, "drone_id", last.DroneID)
	return nil
}

// Cancel asks the backend to cancel a pending order and mirrors the result.
func (t *Tracker) Cancel(ctx context.Context) error {
	order := t.Order()
	if !order.Status.CanTransitionTo(models.OrderStatusCancelled) {
		return ErrNotCancellable
	}
	if err := t.backend.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled); err != nil {
		return err
	}
	t.mu.Lock()
	t.order.Status = models.OrderStatusCancelled
	t.mu.Unlock()
	t.logger.Info("order cancelled", "order_id", order.ID)
	return nil
}
