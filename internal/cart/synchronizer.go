// Package cart keeps the signed-in user's cart in memory and in step with
// the backend.
//
// Every mutation is applied locally first, then sent to the backend once.
// If the backend call fails for any reason the local cart is thrown away and
// replaced by a fresh fetch; there is no field-level merge and no retry.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"droneFoodOrdering/internal/session"
	"droneFoodOrdering/models"
)

// ErrNoSession is returned by mutations attempted while signed out.
var ErrNoSession = session.ErrNoSession

// Store is the backend surface the synchronizer needs.
type Store interface {
	GetCart(ctx context.Context, uid string) ([]models.CartLine, error)
	AddToCart(ctx context.Context, uid string, product models.MenuItem, restaurantID, restaurantName string) error
	UpdateCartQuantity(ctx context.Context, uid, productID string, delta int) error
	RemoveCartItem(ctx context.Context, uid, productID string) error
	ClearCart(ctx context.Context, uid string) error
}

// Synchronizer owns the cart for the lifetime of a session. The mutex guards
// only local state and is never held across a backend call, so concurrent
// mutations race their backend calls the same way rapid user actions do.
type Synchronizer struct {
	store    Store
	sessions session.Accessor
	logger   *slog.Logger

	mu    sync.Mutex
	lines []models.CartLine
	total int
}

func NewSynchronizer(store Store, sessions session.Accessor, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{store: store, sessions: sessions, logger: logger}
}

// Refresh replaces the local cart with the backend's copy. Signed out, it
// just empties the cart. A failed fetch also leaves the cart empty.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		s.Reset()
		return nil
	}
	lines, err := s.store.GetCart(ctx, sess.User.UID)
	if err != nil {
		s.Reset()
		return err
	}
	s.replace(lines)
	return nil
}

// AddItem adds one unit of product.
func (s *Synchronizer) AddItem(ctx context.Context, product models.MenuItem, restaurantID, restaurantName string) error {
	if product.ID == "" {
		return errors.New("cart: product id is required")
	}
	return s.mutate(ctx, "add item", func() {
		if i := s.indexOf(product.ID); i >= 0 {
			s.lines[i].Quantity++
		} else {
			s.lines = append(s.lines, models.CartLine{
				LineID:         product.ID,
				ProductID:      product.ID,
				RestaurantID:   restaurantID,
				RestaurantName: restaurantName,
				Name:           product.Name,
				UnitPrice:      product.Price,
				ImageRef:       product.Image,
				Quantity:       1,
			})
		}
		s.total++
	}, func(ctx context.Context, uid string) error {
		return s.store.AddToCart(ctx, uid, product, restaurantID, restaurantName)
	})
}

// UpdateQuantity moves a line's quantity by delta and drops the line once it
// reaches zero. The total moves by the change actually applied to the line,
// so a delta past zero only subtracts what the line held.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, lineID string, delta int) error {
	if delta == 0 {
		return nil
	}
	known := true
	err := s.mutate(ctx, "update quantity", func() {
		i := s.indexOf(lineID)
		if i < 0 {
			known = false
			return
		}
		q := s.lines[i].Quantity
		next := q + delta
		if next < 0 {
			s.logger.Warn("quantity delta overshoots line", "line_id", lineID, "quantity", q, "delta", delta)
		}
		if next <= 0 {
			s.removeAt(i)
			s.total -= q
			return
		}
		s.lines[i].Quantity = next
		s.total += delta
	}, func(ctx context.Context, uid string) error {
		return s.store.UpdateCartQuantity(ctx, uid, lineID, delta)
	})
	if err == nil && !known {
		// The backend knew a line we did not; pick it up.
		return s.Refresh(ctx)
	}
	return err
}

// RemoveItem drops a line whatever its quantity.
func (s *Synchronizer) RemoveItem(ctx context.Context, lineID string) error {
	return s.mutate(ctx, "remove item", func() {
		if i := s.indexOf(lineID); i >= 0 {
			s.total -= s.lines[i].Quantity
			s.removeAt(i)
		}
	}, func(ctx context.Context, uid string) error {
		return s.store.RemoveCartItem(ctx, uid, lineID)
	})
}

// ClearAll empties the cart. An already empty cart is not an error.
func (s *Synchronizer) ClearAll(ctx context.Context) error {
	return s.mutate(ctx, "clear", func() {
		s.lines = nil
		s.total = 0
	}, func(ctx context.Context, uid string) error {
		return s.store.ClearCart(ctx, uid)
	})
}

// Snapshot returns a copy of the current cart.
func (s *Synchronizer) Snapshot() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Cart{Lines: s.copyLines(), TotalQuantity: s.total}
}

func (s *Synchronizer) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLines()
}

func (s *Synchronizer) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Reset empties the local cart without touching the backend.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.total = 0
}

// mutate applies local under the lock, then sends remote and reconciles on
// failure. The remote error is returned together with any refresh error.
func (s *Synchronizer) mutate(ctx context.Context, op string, local func(), remote func(ctx context.Context, uid string) error) error {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		s.Reset()
		return ErrNoSession
	}

	s.mu.Lock()
	local()
	s.mu.Unlock()

	if err := remote(ctx, sess.User.UID); err != nil {
		s.logger.Warn("cart mutation failed, reconciling", "op", op, "uid", sess.User.UID, "error", err)
		if rerr := s.Refresh(ctx); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

// replace installs lines as the whole cart. Duplicate ids are folded into
// one line and non-positive quantities are dropped.
func (s *Synchronizer) replace(lines []models.CartLine) {
	out := make([]models.CartLine, 0, len(lines))
	idx := make(map[string]int, len(lines))
	total := 0
	for _, l := range lines {
		if l.LineID == "" {
			l.LineID = l.ProductID
		}
		if l.Quantity <= 0 {
			continue
		}
		total += l.Quantity
		if i, ok := idx[l.LineID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.LineID] = len(out)
		out = append(out, l)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = out
	s.total = total
}

func (s *Synchronizer) indexOf(lineID string) int {
	for i := range s.lines {
		if s.lines[i].LineID == lineID {
			return i
		}
	}
	return -1
}

func (s *Synchronizer) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}

func (s *Synchronizer) copyLines() []models.CartLine {
	return append([]models.CartLine{}, s.lines...)
}
