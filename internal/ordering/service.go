// Package ordering places orders from cart lines and keeps the signed-in
// user's order history.
package ordering

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"droneFoodOrdering/internal/delivery"
	"droneFoodOrdering/internal/session"
	"droneFoodOrdering/models"
)

var (
	ErrInvalidOrder  = errors.New("invalid order")
	ErrOrderNotFound = errors.New("order not found")
)

// Backend is the remote surface the service needs.
type Backend interface {
	CreateOrder(ctx context.Context, o models.Order) (string, error)
	ListUserOrders(ctx context.Context, uid string) ([]models.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

// CartRemover drops ordered lines from the cart once the order exists.
type CartRemover interface {
	RemoveItem(ctx context.Context, lineID string) error
}

// PlaceOrderRequest is one restaurant's share of the cart plus who gets it.
// Coordinates, when nil, fall back to the recipient's own or the default.
type PlaceOrderRequest struct {
	RestaurantID   string            `validate:"required"`
	RestaurantName string            `validate:"required"`
	Lines          []models.CartLine `validate:"required,min=1"`
	Recipient      models.Recipient
	Coordinates    *models.Coordinates
}

type Service struct {
	backend  Backend
	sessions session.Accessor
	cart     CartRemover
	validate *validator.Validate
	fallback models.Coordinates
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	history []models.Order
}

// NewService builds a Service. cart may be nil, in which case ordered lines
// stay in the cart.
func NewService(backend Backend, sessions session.Accessor, cart CartRemover, fallback models.Coordinates, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		backend:  backend,
		sessions: sessions,
		cart:     cart,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// PlaceOrder snapshots req into a pending order, submits it and then clears
// the ordered lines from the cart. A cart cleanup failure is logged, not
// returned: the order exists either way.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (models.Order, error) {
	sess, err := session.Require(ctx, s.sessions)
	if err != nil {
		return models.Order{}, err
	}
	if err := s.validate.Struct(req); err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	order := models.Order{
		UserID:         sess.User.UID,
		RestaurantID:   req.RestaurantID,
		RestaurantName: req.RestaurantName,
		Status:         models.OrderStatusPending,
		Recipient:      req.Recipient,
		TotalPrice:     decimal.Zero,
		CreatedAt:      models.Timestamp{Time: s.now().UTC()},
	}
	for _, l := range req.Lines {
		if l.Quantity <= 0 {
			return models.Order{}, fmt.Errorf("%w: line %s has quantity %d", ErrInvalidOrder, l.LineID, l.Quantity)
		}
		if l.RestaurantID != "" && l.RestaurantID != req.RestaurantID {
			return models.Order{}, fmt.Errorf("%w: line %s belongs to restaurant %s", ErrInvalidOrder, l.LineID, l.RestaurantID)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
		order.TotalPrice = order.TotalPrice.Add(l.LineTotal())
	}

	dest := s.fallback
	if req.Coordinates != nil {
		dest = *req.Coordinates
	} else if c, ok := req.Recipient.Destination(); ok {
		dest = c
	}
	order.Lat, order.Lng = &dest.Lat, &dest.Lng

	id, err := s.backend.CreateOrder(ctx, order)
	if err != nil {
		return models.Order{}, err
	}
	order.ID = id
	s.logger.Info("order placed", "order_id", id, "uid", order.UserID, "restaurant_id", order.RestaurantID,
		"items", len(order.Items), "total", order.TotalPrice.StringFixed(2))

	s.mu.Lock()
	s.history = append(s.history, order)
	s.mu.Unlock()

	if s.cart != nil {
		var g errgroup.Group
		g.SetLimit(4)
		for _, l := range req.Lines {
			g.Go(func() error { return s.cart.RemoveItem(ctx, l.LineID) })
		}
		if err := g.Wait(); err != nil {
			s.logger.Warn("ordered lines not removed from cart", "order_id", id, "error", err)
		}
	}
	return order, nil
}

// ListOrders fetches the user's orders, newest first. An empty status means
// every status.
func (s *Service) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	sess, err := session.Require(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	orders, err := s.backend.ListUserOrders(ctx, sess.User.UID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(orders, func(a, b models.Order) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	s.mu.Lock()
	s.history = orders
	s.mu.Unlock()

	if status == "" {
		return slices.Clone(orders), nil
	}
	var out []models.Order
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

// Find returns one order, fetching the history when it is not cached.
func (s *Service) Find(ctx context.Context, orderID string) (models.Order, error) {
	if o, ok := s.cached(orderID); ok {
		return o, nil
	}
	if _, err := s.ListOrders(ctx, ""); err != nil {
		return models.Order{}, err
	}
	if o, ok := s.cached(orderID); ok {
		return o, nil
	}
	return models.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
}

// Withdraw deletes a pending order outright instead of cancelling it.
func (s *Service) Withdraw(ctx context.Context, orderID string) error {
	o, err := s.Find(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status != models.OrderStatusPending {
		return delivery.ErrNotCancellable
	}
	if err := s.backend.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	s.mu.Lock()
	s.history = slices.DeleteFunc(s.history, func(o models.Order) bool { return o.ID == orderID })
	s.mu.Unlock()
	s.logger.Info("order withdrawn", "order_id", orderID)
	return nil
}

func (s *Service) cached(orderID string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.history {
		if o.ID == orderID {
			return o, true
		}
	}
	return models.Order{}, false
}
