package models

import "github.com/shopspring/decimal"

// OrderStatus represents the current progress of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderProgression is the happy path an order walks through.
var OrderProgression = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusDelivering,
	OrderStatusCompleted,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusCancelled || s.Step() >= 0
}

// Step is the position of s on OrderProgression, or -1 for cancelled and
// unknown statuses.
func (s OrderStatus) Step() int {
	for i, p := range OrderProgression {
		if p == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo reports whether the server may move an order from s to next:
// one step forward along the progression, or pending -> cancelled.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == OrderStatusPending && next == OrderStatusCancelled {
		return true
	}
	from, to := s.Step(), next.Step()
	return from >= 0 && to == from+1
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OrderItem is the per-line snapshot taken when the order is placed.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Recipient is who receives the order and where.
type Recipient struct {
	Name    string   `json:"recipientName" validate:"required"`
	Phone   string   `json:"recipientPhone" validate:"required"`
	Address string   `json:"shipping_address" validate:"required"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// Destination returns the delivery coordinates when both are known.
func (r Recipient) Destination() (Coordinates, bool) {
	if r.Lat == nil || r.Lng == nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: *r.Lat, Lng: *r.Lng}, true
}

// Order is a client-held copy of a backend order. Items never change after
// creation; only Status moves, and only by server-applied transitions.
type Order struct {
	ID             string          `json:"id,omitempty"`
	UserID         string          `json:"userId"`
	RestaurantID   string          `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	Items          []OrderItem     `json:"items"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	Status         OrderStatus     `json:"status"`
	Recipient
	CreatedAt Timestamp `json:"createdAt"`
}
