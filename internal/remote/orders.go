package remote

import (
	"context"
	"net/http"

	"droneFoodOrdering/models"
)

// CreateOrder submits o and returns the id the backend assigned.
func (c *Client) CreateOrder(ctx context.Context, o models.Order) (string, error) {
	var out struct {
		ID      string `json:"id"`
		OrderID string `json:"orderId"`
	}
	if err := c.do(ctx, call{op: "create order", method: http.MethodPost, path: "/orders", in: o, out: &out}); err != nil {
		return "", err
	}
	if out.ID != "" {
		return out.ID, nil
	}
	return out.OrderID, nil
}

func (c *Client) ListUserOrders(ctx context.Context, uid string) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
		Data   []models.Order `json:"data"`
	}
	err := c.do(ctx, call{op: "list orders", method: http.MethodGet, path: "/orders/user/" + segment(uid), out: &out})
	if err != nil {
		return nil, err
	}
	if out.Orders == nil {
		return out.Data, nil
	}
	return out.Orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	in := struct {
		Status models.OrderStatus `json:"status"`
	}{status}
	return c.do(ctx, call{op: "update order status", method: http.MethodPost, path: "/orders/" + segment(orderID) + "/status", in: in})
}

func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, call{op: "delete order", method: http.MethodDelete, path: "/orders/" + segment(orderID)})
}
