package remote

import (
	"context"
	"net/http"

	"droneFoodOrdering/models"
)

// GetCart returns the authoritative cart lines of uid.
func (c *Client) GetCart(ctx context.Context, uid string) ([]models.CartLine, error) {
	var out struct {
		Items []models.CartLine `json:"items"`
	}
	err := c.do(ctx, call{op: "get cart", method: http.MethodGet, path: "/cart/" + segment(uid), out: &out})
	if err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) AddToCart(ctx context.Context, uid string, product models.MenuItem, restaurantID, restaurantName string) error {
	in := struct {
		UID            string          `json:"uid"`
		Product        models.MenuItem `json:"product"`
		RestaurantID   string          `json:"restaurantId"`
		RestaurantName string          `json:"restaurantName"`
	}{uid, product, restaurantID, restaurantName}
	return c.do(ctx, call{op: "add to cart", method: http.MethodPost, path: "/cart/add", in: in})
}

func (c *Client) UpdateCartQuantity(ctx context.Context, uid, productID string, delta int) error {
	in := struct {
		UID       string `json:"uid"`
		ProductID string `json:"productId"`
		Delta     int    `json:"delta"`
	}{uid, productID, delta}
	return c.do(ctx, call{op: "update cart quantity", method: http.MethodPost, path: "/cart/update", in: in})
}

// RemoveCartItem sends its arguments as a DELETE body, as the backend expects.
func (c *Client) RemoveCartItem(ctx context.Context, uid, productID string) error {
	in := struct {
		UID       string `json:"uid"`
		ProductID string `json:"productId"`
	}{uid, productID}
	return c.do(ctx, call{op: "remove cart item", method: http.MethodDelete, path: "/cart/item", in: in})
}

func (c *Client) ClearCart(ctx context.Context, uid string) error {
	return c.do(ctx, call{op: "clear cart", method: http.MethodDelete, path: "/cart/clear/" + segment(uid)})
}
