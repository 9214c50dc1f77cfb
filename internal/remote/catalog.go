package remote

import (
	"context"
	"net/http"

	"droneFoodOrdering/models"
)

// ListRestaurants answers with a bare {data} payload, no success flag.
func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var out struct {
		Data []models.Restaurant `json:"data"`
	}
	err := c.do(ctx, call{op: "list restaurants", method: http.MethodGet, path: "/restaurants", out: &out, lenient: true})
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var out struct {
		Data models.Restaurant `json:"data"`
	}
	if err := c.do(ctx, call{op: "get restaurant", method: http.MethodGet, path: "/restaurants/" + segment(id), out: &out}); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Menu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	var out struct {
		Items []models.MenuItem `json:"items"`
	}
	err := c.do(ctx, call{op: "menu", method: http.MethodGet, path: "/menu/" + segment(restaurantID), out: &out, lenient: true})
	if err != nil {
		return nil, err
	}
	return out.Items, nil
}
