package remote

import (
	"context"
	"net/http"

	"droneFoodOrdering/models"
)

// Geocode resolves a free-text address to coordinates.
func (c *Client) Geocode(ctx context.Context, text string) (models.Coordinates, error) {
	in := struct {
		Text string `json:"text"`
	}{text}
	var out struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := c.do(ctx, call{op: "geocode", method: http.MethodPost, path: "/ors/geocode", in: in, out: &out}); err != nil {
		return models.Coordinates{}, err
	}
	if out.Lat == nil || out.Lng == nil {
		return models.Coordinates{}, &APIError{Op: "geocode", StatusCode: http.StatusOK, Message: "no coordinates for address"}
	}
	return models.Coordinates{Lat: *out.Lat, Lng: *out.Lng}, nil
}

// DronesForOrder returns the drones assigned to orderID, most relevant first.
func (c *Client) DronesForOrder(ctx context.Context, orderID string) ([]models.DroneSighting, error) {
	var out struct {
		Drones []models.DroneSighting `json:"drones"`
	}
	err := c.do(ctx, call{op: "drones for order", method: http.MethodGet, path: "/drones/order/" + segment(orderID), out: &out})
	if err != nil {
		return nil, err
	}
	return out.Drones, nil
}

func (c *Client) CompleteDroneFlight(ctx context.Context, droneID string) error {
	return c.do(ctx, call{op: "complete drone flight", method: http.MethodPost, path: "/drones/" + segment(droneID) + "/complete"})
}
