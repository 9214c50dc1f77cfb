package models

// DroneStatus is the flight state reported for a drone.
type DroneStatus string

const (
	DroneStatusIdle       DroneStatus = "idle"
	DroneStatusDelivering DroneStatus = "delivering"
	DroneStatusCompleted  DroneStatus = "completed"
)

// DroneSighting is the last known position of a drone assigned to an order.
// It is never persisted. Lat/Lng are nil when the backend has no fix.
type DroneSighting struct {
	DroneID string      `json:"id"`
	OrderID string      `json:"orderId,omitempty"`
	Lat     *float64    `json:"lat,omitempty"`
	Lng     *float64    `json:"lng,omitempty"`
	Status  DroneStatus `json:"status,omitempty"`
}

// Position returns the sighting's coordinates when both are known.
func (d DroneSighting) Position() (Coordinates, bool) {
	if d.Lat == nil || d.Lng == nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: *d.Lat, Lng: *d.Lng}, true
}
