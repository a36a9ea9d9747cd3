package models

import (
	"fmt"
	"time"
)

// DefaultRouteCapacity is used when the add-route form leaves capacity blank
const DefaultRouteCapacity = 40

// Route defines the bus route model based on the 'bus_routes' table
type Route struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"routeName" db:"route_name"`
	StartLocation string    `json:"startLocation" db:"start_location"`
	EndLocation   string    `json:"endLocation" db:"end_location"`
	DriverName    *string   `json:"driverName,omitempty" db:"driver_name"`
	Capacity      int       `json:"capacity" db:"capacity"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

func (r *Route) String() string {
	return fmt.Sprintf("%s (%s → %s)", r.Name, r.StartLocation, r.EndLocation)
}

// Driver returns the driver's name, or "" when none is assigned
func (r *Route) Driver() string {
	if r.DriverName == nil {
		return ""
	}
	return *r.DriverName
}
