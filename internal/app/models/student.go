package models

import (
	"fmt"
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	RollNumber string    `json:"rollNumber" db:"roll_number"`
	Email      string    `json:"email" db:"email"`
	RouteID    *int64    `json:"busRouteId,omitempty" db:"bus_route_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	// Route is populated by reads that join bus_routes
	Route *Route `json:"busRoute,omitempty"`
}

func (s *Student) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.RollNumber)
}
