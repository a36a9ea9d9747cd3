// Package passdoc builds and draws the one-page bus pass receipt.
package passdoc

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/buspass/internal/app/models"
)

// PassState says which pass block the receipt carries
type PassState int

const (
	PassNone PassState = iota
	PassActive
	PassExpired
)

func (s PassState) String() string {
	switch s {
	case PassNone:
		return "none"
	case PassActive:
		return "active"
	case PassExpired:
		return "expired"
	default:
		return fmt.Sprintf("PassState(%d)", int(s))
	}
}

// RouteSection is present only when the student has a route
type RouteSection struct {
	Name     string
	Start    string
	End      string
	Driver   string
	Capacity int
}

// PassSection is present unless State is PassNone
type PassSection struct {
	Number     string
	IssueDate  time.Time
	ExpiryDate time.Time
}

// Document is everything the receipt shows, decided up front so drawing
// has no lookups or date arithmetic left to do.
type Document struct {
	StudentName string
	RollNumber  string
	Email       string
	Route       *RouteSection
	State       PassState
	Pass        *PassSection
}

// NewDocument assembles a receipt for student. route and pass may be nil.
func NewDocument(student *models.Student, route *models.Route, pass *models.BusPass, today time.Time) Document {
	doc := Document{
		StudentName: student.Name,
		RollNumber:  student.RollNumber,
		Email:       student.Email,
		State:       PassNone,
	}

	if route != nil {
		doc.Route = &RouteSection{
			Name:     route.Name,
			Start:    route.StartLocation,
			End:      route.EndLocation,
			Driver:   driverOrDefault(route.Driver()),
			Capacity: route.Capacity,
		}
	}

	if pass != nil {
		doc.Pass = &PassSection{
			Number:     pass.PassNumber,
			IssueDate:  models.DateOf(pass.IssueDate),
			ExpiryDate: models.DateOf(pass.ExpiryDate),
		}
		doc.State = PassActive
		if pass.IsExpired(today) {
			doc.State = PassExpired
		}
	}

	return doc
}

// NoDriver is shown when a route has no driver assigned
const NoDriver = "Not Assigned"

func driverOrDefault(name string) string {
	if name == "" {
		return NoDriver
	}
	return name
}

// Filename is the suggested download name
func (d Document) Filename() string {
	return "BusPass_" + sanitizeFilename(d.RollNumber) + ".pdf"
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '"', r == '\\', r == '/', r < 0x20, r == 0x7f:
			return '_'
		}
		return r
	}, s)
}
