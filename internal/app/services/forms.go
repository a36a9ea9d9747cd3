package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/models/dto"
	"github.com/yigit/buspass/internal/pkg/helpers"
	"github.com/yigit/buspass/internal/pkg/validation"
)

// Field names as they appear in the HTML forms
const (
	FieldName          = "name"
	FieldRollNumber    = "roll_number"
	FieldEmail         = "email"
	FieldBusRoute      = "bus_route"
	FieldRouteName     = "route_name"
	FieldStartLocation = "start_location"
	FieldEndLocation   = "end_location"
	FieldDriverName    = "driver_name"
	FieldCapacity      = "capacity"
	FieldStudent       = "student"
	FieldExpiryDate    = "expiry_date"
)

const (
	MsgRollNumberTaken = "Student with this Roll number already exists."
	MsgExpiryNotAfter  = "Expiry date must be after the issue date."
)

// StudentInput is a cleaned add-student submission
type StudentInput struct {
	Name       string
	RollNumber string
	Email      string
	RouteID    *int64
}

// RouteInput is a cleaned add-route submission
type RouteInput struct {
	Name          string
	StartLocation string
	EndLocation   string
	DriverName    *string
	Capacity      int
}

// PassInput is a cleaned issue-pass submission
type PassInput struct {
	StudentID  int64
	ExpiryDate time.Time
}

// parseID reads a positive record id from a select field
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ValidateStudentForm trims and checks an add-student form. It does not
// look at the database; route existence and roll number uniqueness are
// checked by the service.
func ValidateStudentForm(form dto.StudentForm) (StudentInput, *dto.ValidationErrors) {
	form.Name = strings.TrimSpace(form.Name)
	form.RollNumber = strings.TrimSpace(form.RollNumber)
	form.Email = strings.TrimSpace(form.Email)
	form.BusRoute = strings.TrimSpace(form.BusRoute)

	errs := dto.NewValidationErrors().Merge(validation.Struct(form))

	in := StudentInput{Name: form.Name, RollNumber: form.RollNumber, Email: form.Email}
	if form.BusRoute != "" {
		id, ok := parseID(form.BusRoute)
		if !ok {
			errs.AddError(FieldBusRoute, validation.MsgInvalidChoice)
		} else {
			in.RouteID = &id
		}
	}

	if errs.HasErrors() {
		return in, errs
	}
	return in, nil
}

// ValidateRouteForm trims and checks an add-route form. A blank capacity
// means the default.
func ValidateRouteForm(form dto.RouteForm) (RouteInput, *dto.ValidationErrors) {
	form.RouteName = strings.TrimSpace(form.RouteName)
	form.StartLocation = strings.TrimSpace(form.StartLocation)
	form.EndLocation = strings.TrimSpace(form.EndLocation)
	form.DriverName = strings.TrimSpace(form.DriverName)
	form.Capacity = strings.TrimSpace(form.Capacity)

	errs := dto.NewValidationErrors().Merge(validation.Struct(form))

	in := RouteInput{
		Name:          form.RouteName,
		StartLocation: form.StartLocation,
		EndLocation:   form.EndLocation,
		DriverName:    helpers.NullIfBlank(form.DriverName),
		Capacity:      models.DefaultRouteCapacity,
	}

	if form.Capacity != "" {
		capacity, err := strconv.Atoi(form.Capacity)
		switch {
		case err != nil:
			errs.AddError(FieldCapacity, validation.MsgWholeNumber)
		case capacity < 1:
			errs.AddError(FieldCapacity, validation.MinValue(1))
		default:
			in.Capacity = capacity
		}
	}

	if errs.HasErrors() {
		return in, errs
	}
	return in, nil
}

// ValidatePassForm checks an issue-pass form. The expiry-after-issue rule
// needs the issue date and is applied by ValidatePass.
func ValidatePassForm(form dto.PassForm) (PassInput, *dto.ValidationErrors) {
	form.Student = strings.TrimSpace(form.Student)
	form.ExpiryDate = strings.TrimSpace(form.ExpiryDate)

	errs := dto.NewValidationErrors().Merge(validation.Struct(form))

	var in PassInput
	if form.Student != "" {
		id, ok := parseID(form.Student)
		if !ok {
			errs.AddError(FieldStudent, validation.MsgInvalidChoice)
		}
		in.StudentID = id
	}
	if form.ExpiryDate != "" {
		expiry, err := helpers.ParseDate(form.ExpiryDate)
		if err != nil {
			errs.AddError(FieldExpiryDate, validation.MsgInvalidDate)
		}
		in.ExpiryDate = expiry
	}

	if errs.HasErrors() {
		return in, errs
	}
	return in, nil
}

// ValidatePass enforces the record-level rules of a pass. It runs right
// before every write.
func ValidatePass(pass *models.BusPass) *dto.ValidationErrors {
	if !models.DateOf(pass.ExpiryDate).After(models.DateOf(pass.IssueDate)) {
		return dto.NewValidationErrors().AddError(FieldExpiryDate, MsgExpiryNotAfter)
	}
	return nil
}
