package dto

// StudentForm is the add-student form as posted by the browser
type StudentForm struct {
	Name       string `form:"name" validate:"required,max=100"`
	RollNumber string `form:"roll_number" validate:"required,max=20"`
	Email      string `form:"email" validate:"required,max=254,email"`
	BusRoute   string `form:"bus_route"`
}

// RouteForm is the add-route form. Capacity stays a string so a blank
// field can fall back to the default.
type RouteForm struct {
	RouteName     string `form:"route_name" validate:"required,max=100"`
	StartLocation string `form:"start_location" validate:"required,max=100"`
	EndLocation   string `form:"end_location" validate:"required,max=100"`
	DriverName    string `form:"driver_name" validate:"max=100"`
	Capacity      string `form:"capacity"`
}

// PassForm is the issue-bus-pass form. The issue date is never posted.
type PassForm struct {
	Student    string `form:"student" validate:"required"`
	ExpiryDate string `form:"expiry_date" validate:"required"`
}

// LoginForm carries credentials and the page to return to
type LoginForm struct {
	Username string `form:"username" validate:"required,max=150"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// FormResult is the outcome of a form submission: either a redirect
// target with a notification, or the field errors to show on the form.
type FormResult struct {
	Redirect string
	Message  string
	Errors   *ValidationErrors
}

// Succeeded reports whether the submission was persisted
func (r FormResult) Succeeded() bool {
	return !r.Errors.HasErrors()
}

// RedirectTo builds a successful result
func RedirectTo(target, message string) FormResult {
	return FormResult{Redirect: target, Message: message}
}

// Invalid builds a failed result
func Invalid(errs *ValidationErrors) FormResult {
	return FormResult{Errors: errs}
}
