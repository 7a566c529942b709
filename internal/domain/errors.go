package domain

import "errors"

var (
	// ErrEmployeeNotFound is returned when an email resolves to no employee.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrGeneratorNotFound is returned when a generator cannot be located.
	ErrGeneratorNotFound = errors.New("generator not found")
	// ErrJobCardNotFound is returned when a job card cannot be located.
	ErrJobCardNotFound = errors.New("job card not found")
	// ErrMiniJobCardNotFound is returned when a mini job card cannot be located.
	ErrMiniJobCardNotFound = errors.New("mini job card not found")

	// ErrEmployeeExists is returned when registering an email already in use.
	ErrEmployeeExists = errors.New("employee already exists")
	// ErrInvalidCredentials is returned on login with a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSameStatus rejects a transition whose old and new status are equal.
	ErrSameStatus = errors.New("same status cannot be updated")
	// ErrNoActiveSession is returned when ending a day with no timesheet.
	ErrNoActiveSession = errors.New("no active session")
	// ErrTimesheetNotFound is returned when a daily summary has no timesheet.
	ErrTimesheetNotFound = errors.New("timesheet not found")
	// ErrInvalidRange rejects report ranges that are inverted or too long.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrValidation covers malformed or missing request fields.
	ErrValidation = errors.New("validation failed")
)
