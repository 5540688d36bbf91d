// Package eligibility decides whether the current user may initiate a
// registration and, when they may not, which single call to action to show.
package eligibility

// Status is the reason code driving the registration call to action.
// Exactly one applies at a time.
type Status string

const (
	StatusOpen              Status = "OPEN"               // user may register
	StatusClosed            Status = "CLOSED"             // registration closed for this event
	StatusNeedsLogin        Status = "NEEDS_LOGIN"        // user must sign in first
	StatusNeedsProfile      Status = "NEEDS_PROFILE"      // profile incomplete
	StatusAlreadyRegistered Status = "ALREADY_REGISTERED" // one registration per user per event
)

// Inputs are the facts the gate combines.  RegistrationOpen is an explicit
// override supplied from the outside (it may be hardcoded closed for a past
// event, independent of dates).
type Inputs struct {
	RegistrationOpen  bool
	LoggedIn          bool
	ProfileComplete   bool
	AlreadyRegistered bool
}

// Evaluate derives the single applicable status.  Priority order is fixed:
// closed beats everything, then login, then profile, then already-registered,
// else open.  A stale-looking complete profile therefore never outranks a
// missing session.
func Evaluate(in Inputs) Status {
	switch {
	case !in.RegistrationOpen:
		return StatusClosed
	case !in.LoggedIn:
		return StatusNeedsLogin
	case !in.ProfileComplete:
		return StatusNeedsProfile
	case in.AlreadyRegistered:
		return StatusAlreadyRegistered
	}
	return StatusOpen
}

// CanRegister reports whether the combined predicate allows starting the
// registration workflow.
func CanRegister(in Inputs) bool {
	return Evaluate(in) == StatusOpen
}
