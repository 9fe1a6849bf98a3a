package core

import "time"

// Availability represents the registration state of a crate name.
type Availability int

const (
	AvailabilityUnknown     Availability = 0
	AvailabilityAvailable   Availability = 1
	AvailabilityUnavailable Availability = 2
)

// String returns the canonical lowercase form used by structured output.
func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Label returns the display form used by text output.
func (a Availability) Label() string {
	switch a {
	case AvailabilityAvailable:
		return "Available"
	case AvailabilityUnavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

// LookupResult pairs a name with its verdict or the error that prevented one.
type LookupResult struct {
	Name         string
	Availability Availability
	Err          error
	StatusCode   int
	Elapsed      time.Duration
}

// OK reports whether the lookup produced a verdict.
func (r LookupResult) OK() bool {
	return r.Err == nil
}
