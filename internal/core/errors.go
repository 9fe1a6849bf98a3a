package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyName is returned when a lookup is requested for an empty name.
	ErrEmptyName = errors.New("crate name is empty")

	// ErrTimeout matches any *TimeoutError via errors.Is.
	ErrTimeout = errors.New("registry lookup timed out")
)

// TimeoutError reports that the single registry request did not complete
// within the allotted time.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("registry lookup timed out after %s", e.Timeout)
}

// Is lets errors.Is(err, ErrTimeout) match.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
