// Package store holds what every store implementation shares: the
// unavailability error that lets transport distinguish "your request
// was wrong" (domain errors) from "try again later" (this).
package store

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps any persistence failure that is not a domain
// condition. Classify with errors.Is.
var ErrUnavailable = errors.New("store unavailable")

// Unavailable wraps a driver-level error as ErrUnavailable, keeping the
// cause in the message for server-side logs.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
