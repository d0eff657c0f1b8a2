/*
errors.go - Sentinel errors for the attendance surface

PURPOSE:
  Domain failures the transport layer must tell apart from each other
  and from store-level unavailability. Use errors.Is to classify.

SEE ALSO:
  - roster: worker-side errors (validation, field whitelist)
  - store: ErrUnavailable for persistence failures
*/
package attendance

import (
	"errors"
	"fmt"

	"github.com/AmitChaudhary07/worker-attendance-management/payweek"
)

var (
	// ErrWorkerNotFound is returned when the referenced worker does not exist.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrInvalidDate is returned for a mark on a future day.
	ErrInvalidDate = errors.New("invalid date: cannot mark future attendance")

	// ErrInvalidStatus is returned for an unrecognized day-type.
	ErrInvalidStatus = errors.New("invalid attendance status")
)

// FutureDateError reports a rejected future-day mark with the dates involved.
type FutureDateError struct {
	Date  payweek.Date
	Today payweek.Date
}

func (e *FutureDateError) Error() string {
	return fmt.Sprintf("cannot mark attendance for %s: after today (%s)", e.Date, e.Today)
}

func (e *FutureDateError) Unwrap() error { return ErrInvalidDate }

// InvalidStatusError reports the unrecognized value.
type InvalidStatusError struct {
	Status Status
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("unknown attendance status %q", e.Status)
}

func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }
