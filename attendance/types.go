/*
Package attendance tracks per-worker, per-day attendance marks.

PURPOSE:
  A manager marks each worker's day as one of four day-types. Marks are
  upserted by (worker, date): re-marking a day overwrites, never
  duplicates. Days with no mark default to absent; the default is never
  required to be stored.

KEY CONCEPTS IN THIS FILE (types.go):
  - Status: one of present, half, full_plus_half, absent
  - Cycle: the single-click progression through the four statuses
  - Counts: per-week tally consumed by the payout calculator

SEE ALSO:
  - ledger.go: marking rules (no future days) and range queries
  - errors.go: sentinel errors for the attendance surface
  - payout: turns Counts into money
*/
package attendance

import "github.com/AmitChaudhary07/worker-attendance-management/payweek"

// =============================================================================
// STATUS - Day-type of one attendance mark
// =============================================================================

type Status string

const (
	StatusPresent      Status = "present"
	StatusHalf         Status = "half"
	StatusFullPlusHalf Status = "full_plus_half"
	StatusAbsent       Status = "absent"
)

// DisplayOrder is the canonical legend order.
var DisplayOrder = []Status{StatusPresent, StatusHalf, StatusFullPlusHalf, StatusAbsent}

// Valid reports whether s is a recognized day-type.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusHalf, StatusFullPlusHalf, StatusAbsent:
		return true
	}
	return false
}

// Next returns the status one cycle step after s:
// absent -> present -> half -> full_plus_half -> absent.
// This is what a single click on a day cell does.
func (s Status) Next() Status {
	switch s {
	case StatusAbsent:
		return StatusPresent
	case StatusPresent:
		return StatusHalf
	case StatusHalf:
		return StatusFullPlusHalf
	default:
		return StatusAbsent
	}
}

// =============================================================================
// RECORD & COUNTS
// =============================================================================

// Record is one stored attendance mark.
type Record struct {
	WorkerID string
	Date     payweek.Date
	Status   Status
}

// Counts tallies the payable day-types in one pay week. Absent days
// contribute nothing and are not counted.
type Counts struct {
	Present      int
	Half         int
	FullPlusHalf int
}

// Add increments the tally for s. Absent and unknown statuses are ignored.
func (c *Counts) Add(s Status) {
	switch s {
	case StatusPresent:
		c.Present++
	case StatusHalf:
		c.Half++
	case StatusFullPlusHalf:
		c.FullPlusHalf++
	}
}

// CountStatuses tallies a date->status mapping, such as the result of a
// week range query.
func CountStatuses(marks map[payweek.Date]Status) Counts {
	var c Counts
	for _, s := range marks {
		c.Add(s)
	}
	return c
}
