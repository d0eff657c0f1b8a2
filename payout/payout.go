/*
Package payout derives weekly wage amounts and records settlements.

PURPOSE:
  Two responsibilities, deliberately separated:

  1. Calculator: a pure reduction of one pay week's attendance counts
     and a daily wage into a payable amount. Stateless, re-derivable at
     any time from the ledger; never cached.
  2. Processor: an append-only record of a finalized payout (amount and
     week bounds). A historical snapshot, not a cache the calculator
     reads back.

FORMULA:
  amount = wage * present + wage/2 * half + wage * 1.5 * full_plus_half

  Computed on decimal.Decimal with no mid-formula rounding. Presentation
  rounding is a display concern.

TRUSTED APPEND:
  Record does not recompute the amount from attendance; the caller is
  trusted to have derived it from the calculator.

SEE ALSO:
  - attendance: produces the Counts consumed here
  - payweek: defines the week bounds stamped on every event
*/
package payout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AmitChaudhary07/worker-attendance-management/attendance"
	"github.com/AmitChaudhary07/worker-attendance-management/payweek"
)

// =============================================================================
// CALCULATOR
// =============================================================================

var (
	two     = decimal.NewFromInt(2)
	oneHalf = decimal.NewFromFloat(1.5)
)

// WeeklyAmount reduces one pay week's attendance counts into the amount
// owed at the given daily wage. Absent days contribute nothing.
func WeeklyAmount(dailyWage decimal.Decimal, counts attendance.Counts) decimal.Decimal {
	full := dailyWage.Mul(decimal.NewFromInt(int64(counts.Present)))
	half := dailyWage.Div(two).Mul(decimal.NewFromInt(int64(counts.Half)))
	fullPlusHalf := dailyWage.Mul(oneHalf).Mul(decimal.NewFromInt(int64(counts.FullPlusHalf)))
	return full.Add(half).Add(fullPlusHalf)
}

// WeekSummary is the computed view of one worker-week: the week bounds,
// the stored marks, their tally, and the derived amount. Serves the
// payout preview; nothing here is persisted.
type WeekSummary struct {
	Week   payweek.Week
	Marks  map[payweek.Date]attendance.Status
	Counts attendance.Counts
	Amount decimal.Decimal
}

// Summarize builds the WeekSummary for a wage and a week's marks.
func Summarize(week payweek.Week, marks map[payweek.Date]attendance.Status, dailyWage decimal.Decimal) WeekSummary {
	counts := attendance.CountStatuses(marks)
	return WeekSummary{
		Week:   week,
		Marks:  marks,
		Counts: counts,
		Amount: WeeklyAmount(dailyWage, counts),
	}
}

// =============================================================================
// PROCESSOR - Append-only settlement record
// =============================================================================

// Event is one finalized payout. Never mutated or deleted.
type Event struct {
	ID        string
	WorkerID  string
	Amount    decimal.Decimal
	WeekStart payweek.Date
	WeekEnd   payweek.Date
	CreatedAt time.Time
}

// Store persists payout events. Append-only: no update, no delete.
type Store interface {
	// AppendPayout persists the event.
	AppendPayout(ctx context.Context, e Event) error

	// ListPayouts returns the worker's events, newest first.
	ListPayouts(ctx context.Context, workerID string) ([]Event, error)
}

// Processor records finalized payouts.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// Record appends a settlement event for the worker and week. The amount
// is taken as given; see the package comment on trusted append.
func (p *Processor) Record(ctx context.Context, workerID string, amount decimal.Decimal, weekStart, weekEnd payweek.Date) (*Event, error) {
	e := Event{
		ID:        uuid.NewString(),
		WorkerID:  workerID,
		Amount:    amount,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.store.AppendPayout(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListForWorker returns the worker's settlement history, newest first.
func (p *Processor) ListForWorker(ctx context.Context, workerID string) ([]Event, error) {
	return p.store.ListPayouts(ctx, workerID)
}
