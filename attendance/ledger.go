/*
ledger.go - Attendance marking rules and range queries

PURPOSE:
  The Ledger enforces the marking invariants in front of whatever store
  holds the records:
  - at most one record per (worker, date); a re-mark overwrites
  - future days can never be marked
  - only recognized day-types are accepted

ABSENT DEFAULT:
  Range queries return only explicitly stored marks; unmarked days are
  absent by default and the caller applies that default. Marking a day
  back to absent stores the mark like any other (the table stays small
  and the observed overwrite semantics hold either way).

CLOCK:
  "Today" is injectable so tests can pin it. Production uses the UTC
  day from payweek.Today.

SEE ALSO:
  - store/sqlite: persistent Store implementation
  - store/memory: in-memory Store for tests
*/
package attendance

import (
	"context"

	"github.com/AmitChaudhary07/worker-attendance-management/payweek"
)

// =============================================================================
// STORE - Persistence consumed by the Ledger
// =============================================================================

// Store persists attendance marks. Implementations must keep at most
// one record per (worker, date) pair; Upsert replaces on conflict.
type Store interface {
	// UpsertMark inserts or replaces the record for (rec.WorkerID, rec.Date).
	// Returns ErrWorkerNotFound if the worker does not exist.
	UpsertMark(ctx context.Context, rec Record) error

	// MarksInRange returns the explicitly stored marks for the worker in
	// [from, to]. Unmarked days are omitted. An unknown worker yields an
	// empty map, not an error.
	MarksInRange(ctx context.Context, workerID string, from, to payweek.Date) (map[payweek.Date]Status, error)

	// WorkerExists reports whether the worker is on the roster.
	WorkerExists(ctx context.Context, workerID string) (bool, error)
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger applies attendance rules over a Store.
type Ledger struct {
	store Store

	// RequireWorker makes Range fail with ErrWorkerNotFound for unknown
	// workers instead of returning an empty map. Off by default: a range
	// query for a deleted worker legitimately returns nothing.
	RequireWorker bool

	now func() payweek.Date
}

// NewLedger creates a Ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: payweek.Today}
}

// WithClock pins "today" for tests.
func (l *Ledger) WithClock(now func() payweek.Date) *Ledger {
	l.now = now
	return l
}

// Mark upserts the day-type for (workerID, date). Rejects unknown
// statuses and future dates before touching the store.
func (l *Ledger) Mark(ctx context.Context, workerID string, date payweek.Date, status Status) error {
	if !status.Valid() {
		return &InvalidStatusError{Status: status}
	}
	today := l.now()
	if payweek.IsFuture(date, today) {
		return &FutureDateError{Date: date, Today: today}
	}
	return l.store.UpsertMark(ctx, Record{WorkerID: workerID, Date: date, Status: status})
}

// Cycle advances the day's status one step (absent -> present -> half ->
// full_plus_half -> absent) and returns the stored result. Unmarked days
// start from the absent default.
func (l *Ledger) Cycle(ctx context.Context, workerID string, date payweek.Date) (Status, error) {
	current, err := l.statusOn(ctx, workerID, date)
	if err != nil {
		return "", err
	}
	next := current.Next()
	if err := l.Mark(ctx, workerID, date, next); err != nil {
		return "", err
	}
	return next, nil
}

// Range returns the stored marks for the worker in [from, to].
func (l *Ledger) Range(ctx context.Context, workerID string, from, to payweek.Date) (map[payweek.Date]Status, error) {
	if l.RequireWorker {
		exists, err := l.store.WorkerExists(ctx, workerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrWorkerNotFound
		}
	}
	return l.store.MarksInRange(ctx, workerID, from, to)
}

// Week returns the stored marks for the pay week containing ref.
func (l *Ledger) Week(ctx context.Context, workerID string, ref payweek.Date) (payweek.Week, map[payweek.Date]Status, error) {
	week := payweek.WeekOf(ref)
	marks, err := l.Range(ctx, workerID, week.Start(), week.End())
	return week, marks, err
}

func (l *Ledger) statusOn(ctx context.Context, workerID string, date payweek.Date) (Status, error) {
	marks, err := l.store.MarksInRange(ctx, workerID, date, date)
	if err != nil {
		return "", err
	}
	if s, ok := marks[date]; ok {
		return s, nil
	}
	return StatusAbsent, nil
}
