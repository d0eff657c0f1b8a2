/*
Package roster manages worker identity, status, and running balances.

PURPOSE:
  Workers are registered by the manager with a daily wage and contact
  details. Status (Active/Inactive) and the advance/remaining balances
  mutate independently of attendance. Deleting a worker cascades to the
  worker's attendance records; payout history is a settlement record and
  survives.

KEY CONCEPTS:
  - Worker: identity + wage + balances, uuid id assigned on create
  - Balance whitelist: UpdateBalances only ever touches advance and
    remaining; any other field name is rejected outright
  - Validation before mutation: malformed input never reaches the store

MONEY:
  Wage and balances are decimal.Decimal. Floating point never carries an
  amount in this package.

SEE ALSO:
  - attendance: records owned by a worker (cascade on delete)
  - payout: settlement events referencing a worker
*/
package roster

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// WORKER
// =============================================================================

type WorkerStatus string

const (
	StatusActive   WorkerStatus = "Active"
	StatusInactive WorkerStatus = "Inactive"
)

func (s WorkerStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Worker is one informally-employed worker on the roster.
type Worker struct {
	ID          string
	Name        string
	Mobile      string
	DailyWage   decimal.Decimal
	Designation string
	Status      WorkerStatus
	Advance     decimal.Decimal
	Remaining   decimal.Decimal
	CreatedAt   time.Time
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when the referenced worker does not exist.
	ErrNotFound = errors.New("worker not found")

	// ErrInvalidField is returned when a balance update targets a field
	// outside the {advance, remaining} whitelist.
	ErrInvalidField = errors.New("field not updatable")

	// ErrValidation is returned for malformed create input.
	ErrValidation = errors.New("invalid worker input")
)

// ValidationError reports which field of a create request was malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvalidFieldError reports the rejected field name of a balance update.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("field %q is not updatable; only advance and remaining are", e.Field)
}

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidField }

// =============================================================================
// STORE - Persistence consumed by the Ledger
// =============================================================================

// Store persists workers.
type Store interface {
	// SaveWorker inserts a new worker.
	SaveWorker(ctx context.Context, w Worker) error

	// ListWorkers returns all workers, newest first.
	ListWorkers(ctx context.Context) ([]Worker, error)

	// GetWorker returns the worker, or nil if absent.
	GetWorker(ctx context.Context, id string) (*Worker, error)

	// UpdateWorkerStatus sets only the status column, atomically.
	// Returns ErrNotFound if absent.
	UpdateWorkerStatus(ctx context.Context, id string, status WorkerStatus) error

	// UpdateWorkerBalances sets only the supplied balance fields,
	// atomically. Returns ErrNotFound if absent.
	//
	// Updates are targeted so that concurrent mutations of different
	// fields on the same worker never clobber each other: a status
	// change and a balance change both land.
	UpdateWorkerBalances(ctx context.Context, id string, fields BalanceFields) error

	// DeleteWorker removes the worker and cascades to attendance records.
	// Returns ErrNotFound if absent.
	DeleteWorker(ctx context.Context, id string) error
}

// =============================================================================
// LEDGER
// =============================================================================

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// BalanceFields is the whitelist accepted by UpdateBalances.
type BalanceFields struct {
	Advance   *decimal.Decimal
	Remaining *decimal.Decimal
}

// Ledger applies roster rules over a Store.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Create validates and registers a new worker. The id and creation
// timestamp are assigned here.
func (l *Ledger) Create(ctx context.Context, name, mobile string, dailyWage decimal.Decimal, designation string, status WorkerStatus) (*Worker, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if !mobilePattern.MatchString(mobile) {
		return nil, &ValidationError{Field: "mobile", Message: "must be a 10-digit number"}
	}
	if dailyWage.IsNegative() {
		return nil, &ValidationError{Field: "dailyWage", Message: "must not be negative"}
	}
	if status == "" {
		status = StatusActive
	}
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "must be Active or Inactive"}
	}

	w := Worker{
		ID:          uuid.NewString(),
		Name:        name,
		Mobile:      mobile,
		DailyWage:   dailyWage,
		Designation: designation,
		Status:      status,
		Advance:     decimal.Zero,
		Remaining:   decimal.Zero,
		CreatedAt:   time.Now().UTC(),
	}
	if err := l.store.SaveWorker(ctx, w); err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns all workers, newest first.
func (l *Ledger) List(ctx context.Context) ([]Worker, error) {
	return l.store.ListWorkers(ctx)
}

// Get returns the worker or ErrNotFound.
func (l *Ledger) Get(ctx context.Context, id string) (*Worker, error) {
	w, err := l.store.GetWorker(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}
	return w, nil
}

// SetStatus flips the worker between Active and Inactive. The write is
// a single targeted store operation, never a read-then-rewrite, so a
// concurrent balance update on the same worker cannot be lost.
func (l *Ledger) SetStatus(ctx context.Context, id string, status WorkerStatus) (*Worker, error) {
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "must be Active or Inactive"}
	}
	if err := l.store.UpdateWorkerStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return l.Get(ctx, id)
}

// UpdateBalances replaces the supplied balances; omitted fields are left
// unchanged. Like SetStatus, the write touches only its own fields so
// concurrent mutations of the same worker all land. Callers validating
// raw field names against the whitelist use CheckBalanceField first.
func (l *Ledger) UpdateBalances(ctx context.Context, id string, fields BalanceFields) (*Worker, error) {
	if err := l.store.UpdateWorkerBalances(ctx, id, fields); err != nil {
		return nil, err
	}
	return l.Get(ctx, id)
}

// CheckBalanceField validates a raw field name against the whitelist.
// Enforcement is a whitelist, never a blacklist.
func CheckBalanceField(name string) error {
	switch name {
	case "advance", "remaining":
		return nil
	}
	return &InvalidFieldError{Field: name}
}

// Delete removes the worker and, through the store, every attendance
// record the worker owns.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	return l.store.DeleteWorker(ctx, id)
}
