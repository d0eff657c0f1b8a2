/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements roster.Store, attendance.Store, and payout.Store against a
  single SQLite database. The same patterns apply to any relational
  store; only SQL dialect details would change.

KEY TABLES:
  workers:    roster records, keyed by id
  attendance: one row per (worker_id, date), FK to workers with
              ON DELETE CASCADE — an attendance record cannot outlive
              its worker
  payouts:    append-only settlement events; plain (non-cascading)
              reference to workers, so settlement history survives a
              worker deletion

UPSERT SEMANTICS:
  Attendance marks use INSERT ... ON CONFLICT(worker_id, date) DO
  UPDATE. Re-marking a day overwrites in place; the uniqueness
  constraint makes duplicates impossible.

DECIMALS:
  Wages, balances, and amounts are stored as TEXT via decimal.String()
  and parsed back with decimal.NewFromString. No floating point crosses
  the storage boundary.

WAL MODE:
  The database is opened with WAL and foreign keys enforced. A RWMutex
  serializes writers; concurrent marks on the same (worker, date) cell
  race only on which write wins, matching upsert semantics.

USAGE:
  store, err := sqlite.New(":memory:")
  ...
  defer store.Close()

SEE ALSO:
  - store/memory: in-memory implementation for tests
  - attendance/ledger.go, roster/roster.go, payout/payout.go: consumers
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/AmitChaudhary07/worker-attendance-management/attendance"
	"github.com/AmitChaudhary07/worker-attendance-management/payout"
	"github.com/AmitChaudhary07/worker-attendance-management/payweek"
	"github.com/AmitChaudhary07/worker-attendance-management/roster"
	"github.com/AmitChaudhary07/worker-attendance-management/store"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Workers (roster)
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		mobile TEXT NOT NULL,
		daily_wage TEXT NOT NULL,
		designation TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		advance TEXT NOT NULL DEFAULT '0',
		remaining TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workers_created_at
		ON workers(created_at DESC);

	-- Attendance marks: at most one per (worker, date), gone with the worker
	CREATE TABLE IF NOT EXISTS attendance (
		worker_id TEXT NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (worker_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_worker_date
		ON attendance(worker_id, date);

	-- Payout events (append-only settlement history)
	CREATE TABLE IF NOT EXISTS payouts (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		week_start TEXT NOT NULL,
		week_end TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payouts_worker
		ON payouts(worker_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKER STORE (roster.Store interface)
// =============================================================================

// SaveWorker inserts a new worker.
func (s *Store) SaveWorker(ctx context.Context, w roster.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO workers
		(id, name, mobile, daily_wage, designation, status, advance, remaining, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		w.ID,
		w.Name,
		w.Mobile,
		w.DailyWage.String(),
		w.Designation,
		string(w.Status),
		w.Advance.String(),
		w.Remaining.String(),
		w.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return store.Unavailable(err)
	}
	return nil
}

// ListWorkers returns all workers, newest first.
func (s *Store) ListWorkers(ctx context.Context) ([]roster.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, mobile, daily_wage, designation, status, advance, remaining, created_at
		FROM workers
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.Unavailable(err)
	}
	defer rows.Close()

	var workers []roster.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

// GetWorker returns the worker, or nil if absent.
func (s *Store) GetWorker(ctx context.Context, id string) (*roster.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, mobile, daily_wage, designation, status, advance, remaining, created_at
		FROM workers
		WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	w, err := scanWorker(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWorkerStatus sets only the status column. A single statement so
// a concurrent balance update on the same worker is never clobbered.
func (s *Store) UpdateWorkerStatus(ctx context.Context, id string, status roster.WorkerStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE workers SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return store.Unavailable(err)
	}
	return checkAffected(res)
}

// UpdateWorkerBalances sets only the supplied balance columns, in one
// statement. Omitted fields are not part of the SET clause at all.
func (s *Store) UpdateWorkerBalances(ctx context.Context, id string, fields roster.BalanceFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sets []string
	var args []any
	if fields.Advance != nil {
		sets = append(sets, "advance = ?")
		args = append(args, fields.Advance.String())
	}
	if fields.Remaining != nil {
		sets = append(sets, "remaining = ?")
		args = append(args, fields.Remaining.String())
	}
	if len(sets) == 0 {
		// Nothing to set; still report a missing worker.
		var one int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM workers WHERE id = ?`, id).Scan(&one)
		if err == sql.ErrNoRows {
			return roster.ErrNotFound
		}
		if err != nil {
			return store.Unavailable(err)
		}
		return nil
	}

	query := `UPDATE workers SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return store.Unavailable(err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return store.Unavailable(err)
	}
	if n == 0 {
		return roster.ErrNotFound
	}
	return nil
}

// DeleteWorker removes the worker; the FK cascades to attendance rows.
func (s *Store) DeleteWorker(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM workers WHERE id = ?`, id)
	if err != nil {
		return store.Unavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.Unavailable(err)
	}
	if n == 0 {
		return roster.ErrNotFound
	}
	return nil
}

// WorkerExists reports whether the worker is on the roster.
func (s *Store) WorkerExists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM workers WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, store.Unavailable(err)
	}
	return true, nil
}

// =============================================================================
// ATTENDANCE STORE (attendance.Store interface)
// =============================================================================

// UpsertMark inserts or replaces the mark for (rec.WorkerID, rec.Date).
func (s *Store) UpsertMark(ctx context.Context, rec attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance (worker_id, date, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(worker_id, date) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.WorkerID,
		rec.Date.String(),
		string(rec.Status),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return attendance.ErrWorkerNotFound
		}
		return store.Unavailable(err)
	}
	return nil
}

// MarksInRange returns the stored marks for the worker in [from, to].
func (s *Store) MarksInRange(ctx context.Context, workerID string, from, to payweek.Date) (map[payweek.Date]attendance.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date, status
		FROM attendance
		WHERE worker_id = ? AND date >= ? AND date <= ?
	`
	rows, err := s.db.QueryContext(ctx, query, workerID, from.String(), to.String())
	if err != nil {
		return nil, store.Unavailable(err)
	}
	defer rows.Close()

	marks := make(map[payweek.Date]attendance.Status)
	for rows.Next() {
		var dateStr, statusStr string
		if err := rows.Scan(&dateStr, &statusStr); err != nil {
			return nil, store.Unavailable(err)
		}
		date, err := payweek.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt attendance date %q: %w", dateStr, err)
		}
		marks[date] = attendance.Status(statusStr)
	}
	return marks, rows.Err()
}

// =============================================================================
// PAYOUT STORE (payout.Store interface)
// =============================================================================

// AppendPayout persists a settlement event. Append-only: this table has
// no update or delete path.
func (s *Store) AppendPayout(ctx context.Context, e payout.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO payouts (id, worker_id, amount, week_start, week_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.WorkerID,
		e.Amount.String(),
		e.WeekStart.String(),
		e.WeekEnd.String(),
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return store.Unavailable(err)
	}
	return nil
}

// ListPayouts returns the worker's settlement events, newest first.
func (s *Store) ListPayouts(ctx context.Context, workerID string) ([]payout.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, worker_id, amount, week_start, week_end, created_at
		FROM payouts
		WHERE worker_id = ?
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, workerID)
	if err != nil {
		return nil, store.Unavailable(err)
	}
	defer rows.Close()

	var events []payout.Event
	for rows.Next() {
		var e payout.Event
		var amountStr, startStr, endStr, createdStr string
		if err := rows.Scan(&e.ID, &e.WorkerID, &amountStr, &startStr, &endStr, &createdStr); err != nil {
			return nil, store.Unavailable(err)
		}
		if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("corrupt payout amount %q: %w", amountStr, err)
		}
		if e.WeekStart, err = payweek.ParseDate(startStr); err != nil {
			return nil, fmt.Errorf("corrupt payout week start %q: %w", startStr, err)
		}
		if e.WeekEnd, err = payweek.ParseDate(endStr); err != nil {
			return nil, fmt.Errorf("corrupt payout week end %q: %w", endStr, err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr); err != nil {
			return nil, fmt.Errorf("corrupt payout timestamp %q: %w", createdStr, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorker(row rowScanner) (*roster.Worker, error) {
	var w roster.Worker
	var wageStr, statusStr, advanceStr, remainingStr, createdStr string

	err := row.Scan(&w.ID, &w.Name, &w.Mobile, &wageStr, &w.Designation,
		&statusStr, &advanceStr, &remainingStr, &createdStr)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, store.Unavailable(err)
	}

	if w.DailyWage, err = decimal.NewFromString(wageStr); err != nil {
		return nil, fmt.Errorf("corrupt daily wage %q: %w", wageStr, err)
	}
	if w.Advance, err = decimal.NewFromString(advanceStr); err != nil {
		return nil, fmt.Errorf("corrupt advance %q: %w", advanceStr, err)
	}
	if w.Remaining, err = decimal.NewFromString(remainingStr); err != nil {
		return nil, fmt.Errorf("corrupt remaining %q: %w", remainingStr, err)
	}
	if w.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr); err != nil {
		return nil, fmt.Errorf("corrupt created_at %q: %w", createdStr, err)
	}
	w.Status = roster.WorkerStatus(statusStr)
	return &w, nil
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
