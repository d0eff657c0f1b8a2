/*
Package memory provides an in-memory implementation of the storage
interfaces for tests and demos.

PURPOSE:
  Same contracts as store/sqlite without a database: maps guarded by a
  mutex. Cascade-on-delete and upsert-by-(worker, date) semantics are
  reproduced so ledger tests behave identically against either store.

SEE ALSO:
  - store/sqlite: the production implementation
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/AmitChaudhary07/worker-attendance-management/attendance"
	"github.com/AmitChaudhary07/worker-attendance-management/payout"
	"github.com/AmitChaudhary07/worker-attendance-management/payweek"
	"github.com/AmitChaudhary07/worker-attendance-management/roster"
)

// Store keeps everything in memory. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	workers  map[string]roster.Worker
	marks    map[string]map[payweek.Date]attendance.Status
	payouts  map[string][]payout.Event
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		workers: make(map[string]roster.Worker),
		marks:   make(map[string]map[payweek.Date]attendance.Status),
		payouts: make(map[string][]payout.Event),
	}
}

// =============================================================================
// WORKER STORE (roster.Store interface)
// =============================================================================

func (s *Store) SaveWorker(ctx context.Context, w roster.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers[w.ID] = w
	return nil
}

func (s *Store) ListWorkers(ctx context.Context) ([]roster.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := make([]roster.Worker, 0, len(s.workers))
	for _, w := range s.workers {
		workers = append(workers, w)
	}
	// Newest first, matching the sqlite store's ordering. Ties on
	// CreatedAt fall back to ID so the order is deterministic.
	sort.SliceStable(workers, func(i, j int) bool {
		if !workers[i].CreatedAt.Equal(workers[j].CreatedAt) {
			return workers[i].CreatedAt.After(workers[j].CreatedAt)
		}
		return workers[i].ID < workers[j].ID
	})
	return workers, nil
}

func (s *Store) GetWorker(ctx context.Context, id string) (*roster.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workers[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (s *Store) UpdateWorkerStatus(ctx context.Context, id string, status roster.WorkerStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workers[id]
	if !ok {
		return roster.ErrNotFound
	}
	w.Status = status
	s.workers[id] = w
	return nil
}

func (s *Store) UpdateWorkerBalances(ctx context.Context, id string, fields roster.BalanceFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workers[id]
	if !ok {
		return roster.ErrNotFound
	}
	if fields.Advance != nil {
		w.Advance = *fields.Advance
	}
	if fields.Remaining != nil {
		w.Remaining = *fields.Remaining
	}
	s.workers[id] = w
	return nil
}

func (s *Store) DeleteWorker(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workers[id]; !ok {
		return roster.ErrNotFound
	}
	delete(s.workers, id)
	// Cascade: attendance goes with the worker. Payout history stays.
	delete(s.marks, id)
	return nil
}

func (s *Store) WorkerExists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.workers[id]
	return ok, nil
}

// =============================================================================
// ATTENDANCE STORE (attendance.Store interface)
// =============================================================================

func (s *Store) UpsertMark(ctx context.Context, rec attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workers[rec.WorkerID]; !ok {
		return attendance.ErrWorkerNotFound
	}
	byDate, ok := s.marks[rec.WorkerID]
	if !ok {
		byDate = make(map[payweek.Date]attendance.Status)
		s.marks[rec.WorkerID] = byDate
	}
	byDate[rec.Date] = rec.Status
	return nil
}

func (s *Store) MarksInRange(ctx context.Context, workerID string, from, to payweek.Date) (map[payweek.Date]attendance.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[payweek.Date]attendance.Status)
	for date, status := range s.marks[workerID] {
		if !date.Before(from) && !date.After(to) {
			result[date] = status
		}
	}
	return result, nil
}

// =============================================================================
// PAYOUT STORE (payout.Store interface)
// =============================================================================

func (s *Store) AppendPayout(ctx context.Context, e payout.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payouts[e.WorkerID] = append(s.payouts[e.WorkerID], e)
	return nil
}

func (s *Store) ListPayouts(ctx context.Context, workerID string) ([]payout.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Reverse append order: newest first, stable even when timestamps tie.
	stored := s.payouts[workerID]
	events := make([]payout.Event, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		events = append(events, stored[i])
	}
	return events, nil
}
