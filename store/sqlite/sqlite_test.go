package sqlite_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitChaudhary07/worker-attendance-management/attendance"
	"github.com/AmitChaudhary07/worker-attendance-management/payout"
	"github.com/AmitChaudhary07/worker-attendance-management/payweek"
	"github.com/AmitChaudhary07/worker-attendance-management/roster"
	"github.com/AmitChaudhary07/worker-attendance-management/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testWorker(id string, createdAt time.Time) roster.Worker {
	return roster.Worker{
		ID:          id,
		Name:        "Ramesh",
		Mobile:      "9876543210",
		DailyWage:   decimal.NewFromInt(200),
		Designation: "Mason",
		Status:      roster.StatusActive,
		Advance:     decimal.Zero,
		Remaining:   decimal.Zero,
		CreatedAt:   createdAt,
	}
}

// =============================================================================
// WORKER PERSISTENCE
// =============================================================================

func TestWorker_SaveAndGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	w := testWorker("w-1", time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC))
	w.DailyWage = decimal.NewFromFloat(350.50)
	w.Advance = decimal.NewFromInt(500)
	require.NoError(t, store.SaveWorker(ctx, w))

	got, err := store.GetWorker(ctx, "w-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, w.Name, got.Name)
	assert.Equal(t, w.Mobile, got.Mobile)
	assert.True(t, got.DailyWage.Equal(w.DailyWage), "wage must round-trip exactly")
	assert.True(t, got.Advance.Equal(w.Advance))
	assert.Equal(t, w.Status, got.Status)
	assert.True(t, got.CreatedAt.Equal(w.CreatedAt))
}

func TestWorker_GetMissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetWorker(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWorker_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveWorker(ctx, testWorker("w-old", base)))
	require.NoError(t, store.SaveWorker(ctx, testWorker("w-new", base.Add(time.Hour))))

	workers, err := store.ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 2)
	assert.Equal(t, "w-new", workers[0].ID)
	assert.Equal(t, "w-old", workers[1].ID)
}

func TestWorker_UpdateMissingReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.UpdateWorkerStatus(ctx, "ghost", roster.StatusInactive)
	assert.ErrorIs(t, err, roster.ErrNotFound)

	advance := decimal.NewFromInt(100)
	err = store.UpdateWorkerBalances(ctx, "ghost", roster.BalanceFields{Advance: &advance})
	assert.ErrorIs(t, err, roster.ErrNotFound)

	err = store.UpdateWorkerBalances(ctx, "ghost", roster.BalanceFields{})
	assert.ErrorIs(t, err, roster.ErrNotFound)
}

func TestWorker_TargetedUpdatesTouchOnlyTheirColumns(t *testing.T) {
	// GIVEN: a stored worker
	// WHEN: status and one balance field are updated separately
	// THEN: each update leaves every other column untouched
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveWorker(ctx, testWorker("w-1", time.Now().UTC())))

	require.NoError(t, store.UpdateWorkerStatus(ctx, "w-1", roster.StatusInactive))

	advance := decimal.NewFromInt(500)
	require.NoError(t, store.UpdateWorkerBalances(ctx, "w-1", roster.BalanceFields{Advance: &advance}))

	got, err := store.GetWorker(ctx, "w-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, roster.StatusInactive, got.Status)
	assert.True(t, got.Advance.Equal(advance))
	assert.True(t, got.Remaining.Equal(decimal.Zero), "untouched balance must survive")
	assert.True(t, got.DailyWage.Equal(decimal.NewFromInt(200)), "wage must survive both updates")
}

func TestWorker_ConcurrentStatusAndBalanceUpdates(t *testing.T) {
	// Two goroutines mutate the same worker; both writes must land.
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveWorker(ctx, testWorker("w-1", time.Now().UTC())))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, store.UpdateWorkerStatus(ctx, "w-1", roster.StatusInactive))
	}()
	go func() {
		defer wg.Done()
		remaining := decimal.NewFromInt(150)
		assert.NoError(t, store.UpdateWorkerBalances(ctx, "w-1", roster.BalanceFields{Remaining: &remaining}))
	}()
	wg.Wait()

	got, err := store.GetWorker(ctx, "w-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, roster.StatusInactive, got.Status)
	assert.True(t, got.Remaining.Equal(decimal.NewFromInt(150)))
}

// =============================================================================
// ATTENDANCE PERSISTENCE
// =============================================================================

func TestAttendance_UpsertOverwrites(t *testing.T) {
	// GIVEN: a stored mark for (worker, date)
	// WHEN: upserting a different status for the same pair
	// THEN: one row remains, with the new status
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveWorker(ctx, testWorker("w-1", time.Now().UTC())))

	day := payweek.NewDate(2024, time.January, 4)
	require.NoError(t, store.UpsertMark(ctx, attendance.Record{WorkerID: "w-1", Date: day, Status: attendance.StatusPresent}))
	require.NoError(t, store.UpsertMark(ctx, attendance.Record{WorkerID: "w-1", Date: day, Status: attendance.StatusFullPlusHalf}))

	marks, err := store.MarksInRange(ctx, "w-1", day, day)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, attendance.StatusFullPlusHalf, marks[day])
}

func TestAttendance_UpsertUnknownWorker(t *testing.T) {
	store := newTestStore(t)

	err := store.UpsertMark(context.Background(), attendance.Record{
		WorkerID: "ghost",
		Date:     payweek.NewDate(2024, time.January, 4),
		Status:   attendance.StatusPresent,
	})

	assert.ErrorIs(t, err, attendance.ErrWorkerNotFound)
}

func TestAttendance_RangeBoundsInclusive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveWorker(ctx, testWorker("w-1", time.Now().UTC())))

	thu := payweek.NewDate(2024, time.January, 4)
	wed := thu.AddDays(6)
	outside := wed.AddDays(1)
	for _, d := range []payweek.Date{thu, wed, outside} {
		require.NoError(t, store.UpsertMark(ctx, attendance.Record{WorkerID: "w-1", Date: d, Status: attendance.StatusPresent}))
	}

	marks, err := store.MarksInRange(ctx, "w-1", thu, wed)
	require.NoError(t, err)
	require.Len(t, marks, 2)
	assert.Contains(t, marks, thu)
	assert.Contains(t, marks, wed)
	assert.NotContains(t, marks, outside)
}

// =============================================================================
// CASCADE DELETE
// =============================================================================

func TestDeleteWorker_CascadesAttendance(t *testing.T) {
	// GIVEN: a worker with marks and a recorded payout
	// WHEN: the worker is deleted
	// THEN: marks are gone, payout history survives
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveWorker(ctx, testWorker("w-1", time.Now().UTC())))

	thu := payweek.NewDate(2024, time.January, 4)
	require.NoError(t, store.UpsertMark(ctx, attendance.Record{WorkerID: "w-1", Date: thu, Status: attendance.StatusPresent}))
	require.NoError(t, store.UpsertMark(ctx, attendance.Record{WorkerID: "w-1", Date: thu.AddDays(1), Status: attendance.StatusHalf}))

	require.NoError(t, store.AppendPayout(ctx, payout.Event{
		ID:        "p-1",
		WorkerID:  "w-1",
		Amount:    decimal.NewFromInt(300),
		WeekStart: thu,
		WeekEnd:   thu.AddDays(6),
		CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, store.DeleteWorker(ctx, "w-1"))

	marks, err := store.MarksInRange(ctx, "w-1", thu, thu.AddDays(6))
	require.NoError(t, err)
	assert.Empty(t, marks, "attendance must not outlive its worker")

	events, err := store.ListPayouts(ctx, "w-1")
	require.NoError(t, err)
	assert.Len(t, events, 1, "settlement history is not cascade-deleted")
}

func TestDeleteWorker_Missing(t *testing.T) {
	store := newTestStore(t)

	err := store.DeleteWorker(context.Background(), "ghost")

	assert.ErrorIs(t, err, roster.ErrNotFound)
}

// =============================================================================
// PAYOUT PERSISTENCE
// =============================================================================

func TestPayout_AppendAndListRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveWorker(ctx, testWorker("w-1", time.Now().UTC())))

	thu := payweek.NewDate(2024, time.January, 4)
	e := payout.Event{
		ID:        "p-1",
		WorkerID:  "w-1",
		Amount:    decimal.NewFromFloat(412.75),
		WeekStart: thu,
		WeekEnd:   thu.AddDays(6),
		CreatedAt: time.Date(2024, time.January, 11, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.AppendPayout(ctx, e))

	events, err := store.ListPayouts(ctx, "w-1")
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0]
	assert.Equal(t, e.ID, got.ID)
	assert.True(t, got.Amount.Equal(e.Amount), "amount must round-trip exactly")
	assert.Equal(t, e.WeekStart, got.WeekStart)
	assert.Equal(t, e.WeekEnd, got.WeekEnd)
	assert.True(t, got.CreatedAt.Equal(e.CreatedAt))
}
