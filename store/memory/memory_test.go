package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitChaudhary07/worker-attendance-management/roster"
	"github.com/AmitChaudhary07/worker-attendance-management/store/memory"
)

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

func TestListWorkers_DeterministicOnTiedTimestamps(t *testing.T) {
	// GIVEN: several workers sharing one CreatedAt
	// WHEN: listing repeatedly
	// THEN: the order is the same every time (ID tiebreak)
	store := memory.New()
	ctx := context.Background()

	at := time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)
	for _, id := range []string{"w-c", "w-a", "w-b"} {
		require.NoError(t, store.SaveWorker(ctx, testWorker(id, at)))
	}

	for i := 0; i < 10; i++ {
		workers, err := store.ListWorkers(ctx)
		require.NoError(t, err)
		require.Len(t, workers, 3)
		assert.Equal(t, "w-a", workers[0].ID)
		assert.Equal(t, "w-b", workers[1].ID)
		assert.Equal(t, "w-c", workers[2].ID)
	}
}

func TestListWorkers_NewestFirstBeforeTiebreak(t *testing.T) {
	store := memory.New()
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

func TestTargetedUpdatesTouchOnlyTheirFields(t *testing.T) {
	store := memory.New()
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
	assert.True(t, got.Remaining.Equal(decimal.Zero))
}
