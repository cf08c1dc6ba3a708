//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessedEvents(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("unseen event", func(t *testing.T) {
		seen, err := testDB.HasProcessedEvent(ctx, "evt-unknown")
		require.NoError(t, err)
		assert.False(t, seen)
	})

	t.Run("mark and re-check", func(t *testing.T) {
		err := testDB.MarkEventProcessed(ctx, "evt-1", 100)
		require.NoError(t, err)

		seen, err := testDB.HasProcessedEvent(ctx, "evt-1")
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("marking twice is harmless", func(t *testing.T) {
		err := testDB.MarkEventProcessed(ctx, "evt-1", 100)
		require.NoError(t, err)
	})

	t.Run("cursor is the maximum block height", func(t *testing.T) {
		err := testDB.MarkEventProcessed(ctx, "evt-2", 350)
		require.NoError(t, err)
		err = testDB.MarkEventProcessed(ctx, "evt-3", 200)
		require.NoError(t, err)

		cursor, err := testDB.GetLastProcessedBlock(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(350), cursor)
	})

	t.Run("purge keeps the cursor intact", func(t *testing.T) {
		deleted, err := testDB.DeleteProcessedEventsBelow(ctx, 300)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		cursor, err := testDB.GetLastProcessedBlock(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(350), cursor)
	})
}

func TestLastProcessedBlockEmpty(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	cursor, err := testDB.GetLastProcessedBlock(ctx)
	require.NoError(t, err)
	assert.Zero(t, cursor)
}
