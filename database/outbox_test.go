package database

import (
	"storefront/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTestEvent(t *testing.T, repo *Repository, age time.Duration) *models.OutboxEvent {
	t.Helper()
	e := newTestEvent("order-1", models.EventOrderPlaced)
	e.CreatedAt = time.Now().UTC().Add(-age)
	require.NoError(t, insertEvent(repo.db, e))
	return e
}

func TestOutboxStateManagement(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	t.Run("Claim then dispatch", func(t *testing.T) {
		e := insertTestEvent(t, repo, time.Minute)

		claimed, err := repo.MarkEventDispatching(e.ID)
		require.NoError(t, err)
		assert.True(t, claimed)

		// A second dispatcher cannot claim it
		claimed, err = repo.MarkEventDispatching(e.ID)
		require.NoError(t, err)
		assert.False(t, claimed)

		require.NoError(t, repo.MarkEventDispatched(e.ID))

		saved, err := repo.GetEvent(e.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EventDispatched, saved.Status)
		assert.NotNil(t, saved.LastAttemptAt)
		assert.Empty(t, saved.Error)
	})

	t.Run("Failure increments retry count", func(t *testing.T) {
		e := insertTestEvent(t, repo, time.Minute)

		require.NoError(t, repo.MarkEventFailed(e.ID, "broker unavailable"))
		saved, err := repo.GetEvent(e.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EventFailed, saved.Status)
		assert.Equal(t, 1, saved.RetryCount)
		assert.Equal(t, "broker unavailable", saved.Error)
	})

	t.Run("Event abandoned after max retries", func(t *testing.T) {
		e := insertTestEvent(t, repo, time.Minute)

		for i := 0; i < models.MaxDispatchRetries; i++ {
			require.NoError(t, repo.MarkEventFailed(e.ID, "persistent error"))
		}

		saved, err := repo.GetEvent(e.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EventAbandoned, saved.Status)
		assert.Equal(t, models.MaxDispatchRetries, saved.RetryCount)

		ok, err := repo.RetryEvent(e.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		saved, err = repo.GetEvent(e.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EventPending, saved.Status)
		assert.Equal(t, 0, saved.RetryCount)
	})

	t.Run("Retry of a dispatched event is refused", func(t *testing.T) {
		e := insertTestEvent(t, repo, time.Minute)
		require.NoError(t, repo.MarkEventDispatched(e.ID))

		ok, err := repo.RetryEvent(e.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPendingEvents(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	old := insertTestEvent(t, repo, time.Minute)
	insertTestEvent(t, repo, 0)

	pending, err := repo.GetPendingEvents(10, time.Now().UTC().Add(-10*time.Second))
	require.NoError(t, err)

	// Fresh events are left to the immediate dispatch
	require.Len(t, pending, 1)
	assert.Equal(t, old.ID, pending[0].ID)
}
