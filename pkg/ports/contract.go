package ports

import (
	"context"
	"testing"
	"time"

	"github.com/counciltech/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract verifies that a SessionStore implementation
// adheres to the interface contract. Every adapter's test suite runs it.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	userID := "contract-test-user-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession("existing_arrangement")
		session.Answers["procurement_value"] = "$15,000-$200,000"
		session.Append(domain.SpeakerUser, "hello")

		err := store.Save(ctx, userID, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.CurrentNode, loaded.CurrentNode)
		assert.Equal(t, "$15,000-$200,000", loaded.Answers["procurement_value"])
		require.Len(t, loaded.Transcript, 1)
		assert.Equal(t, "hello", loaded.Transcript[0].Text)
	})

	t.Run("Load Isolation", func(t *testing.T) {
		session := domain.NewSession("existing_arrangement")
		require.NoError(t, store.Save(ctx, userID, session))

		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err)

		// Mutating the loaded copy must not leak into the store.
		loaded.Answers["mutated"] = "yes"
		reloaded, err := store.Load(ctx, userID)
		require.NoError(t, err)
		assert.NotContains(t, reloaded.Answers, "mutated")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, userID, domain.NewSession("existing_arrangement"))
		require.NoError(t, err)

		err = store.Delete(ctx, userID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := userID + "-1"
		id2 := userID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession("existing_arrangement"))
		_ = store.Save(ctx, id2, domain.NewSession("existing_arrangement"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		users, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, users, id1)
		assert.Contains(t, users, id2)
	})
}
