package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counciltech/intake/pkg/adapters/memory"
	"github.com/counciltech/intake/pkg/domain"
	"github.com/counciltech/intake/pkg/persistence/middleware"
)

func TestPIIMiddleware_MasksMatchingKeys(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	store := middleware.NewPIIMiddleware([]string{"supplier", "_ref$"})(backing)

	sess := domain.NewSession("existing_arrangement")
	sess.Answers["supplier_name"] = "Acme Pty Ltd"
	sess.Answers["contract_ref"] = "REF12345"
	sess.Answers["category"] = "Goods Only"
	require.NoError(t, store.Save(ctx, "user-1", sess))

	stored, err := backing.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "***", stored.Answers["supplier_name"])
	assert.Equal(t, "***", stored.Answers["contract_ref"])
	assert.Equal(t, "Goods Only", stored.Answers["category"])
}

func TestPIIMiddleware_DoesNotMutateLiveSession(t *testing.T) {
	ctx := context.Background()
	store := middleware.NewPIIMiddleware([]string{"supplier"})(memory.NewStore())

	sess := domain.NewSession("existing_arrangement")
	sess.Answers["supplier_name"] = "Acme Pty Ltd"
	require.NoError(t, store.Save(ctx, "user-1", sess))

	// The engine keeps working with the real value.
	assert.Equal(t, "Acme Pty Ltd", sess.Answers["supplier_name"])
}

func TestChain_OrderIsOutermostFirst(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	key := generateKey(t)

	// PII masking runs before encryption, so the decrypted session holds
	// masked values.
	store := middleware.Chain(backing,
		middleware.NewPIIMiddleware([]string{"supplier"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)

	sess := domain.NewSession("existing_arrangement")
	sess.Answers["supplier_name"] = "Acme Pty Ltd"
	require.NoError(t, store.Save(ctx, "user-1", sess))

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "***", loaded.Answers["supplier_name"])

	raw, err := backing.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "encrypted", raw.CurrentNode)
}
