package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counciltech/intake/pkg/adapters/memory"
	"github.com/counciltech/intake/pkg/domain"
	"github.com/counciltech/intake/pkg/persistence/middleware"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	key := generateKey(t)
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(backing)

	original := domain.NewSession("existing_arrangement")
	original.Answers["supplier_name"] = "Acme Pty Ltd"
	original.Append(domain.SpeakerUser, "our supplier is Acme Pty Ltd")

	require.NoError(t, secure.Save(ctx, "user-1", original))

	loaded, err := secure.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Pty Ltd", loaded.Answers["supplier_name"])
	assert.Len(t, loaded.Transcript, 1)
}

func TestEncryptionMiddleware_BackingStoreSeesNoPlaintext(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(backing)

	original := domain.NewSession("existing_arrangement")
	original.Answers["supplier_name"] = "Acme Pty Ltd"
	require.NoError(t, secure.Save(ctx, "user-1", original))

	raw, err := backing.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "encrypted", raw.CurrentNode)
	assert.Empty(t, raw.Answers)
	assert.Empty(t, raw.Transcript)
	assert.NotContains(t, raw.Extra["__encrypted__"], "Acme")
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(backing)
	original := domain.NewSession("existing_arrangement")
	original.Answers["category"] = "Goods Only"
	require.NoError(t, oldStore.Save(ctx, "user-1", original))

	// The rotated store decrypts old sessions through the fallback key.
	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(backing)
	loaded, err := rotated.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Goods Only", loaded.Answers["category"])
}

func TestEncryptionMiddleware_WrongKeyFails(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()

	writer := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(backing)
	require.NoError(t, writer.Save(ctx, "user-1", domain.NewSession("root")))

	reader := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(backing)
	_, err := reader.Load(ctx, "user-1")
	assert.ErrorContains(t, err, "decrypt")
}

func TestEncryptionMiddleware_PlainSessionFailsSecure(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	require.NoError(t, backing.Save(ctx, "user-1", domain.NewSession("root")))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(backing)
	_, err := secure.Load(ctx, "user-1")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryptionMiddleware_RequiresAES256Key(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}
