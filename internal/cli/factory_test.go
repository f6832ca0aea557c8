package cli

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/counciltech/intake/internal/config"
	"github.com/counciltech/intake/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLLMBaseURL serves a chat-completions endpoint that always answers
// "none", so engines built from config never leave the test process.
func stubLLMBaseURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"none"}}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestBuildEngine_Defaults(t *testing.T) {
	engine, cleanup, err := BuildEngine(config.Default(), logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "existing_arrangement", engine.Catalog().Root)
}

func TestBuildEngine_BadMode(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = "bogus"

	_, _, err := BuildEngine(cfg, logging.NewNop())
	require.Error(t, err)
}

func TestBuildEngine_MissingCatalogFile(t *testing.T) {
	cfg := config.Default()
	cfg.CatalogPath = "/does/not/exist.yaml"

	_, _, err := BuildEngine(cfg, logging.NewNop())
	require.Error(t, err)
}

func TestBuildEngine_RedisBackend(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	cfg.LLM.BaseURL = stubLLMBaseURL(t)

	engine, cleanup, err := BuildEngine(cfg, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	// Sessions land in Redis, not in process memory
	_, err = engine.HandleMessage(context.Background(), "user-1", "qwerty")
	require.NoError(t, err)
	assert.True(t, mr.Exists("intake:session:user-1"))
}

func TestBuildEngine_FileBackend(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Storage.Dir = dir
	cfg.LLM.BaseURL = stubLLMBaseURL(t)

	engine, cleanup, err := BuildEngine(cfg, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	_, err = engine.HandleMessage(context.Background(), "user-1", "qwerty")
	require.NoError(t, err)

	// Sessions land on disk
	entries, err := os.ReadDir(filepath.Join(dir, "sessions"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBuildEngine_EncryptedFileBackend(t *testing.T) {
	dir := t.TempDir()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Storage.Dir = dir
	cfg.Storage.EncryptionKey = base64.StdEncoding.EncodeToString(key)
	cfg.LLM.BaseURL = stubLLMBaseURL(t)

	engine, cleanup, err := BuildEngine(cfg, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	_, err = engine.HandleMessage(context.Background(), "user-1", "no")
	require.NoError(t, err)

	// The on-disk session is an opaque envelope.
	data, err := os.ReadFile(filepath.Join(dir, "sessions", "user-1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "__encrypted__")
	assert.NotContains(t, string(data), "existing_arrangement")

	// The engine still reads its own writes.
	snap, err := engine.Snapshot(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "No", snap.Answers["existing_arrangement"])
}

func TestBuildEngine_RejectsBadEncryptionKey(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.EncryptionKey = base64.StdEncoding.EncodeToString([]byte("short"))
	cfg.LLM.BaseURL = stubLLMBaseURL(t)

	_, _, err := BuildEngine(cfg, logging.NewNop())
	require.ErrorContains(t, err, "32 bytes")
}

func TestBuildEngine_RejectsBadMaskPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.MaskPatterns = []string{"("}
	cfg.LLM.BaseURL = stubLLMBaseURL(t)

	_, _, err := BuildEngine(cfg, logging.NewNop())
	require.ErrorContains(t, err, "invalid mask pattern")
}

func TestRunChat_PlainTranscript(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.BaseURL = stubLLMBaseURL(t)

	engine, cleanup, err := BuildEngine(cfg, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	var out bytes.Buffer
	in := bytes.NewBufferString("qwerty\nexit\n")

	err = RunChat(context.Background(), engine, ChatOptions{
		UserID: "tester",
		In:     in,
		Out:    &out,
		Plain:  true,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Does an existing arrangement exist for this contract?")
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: only
nodes:
  - name: only
    question: "Done?"
    options:
      - label: "Yes"
        terminal_answer: "All done."
`), 0o644))

	cat, err := loadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "only", cat.Root)
}
