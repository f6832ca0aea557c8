// Package file provides a filesystem-backed session store and result
// archive. Sessions and results are stored as JSON files in a configured
// directory, which gives the single-process CLI durability across restarts
// without a Redis dependency.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/counciltech/intake/pkg/domain"
)

// Store implements ports.SessionStore and ports.ResultArchive on the local
// filesystem. Not safe against concurrent writers in separate processes.
type Store struct {
	basePath string
}

// NewStore creates a file store rooted at basePath. If basePath is empty,
// it defaults to ".intake".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = ".intake"
	}
	return &Store{basePath: basePath}
}

// Save persists the session as a JSON file.
func (s *Store) Save(ctx context.Context, userID string, session *domain.Session) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}
	return s.writeJSON(s.sessionPath(userID), session)
}

// Load retrieves the session from its JSON file.
func (s *Store) Load(ctx context.Context, userID string) (*domain.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID cannot be empty")
	}

	data, err := os.ReadFile(s.sessionPath(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes the session file. Deleting a missing session is not an
// error.
func (s *Store) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}

	err := os.Remove(s.sessionPath(userID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List returns the user ids with a stored session.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.basePath, "sessions"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var users []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		id, err := url.PathUnescape(name)
		if err != nil {
			continue
		}
		users = append(users, id)
	}
	if users == nil {
		users = []string{}
	}
	return users, nil
}

// SaveResult archives the final result, overwriting any previous one.
func (s *Store) SaveResult(ctx context.Context, result *domain.FinalResult) error {
	if result.UserID == "" {
		return fmt.Errorf("userID cannot be empty")
	}
	return s.writeJSON(s.resultPath(result.UserID), result)
}

// LoadResult retrieves the archived final result for a user.
func (s *Store) LoadResult(ctx context.Context, userID string) (*domain.FinalResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID cannot be empty")
	}

	data, err := os.ReadFile(s.resultPath(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var result domain.FinalResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to ensure store directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// User ids come from callers, so they are escaped before becoming file
// names.
func (s *Store) sessionPath(userID string) string {
	return filepath.Join(s.basePath, "sessions", url.PathEscape(userID)+".json")
}

func (s *Store) resultPath(userID string) string {
	return filepath.Join(s.basePath, "results", url.PathEscape(userID)+".json")
}
