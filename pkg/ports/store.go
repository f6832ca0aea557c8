package ports

import (
	"context"

	"github.com/counciltech/intake/pkg/domain"
)

// SessionStore persists per-user session state.
type SessionStore interface {
	// Save persists the session for a user id.
	Save(ctx context.Context, userID string, session *domain.Session) error

	// Load retrieves the session for a user id.
	// Returns domain.ErrSessionNotFound if none exists.
	Load(ctx context.Context, userID string) (*domain.Session, error)

	// Delete removes the session for a user id.
	Delete(ctx context.Context, userID string) error

	// List returns the user ids with an active session.
	List(ctx context.Context) ([]string, error)
}

// ResultArchive keeps the last completed FinalResult per user id. A new
// completion overwrites the previous result.
type ResultArchive interface {
	SaveResult(ctx context.Context, result *domain.FinalResult) error

	// LoadResult returns domain.ErrResultNotFound if the user has never
	// completed a run.
	LoadResult(ctx context.Context, userID string) (*domain.FinalResult, error)
}
