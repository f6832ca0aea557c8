package middleware

import (
	"context"
	"regexp"

	"github.com/counciltech/intake/pkg/domain"
	"github.com/counciltech/intake/pkg/ports"
)

const maskValue = "***"

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks stored answers and
// metadata whose key matches one of the patterns. Masking happens at rest
// only; the engine keeps working with the real values in memory.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, userID string, session *domain.Session) error {
	// Clone so masking never leaks into the in-memory session the engine
	// is still holding.
	cloned := session.Clone()
	m.maskMap(cloned.Answers)
	m.maskMap(cloned.Extra)
	return m.next.Save(ctx, userID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, userID string) (*domain.Session, error) {
	return m.next.Load(ctx, userID)
}

func (m *piiMiddleware) Delete(ctx context.Context, userID string) error {
	return m.next.Delete(ctx, userID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) maskMap(values map[string]string) {
	for k := range values {
		for _, p := range m.patterns {
			if p.MatchString(k) {
				values[k] = maskValue
				break
			}
		}
	}
}
