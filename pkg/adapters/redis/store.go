// Package redis provides Redis-backed implementations of the session
// store, the result archive, and the distributed locker.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/counciltech/intake/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.SessionStore and ports.ResultArchive using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "intake:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) sessionKey(userID string) string {
	return s.prefix + "session:" + userID
}

func (s *Store) resultKey(userID string) string {
	return s.prefix + "result:" + userID
}

func (s *Store) indexKey() string {
	return s.prefix + "session:index"
}

// Save persists the session to Redis.
func (s *Store) Save(ctx context.Context, userID string, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.Pipeline()

	// 1. Save JSON with TTL (0 = no expiration)
	pipe.Set(ctx, s.sessionKey(userID), data, s.ttl)

	// 2. Add to index (ZSET). Score = Now + TTL; +Inf-ish when no TTL.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: userID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Load retrieves the session from Redis.
func (s *Store) Load(ctx context.Context, userID string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.sessionKey(userID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if session.Answers == nil {
		session.Answers = make(map[string]string)
	}
	if session.Extra == nil {
		session.Extra = make(map[string]string)
	}

	return &session, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, userID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.sessionKey(userID))
	pipe.ZRem(ctx, s.indexKey(), userID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns active user ids, pruning expired entries from the index
// lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	users, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return users, nil
}

// SaveResult archives a final result, overwriting the user's previous one.
// Results never expire: the archive is the durable-ish record of completed
// runs within the process lifetime.
func (s *Store) SaveResult(ctx context.Context, result *domain.FinalResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := s.client.Set(ctx, s.resultKey(result.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save result to redis: %w", err)
	}
	return nil
}

// LoadResult retrieves the archived final result for a user.
func (s *Store) LoadResult(ctx context.Context, userID string) (*domain.FinalResult, error) {
	val, err := s.client.Get(ctx, s.resultKey(userID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result from redis: %w", err)
	}

	var result domain.FinalResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
