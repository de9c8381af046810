// Package redis provides a ports.SessionStore and ports.DistributedLocker
// backed by Redis, suitable for running several engine replicas against
// shared session state.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/formroute/formroute/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "formroute:session:"

// Store implements ports.SessionStore on Redis. Sessions are stored as
// JSON values under a configurable key prefix; a sorted-set index keyed
// by expiry time backs List with lazy cleanup.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithPrefix overrides the key prefix (default "formroute:session:").
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL sets an expiry on stored sessions. Zero means no expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// NewFromClient wraps an existing Redis client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the session as JSON, refreshing the TTL and the index.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.Session) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	score := float64(0)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}
	return s.client.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: sessionID}).Err()
}

// Load retrieves and decodes the session.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var state domain.Session
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &state, nil
}

// Delete removes the session and its index entry.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return err
	}
	return s.client.ZRem(ctx, s.indexKey(), sessionID).Err()
}

// List returns live session ids. Expired index entries are cleaned up
// lazily based on their expiry score.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if s.ttl > 0 {
		now := strconv.FormatInt(time.Now().Unix(), 10)
		if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "1", now).Err(); err != nil {
			return nil, err
		}
	}
	return s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
}
