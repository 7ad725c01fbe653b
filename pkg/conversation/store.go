package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrHistoryUnavailable signals that the log backend could not be read or
// written. Callers proceed with an empty history rather than failing the
// customer's question.
var ErrHistoryUnavailable = errors.New("conversation history unavailable")

// KV is the narrow key-value contract the store needs. Satisfied by
// *redis.Client; tests substitute a fake.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store accumulates the questions asked within a session as a single
// comma-joined value keyed by session id. Records are append-only.
type Store struct {
	kv        KV
	keyPrefix string
	ttl       time.Duration
}

func NewStore(kv KV, ttl time.Duration) *Store {
	return &Store{kv: kv, keyPrefix: "conversation:", ttl: ttl}
}

// RecordQuestion appends the question to the session's record and returns
// the sequence as it stood BEFORE the append. The first question of a
// session therefore yields an empty string; the question itself is only
// stored for later turns. The current question reaches the model through
// the prompt directly, so returning it here would duplicate it.
func (s *Store) RecordQuestion(ctx context.Context, sessionID, question string) (string, error) {
	key := s.keyPrefix + sessionID

	prior, err := s.kv.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", ErrHistoryUnavailable
	}

	updated := question
	if prior != "" {
		updated = prior + "," + question
	}
	if err := s.kv.Set(ctx, key, updated, s.ttl).Err(); err != nil {
		return "", ErrHistoryUnavailable
	}
	return prior, nil
}

// History returns the full stored sequence, including the latest question.
func (s *Store) History(ctx context.Context, sessionID string) (string, error) {
	val, err := s.kv.Get(ctx, s.keyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", ErrHistoryUnavailable
	}
	return val, nil
}

// Questions splits a stored sequence back into its individual questions.
func Questions(history string) []string {
	if history == "" {
		return nil
	}
	return strings.Split(history, ",")
}

// Clear drops the session's record, used on logout.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.kv.Del(ctx, s.keyPrefix+sessionID).Err(); err != nil {
		return ErrHistoryUnavailable
	}
	return nil
}
