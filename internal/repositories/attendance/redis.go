package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/shopkeep/internal/models"
)

const (
	// sessionsKey holds the ordered session sequence as a Redis list
	sessionsKey = "attendance:sessions"
)

// RedisConfig holds configuration for the Redis attendance repository
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using a Redis list of
// JSON rows. Whole-sequence replacement happens inside one MULTI so a
// reader never observes a partially written sequence. The single-writer
// contract is enforced by the repository mutex, matching the CSV backend.
type redisRepository struct {
	client *redis.Client
	mu     sync.Mutex
}

// NewRedis creates a new Redis-backed attendance repository
func NewRedis(cfg *RedisConfig) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// ReadSessions returns the full ordered session sequence
func (r *redisRepository) ReadSessions(ctx context.Context, input *ReadSessionsInput) (*ReadSessionsOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.readLocked(ctx)
	if err != nil {
		return nil, err
	}

	return &ReadSessionsOutput{Sessions: sessions}, nil
}

// WriteSessions replaces the entire stored sequence in one MULTI
func (r *redisRepository) WriteSessions(ctx context.Context, input *WriteSessionsInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeLocked(ctx, input.Sessions)
}

// AppendSession pushes a session onto the end of the sequence
func (r *redisRepository) AppendSession(ctx context.Context, input *AppendSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row, err := json.Marshal(input.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.RPush(ctx, sessionsKey, row).Err(); err != nil {
		return fmt.Errorf("failed to append session: %w", err)
	}

	return nil
}

// UpdateSessions runs a read-modify-write under the repository mutex
func (r *redisRepository) UpdateSessions(ctx context.Context, input *UpdateSessionsInput) (*UpdateSessionsOutput, error) {
	if input == nil || input.Update == nil {
		return nil, errors.New("input and update func cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.readLocked(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := input.Update(sessions)
	if err != nil {
		return nil, err
	}

	if err := r.writeLocked(ctx, updated); err != nil {
		return nil, err
	}

	return &UpdateSessionsOutput{Sessions: updated}, nil
}

// readLocked fetches and decodes the stored rows. Rows that fail to decode
// are quarantined with a log line, never fatal. Caller holds r.mu.
func (r *redisRepository) readLocked(ctx context.Context) ([]*models.Session, error) {
	rows, err := r.client.LRange(ctx, sessionsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(rows))
	for i, row := range rows {
		var session models.Session
		if err := json.Unmarshal([]byte(row), &session); err != nil {
			log.Printf("Skipping malformed ledger row %d: %v", i, err)
			continue
		}

		sessions = append(sessions, &session)
	}

	return sessions, nil
}

// writeLocked replaces the stored sequence inside one transaction so a
// concurrent reader sees either the old or the new sequence. Caller holds
// r.mu.
func (r *redisRepository) writeLocked(ctx context.Context, sessions []*models.Session) error {
	rows := make([]interface{}, 0, len(sessions))
	for _, session := range sessions {
		row, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		rows = append(rows, row)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionsKey)
	if len(rows) > 0 {
		pipe.RPush(ctx, sessionsKey, rows...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}

	return nil
}
