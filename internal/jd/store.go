package jd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agenticv-server/internal/config"
	"agenticv-server/internal/logging"
	"agenticv-server/pkg/models"
)

// ErrDraftNotFound is returned when no draft exists for a session
var ErrDraftNotFound = errors.New("job description draft not found")

// Drafts is the persistence surface the service needs; backed by Redis in
// production and by an in-memory fake in tests
type Drafts interface {
	Save(ctx context.Context, draft *models.JobDescriptionDraft) error
	Get(ctx context.Context, sessionID string) (*models.JobDescriptionDraft, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisDraftStore persists drafts in Redis with a TTL, mirroring the
// client-side session storage so a page reload can restore the text
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewRedisDraftStore creates a draft store from the Redis configuration
func NewRedisDraftStore(cfg *config.Config) *RedisDraftStore {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
	}

	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	return &RedisDraftStore{
		client: redis.NewClient(opts),
		ttl:    cfg.JobDescription.DraftTTL,
		logger: logging.GetGlobalLogger(),
	}
}

// Save stores the draft under its session key, refreshing the TTL
func (s *RedisDraftStore) Save(ctx context.Context, draft *models.JobDescriptionDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := s.client.Set(ctx, s.draftKey(draft.SessionID), data, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to save job description draft", map[string]interface{}{
			"session_id": draft.SessionID,
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to save draft: %w", err)
	}

	return nil
}

// Get loads the draft for a session
func (s *RedisDraftStore) Get(ctx context.Context, sessionID string) (*models.JobDescriptionDraft, error) {
	data, err := s.client.Get(ctx, s.draftKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var draft models.JobDescriptionDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	return &draft, nil
}

// Delete removes the draft for a session
func (s *RedisDraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.draftKey(sessionID)).Err()
}

// Ping tests the Redis connection
func (s *RedisDraftStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisDraftStore) Close() error {
	return s.client.Close()
}

func (s *RedisDraftStore) draftKey(sessionID string) string {
	return fmt.Sprintf("jd:draft:%s", sessionID)
}
