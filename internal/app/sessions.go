package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	timeFormat    = "2006-01-02 15:04:05"
	sessionKeyTpl = "session:%s" // session:${sid}
	sessionPrefix = "sess-cruma-"
)

type Session struct {
	StudentID uuid.UUID
	Email     string
	Provider  string
}

// Sessions keeps login sessions as redis hashes with a rolling TTL.
type Sessions struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessions(redisURL string, ttl time.Duration) (*Sessions, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Sessions{redis: client, ttl: ttl}, nil
}

func (s *Sessions) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}

func generateSessionID() (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return sessionPrefix + hex.EncodeToString(randomBytes), nil
}

// Create stores a fresh session and returns its id for the cookie.
func (s *Sessions) Create(ctx context.Context, studentID uuid.UUID, email, provider string) (string, error) {
	sid, err := generateSessionID()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf(sessionKeyTpl, sid)
	now := time.Now().UTC()

	pipe := s.redis.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"student_id":         studentID.String(),
		"email":              email,
		"provider":           provider,
		"created_dttm_utc":   now.Format(timeFormat),
		"last_seen_dttm_utc": now.Format(timeFormat),
	})
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return sid, nil
}

// Get loads a session by id, refreshing its last-seen stamp and TTL. A
// missing or expired session returns (nil, nil).
func (s *Sessions) Get(ctx context.Context, sid string) (*Session, error) {
	key := fmt.Sprintf(sessionKeyTpl, sid)

	fields, err := s.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	studentID, err := uuid.Parse(fields["student_id"])
	if err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", sid, err)
	}

	pipe := s.redis.Pipeline()
	pipe.HSet(ctx, key, "last_seen_dttm_utc", time.Now().UTC().Format(timeFormat))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	return &Session{
		StudentID: studentID,
		Email:     fields["email"],
		Provider:  fields["provider"],
	}, nil
}

func (s *Sessions) Delete(ctx context.Context, sid string) error {
	key := fmt.Sprintf(sessionKeyTpl, sid)
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
