package shared

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionManager issues and resolves bearer tokens backed by Redis.
type SessionManager struct {
	client *redis.Client
	ttl    time.Duration
	secret []byte
}

type sessionPayload struct {
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`
	IsAdmin bool   `json:"is_admin"`
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		client: client,
		ttl:    ttl,
		secret: []byte(secret),
	}
}

// Issue creates a session for the identity and returns the bearer token.
func (sm *SessionManager) Issue(ctx context.Context, id Identity) (string, error) {
	token := sm.generateToken()
	data, err := json.Marshal(sessionPayload{
		UserID:  id.UserID,
		GroupID: id.GroupID,
		IsAdmin: id.IsAdmin,
	})
	if err != nil {
		return "", fmt.Errorf("shared: marshal session: %w", err)
	}
	if err := sm.client.Set(ctx, sm.redisKey(token), data, sm.ttl).Err(); err != nil {
		return "", fmt.Errorf("shared: store session: %w", err)
	}
	return token, nil
}

// Resolve looks up the token and returns the identity it was issued for.
// A successful lookup slides the expiry forward.
func (sm *SessionManager) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidCredentials
	}
	payload, err := sm.client.Get(ctx, sm.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, fmt.Errorf("shared: load session: %w", err)
	}

	var stored sessionPayload
	if err := json.Unmarshal(payload, &stored); err != nil {
		return Identity{}, fmt.Errorf("shared: decode session: %w", err)
	}
	_ = sm.client.Expire(ctx, sm.redisKey(token), sm.ttl).Err()

	return Identity{
		UserID:  stored.UserID,
		GroupID: stored.GroupID,
		IsAdmin: stored.IsAdmin,
	}, nil
}

// Revoke deletes the session for the token.
func (sm *SessionManager) Revoke(ctx context.Context, token string) error {
	if err := sm.client.Del(ctx, sm.redisKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("shared: revoke session: %w", err)
	}
	return nil
}

// TTL exposes the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

func (sm *SessionManager) redisKey(token string) string {
	return "session:" + token
}

func (sm *SessionManager) generateToken() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	if len(sm.secret) > 0 {
		for i := range b {
			b[i] ^= sm.secret[i%len(sm.secret)]
		}
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
