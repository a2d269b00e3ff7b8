package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// SessionStore keeps bearer-token sessions in Redis. The token is the only
// state the client holds; everything else lives server-side under a TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

type sessionPayload struct {
	UserID int64       `json:"user_id"`
	Role   shared.Role `json:"role"`
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *SessionStore) TTL() time.Duration { return s.ttl }

// Create mints a new token for the actor.
func (s *SessionStore) Create(ctx context.Context, actor shared.Actor) (string, error) {
	token := uuid.NewString()
	data, err := json.Marshal(sessionPayload{UserID: actor.UserID, Role: actor.Role})
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Resolve looks up the actor behind a token and slides its expiry.
func (s *SessionStore) Resolve(ctx context.Context, token string) (shared.Actor, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return shared.Actor{}, shared.ErrInvalidCredentials
		}
		return shared.Actor{}, fmt.Errorf("load session: %w", err)
	}
	var p sessionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return shared.Actor{}, fmt.Errorf("decode session: %w", err)
	}
	if err := s.client.Expire(ctx, sessionKey(token), s.ttl).Err(); err != nil {
		return shared.Actor{}, fmt.Errorf("refresh session: %w", err)
	}
	return shared.Actor{UserID: p.UserID, Role: p.Role}, nil
}

// Delete removes a token. Deleting an unknown token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return "abjour:session:" + token
}
