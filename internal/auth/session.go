package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore looks up sessions issued by the sign-in provider. Each session
// is a Redis key holding the user id.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// UserID returns the user bound to the session. ok is false when the session
// is unknown or expired.
func (s *SessionStore) UserID(ctx context.Context, sessionID string) (userID string, ok bool, err error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", false, nil
	}
	v, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if v == "" {
		return "", false, nil
	}
	return v, true, nil
}
