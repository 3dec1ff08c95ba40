// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/eatme/internal/core"
)

const sessionIDBytes = 32

// Repository keeps sessions and revoked token ids in redis.
type Repository interface {
	CreateSession(ctx context.Context, session *Session) (string, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteUserSessions(ctx context.Context, userID int64) error
	RevokeToken(ctx context.Context, tokenID string, until time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type repository struct {
	rdb *redis.Client
}

func NewRepository(rdb *redis.Client) Repository {
	return &repository{rdb: rdb}
}

func sessionKey(sessionID string) string {
	return core.SessionKeyPrefix + core.HashToken(sessionID)
}

func userSessionsKey(userID int64) string {
	return core.SessionKeyPrefix + "user:" + strconv.FormatInt(userID, 10)
}

func (r *repository) CreateSession(
	ctx context.Context,
	session *Session,
) (string, error) {
	sessionID, err := core.GenerateSecureToken(sessionIDBytes)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return "", fmt.Errorf("create session: %w", core.ErrInvalidInput)
	}

	key := sessionKey(sessionID)
	indexKey := userSessionsKey(session.UserID)

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, payload, ttl)
		pipe.SAdd(ctx, indexKey, key)
		pipe.Expire(ctx, indexKey, ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return sessionID, nil
}

func (r *repository) GetSession(
	ctx context.Context,
	sessionID string,
) (*Session, error) {
	payload, err := r.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if session.IsExpired() {
		return nil, core.ErrNotFound
	}

	return &session, nil
}

func (r *repository) DeleteSession(ctx context.Context, sessionID string) error {
	key := sessionKey(sessionID)

	session, err := r.GetSession(ctx, sessionID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if session != nil {
			pipe.SRem(ctx, userSessionsKey(session.UserID), key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (r *repository) DeleteUserSessions(ctx context.Context, userID int64) error {
	indexKey := userSessionsKey(userID)

	keys, err := r.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	keys = append(keys, indexKey)
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}

	return nil
}

// RevokeToken blacklists a token id until the token would have expired
// anyway.
func (r *repository) RevokeToken(
	ctx context.Context,
	tokenID string,
	until time.Time,
) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	if err := r.rdb.Set(ctx, core.BlacklistKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (r *repository) IsTokenRevoked(
	ctx context.Context,
	tokenID string,
) (bool, error) {
	exists, err := r.rdb.Exists(ctx, core.BlacklistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}
