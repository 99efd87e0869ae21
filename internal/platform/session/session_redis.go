// Package session stores login sessions in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"nutriapp/internal/feature/auth/domain/entity"
	"nutriapp/internal/feature/auth/usecase"

	"github.com/redis/go-redis/v9"
)

// SessionRedis implements usecase.SessionRepository using Redis.
// Each session is a JSON value with a TTL, and every user has a set of their session IDs.
type SessionRedis struct {
	client redis.UniversalClient
	prefix string
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client redis.UniversalClient, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = "session"
	}
	return &SessionRedis{
		client: client,
		prefix: prefix,
	}
}

func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

func (r *SessionRedis) userSessionsKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

func (r *SessionRedis) usersKey() string {
	return r.prefix + ":users"
}

// Create persists a new session to Redis.
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := session.Lifetime(time.Now())
	if ttl == 0 {
		return errors.New("session already expired")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.sessionKey(session.ID), data, ttl)
	pipe.SAdd(ctx, r.userSessionsKey(session.UserID), session.ID)
	pipe.SAdd(ctx, r.usersKey(), session.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// FindByID retrieves a session by its ID.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Revoke marks a session as revoked. The record lives on until its original expiry.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	session, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	session.Revoke(now)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := session.Lifetime(now)
	if ttl == 0 {
		return r.remove(ctx, session.UserID, id)
	}
	return r.client.Set(ctx, r.sessionKey(id), data, ttl).Err()
}

// CountByUserID returns the number of active sessions for a user.
func (r *SessionRedis) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	sessions, err := r.activeSessions(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(sessions)), nil
}

// DeleteOldestByUserID deletes the oldest active session for a user.
func (r *SessionRedis) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	sessions, err := r.activeSessions(ctx, userID)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}
	return r.remove(ctx, userID, sessions[0].ID)
}

// DeleteExpired drops revoked sessions and set members whose key already expired.
// Redis removes the expired session values on its own.
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	users, err := r.client.SMembers(ctx, r.usersKey()).Result()
	if err != nil {
		return 0, err
	}

	var deleted int64
	for _, raw := range users {
		var userID uint
		if _, err := fmt.Sscan(raw, &userID); err != nil {
			r.client.SRem(ctx, r.usersKey(), raw)
			continue
		}

		ids, err := r.client.SMembers(ctx, r.userSessionsKey(userID)).Result()
		if err != nil {
			return deleted, err
		}
		for _, id := range ids {
			session, err := r.FindByID(ctx, id)
			switch {
			case errors.Is(err, usecase.ErrSessionNotFound):
				if err := r.client.SRem(ctx, r.userSessionsKey(userID), id).Err(); err != nil {
					return deleted, err
				}
				deleted++
			case err != nil:
				return deleted, err
			case !session.IsValid():
				if err := r.remove(ctx, userID, id); err != nil {
					return deleted, err
				}
				deleted++
			}
		}

		left, err := r.client.SCard(ctx, r.userSessionsKey(userID)).Result()
		if err != nil {
			return deleted, err
		}
		if left == 0 {
			r.client.SRem(ctx, r.usersKey(), raw)
		}
	}
	return deleted, nil
}

// activeSessions lists the user's valid sessions, oldest first.
// Dangling IDs are pruned from the user's set along the way.
func (r *SessionRedis) activeSessions(ctx context.Context, userID uint) ([]*entity.Session, error) {
	ids, err := r.client.SMembers(ctx, r.userSessionsKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	var sessions []*entity.Session
	for _, id := range ids {
		session, err := r.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, usecase.ErrSessionNotFound) {
				r.client.SRem(ctx, r.userSessionsKey(userID), id)
				continue
			}
			return nil, err
		}
		if session.IsValid() {
			sessions = append(sessions, session)
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (r *SessionRedis) remove(ctx context.Context, userID uint, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.sessionKey(id))
	pipe.SRem(ctx, r.userSessionsKey(userID), id)
	_, err := pipe.Exec(ctx)
	return err
}
