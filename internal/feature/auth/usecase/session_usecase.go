package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nutriapp/internal/feature/auth/domain/entity"
)

// TokenSigner turns a session into the opaque cookie value and back.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (platform/sessiontoken).
type TokenSigner interface {
	// Sign returns a signed token binding the session ID to the user ID until expiresAt.
	Sign(sessionID string, userID uint, expiresAt time.Time) (string, error)
	// Parse verifies the token and returns the session ID and user ID it carries.
	Parse(token string) (sessionID string, userID uint, err error)
}

// UserLookup confirms that the user a session was issued for still exists.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// ClientMeta describes the client that opened a session.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

// SessionUsecase issues, resolves and revokes login sessions.
type SessionUsecase struct {
	sessions   SessionRepository
	signer     TokenSigner
	users      UserLookup
	ttl        time.Duration
	maxPerUser int
}

// NewSessionUsecase creates a SessionUsecase.
// maxPerUser <= 0 disables the concurrent session limit.
func NewSessionUsecase(sessions SessionRepository, signer TokenSigner, ttl time.Duration, maxPerUser int) *SessionUsecase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionUsecase{
		sessions:   sessions,
		signer:     signer,
		ttl:        ttl,
		maxPerUser: maxPerUser,
	}
}

// WithUserLookup makes Resolve reject sessions whose user no longer exists.
func (u *SessionUsecase) WithUserLookup(users UserLookup) *SessionUsecase {
	u.users = users
	return u
}

// Issue opens a new session for the user and returns the signed token and its expiry.
// When the user already holds the maximum number of sessions, the oldest ones are dropped first.
func (u *SessionUsecase) Issue(ctx context.Context, userID uint, meta ClientMeta) (string, time.Time, error) {
	if u.maxPerUser > 0 {
		count, err := u.sessions.CountByUserID(ctx, userID)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("failed to count sessions: %w", err)
		}
		for ; count >= int64(u.maxPerUser); count-- {
			if err := u.sessions.DeleteOldestByUserID(ctx, userID); err != nil {
				return "", time.Time{}, fmt.Errorf("failed to drop oldest session: %w", err)
			}
		}
	}

	now := time.Now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.ttl),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := u.signer.Sign(session.ID, userID, session.ExpiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, session.ExpiresAt, nil
}

// Resolve maps a session token to the user ID it was issued for.
func (u *SessionUsecase) Resolve(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}
	sessionID, userID, err := u.signer.Parse(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	session, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	// The signed user must be the one the store knows for this session.
	if session.UserID != userID {
		return 0, ErrInvalidToken
	}
	if session.IsRevoked() {
		return 0, ErrSessionRevoked
	}
	if session.IsExpired() {
		return 0, ErrSessionExpired
	}
	if u.users != nil {
		if _, err := u.users.FindByID(ctx, session.UserID); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return 0, fmt.Errorf("%w: user %d no longer exists", ErrSessionNotFound, session.UserID)
			}
			return 0, fmt.Errorf("failed to load session user: %w", err)
		}
	}
	return session.UserID, nil
}

// Revoke invalidates the session carried by the token.
func (u *SessionUsecase) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	sessionID, _, err := u.signer.Parse(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return u.sessions.Revoke(ctx, sessionID)
}

// PruneExpired removes expired sessions from storage.
func (u *SessionUsecase) PruneExpired(ctx context.Context) (int64, error) {
	n, err := u.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return n, nil
}

// IsStaleSession reports whether err means the token no longer maps to a live session.
// Any other Resolve or Revoke error is a storage failure.
func IsStaleSession(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionRevoked) ||
		errors.Is(err, ErrSessionExpired)
}
