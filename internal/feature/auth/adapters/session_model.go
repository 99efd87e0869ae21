package adapters

import (
	"time"

	"nutriapp/internal/feature/auth/domain/entity"
)

// sessionUserCreatedIndex backs the per-user active session queries, which filter
// on user_id and drop the oldest row by created_at.
const sessionUserCreatedIndex = "idx_sessions_user_created"

// SessionModel is the row stored in the sessions table when Redis is not configured.
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:36"`
	UserID    uint       `gorm:"not null;index:idx_sessions_user_created,priority:1"`
	CreatedAt time.Time  `gorm:"not null;index:idx_sessions_user_created,priority:2"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	RevokedAt *time.Time `gorm:"index"`
	UserAgent string     `gorm:"size:512"`
	IPAddress string     `gorm:"size:45"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

func newSessionModel(s *entity.Session) *SessionModel {
	m := &SessionModel{
		ID:        s.ID,
		UserID:    s.UserID,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
	}
	if s.RevokedAt != nil {
		at := *s.RevokedAt
		m.RevokedAt = &at
	}
	return m
}

func (m *SessionModel) toEntity() *entity.Session {
	s := &entity.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
	}
	if m.RevokedAt != nil {
		s.Revoke(*m.RevokedAt)
	}
	return s
}
