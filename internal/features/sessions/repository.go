package sessions

import (
	"time"

	"logview/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository struct{}

func (r *SessionRepository) CreateSession(session *Session) error {
	return storage.GetDb().Create(session).Error
}

func (r *SessionRepository) GetSessionByID(sessionID uuid.UUID) (*Session, error) {
	var session Session

	if err := storage.GetDb().Where("id = ?", sessionID).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}

		return nil, err
	}

	return &session, nil
}

func (r *SessionRepository) TouchSession(sessionID uuid.UUID) error {
	return storage.GetDb().Model(&Session{}).
		Where("id = ?", sessionID).
		Update("last_seen_at", time.Now().UTC()).Error
}

func (r *SessionRepository) RevokeSession(sessionID uuid.UUID) error {
	now := time.Now().UTC()

	return storage.GetDb().Model(&Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", now).Error
}

func (r *SessionRepository) GetActiveSessionsByUser(userID uuid.UUID) ([]*Session, error) {
	var sessions []*Session

	err := storage.GetDb().
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *SessionRepository) RevokeAllUserSessions(userID uuid.UUID) error {
	now := time.Now().UTC()

	return storage.GetDb().Model(&Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}
