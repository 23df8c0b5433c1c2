package sessions

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	cache_utils "logview/internal/util/cache"

	"github.com/google/uuid"
)

// CookieName is the session cookie shared by the login endpoints and the
// auth middleware.
const CookieName = "logview_session"

var (
	// ErrCookieConflict means the client presented a session cookie that does
	// not match any establishable session. Mapped to 409 by controllers.
	ErrCookieConflict = errors.New("session cookie could not be established")

	ErrSessionNotFound = errors.New("session does not exist")
)

const sessionCacheExpiry = 15 * time.Minute

type SessionService struct {
	sessionRepository *SessionRepository
	sessionCache      *cache_utils.CacheUtil[Session]
	logger            *slog.Logger
}

// EstablishSession creates a fresh session for the user. When the client
// presents a stale cookie that belongs to another user or to a revoked
// session, establishing fails with ErrCookieConflict so the client can clear
// its cookie jar and retry.
func (s *SessionService) EstablishSession(userID uuid.UUID, presentedSessionID *uuid.UUID) (*Session, error) {
	if presentedSessionID != nil {
		existing, err := s.sessionRepository.GetSessionByID(*presentedSessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check presented session: %w", err)
		}

		if existing != nil && (!existing.IsActive() || existing.UserID != userID) {
			return nil, ErrCookieConflict
		}
	}

	session := &Session{
		ID:         uuid.New(),
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
		LastSeenAt: time.Now().UTC(),
	}

	if err := s.sessionRepository.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.sessionCache.Set(session.ID.String(), session)

	return session, nil
}

func (s *SessionService) ValidateSession(sessionID uuid.UUID) (*Session, error) {
	if cached := s.sessionCache.Get(sessionID.String()); cached != nil && cached.IsActive() {
		return cached, nil
	}

	session, err := s.sessionRepository.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session == nil || !session.IsActive() {
		return nil, ErrSessionNotFound
	}

	if err := s.sessionRepository.TouchSession(session.ID); err != nil {
		s.logger.Warn("Failed to touch session",
			slog.String("sessionId", session.ID.String()),
			slog.String("error", err.Error()))
	}

	s.sessionCache.Set(session.ID.String(), session)

	return session, nil
}

func (s *SessionService) RevokeSession(sessionID uuid.UUID) error {
	session, err := s.sessionRepository.GetSessionByID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if session == nil || !session.IsActive() {
		return ErrSessionNotFound
	}

	if err := s.sessionRepository.RevokeSession(sessionID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.sessionCache.Invalidate(sessionID.String())

	return nil
}

func (s *SessionService) RevokeAllUserSessions(userID uuid.UUID) error {
	// collect active sessions first so their cache entries can be dropped too
	active, err := s.sessionRepository.GetActiveSessionsByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	if err := s.sessionRepository.RevokeAllUserSessions(userID); err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}

	for _, session := range active {
		s.sessionCache.Invalidate(session.ID.String())
	}

	return nil
}
