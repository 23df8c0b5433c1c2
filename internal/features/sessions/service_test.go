package sessions

import (
	"fmt"
	"testing"
	"time"

	users_enums "logview/internal/features/users/enums"
	users_models "logview/internal/features/users/models"
	users_repositories "logview/internal/features/users/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSessionTestUser(t *testing.T) *users_models.User {
	t.Helper()

	userID := uuid.New()
	hashedPassword := "$2a$10$test"
	user := &users_models.User{
		ID:                   userID,
		Username:             fmt.Sprintf("viewer-%s", userID.String()[:8]),
		HashedPassword:       &hashedPassword,
		PasswordCreationTime: time.Now().UTC(),
		Role:                 users_enums.UserRoleViewer,
		Status:               users_enums.UserStatusActive,
		CreatedAt:            time.Now().UTC(),
	}

	require.NoError(t, (&users_repositories.UserRepository{}).CreateUser(user))

	return user
}

func Test_EstablishSession_WithoutPresentedCookie_CreatesSession(t *testing.T) {
	user := createSessionTestUser(t)
	service := GetSessionService()

	session, err := service.EstablishSession(user.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.True(t, session.IsActive())
}

func Test_EstablishSession_WithForeignCookie_FailsWithCookieConflict(t *testing.T) {
	userA := createSessionTestUser(t)
	userB := createSessionTestUser(t)
	service := GetSessionService()

	foreign, err := service.EstablishSession(userA.ID, nil)
	require.NoError(t, err)

	_, err = service.EstablishSession(userB.ID, &foreign.ID)

	assert.ErrorIs(t, err, ErrCookieConflict)
}

func Test_EstablishSession_WithRevokedCookie_FailsWithCookieConflict(t *testing.T) {
	user := createSessionTestUser(t)
	service := GetSessionService()

	session, err := service.EstablishSession(user.ID, nil)
	require.NoError(t, err)
	require.NoError(t, service.RevokeSession(session.ID))

	_, err = service.EstablishSession(user.ID, &session.ID)

	assert.ErrorIs(t, err, ErrCookieConflict)
}

func Test_EstablishSession_WithOwnActiveCookie_IssuesFreshSession(t *testing.T) {
	user := createSessionTestUser(t)
	service := GetSessionService()

	first, err := service.EstablishSession(user.ID, nil)
	require.NoError(t, err)

	second, err := service.EstablishSession(user.ID, &first.ID)

	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func Test_RevokeSession_MakesValidationFail(t *testing.T) {
	user := createSessionTestUser(t)
	service := GetSessionService()

	session, err := service.EstablishSession(user.ID, nil)
	require.NoError(t, err)

	_, err = service.ValidateSession(session.ID)
	require.NoError(t, err)

	require.NoError(t, service.RevokeSession(session.ID))

	_, err = service.ValidateSession(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func Test_RevokeSession_WhenAlreadyRevoked_FailsWithSessionNotFound(t *testing.T) {
	user := createSessionTestUser(t)
	service := GetSessionService()

	session, err := service.EstablishSession(user.ID, nil)
	require.NoError(t, err)
	require.NoError(t, service.RevokeSession(session.ID))

	assert.ErrorIs(t, service.RevokeSession(session.ID), ErrSessionNotFound)
}

func Test_RevokeAllUserSessions_RevokesEverySessionIncludingCached(t *testing.T) {
	user := createSessionTestUser(t)
	service := GetSessionService()

	first, err := service.EstablishSession(user.ID, nil)
	require.NoError(t, err)
	second, err := service.EstablishSession(user.ID, nil)
	require.NoError(t, err)

	// validating puts both sessions into the cache
	_, err = service.ValidateSession(first.ID)
	require.NoError(t, err)
	_, err = service.ValidateSession(second.ID)
	require.NoError(t, err)

	require.NoError(t, service.RevokeAllUserSessions(user.ID))

	_, err = service.ValidateSession(first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "revocation must invalidate cached sessions")

	_, err = service.ValidateSession(second.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func Test_RevokeAllUserSessions_LeavesOtherUsersUntouched(t *testing.T) {
	userA := createSessionTestUser(t)
	userB := createSessionTestUser(t)
	service := GetSessionService()

	sessionA, err := service.EstablishSession(userA.ID, nil)
	require.NoError(t, err)
	sessionB, err := service.EstablishSession(userB.ID, nil)
	require.NoError(t, err)

	require.NoError(t, service.RevokeAllUserSessions(userA.ID))

	_, err = service.ValidateSession(sessionA.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = service.ValidateSession(sessionB.ID)
	assert.NoError(t, err)
}
