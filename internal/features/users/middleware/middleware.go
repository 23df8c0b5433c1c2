package users_middleware

import (
	"net/http"

	"logview/internal/features/sessions"
	users_models "logview/internal/features/users/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenAuthenticator resolves a bearer token to its user.
type TokenAuthenticator interface {
	GetUserFromToken(token string) (*users_models.User, error)
}

// SessionValidator checks that a session still exists and is active.
type SessionValidator interface {
	ValidateSession(sessionID uuid.UUID) (*sessions.Session, error)
}

// AuthMiddleware validates the bearer token together with the session cookie
// and adds the user to the context. A valid token alone is not enough: once
// the session is revoked (logout, password change) the token stops granting
// access even though it has not expired.
func AuthMiddleware(authenticator TokenAuthenticator, sessionValidator SessionValidator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			ctx.Abort()
			return
		}

		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		user, err := authenticator.GetUserFromToken(token)
		if err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			ctx.Abort()
			return
		}

		session := activeSession(ctx, sessionValidator, user)
		if session == nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "No active session"})
			ctx.Abort()
			return
		}

		ctx.Set("user", user)
		ctx.Set("session", session)
		ctx.Next()
	}
}

func activeSession(
	ctx *gin.Context,
	validator SessionValidator,
	user *users_models.User,
) *sessions.Session {
	cookie, err := ctx.Cookie(sessions.CookieName)
	if err != nil || cookie == "" {
		return nil
	}

	sessionID, err := uuid.Parse(cookie)
	if err != nil {
		return nil
	}

	session, err := validator.ValidateSession(sessionID)
	if err != nil || session.UserID != user.ID {
		return nil
	}

	return session
}

func GetUserFromContext(ctx *gin.Context) (*users_models.User, bool) {
	value, exists := ctx.Get("user")
	if !exists {
		return nil, false
	}

	user, ok := value.(*users_models.User)
	return user, ok
}
