package users_middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"logview/internal/features/sessions"
	users_models "logview/internal/features/users/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubAuthenticator struct {
	user *users_models.User
	err  error
}

func (s *stubAuthenticator) GetUserFromToken(token string) (*users_models.User, error) {
	return s.user, s.err
}

type stubSessionValidator struct {
	session *sessions.Session
	err     error
}

func (s *stubSessionValidator) ValidateSession(sessionID uuid.UUID) (*sessions.Session, error) {
	return s.session, s.err
}

func newAuthTestRouter(authenticator TokenAuthenticator, validator SessionValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", AuthMiddleware(authenticator, validator), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	return router
}

func protectedRequest(sessionCookie string) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer token")

	if sessionCookie != "" {
		request.AddCookie(&http.Cookie{Name: sessions.CookieName, Value: sessionCookie})
	}

	return request
}

func Test_AuthMiddleware_WithValidTokenAndActiveSession_PassesThrough(t *testing.T) {
	user := &users_models.User{ID: uuid.New()}
	session := &sessions.Session{ID: uuid.New(), UserID: user.ID}

	router := newAuthTestRouter(
		&stubAuthenticator{user: user},
		&stubSessionValidator{session: session},
	)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, protectedRequest(session.ID.String()))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func Test_AuthMiddleware_WithoutToken_Fails(t *testing.T) {
	router := newAuthTestRouter(&stubAuthenticator{}, &stubSessionValidator{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func Test_AuthMiddleware_WithValidTokenButNoSessionCookie_Fails(t *testing.T) {
	user := &users_models.User{ID: uuid.New()}

	router := newAuthTestRouter(
		&stubAuthenticator{user: user},
		&stubSessionValidator{session: &sessions.Session{ID: uuid.New(), UserID: user.ID}},
	)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, protectedRequest(""))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func Test_AuthMiddleware_WithRevokedSession_FailsDespiteValidToken(t *testing.T) {
	user := &users_models.User{ID: uuid.New()}

	router := newAuthTestRouter(
		&stubAuthenticator{user: user},
		&stubSessionValidator{err: sessions.ErrSessionNotFound},
	)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, protectedRequest(uuid.NewString()))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func Test_AuthMiddleware_WithForeignSession_Fails(t *testing.T) {
	user := &users_models.User{ID: uuid.New()}
	foreign := &sessions.Session{ID: uuid.New(), UserID: uuid.New()}

	router := newAuthTestRouter(
		&stubAuthenticator{user: user},
		&stubSessionValidator{session: foreign},
	)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, protectedRequest(foreign.ID.String()))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func Test_AuthMiddleware_WithInvalidToken_Fails(t *testing.T) {
	router := newAuthTestRouter(
		&stubAuthenticator{err: errors.New("invalid token")},
		&stubSessionValidator{},
	)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, protectedRequest(uuid.NewString()))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
