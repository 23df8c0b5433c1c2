package users_controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"logview/internal/features/sessions"
	user_dto "logview/internal/features/users/dto"
	user_middleware "logview/internal/features/users/middleware"
	users_services "logview/internal/features/users/services"
	rate_limit "logview/internal/util/rate_limit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const SessionCookieName = sessions.CookieName

type UserController struct {
	userService    *users_services.UserService
	sessionService *sessions.SessionService
	signinLimiter  *rate.Limiter
	ipRateLimiter  *rate_limit.RateLimiter
}

func (c *UserController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/login", c.SignIn)
	router.POST("/auth/logout", c.SignOut)

	// Admin password setup (no auth required)
	router.GET("/auth/admin/has-password", c.IsAdminHasPassword)
	router.POST("/auth/admin/set-password", c.SetAdminPassword)
}

func (c *UserController) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/auth/me", c.GetCurrentUser)
	router.PUT("/auth/change-password", c.ChangePassword)
}

// SignIn
// @Summary Authenticate a user
// @Description Authenticate with username and password, establishing a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body users_dto.SignInRequestDTO true "Credentials"
// @Success 200 {object} users_dto.SignInResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 409 {object} map[string]string "Session cookie conflict"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /auth/login [post]
func (c *UserController) SignIn(ctx *gin.Context) {
	// We use rate limiters to prevent brute force attacks: an in-process one
	// and a Valkey-backed per-IP bucket shared across instances.
	if !c.signinLimiter.Allow() {
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
		return
	}

	if result, err := c.ipRateLimiter.CheckRateLimit("login:"+ctx.ClientIP(), 1, 10); err == nil && !result.Allowed {
		ctx.Header("Retry-After", strconv.Itoa(result.RetryAfterSec))
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
		return
	}

	var request user_dto.SignInRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, session, err := c.userService.SignIn(&request, c.presentedSessionID(ctx))
	if err != nil {
		c.handleSignInError(ctx, err)
		return
	}

	// optional post-login destination; only local paths are honored
	if next := ctx.Query("next"); strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		response.Redirect = next
	}

	ctx.SetCookie(SessionCookieName, session.ID.String(), 0, "/", "", false, true)
	ctx.JSON(http.StatusOK, response)
}

// SignOut
// @Summary End the current session
// @Description Revoke the session referenced by the session cookie. Responds 401 when no session is active, which clients treat as "already logged out".
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/logout [post]
func (c *UserController) SignOut(ctx *gin.Context) {
	sessionID := c.presentedSessionID(ctx)
	if sessionID == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}

	session, err := c.sessionService.ValidateSession(*sessionID)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}

	user, err := c.userService.GetUserByID(session.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}

	if err := c.userService.SignOut(session.ID, user); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}

	ctx.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Admin password endpoints
func (c *UserController) IsAdminHasPassword(ctx *gin.Context) {
	hasPassword, err := c.userService.IsRootAdminHasPassword()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check admin password status"})
		return
	}

	ctx.JSON(http.StatusOK, user_dto.IsAdminHasPasswordResponseDTO{HasPassword: hasPassword})
}

func (c *UserController) SetAdminPassword(ctx *gin.Context) {
	var request user_dto.SetAdminPasswordRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := c.userService.SetRootAdminPassword(request.Password); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Admin password set successfully"})
}

// ChangePassword
// @Summary Change user password
// @Description Change the password for the currently authenticated user
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body users_dto.ChangePasswordRequestDTO true "New password data"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/change-password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	user, ok := user_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request user_dto.ChangePasswordRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if len(request.NewPassword) < 8 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 8 characters long"})
		return
	}

	if err := c.userService.ChangeUserPassword(user.ID, request.NewPassword); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// GetCurrentUser
// @Summary Get current user profile
// @Description Get the profile of the currently authenticated user; used by clients to refresh session display state
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users_dto.UserProfileResponseDTO
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (c *UserController) GetCurrentUser(ctx *gin.Context) {
	user, ok := user_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile := c.userService.GetCurrentUserProfile(user)
	ctx.JSON(http.StatusOK, profile)
}

func (c *UserController) handleSignInError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, users_services.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, sessions.ErrCookieConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Session cookie conflict"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
	}
}

func (c *UserController) presentedSessionID(ctx *gin.Context) *uuid.UUID {
	cookie, err := ctx.Cookie(SessionCookieName)
	if err != nil || cookie == "" {
		return nil
	}

	sessionID, err := uuid.Parse(cookie)
	if err != nil {
		return nil
	}

	return &sessionID
}
