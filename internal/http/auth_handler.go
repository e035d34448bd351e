package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialink/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de sesión.
type AuthHandler struct {
	logger   *zap.Logger
	sessions *service.SessionService
	cookies  CookieOptions
}

func NewAuthHandler(logger *zap.Logger, sessions *service.SessionService, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		sessions: sessions,
		cookies:  cookies,
	}
}

// Signup maneja POST /signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	identity, session, err := h.sessions.SignUp(c.Request.Context(), service.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.logger.Error("signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	setSessionCookies(c, session, h.cookies)
	c.JSON(http.StatusOK, gin.H{"user": identity, "session": session})
}

// Login maneja POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	identity, session, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	setSessionCookies(c, session, h.cookies)
	c.JSON(http.StatusOK, gin.H{"user": identity})
}

// Logout maneja POST /logout. Siempre responde 200: la invalidación en el
// proveedor es best-effort.
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookieName)
	h.sessions.Logout(c.Request.Context(), refreshToken)

	clearSessionCookies(c, h.cookies)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me maneja GET /users/me: resuelve la sesión con refresh transparente.
func (h *AuthHandler) Me(c *gin.Context) {
	accessToken, _ := c.Cookie(accessCookieName)
	refreshToken, _ := c.Cookie(refreshCookieName)

	identity, refreshed, err := h.sessions.Resolve(c.Request.Context(), accessToken, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		case errors.Is(err, service.ErrSessionExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired. Please log in again."})
		default:
			h.logger.Error("resolve session failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected server error"})
		}
		return
	}

	if refreshed != nil {
		setSessionCookies(c, *refreshed, h.cookies)
	}
	c.JSON(http.StatusOK, identity)
}
