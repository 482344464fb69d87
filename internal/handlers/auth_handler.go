package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tailor_shop/internal/redis"
	"tailor_shop/internal/services"
)

type AuthHandler struct {
	userService services.UserService
	sessions    *redis.Client
	sessionTTL  time.Duration
}

func NewAuthHandler(userService services.UserService, sessions *redis.Client, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Username and password are required")
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
		return
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}

	token := uuid.NewString()
	session := &redis.Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: time.Now(),
	}
	if err := h.sessions.SetSession(token, session, h.sessionTTL); err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create session")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		respondError(c, http.StatusBadRequest, "MISSING_TOKEN", "Authorization token required")
		return
	}

	if err := h.sessions.DeleteSession(token); err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to end session")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"status": "logged_out"})
}
