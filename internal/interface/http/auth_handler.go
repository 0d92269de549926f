package http

import (
	"net/http"

	"github.com/lawmbass/sleepysquid-drones/internal/infrastructure/oauth"
	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler serves Google sign-in, credential signup and email verification
type AuthHandler struct {
	oauth    *oauth.GoogleOAuth
	accounts *usecase.AccountService
	access   *usecase.AccessService
	logger   logger.Logger
}

func NewAuthHandler(oauth *oauth.GoogleOAuth, accounts *usecase.AccountService, access *usecase.AccessService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{oauth: oauth, accounts: accounts, access: access, logger: logger}
}

// GoogleLogin handles GET /api/v1/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	c.JSON(http.StatusOK, gin.H{
		"authUrl": h.oauth.GenerateAuthURL(state),
		"state":   state,
	})
}

// GoogleCallback handles POST /api/v1/auth/google/callback. The code is
// exchanged server side and the account materialized on first sign-in.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "code is required"})
		return
	}

	profile, err := h.oauth.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		h.logger.Warn("OAuth code exchange failed", "error", err)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication failed"})
		return
	}

	user, err := h.accounts.HandleSignIn(c.Request.Context(), profile.Email, profile.Name, profile.Picture)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.access.Invalidate(user.Email)
	c.JSON(http.StatusOK, user)
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload"})
		return
	}

	user, err := h.accounts.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// VerifyEmail handles POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "token is required"})
		return
	}

	user, err := h.accounts.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me handles GET /api/v1/me
func (h *AuthHandler) Me(c *gin.Context) {
	email := c.GetString(ctxKeyEmail)
	user, err := h.accounts.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	role := h.access.GetUserRole(c.Request.Context(), email)
	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"role": role,
	})
}

// Permissions handles GET /api/v1/me/permissions
func (h *AuthHandler) Permissions(c *gin.Context) {
	email := c.GetString(ctxKeyEmail)
	c.JSON(http.StatusOK, gin.H{
		"role":        h.access.GetUserRole(c.Request.Context(), email),
		"permissions": h.access.GetUserPermissions(c.Request.Context(), email),
	})
}
