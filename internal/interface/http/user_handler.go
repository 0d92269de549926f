package http

import (
	"net/http"
	"strconv"

	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the admin user management surface
type UserHandler struct {
	accounts *usecase.AccountService
	access   *usecase.AccessService
	logger   logger.Logger
}

func NewUserHandler(accounts *usecase.AccountService, access *usecase.AccessService, logger logger.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, access: access, logger: logger}
}

// List handles GET /api/v1/admin/users
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	users, total, err := h.accounts.ListUsers(c.Request.Context(), c.Query("role"), page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":    users,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// Create handles POST /api/v1/admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Role      string `json:"role"`
		HasAccess bool   `json:"hasAccess"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload"})
		return
	}

	actor := c.GetString(ctxKeyEmail)
	user, err := h.accounts.CreateUser(c.Request.Context(), actor, req.Name, req.Email, req.Role, req.HasAccess)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ChangeRole handles PATCH /api/v1/admin/users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req struct {
		Role   string `json:"role" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "role is required"})
		return
	}

	actor := c.GetString(ctxKeyEmail)
	if err := h.accounts.ChangeRole(c.Request.Context(), actor, c.Param("id"), req.Role, req.Reason); err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Role changes must be visible on the next request, not after cache expiry.
	h.access.ClearCache()
	c.JSON(http.StatusOK, SuccessResponse{Message: "role updated"})
}

// MergeDuplicates handles POST /api/v1/admin/users/merge
func (h *UserHandler) MergeDuplicates(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email is required"})
		return
	}

	survivor, err := h.accounts.MergeDuplicates(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.access.Invalidate(survivor.Email)
	c.JSON(http.StatusOK, survivor)
}
