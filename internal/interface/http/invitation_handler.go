package http

import (
	"net/http"
	"strconv"

	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InvitationHandler serves the admin invitation lifecycle plus the public
// token validation used by the signup page.
type InvitationHandler struct {
	invitations *usecase.InvitationService
	logger      logger.Logger
}

func NewInvitationHandler(invitations *usecase.InvitationService, logger logger.Logger) *InvitationHandler {
	return &InvitationHandler{invitations: invitations, logger: logger}
}

// Issue handles POST /api/v1/admin/invitations
func (h *InvitationHandler) Issue(c *gin.Context) {
	var in usecase.IssueInvitationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload"})
		return
	}
	in.InvitedBy = c.GetString(ctxKeyEmail)

	invitation, err := h.invitations.Issue(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, invitation)
}

// Resend handles POST /api/v1/admin/invitations/:id/resend
func (h *InvitationHandler) Resend(c *gin.Context) {
	invitation, err := h.invitations.Resend(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, invitation)
}

// Cancel handles DELETE /api/v1/admin/invitations/:id
func (h *InvitationHandler) Cancel(c *gin.Context) {
	if err := h.invitations.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /api/v1/admin/invitations
func (h *InvitationHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	invitations, total, err := h.invitations.List(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"invitations": invitations,
		"total":       total,
		"page":        page,
		"pageSize":    pageSize,
	})
}

// Validate handles GET /api/v1/invitations/validate. Expired tokens answer
// exactly like unknown ones.
func (h *InvitationHandler) Validate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "token is required"})
		return
	}

	invitation, err := h.invitations.Validate(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"email": invitation.Email,
		"name":  invitation.Name,
		"role":  invitation.Role,
	})
}
