package http

import (
	"net/http"

	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ContactHandler serves the public contact form
type ContactHandler struct {
	contact *usecase.ContactService
	logger  logger.Logger
}

func NewContactHandler(contact *usecase.ContactService, logger logger.Logger) *ContactHandler {
	return &ContactHandler{contact: contact, logger: logger}
}

// Submit handles POST /api/v1/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var in usecase.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload"})
		return
	}
	in.RemoteIP = c.ClientIP()

	if err := h.contact.Submit(c.Request.Context(), in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "message received"})
}
