package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the public booking form and the admin dashboard
type BookingHandler struct {
	bookings *usecase.BookingService
	logger   logger.Logger
}

func NewBookingHandler(bookings *usecase.BookingService, logger logger.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var in usecase.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload"})
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// Get handles GET /api/v1/admin/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// List handles GET /api/v1/admin/bookings
func (h *BookingHandler) List(c *gin.Context) {
	filter := entity.BookingFilter{
		Status:  c.Query("status"),
		Source:  c.Query("source"),
		Service: c.Query("service"),
		Email:   c.Query("email"),
	}
	if from := c.Query("dateFrom"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "dateFrom must be RFC3339"})
			return
		}
		filter.DateFrom = &t
	}
	if to := c.Query("dateTo"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "dateTo must be RFC3339"})
			return
		}
		filter.DateTo = &t
	}

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	bookings, total, err := h.bookings.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// Update handles PATCH /api/v1/admin/bookings/:id
func (h *BookingHandler) Update(c *gin.Context) {
	var update entity.BookingUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload"})
		return
	}

	booking, err := h.bookings.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Delete handles DELETE /api/v1/admin/bookings/:id
func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.bookings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats handles GET /api/v1/admin/bookings/stats
func (h *BookingHandler) Stats(c *gin.Context) {
	stats, err := h.bookings.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
