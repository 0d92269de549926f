package http

import (
	"net/http"
	"strconv"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PromoHandler serves admin promo management and the public active banner
type PromoHandler struct {
	promos *usecase.PromoService
	logger logger.Logger
}

func NewPromoHandler(promos *usecase.PromoService, logger logger.Logger) *PromoHandler {
	return &PromoHandler{promos: promos, logger: logger}
}

// Create handles POST /api/v1/admin/promos
func (h *PromoHandler) Create(c *gin.Context) {
	var in usecase.CreatePromoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload"})
		return
	}
	in.CreatedBy = c.GetString(ctxKeyEmail)

	promo, err := h.promos.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

// Update handles PATCH /api/v1/admin/promos/:id
func (h *PromoHandler) Update(c *gin.Context) {
	var in usecase.UpdatePromoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload"})
		return
	}

	promo, err := h.promos.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, promo)
}

// Get handles GET /api/v1/admin/promos/:id
func (h *PromoHandler) Get(c *gin.Context) {
	promo, err := h.promos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, promo)
}

// List handles GET /api/v1/admin/promos
func (h *PromoHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	promos, total, err := h.promos.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"promos":   promos,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// Delete handles DELETE /api/v1/admin/promos/:id
func (h *PromoHandler) Delete(c *gin.Context) {
	if err := h.promos.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Active handles GET /api/v1/promos/active. Optional price and package query
// params return the discounted figure alongside the promo.
func (h *PromoHandler) Active(c *gin.Context) {
	promo, err := h.promos.GetActive(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if promo == nil {
		c.JSON(http.StatusOK, gin.H{"promo": nil})
		return
	}

	resp := gin.H{"promo": promo}
	if raw := c.Query("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "price must be a non-negative number"})
			return
		}
		resp["discountedPrice"] = promo.DiscountedPrice(price)
	} else if pkg := c.Query("package"); pkg != "" {
		if base, ok := entity.DefaultPackagePrices[pkg]; ok {
			resp["discountedPrice"] = promo.DiscountedPrice(base)
		}
	}
	c.JSON(http.StatusOK, resp)
}
