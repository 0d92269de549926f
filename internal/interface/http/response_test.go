package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{usecase.ValidationError("bad field"), http.StatusBadRequest},
		{usecase.ErrAuthentication, http.StatusUnauthorized},
		{usecase.ErrAuthorization, http.StatusForbidden},
		{usecase.ErrNotFound, http.StatusNotFound},
		{usecase.ErrDuplicateBooking, http.StatusConflict},
		{usecase.ErrPromoOverlap, http.StatusConflict},
		{usecase.ErrEmailTaken, http.StatusConflict},
		{usecase.ErrRateLimited, http.StatusTooManyRequests},
		{fmt.Errorf("wrapped: %w", usecase.ErrNotFound), http.StatusNotFound},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

		respondError(c, logger.NewNop(), tc.err)
		assert.Equal(t, tc.status, w.Code, "error: %v", tc.err)
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	respondError(c, logger.NewNop(), errors.New("dial tcp 10.0.0.5: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}
