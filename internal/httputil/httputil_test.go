package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chat-sync/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"驗證錯誤", apperror.Validation("bad"), CodeValidation, http.StatusBadRequest},
		{"唯一性衝突", apperror.Constraint(apperror.ConstraintUsername, nil), CodeConstraint, http.StatusConflict},
		{"不存在", apperror.NotFound("x"), CodeNotFound, http.StatusNotFound},
		{"限流", apperror.RateLimited("sendMessage"), CodeRateLimited, http.StatusTooManyRequests},
		{"非領域錯誤", errors.New("mongo down"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, Code(tt.err))
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestSafeError_HidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	SafeError(c, apperror.Transient(errors.New("mongo: auth failed for password"), "ping"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, CodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "password")
}
