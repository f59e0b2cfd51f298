package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(2, time.Minute, 0)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		advance time.Duration
		want    bool
	}{
		{name: "第一次", key: "a", want: true},
		{name: "第二次", key: "a", want: true},
		{name: "超過上限", key: "a", want: false},
		{name: "其他 key 不受影響", key: "b", want: true},
		{name: "窗口過期後重置", key: "a", advance: time.Minute + time.Second, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = now.Add(tt.advance)
			got, err := rl.Allow(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConnectionLimiter(t *testing.T) {
	l := NewConnectionLimiter(2, 3)

	r1, ok := l.Acquire("1.1.1.1")
	require.True(t, ok)
	_, ok = l.Acquire("1.1.1.1")
	require.True(t, ok)

	// 單一 IP 上限
	_, ok = l.Acquire("1.1.1.1")
	assert.False(t, ok)

	_, ok = l.Acquire("2.2.2.2")
	require.True(t, ok)

	// 全域上限
	_, ok = l.Acquire("3.3.3.3")
	assert.False(t, ok)

	// 重複釋放只算一次
	r1()
	r1()
	assert.Equal(t, 2, l.Stats()["total_connections"])

	_, ok = l.Acquire("3.3.3.3")
	assert.True(t, ok)
}

func TestIPRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IPRateLimit(NewRateLimiter(1, time.Minute, 0)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestMetadata(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), RequestMetadataMiddleware())

	var meta *RequestMetadata
	r.GET("/", func(c *gin.Context) {
		meta = GetRequestMetadata(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "8.8.8.8")
	req.Header.Set("User-Agent", "test-agent")
	r.ServeHTTP(w, req)

	require.NotNil(t, meta)
	assert.Equal(t, "8.8.8.8", meta.IPAddress)
	assert.Equal(t, "test-agent", meta.UserAgent)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	assert.Equal(t, "unknown", GetRequestMetadata(context.Background()).IPAddress)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"沿用上游 ID", "req-123.abc_DEF", true},
		{"未帶 ID", "", false},
		{"含換行", "a\nb", false},
		{"過長", strings.Repeat("x", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			assert.Equal(t, got, w.Body.String())
			if tt.keep {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.NotEqual(t, tt.incoming, got)
				assert.Len(t, got, 36)
			}
		})
	}
}
