package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func serve(t *testing.T, h gin.HandlerFunc) map[string]interface{} {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestLiveness(t *testing.T) {
	h := NewHealthHandler(nil)
	assert.Equal(t, true, serve(t, h.Liveness)["ok"])
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		ping   Pinger
		status string
	}{
		{"資料庫正常", func(context.Context) error { return nil }, statusHealthy},
		{"資料庫失敗", func(context.Context) error { return errors.New("no primary") }, statusDegraded},
		{"未連線", nil, statusDegraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.ping,
				WithApp("chat-sync", "chat", false),
				WithStats("realtime", func() map[string]interface{} { return map[string]interface{}{"connections": 3} }),
			)
			body := serve(t, h.HealthCheck)
			assert.Equal(t, tt.status, body["status"])
			assert.Equal(t, float64(3), body["realtime"].(map[string]interface{})["connections"])
		})
	}
}

func TestWatchSyncsGRPCStatus(t *testing.T) {
	healthy := make(chan error, 1)
	healthy <- errors.New("down")
	h := NewHealthHandler(func(context.Context) error {
		select {
		case err := <-healthy:
			return err
		default:
			return nil
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Watch(ctx, 10*time.Millisecond)
		close(done)
	}()

	check := func() grpc_health_v1.HealthCheckResponse_ServingStatus {
		resp, err := h.GRPCServer().Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			return grpc_health_v1.HealthCheckResponse_UNKNOWN
		}
		return resp.Status
	}
	assert.Eventually(t, func() bool {
		return check() == grpc_health_v1.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, check())
}
