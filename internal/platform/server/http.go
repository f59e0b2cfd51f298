package server

import (
	"fmt"
	"net/http"
	"time"

	"chat-sync/internal/apperror"
	"chat-sync/internal/httputil"
	"chat-sync/internal/platform/health"
	"chat-sync/internal/platform/logger"
	"chat-sync/internal/platform/middleware"
	"chat-sync/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Deps HTTP 路由依賴
type Deps struct {
	Health      *health.Handler
	Hub         *realtime.Hub
	ConnLimiter *middleware.ConnectionLimiter
	IPLimiter   middleware.Limiter // nil 表示不限制升級頻率
}

// securityHeadersMiddleware 添加安全標頭
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// accessLogMiddleware 記錄請求，WebSocket 連線在結束時才記錄
func accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug(c.Request.Context(), "HTTP 請求",
			logger.WithHTTPRequest(&logger.HTTPRequest{
				RequestMethod: c.Request.Method,
				RequestURL:    c.Request.URL.Path,
				Status:        c.Writer.Status(),
				UserAgent:     c.Request.UserAgent(),
				RemoteIP:      middleware.GetClientIP(c),
				Latency:       time.Since(start).String(),
				Protocol:      c.Request.Proto,
			}),
		)
	}
}

// Router 設定路由：存活探測、健康檢查、指標與 WebSocket
func Router(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		httputil.SafeError(c, apperror.Transient(fmt.Errorf("panic: %v", recovered), "internal error"))
	}))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(securityHeadersMiddleware())
	r.Use(middleware.RequestMetadataMiddleware())
	r.Use(accessLogMiddleware())

	r.GET("/", deps.Health.Liveness)
	r.GET("/healthz", deps.Health.Liveness)
	r.GET("/health", deps.Health.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ws := make([]gin.HandlerFunc, 0, 3)
	if deps.IPLimiter != nil {
		ws = append(ws, middleware.IPRateLimit(deps.IPLimiter))
	}
	if deps.ConnLimiter != nil {
		ws = append(ws, deps.ConnLimiter.Middleware())
	}
	ws = append(ws, deps.Hub.ServeWS)
	r.GET("/ws", ws...)

	r.NoRoute(func(c *gin.Context) {
		httputil.SafeError(c, apperror.NotFound("route %s %s", c.Request.Method, c.Request.URL.Path))
	})

	return r
}

// withCORS 以允許的來源包裝 HTTP handler
func withCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           300,
		AllowCredentials: true,
	}).Handler(h)
}
