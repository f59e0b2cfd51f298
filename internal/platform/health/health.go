package health

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"chat-sync/internal/httputil"
	"chat-sync/internal/platform/logger"

	"github.com/gin-gonic/gin"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const (
	// ServiceName gRPC 健康檢查使用的服務名稱.
	ServiceName = "chat.sync"

	// 健康狀態常數.
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusWarning   = "warning"
	statusDegraded  = "degraded"

	// 記憶體相關常數.
	memoryMB        = 1024 * 1024
	memoryThreshold = 1024 // 1GB

	dbTimeout = 5 * time.Second
)

// Pinger 檢查資料庫連線
type Pinger func(ctx context.Context) error

// Option 健康檢查選項
type Option func(*Handler)

// WithApp 設定回應中的應用資訊
func WithApp(name, database string, debug bool) Option {
	return func(h *Handler) {
		h.appName = name
		h.database = database
		h.debug = debug
	}
}

// WithStats 附加即時連線統計
func WithStats(name string, fn func() map[string]interface{}) Option {
	return func(h *Handler) {
		h.stats[name] = fn
	}
}

// Handler 健康檢查處理器，同時維護 gRPC 健康狀態.
type Handler struct {
	ping      Pinger
	appName   string
	database  string
	debug     bool
	stats     map[string]func() map[string]interface{}
	grpc      *grpchealth.Server
	startTime time.Time
}

// NewHealthHandler 創建新的健康檢查處理器.
func NewHealthHandler(ping Pinger, opts ...Option) *Handler {
	h := &Handler{
		ping:      ping,
		appName:   "chat-sync",
		stats:     make(map[string]func() map[string]interface{}),
		grpc:      grpchealth.NewServer(),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GRPCServer gRPC 健康服務實作
func (h *Handler) GRPCServer() *grpchealth.Server {
	return h.grpc
}

// Liveness 存活探測，只代表程序仍在回應.
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, httputil.OKResponse{OK: true})
}

// HealthCheck 詳細健康檢查端點.
func (h *Handler) HealthCheck(c *gin.Context) {
	dbStatus := statusHealthy
	dbError := ""
	if err := h.checkDatabase(c.Request.Context()); err != nil {
		dbStatus = statusUnhealthy
		dbError = "database ping failed"
		logger.Error(c.Request.Context(), "健康檢查 - 資料庫連線失敗", logger.WithError(err))
	}

	appVersion := os.Getenv("APP_VERSION")
	if appVersion == "" {
		appVersion = "NO_VERSION_SET"
	}

	systemStatus := h.checkSystemResources()
	response := gin.H{
		"status":    statusHealthy,
		"timestamp": time.Now().Unix(),
		"app": gin.H{
			"name":    h.appName,
			"version": appVersion,
			"debug":   h.debug,
		},
		"database": gin.H{
			"status":   dbStatus,
			"error":    dbError,
			"database": h.database,
		},
		"system": gin.H{
			"status":  systemStatus.Status,
			"details": systemStatus.Details,
			"uptime":  time.Since(h.startTime).String(),
		},
	}
	for name, fn := range h.stats {
		response[name] = fn()
	}

	// 資料庫不健康時仍回傳 200，狀態欄位標示 degraded.
	if dbStatus == statusUnhealthy {
		response["status"] = statusDegraded
	}
	c.JSON(http.StatusOK, response)
}

// Watch 定期檢查資料庫並同步 gRPC 健康狀態，ctx 結束時標記為停止服務.
func (h *Handler) Watch(ctx context.Context, interval time.Duration) {
	h.sync(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.grpc.Shutdown()
			return
		case <-ticker.C:
			h.sync(ctx)
		}
	}
}

func (h *Handler) sync(ctx context.Context) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := h.checkDatabase(ctx); err != nil {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		logger.Warning(ctx, "健康檢查 - 資料庫無法連線", logger.WithError(err))
	}
	h.grpc.SetServingStatus("", status)
	h.grpc.SetServingStatus(ServiceName, status)
}

// SystemStatus 系統狀態.
type SystemStatus struct {
	Status  string                 `json:"status"`
	Details map[string]interface{} `json:"details"`
}

// checkSystemResources 檢查系統資源.
func (h *Handler) checkSystemResources() SystemStatus {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	details := map[string]interface{}{
		"goroutines": runtime.NumGoroutine(),
		"memory": gin.H{
			"alloc":       fmt.Sprintf("%.2f MB", float64(m.Alloc)/memoryMB),
			"total_alloc": fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/memoryMB),
			"sys":         fmt.Sprintf("%.2f MB", float64(m.Sys)/memoryMB),
			"num_gc":      m.NumGC,
		},
		"cpu": gin.H{
			"num_cpu": runtime.NumCPU(),
		},
	}

	status := statusHealthy
	if m.Sys/memoryMB > memoryThreshold {
		status = statusWarning
		details["memory_warning"] = "Memory usage is high"
	}
	return SystemStatus{Status: status, Details: details}
}

func (h *Handler) checkDatabase(ctx context.Context) error {
	if h.ping == nil {
		return fmt.Errorf("database connection not available")
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return h.ping(ctx)
}
