package middleware

import (
	"net/http"
	"sync"

	"chat-sync/internal/platform/metrics"

	"github.com/gin-gonic/gin"
)

// ConnectionLimiter 限制 WebSocket 長連線數量
type ConnectionLimiter struct {
	mu                sync.Mutex
	connections       map[string]int // IP -> 連接數
	maxPerIP          int
	maxTotalConns     int
	currentTotalConns int
}

// NewConnectionLimiter 創建連接限制器
func NewConnectionLimiter(maxPerIP, maxTotal int) *ConnectionLimiter {
	return &ConnectionLimiter{
		connections:   make(map[string]int),
		maxPerIP:      maxPerIP,
		maxTotalConns: maxTotal,
	}
}

// Acquire 佔用一個連線名額，成功時回傳釋放函式（可重複呼叫）
func (l *ConnectionLimiter) Acquire(ip string) (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxTotalConns > 0 && l.currentTotalConns >= l.maxTotalConns {
		return nil, false
	}
	if l.maxPerIP > 0 && l.connections[ip] >= l.maxPerIP {
		return nil, false
	}

	l.connections[ip]++
	l.currentTotalConns++

	var once sync.Once
	return func() { once.Do(func() { l.release(ip) }) }, true
}

func (l *ConnectionLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if count := l.connections[ip]; count <= 1 {
		delete(l.connections, ip)
	} else {
		l.connections[ip]--
	}
	l.currentTotalConns--
}

// Middleware 在升級前檢查名額，連線結束時釋放
func (l *ConnectionLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		release, ok := l.Acquire(GetClientIP(c))
		if !ok {
			metrics.ConnectionsRejected.WithLabelValues("connection_limit").Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "連接數已達上限，請稍後再試",
				"success": false,
			})
			c.Abort()
			return
		}
		defer release()
		c.Next()
	}
}

// Stats 獲取統計信息
func (l *ConnectionLimiter) Stats() map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	return map[string]interface{}{
		"total_connections": l.currentTotalConns,
		"unique_ips":        len(l.connections),
		"max_total":         l.maxTotalConns,
		"max_per_ip":        l.maxPerIP,
	}
}
