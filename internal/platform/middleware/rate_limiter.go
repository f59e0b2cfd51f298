package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"chat-sync/internal/platform/metrics"

	"github.com/gin-gonic/gin"
)

// Limiter 以 key 計數的固定窗口限制器
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiter 記憶體內的固定窗口速率限制器
type RateLimiter struct {
	visitors map[string]*Visitor
	mu       sync.Mutex
	rate     int           // 每個時間窗口允許的請求數
	window   time.Duration // 時間窗口
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// Visitor 訪問者信息
type Visitor struct {
	lastSeen  time.Time
	requests  int
	resetTime time.Time
}

// NewRateLimiter 創建新的速率限制器，cleanupInterval 為 0 時不啟動清理
func NewRateLimiter(rate int, window, cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*Visitor),
		rate:     rate,
		window:   window,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go rl.cleanupVisitors(cleanupInterval)
	}
	return rl
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	visitor, exists := rl.visitors[key]
	if !exists || now.After(visitor.resetTime) {
		rl.visitors[key] = &Visitor{
			lastSeen:  now,
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true, nil
	}

	visitor.lastSeen = now
	if visitor.requests >= rl.rate {
		return false, nil
	}
	visitor.requests++
	return true, nil
}

// Stop 停止清理 goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// cleanupVisitors 定期清理過期的訪問者記錄
func (rl *RateLimiter) cleanupVisitors(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, visitor := range rl.visitors {
				if now.Sub(visitor.lastSeen) > 2*rl.window && now.After(visitor.resetTime) {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// IPRateLimit 以客戶端 IP 限制 HTTP 請求
func IPRateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := l.Allow(c.Request.Context(), "ip:"+GetClientIP(c))
		// 限制器故障時放行
		if err == nil && !ok {
			metrics.RateLimitHits.WithLabelValues("ip").Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "請求過於頻繁，請稍後再試",
				"success": false,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
