package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequestMetadata 連線來源資訊，供審計與日誌使用
type RequestMetadata struct {
	IPAddress string
	UserAgent string
}

type metadataKey struct{}

// RequestMetadataMiddleware 提取請求元數據並存儲到 context
func RequestMetadataMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := &RequestMetadata{
			IPAddress: GetClientIP(c),
			UserAgent: c.Request.UserAgent(),
		}
		c.Request = c.Request.WithContext(WithRequestMetadata(c.Request.Context(), meta))
		c.Next()
	}
}

// WithRequestMetadata 將元數據放入 context
func WithRequestMetadata(ctx context.Context, meta *RequestMetadata) context.Context {
	return context.WithValue(ctx, metadataKey{}, meta)
}

// GetClientIP 獲取客戶端真實 IP
func GetClientIP(c *gin.Context) string {
	// X-Forwarded-For 可能包含多個 IP，取第一個
	if forwarded := c.Request.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := c.Request.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}

// GetRequestMetadata 從 context 獲取請求元數據
func GetRequestMetadata(ctx context.Context) *RequestMetadata {
	if ctx != nil {
		if meta, ok := ctx.Value(metadataKey{}).(*RequestMetadata); ok {
			return meta
		}
	}
	return &RequestMetadata{
		IPAddress: "unknown",
		UserAgent: "unknown",
	}
}
