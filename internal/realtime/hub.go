// Package realtime 以 WebSocket 提供動作回呼與事件推送。
package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"chat-sync/internal/chat"
	"chat-sync/internal/constants"
	"chat-sync/internal/fanout"
	"chat-sync/internal/platform/config"
	"chat-sync/internal/platform/logger"
	"chat-sync/internal/platform/metrics"
	"chat-sync/internal/platform/middleware"
	"chat-sync/internal/presence"
	"chat-sync/internal/security/audit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/ratelimit"
)

// Options 連線參數
type Options struct {
	AllowedOrigins   []string
	WriteWait        time.Duration
	PongWait         time.Duration
	MaxMessageBytes  int64
	SendBuffer       int
	ActionsPerSecond int
}

// OptionsFromConfig 由設定轉換，未設定的欄位使用預設值
func OptionsFromConfig(cfg config.RealtimeConfig) Options {
	opts := Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		WriteWait:        time.Duration(cfg.WriteWaitSeconds) * time.Second,
		PongWait:         time.Duration(cfg.PongWaitSeconds) * time.Second,
		MaxMessageBytes:  cfg.MaxMessageBytes,
		SendBuffer:       cfg.SendBuffer,
		ActionsPerSecond: cfg.ActionsPerSecond,
	}
	return opts.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.WriteWait <= 0 {
		o.WriteWait = constants.DefaultWriteWaitSeconds * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = constants.DefaultPongWaitSeconds * time.Second
	}
	if o.MaxMessageBytes <= 0 {
		o.MaxMessageBytes = constants.DefaultMaxMessageBytes
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = constants.DefaultSendBuffer
	}
	return o
}

// ping 間隔必須小於 pong 等待時間
func (o Options) pingPeriod() time.Duration {
	return o.PongWait * 9 / 10
}

// Hub 管理所有連線，負責分派動作與推送通知
type Hub struct {
	svc      *chat.Service
	registry *presence.Registry[*Client]
	router   *fanout.Router[*Client]
	audit    *audit.AuditService
	opts     Options
	upgrader websocket.Upgrader
	handlers map[string]handlerFunc

	mu      sync.Mutex
	clients map[string]*Client
}

// NewHub 建立 Hub
func NewHub(svc *chat.Service, registry *presence.Registry[*Client], auditSvc *audit.AuditService, opts Options) *Hub {
	opts = opts.withDefaults()
	origins := cors.New(cors.Options{AllowedOrigins: opts.AllowedOrigins})

	h := &Hub{
		svc:      svc,
		registry: registry,
		router:   fanout.NewRouter(registry),
		audit:    auditSvc,
		opts:     opts,
		clients:  make(map[string]*Client),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// 非瀏覽器客戶端不帶 Origin
			if r.Header.Get("Origin") == "" {
				return true
			}
			return origins.OriginAllowed(r)
		},
	}
	h.handlers = h.actionTable()
	return h
}

// ServeWS 升級連線並阻塞到連線結束，連線名額由外層中介層在返回時釋放
func (h *Hub) ServeWS(c *gin.Context) {
	meta := middleware.GetRequestMetadata(c.Request.Context())

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		metrics.ConnectionsRejected.WithLabelValues("upgrade").Inc()
		logger.Warning(c.Request.Context(), "WebSocket 升級失敗",
			logger.WithError(err),
			logger.WithDetails(map[string]interface{}{"ip_address": meta.IPAddress}),
		)
		return
	}

	client := &Client{
		id:   uuid.New().String(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.opts.SendBuffer),
		done: make(chan struct{}),
		pace: newPacer(h.opts.ActionsPerSecond),
	}

	ctx := middleware.WithRequestMetadata(context.Background(), meta)
	ctx = logger.ContextWith(ctx, logger.WithConnID(client.id))
	h.attach(client)
	logger.Info(ctx, "WebSocket 連線建立",
		logger.WithDetails(map[string]interface{}{"ip_address": meta.IPAddress}),
	)

	go client.writePump()
	client.readPump(ctx)
	h.detach(ctx, client)
}

func newPacer(perSecond int) ratelimit.Limiter {
	if perSecond <= 0 {
		return ratelimit.NewUnlimited()
	}
	return ratelimit.New(perSecond)
}

func (h *Hub) attach(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	metrics.ConnectionsActive.Inc()
}

// detach 連線結束時從 presence 移除
func (h *Hub) detach(ctx context.Context, c *Client) {
	c.close()
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	metrics.ConnectionsActive.Dec()

	if uid, ok := h.registry.Deregister(c.id); ok {
		logger.Info(ctx, "使用者連線離開",
			logger.WithUserID(uid),
			logger.WithDetails(map[string]interface{}{"online": h.registry.Online(uid)}),
		)
	}
}

// deliver 將通知展開到連線；同一通知只編碼一次
func (h *Hub) deliver(notes []fanout.Notification) {
	for _, n := range notes {
		deliveries := h.router.Resolve([]fanout.Notification{n})
		if len(deliveries) == 0 {
			continue
		}
		b, err := marshalFrame(pushFrame(n.Event, n.Payload, nil))
		if err != nil {
			logger.Error(context.Background(), "編碼推送事件失敗",
				logger.WithEvent(n.Event),
				logger.WithError(err),
			)
			continue
		}
		for _, d := range deliveries {
			if d.Conn.push(b) {
				metrics.DeliveriesTotal.WithLabelValues(d.Event).Inc()
			}
		}
	}
}

// Stats 目前連線與線上使用者數
func (h *Hub) Stats() map[string]interface{} {
	conns, users := h.registry.Stats()
	return map[string]interface{}{
		"connections":  conns,
		"online_users": users,
	}
}

// Close 關閉所有連線
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		c.close()
	}
}
