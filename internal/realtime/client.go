package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"chat-sync/internal/platform/logger"
	"chat-sync/internal/platform/metrics"

	"github.com/gorilla/websocket"
	"go.uber.org/ratelimit"
)

// Client 單一 WebSocket 連線。讀取迴圈在 ServeWS 的 goroutine 中執行，寫入另開 goroutine
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
	pace ratelimit.Limiter

	// 只在讀取迴圈中讀寫
	uid string
}

// ID 連線識別碼
func (c *Client) ID() string { return c.id }

// emit 編碼並放入發送緩衝
func (c *Client) emit(frame Outbound) bool {
	b, err := marshalFrame(frame)
	if err != nil {
		logger.Error(context.Background(), "編碼推送事件失敗",
			logger.WithConnID(c.id),
			logger.WithEvent(frame.Event),
			logger.WithError(err),
		)
		return false
	}
	return c.push(b)
}

// push 緩衝已滿代表對方讀太慢，直接中斷連線
func (c *Client) push(b []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- b:
		return true
	case <-c.done:
		return false
	default:
		metrics.DeliveriesDropped.Inc()
		logger.Warning(context.Background(), "發送緩衝已滿，中斷連線",
			logger.WithConnID(c.id),
		)
		c.close()
		return false
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// readPump 讀取動作直到連線中斷
func (c *Client) readPump(ctx context.Context) {
	opts := c.hub.opts
	c.conn.SetReadLimit(opts.MaxMessageBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Info(ctx, "WebSocket 連線異常中斷",
					logger.WithUserID(c.uid),
					logger.WithError(err),
				)
			}
			return
		}

		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			c.emit(ackFrame("", nil, badPayload(err)))
			continue
		}
		c.pace.Take()
		c.hub.dispatch(ctx, c, in)
	}
}

// writePump 依序寫出緩衝中的事件並定期 ping
func (c *Client) writePump() {
	opts := c.hub.opts
	ticker := time.NewTicker(opts.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(opts.WriteWait))
			return
		}
	}
}
