package fanout

import "chat-sync/internal/presence"

// Delivery 單一連線上要送出的事件
type Delivery[C presence.Conn] struct {
	Conn    C
	Event   string
	Payload interface{}
}

// Router 透過 presence 將通知解析為實際連線
type Router[C presence.Conn] struct {
	registry *presence.Registry[C]
}

// NewRouter 建立 Router
func NewRouter[C presence.Conn](registry *presence.Registry[C]) *Router[C] {
	return &Router[C]{registry: registry}
}

// Resolve 展開通知，發起連線永遠不會出現在結果中
func (r *Router[C]) Resolve(notifications []Notification) []Delivery[C] {
	var out []Delivery[C]
	for _, n := range notifications {
		for _, c := range r.registry.ConnectionsFor(n.UserIDs, n.ExcludeConn) {
			out = append(out, Delivery[C]{Conn: c, Event: n.Event, Payload: n.Payload})
		}
	}
	return out
}
