package presence

import (
	"sort"
	"sync"

	"github.com/golang-collections/collections/set"
	"github.com/pkg/errors"
)

// ErrConnectionBound 連線已綁定其他使用者
var ErrConnectionBound = errors.New("connection is registered to another user")

// Conn 可被登記的連線
type Conn interface {
	ID() string
}

type entry[C Conn] struct {
	conn C
	uid  string
}

// Registry 連線與使用者的雙向對應，一位使用者可有多條連線
type Registry[C Conn] struct {
	mu    sync.RWMutex
	conns map[string]entry[C]
	users map[string]*set.Set
}

// NewRegistry 建立空的 Registry
func NewRegistry[C Conn]() *Registry[C] {
	return &Registry[C]{
		conns: make(map[string]entry[C]),
		users: make(map[string]*set.Set),
	}
}

// Register 登記連線；同一使用者重複登記為冪等，改綁其他使用者則拒絕
func (r *Registry[C]) Register(c C, uid string) error {
	id := c.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.conns[id]; ok {
		if e.uid != uid {
			return errors.Wrapf(ErrConnectionBound, "connection %s bound to %s", id, e.uid)
		}
		return nil
	}

	r.conns[id] = entry[C]{conn: c, uid: uid}
	if s, ok := r.users[uid]; ok {
		s.Insert(id)
	} else {
		r.users[uid] = set.New(id)
	}
	return nil
}

// Deregister 移除連線，最後一條連線離開時一併移除使用者
func (r *Registry[C]) Deregister(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[connID]
	if !ok {
		return "", false
	}
	delete(r.conns, connID)

	if s, ok := r.users[e.uid]; ok {
		s.Remove(connID)
		if s.Len() == 0 {
			delete(r.users, e.uid)
		}
	}
	return e.uid, true
}

// UserOf 連線所屬的使用者
func (r *Registry[C]) UserOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[connID]
	return e.uid, ok
}

// ConnectionsFor 指定使用者們的所有連線，排除 excludeConnID，依連線 ID 排序
func (r *Registry[C]) ConnectionsFor(uids []string, excludeConnID string) []C {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, uid := range uids {
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}

		s, ok := r.users[uid]
		if !ok {
			continue
		}
		s.Do(func(v interface{}) {
			if id := v.(string); id != excludeConnID {
				ids = append(ids, id)
			}
		})
	}
	sort.Strings(ids)

	out := make([]C, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.conns[id].conn)
	}
	return out
}

// Online 使用者是否有任何連線
func (r *Registry[C]) Online(uid string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[uid]
	return ok
}

// Stats 目前的連線數與使用者數
func (r *Registry[C]) Stats() (conns int, users int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns), len(r.users)
}
