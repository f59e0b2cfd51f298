package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn string

func (c fakeConn) ID() string { return string(c) }

func ids(conns []fakeConn) []string {
	out := make([]string, 0, len(conns))
	for _, c := range conns {
		out = append(out, c.ID())
	}
	return out
}

func TestRegistryMultiDevice(t *testing.T) {
	r := NewRegistry[fakeConn]()
	require.NoError(t, r.Register("c1", "u"))
	require.NoError(t, r.Register("c2", "u"))

	uid, ok := r.Deregister("c1")
	require.True(t, ok)
	assert.Equal(t, "u", uid)

	assert.Equal(t, []string{"c2"}, ids(r.ConnectionsFor([]string{"u"}, "")))

	_, ok = r.Deregister("c2")
	require.True(t, ok)
	assert.False(t, r.Online("u"))

	// 不應留下空集合
	conns, users := r.Stats()
	assert.Zero(t, conns)
	assert.Zero(t, users)
	assert.Empty(t, r.users)
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry[fakeConn]()
	require.NoError(t, r.Register("c1", "u1"))

	t.Run("同一使用者重複登記", func(t *testing.T) {
		require.NoError(t, r.Register("c1", "u1"))
		assert.Equal(t, []string{"c1"}, ids(r.ConnectionsFor([]string{"u1"}, "")))
	})

	t.Run("改綁其他使用者被拒絕", func(t *testing.T) {
		err := r.Register("c1", "u2")
		require.ErrorIs(t, err, ErrConnectionBound)
		uid, _ := r.UserOf("c1")
		assert.Equal(t, "u1", uid)
		assert.False(t, r.Online("u2"))
	})

	t.Run("未登記的連線", func(t *testing.T) {
		_, ok := r.Deregister("missing")
		assert.False(t, ok)
	})
}

func TestConnectionsForExclusion(t *testing.T) {
	r := NewRegistry[fakeConn]()
	require.NoError(t, r.Register("a1", "alice"))
	require.NoError(t, r.Register("a2", "alice"))
	require.NoError(t, r.Register("b1", "bob"))

	tests := []struct {
		name    string
		uids    []string
		exclude string
		want    []string
	}{
		{"所有連線", []string{"alice", "bob"}, "", []string{"a1", "a2", "b1"}},
		{"排除發起連線但保留同使用者其他裝置", []string{"alice", "bob"}, "a1", []string{"a2", "b1"}},
		{"唯一連線被排除時為空", []string{"bob"}, "b1", []string{}},
		{"重複的使用者只算一次", []string{"bob", "bob"}, "", []string{"b1"}},
		{"離線使用者", []string{"carol"}, "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(r.ConnectionsFor(tt.uids, tt.exclude)))
		})
	}
}

func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry[fakeConn]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := fakeConn(fmt.Sprintf("c%d", i))
			uid := fmt.Sprintf("u%d", i%5)
			assert.NoError(t, r.Register(c, uid))
			_ = r.ConnectionsFor([]string{uid}, "")
			r.Deregister(c.ID())
		}(i)
	}
	wg.Wait()

	conns, users := r.Stats()
	assert.Zero(t, conns)
	assert.Zero(t, users)
}
