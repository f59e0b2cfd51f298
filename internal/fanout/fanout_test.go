package fanout

import (
	"testing"

	"chat-sync/internal/constants"
	"chat-sync/internal/model"
	"chat-sync/internal/presence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConn string

func (c testConn) ID() string { return string(c) }

// 連線配置: alice 兩台裝置, bob 一台, carol 一台
func newRouter(t *testing.T) *Router[testConn] {
	t.Helper()
	reg := presence.NewRegistry[testConn]()
	for conn, uid := range map[testConn]string{
		"alice-1": "alice",
		"alice-2": "alice",
		"bob-1":   "bob",
		"carol-1": "carol",
	} {
		require.NoError(t, reg.Register(conn, uid))
	}
	return NewRouter(reg)
}

type target struct {
	conn  string
	event string
}

func targets(ds []Delivery[testConn]) []target {
	out := make([]target, 0, len(ds))
	for _, d := range ds {
		out = append(out, target{conn: d.Conn.ID(), event: d.Event})
	}
	return out
}

func TestFanoutTable(t *testing.T) {
	r := newRouter(t)
	group := &model.Channel{ID: "g", Kind: model.ChannelGroup, UserIDs: []string{"alice", "bob", "carol"}}
	req := &model.FriendRequest{ID: "fr", SenderID: "alice", ReceiverID: "bob"}

	tests := []struct {
		name string
		ns   []Notification
		want []target
	}{
		{
			name: "訊息送出",
			ns:   MessageSent("alice-1", group, &model.Message{ID: "m"}),
			want: []target{
				{"alice-2", constants.EventNewMessage},
				{"bob-1", constants.EventNewMessage},
				{"carol-1", constants.EventNewMessage},
			},
		},
		{
			name: "群組建立",
			ns:   ChannelCreated("bob-1", group, nil),
			want: []target{
				{"alice-1", constants.EventUpdateChannels},
				{"alice-2", constants.EventUpdateChannels},
				{"carol-1", constants.EventUpdateChannels},
			},
		},
		{
			name: "好友邀請送出",
			ns:   FriendRequestSent("alice-1", req),
			want: []target{
				{"alice-2", constants.EventFriendRequests},
				{"bob-1", constants.EventFriendRequests},
			},
		},
		{
			name: "個人資料更新只通知本人其他裝置",
			ns:   ProfileUpdated("alice-2", &model.User{ID: "alice"}),
			want: []target{{"alice-1", constants.EventSelf}},
		},
		{
			name: "唯一連線為發起者時為空",
			ns:   ProfileUpdated("bob-1", &model.User{ID: "bob"}),
			want: []target{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, targets(r.Resolve(tt.ns)))
		})
	}
}

func TestMemberLeftPayloads(t *testing.T) {
	r := newRouter(t)
	// 離開後的頻道
	ch := &model.Channel{ID: "g", Kind: model.ChannelGroup, UserIDs: []string{"bob", "carol"}}

	ds := r.Resolve(MemberLeft("alice-1", "alice", ch))
	require.Len(t, ds, 3)

	byConn := make(map[string]model.ChannelsAndMessages)
	for _, d := range ds {
		byConn[d.Conn.ID()] = d.Payload.(model.ChannelsAndMessages)
	}

	removed, ok := byConn["alice-2"].Channels["g"]
	require.True(t, ok)
	assert.Nil(t, removed)

	assert.Equal(t, ch, byConn["bob-1"].Channels["g"])
	assert.Equal(t, ch, byConn["carol-1"].Channels["g"])
	assert.NotContains(t, byConn, "alice-1")
}

func TestFriendRequestResolved(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		status model.FriendRequestStatus
		want   int
	}{
		{model.FriendRequestRefused, 2},
		{model.FriendRequestRead, 0},
		{model.FriendRequestSent, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			req := &model.FriendRequest{ID: "fr", SenderID: "alice", ReceiverID: "bob", Status: tt.status}
			// bob-1 拒絕: alice 的兩台裝置收到
			assert.Len(t, r.Resolve(FriendRequestResolved("bob-1", req)), tt.want)
		})
	}
}

func TestFriendRequestAcceptedTailored(t *testing.T) {
	r := newRouter(t)
	req := &model.FriendRequest{ID: "fr", SenderID: "alice", ReceiverID: "bob"}
	receiverData := &model.AcceptedFriendRequest{User: &model.User{ID: "bob"}}
	senderData := &model.AcceptedFriendRequest{User: &model.User{ID: "alice"}}

	ds := r.Resolve(FriendRequestAccepted("bob-1", req, receiverData, senderData))
	require.Len(t, ds, 2)
	for _, d := range ds {
		assert.Equal(t, constants.EventAcceptedFriendRequest, d.Event)
		assert.Same(t, senderData, d.Payload)
		assert.Contains(t, []string{"alice-1", "alice-2"}, d.Conn.ID())
	}
}

func TestFriendDeleted(t *testing.T) {
	r := newRouter(t)
	actor := &model.SelfAndUsers{Self: &model.User{ID: "alice"}}
	friend := &model.SelfAndUsers{Self: &model.User{ID: "carol"}}

	ds := r.Resolve(FriendDeleted("alice-1", actor, friend))
	assert.Equal(t, []target{
		{"alice-2", constants.EventFriends},
		{"carol-1", constants.EventFriends},
	}, targets(ds))
	assert.Same(t, actor, ds[0].Payload)
	assert.Same(t, friend, ds[1].Payload)
}

func TestActorNeverNotified(t *testing.T) {
	r := newRouter(t)
	group := &model.Channel{ID: "g", UserIDs: []string{"alice", "bob", "carol"}}
	req := &model.FriendRequest{ID: "fr", SenderID: "alice", ReceiverID: "bob", Status: model.FriendRequestRefused}

	all := [][]Notification{
		MessageSent("bob-1", group, &model.Message{}),
		ChannelCreated("bob-1", group, nil),
		MembersAdded("bob-1", group, nil),
		ChannelRenamed("bob-1", group),
		MemberLeft("bob-1", "bob", group),
		FriendRequestSent("bob-1", req),
		FriendRequestResolved("bob-1", req),
		FriendRequestAccepted("bob-1", req, &model.AcceptedFriendRequest{}, &model.AcceptedFriendRequest{}),
		FriendDeleted("bob-1", &model.SelfAndUsers{Self: &model.User{ID: "bob"}}, &model.SelfAndUsers{Self: &model.User{ID: "alice"}}),
		ProfileUpdated("bob-1", &model.User{ID: "bob"}),
	}
	for _, ns := range all {
		for _, d := range r.Resolve(ns) {
			assert.NotEqual(t, "bob-1", d.Conn.ID())
		}
	}
}
