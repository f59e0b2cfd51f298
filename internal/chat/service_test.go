package chat_test

import (
	"context"
	"testing"
	"time"

	"chat-sync/internal/apperror"
	"chat-sync/internal/chat"
	"chat-sync/internal/constants"
	"chat-sync/internal/fanout"
	"chat-sync/internal/idgen"
	"chat-sync/internal/message"
	"chat-sync/internal/model"
	"chat-sync/internal/platform/config"
	"chat-sync/internal/security/audit"
	"chat-sync/internal/storage/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

type fixture struct {
	svc   *chat.Service
	store *memstore.Store
	ids   *idgen.Allocator
	users map[string]*model.User
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	return newFixtureWithLimits(t, config.Default().Limits, names...)
}

func newFixtureWithLimits(t *testing.T, limits config.LimitsConfig, names ...string) *fixture {
	t.Helper()
	store := memstore.New()
	ids := idgen.NewAllocator(0)
	svc := chat.NewService(store, ids, limits,
		chat.WithClock(func() time.Time { return fixedNow }),
		chat.WithAudit(audit.NewAuditService(false)),
	)

	f := &fixture{svc: svc, store: store, ids: ids, users: make(map[string]*model.User)}
	for _, n := range names {
		u, err := svc.CreateUser(context.Background(), n, "")
		require.NoError(t, err)
		f.users[n] = u
	}
	return f
}

func (f *fixture) actor(name string) chat.Actor {
	return chat.Actor{UserID: f.users[name].ID, ConnID: "conn-" + name}
}

// befriend a 邀請 b，b 接受
func (f *fixture) befriend(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()
	view, _, err := f.svc.SendFriendRequest(ctx, f.actor(a), message.SendFriendRequestRequest{Username: b})
	require.NoError(t, err)
	for id := range view.FriendRequests {
		_, _, err := f.svc.ResolveFriendRequest(ctx, f.actor(b), message.ResolveFriendRequestRequest{RequestID: id, Status: "Accepted"})
		require.NoError(t, err)
	}
}

func (f *fixture) group(t *testing.T, owner string, members ...string) *model.Channel {
	t.Helper()
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, f.users[m].ID)
	}
	out, _, err := f.svc.CreateChannel(context.Background(), f.actor(owner), message.CreateChannelRequest{Name: "team", UserIDs: ids})
	require.NoError(t, err)
	for _, ch := range out.Channels {
		return ch
	}
	t.Fatal("no channel created")
	return nil
}

func events(notes []fanout.Notification) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Event)
	}
	return out
}

func TestSendMessage_Group(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.befriend(t, "alice", "bob")
	ch := f.group(t, "alice", "bob")
	ctx := context.Background()

	msg, notes, err := f.svc.SendMessage(ctx, f.actor("alice"), message.SendMessageRequest{ChannelID: ch.ID, Content: "hi"})
	require.NoError(t, err)

	assert.Equal(t, model.MessageContent, msg.Kind)
	assert.Equal(t, fixedNow.UnixMilli(), msg.CreatedAt)
	require.NotNil(t, msg.User)
	assert.Equal(t, "alice", msg.User.Username)

	require.Len(t, notes, 1)
	assert.Equal(t, constants.EventNewMessage, notes[0].Event)
	assert.Equal(t, "conn-alice", notes[0].ExcludeConn)
	assert.ElementsMatch(t, ch.UserIDs, notes[0].UserIDs)

	// 後寫入的訊息序號較大
	next, _, err := f.svc.SendMessage(ctx, f.actor("bob"), message.SendMessageRequest{ChannelID: ch.ID, Content: "yo", CreatedAt: ptr(int64(5))})
	require.NoError(t, err)
	assert.Greater(t, next.MessageID, msg.MessageID)
	assert.Equal(t, int64(5), next.CreatedAt)
}

func TestSendMessage_Errors(t *testing.T) {
	f := newFixture(t, "alice", "bob", "mallory")
	f.befriend(t, "alice", "bob")
	ch := f.group(t, "alice", "bob")
	ctx := context.Background()

	tests := []struct {
		name  string
		actor string
		req   message.SendMessageRequest
		kind  apperror.Kind
	}{
		{name: "空內容", actor: "alice", req: message.SendMessageRequest{ChannelID: ch.ID, Content: "  "}, kind: apperror.KindValidation},
		{name: "非成員", actor: "mallory", req: message.SendMessageRequest{ChannelID: ch.ID, Content: "x"}, kind: apperror.KindNotFound},
		{name: "沒有頻道也沒有私訊對象", actor: "alice", req: message.SendMessageRequest{Content: "x"}, kind: apperror.KindValidation},
		{name: "私訊給自己", actor: "alice", req: message.SendMessageRequest{DMUserID: f.users["alice"].ID, Content: "x"}, kind: apperror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.SendMessage(ctx, f.actor(tt.actor), tt.req)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestSendMessage_LazyDM(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()
	req := message.SendMessageRequest{DMUserID: f.users["bob"].ID, Content: "hello"}

	first, notes, err := f.svc.SendMessage(ctx, f.actor("alice"), req)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.EventUpdateChannels, constants.EventNewMessage}, events(notes))

	second, notes, err := f.svc.SendMessage(ctx, f.actor("alice"), req)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.EventNewMessage}, events(notes))
	assert.Equal(t, first.ChannelID, second.ChannelID)

	ch, err := f.store.GetChannel(ctx, first.ChannelID)
	require.NoError(t, err)
	assert.Equal(t, model.ChannelDirectMessage, ch.Kind)
	assert.Equal(t, model.DMKey(f.users["alice"].ID, f.users["bob"].ID), ch.DMID)

	// ChannelStart 在第一則訊息之前
	page, err := f.svc.FetchMessages(ctx, f.actor("bob"), message.FetchMessagesRequest{ChannelID: ch.ID, Direction: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Order, 3)
	assert.Equal(t, model.MessageChannelStart, page.Messages[page.Order[0]].Kind)
}

func TestFetchMessages_Paging(t *testing.T) {
	f := newFixture(t, "alice", "bob", "mallory")
	f.befriend(t, "alice", "bob")
	ch := f.group(t, "alice", "bob")
	ctx := context.Background()

	var sent []*model.Message
	for i := 0; i < 5; i++ {
		m, _, err := f.svc.SendMessage(ctx, f.actor("alice"), message.SendMessageRequest{ChannelID: ch.ID, Content: "m"})
		require.NoError(t, err)
		sent = append(sent, m)
	}

	tests := []struct {
		name string
		req  message.FetchMessagesRequest
		want []*model.Message
	}{
		{
			name: "預設新到舊",
			req:  message.FetchMessagesRequest{ChannelID: ch.ID, Limit: 2},
			want: []*model.Message{sent[4], sent[3]},
		},
		{
			name: "游標之前不含游標",
			req:  message.FetchMessagesRequest{ChannelID: ch.ID, Cursor: ptr(sent[3].MessageID), Limit: 2},
			want: []*model.Message{sent[2], sent[1]},
		},
		{
			name: "游標之後",
			req:  message.FetchMessagesRequest{ChannelID: ch.ID, Cursor: ptr(sent[1].MessageID), Direction: "asc", Limit: 10},
			want: []*model.Message{sent[2], sent[3], sent[4]},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.FetchMessages(ctx, f.actor("bob"), tt.req)
			require.NoError(t, err)
			want := make([]string, 0, len(tt.want))
			for _, m := range tt.want {
				want = append(want, m.ID)
			}
			assert.Equal(t, want, page.Order)
		})
	}

	_, err := f.svc.FetchMessages(ctx, f.actor("mallory"), message.FetchMessagesRequest{ChannelID: ch.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.svc.FetchMessages(ctx, f.actor("bob"), message.FetchMessagesRequest{ChannelID: ch.ID, Direction: "sideways"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestFetchMessages_ConfiguredMaxPageSize(t *testing.T) {
	limits := config.Default().Limits
	limits.Pagination.MaxPageSize = 200
	f := newFixtureWithLimits(t, limits, "alice", "bob")
	f.befriend(t, "alice", "bob")
	ch := f.group(t, "alice", "bob")
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		_, _, err := f.svc.SendMessage(ctx, f.actor("alice"), message.SendMessageRequest{ChannelID: ch.ID, Content: "m"})
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"超過預設上限但在設定範圍內", 150, 150},
		{"超過設定上限時截斷", 500, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.FetchMessages(ctx, f.actor("bob"), message.FetchMessagesRequest{ChannelID: ch.ID, Limit: tt.limit})
			require.NoError(t, err)
			assert.Len(t, page.Order, tt.want)
		})
	}
}

func TestFetchFirstMessageID(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.befriend(t, "alice", "bob")
	ch := f.group(t, "alice", "bob")

	id, ok, err := f.svc.FetchFirstMessageID(context.Background(), f.actor("bob"), message.ChannelRequest{ChannelID: ch.ID})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, id)
}

func TestCreateChannel_RequiresFriend(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	ctx := context.Background()

	_, _, err := f.svc.CreateChannel(ctx, f.actor("alice"), message.CreateChannelRequest{Name: "team", UserIDs: []string{f.users["bob"].ID}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	f.befriend(t, "alice", "bob")
	out, notes, err := f.svc.CreateChannel(ctx, f.actor("alice"), message.CreateChannelRequest{
		Name:    "team",
		UserIDs: []string{f.users["bob"].ID, f.users["carol"].ID},
	})
	require.NoError(t, err)
	require.Len(t, out.Channels, 1)
	require.Len(t, out.Messages, 1)
	for _, m := range out.Messages {
		assert.Equal(t, model.MessageChannelStart, m.Kind)
	}
	for _, ch := range out.Channels {
		assert.Equal(t, f.users["alice"].ID, ch.OwnerID)
		assert.Len(t, ch.UserIDs, 3)
	}
	assert.Equal(t, []string{constants.EventUpdateChannels}, events(notes))

	_, _, err = f.svc.CreateChannel(ctx, f.actor("alice"), message.CreateChannelRequest{Name: "team", UserIDs: []string{"000000000000000000000000"}})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestChannelMembership(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol", "dave")
	f.befriend(t, "alice", "bob")
	ch := f.group(t, "alice", "bob")
	ctx := context.Background()

	out, notes, err := f.svc.AddUsersToChannel(ctx, f.actor("bob"), message.AddUsersRequest{
		ChannelID: ch.ID,
		UserIDs:   []string{f.users["carol"].ID, f.users["dave"].ID},
	})
	require.NoError(t, err)
	require.Len(t, out.Messages, 2)
	for _, m := range out.Messages {
		assert.Equal(t, model.MessageJoinChannel, m.Kind)
	}
	require.Len(t, notes, 1)
	assert.Len(t, notes[0].UserIDs, 4)

	// 已經是成員
	_, _, err = f.svc.AddUsersToChannel(ctx, f.actor("bob"), message.AddUsersRequest{ChannelID: ch.ID, UserIDs: []string{f.users["carol"].ID}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	// 只有擁有者或管理員能改名
	_, _, err = f.svc.RenameChannel(ctx, f.actor("bob"), message.RenameChannelRequest{ChannelID: ch.ID, Name: "x"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	renamed, _, err := f.svc.RenameChannel(ctx, f.actor("alice"), message.RenameChannelRequest{ChannelID: ch.ID, Name: "crew"})
	require.NoError(t, err)
	assert.Equal(t, "crew", renamed.Channels[ch.ID].Name)

	left, notes, err := f.svc.LeaveChannel(ctx, f.actor("carol"), message.ChannelRequest{ChannelID: ch.ID})
	require.NoError(t, err)
	assert.Contains(t, left.Channels, ch.ID)
	assert.Nil(t, left.Channels[ch.ID])
	require.Len(t, notes, 2)
	assert.Equal(t, []string{f.users["carol"].ID}, notes[0].UserIDs)
	assert.NotContains(t, notes[1].UserIDs, f.users["carol"].ID)

	_, _, err = f.svc.LeaveChannel(ctx, f.actor("carol"), message.ChannelRequest{ChannelID: ch.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// 擁有者離開後與非成員一樣看不到頻道
	_, _, err = f.svc.LeaveChannel(ctx, f.actor("alice"), message.ChannelRequest{ChannelID: ch.ID})
	require.NoError(t, err)
	_, notes, err = f.svc.RenameChannel(ctx, f.actor("alice"), message.RenameChannelRequest{ChannelID: ch.ID, Name: "again"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Empty(t, notes)
}

func TestFriendRequestLifecycle(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	view, notes, err := f.svc.SendFriendRequest(ctx, f.actor("alice"), message.SendFriendRequestRequest{Username: "bob"})
	require.NoError(t, err)
	require.Len(t, view.FriendRequests, 1)
	assert.Equal(t, []string{constants.EventFriendRequests}, events(notes))

	var reqID string
	for id, r := range view.FriendRequests {
		reqID = id
		require.NotNil(t, r.Sender)
		assert.Equal(t, "alice", r.Sender.Username)
	}

	// 重複邀請
	_, _, err = f.svc.SendFriendRequest(ctx, f.actor("bob"), message.SendFriendRequestRequest{Username: "alice"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	// 寄件者不能處理
	_, _, err = f.svc.ResolveFriendRequest(ctx, f.actor("alice"), message.ResolveFriendRequestRequest{RequestID: reqID, Status: "Accepted"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// 已讀不通知任何人
	_, notes, err = f.svc.ResolveFriendRequest(ctx, f.actor("bob"), message.ResolveFriendRequestRequest{RequestID: reqID, Status: "Read"})
	require.NoError(t, err)
	assert.Empty(t, notes)

	data, notes, err := f.svc.ResolveFriendRequest(ctx, f.actor("bob"), message.ResolveFriendRequestRequest{RequestID: reqID, Status: "Accepted"})
	require.NoError(t, err)
	accepted, ok := data.(*model.AcceptedFriendRequest)
	require.True(t, ok)
	assert.Equal(t, f.users["alice"].ID, accepted.User.ID)
	require.Len(t, accepted.Channels, 1)
	require.Len(t, accepted.Messages, 2)
	assert.Equal(t, []string{constants.EventAcceptedFriendRequest, constants.EventAcceptedFriendRequest}, events(notes))

	// 寄件者收到以接收者為主的內容
	senderData := notes[1].Payload.(*model.AcceptedFriendRequest)
	assert.Equal(t, f.users["bob"].ID, senderData.User.ID)

	// 已結束的邀請不可再處理
	_, _, err = f.svc.ResolveFriendRequest(ctx, f.actor("bob"), message.ResolveFriendRequestRequest{RequestID: reqID, Status: "Accepted"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	friends, err := f.svc.FetchFriends(ctx, f.actor("alice"))
	require.NoError(t, err)
	assert.Contains(t, friends.Users, f.users["bob"].ID)

	self, notes, err := f.svc.DeleteFriend(ctx, f.actor("alice"), message.DeleteFriendRequest{UserID: f.users["bob"].ID})
	require.NoError(t, err)
	assert.Empty(t, self.Users)
	assert.Equal(t, []string{constants.EventFriends, constants.EventFriends}, events(notes))

	_, _, err = f.svc.DeleteFriend(ctx, f.actor("alice"), message.DeleteFriendRequest{UserID: f.users["bob"].ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestResolveFriendRequest_Refused(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	view, _, err := f.svc.SendFriendRequest(ctx, f.actor("alice"), message.SendFriendRequestRequest{Username: "bob"})
	require.NoError(t, err)
	for id := range view.FriendRequests {
		_, notes, err := f.svc.ResolveFriendRequest(ctx, f.actor("bob"), message.ResolveFriendRequestRequest{RequestID: id, Status: "Refused"})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.ElementsMatch(t, []string{f.users["alice"].ID, f.users["bob"].ID}, notes[0].UserIDs)
	}
}

func TestProfileUpdates(t *testing.T) {
	f := newFixture(t, "alice")
	ctx := context.Background()

	out, notes, err := f.svc.UpdateBio(ctx, f.actor("alice"), message.UpdateBioRequest{Bio: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Self.Bio)
	assert.Equal(t, []string{constants.EventSelf}, events(notes))

	_, _, err = f.svc.UpdateNickname(ctx, f.actor("alice"), message.UpdateNicknameRequest{Nickname: ""})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	out, _, err = f.svc.UpdateNickname(ctx, f.actor("alice"), message.UpdateNicknameRequest{Nickname: "Al"})
	require.NoError(t, err)
	assert.Equal(t, "Al", out.Self.Nickname)

	users, err := f.svc.FetchUser(ctx, message.FetchUserRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "Al", users.Users[f.users["alice"].ID].Nickname)

	_, err = f.svc.CreateUser(ctx, "alice", "")
	assert.Equal(t, apperror.ConstraintUsername, apperror.ConstraintOf(err))
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, error) { return false, nil }

func TestRateLimited(t *testing.T) {
	store := memstore.New()
	svc := chat.NewService(store, idgen.NewAllocator(0), config.Default().Limits, chat.WithLimiters(denyLimiter{}, denyLimiter{}))

	_, _, err := svc.SendMessage(context.Background(), chat.Actor{UserID: "u"}, message.SendMessageRequest{ChannelID: "c", Content: "x"})
	assert.True(t, apperror.Is(err, apperror.KindRateLimit))

	_, _, err = svc.UpdateBio(context.Background(), chat.Actor{UserID: "u"}, message.UpdateBioRequest{Bio: "x"})
	assert.True(t, apperror.Is(err, apperror.KindRateLimit))
}

func ptr[T any](v T) *T { return &v }
