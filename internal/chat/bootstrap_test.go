package chat_test

import (
	"context"
	"errors"
	"testing"

	"chat-sync/internal/chat"
	"chat-sync/internal/constants"
	"chat-sync/internal/idgen"
	"chat-sync/internal/message"
	"chat-sync/internal/model"
	"chat-sync/internal/platform/config"
	"chat-sync/internal/storage/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emissionEvents(es []chat.Emission) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Event)
	}
	return out
}

func TestBootstrap_Snapshot(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	f.befriend(t, "alice", "bob")
	ch := f.group(t, "alice", "bob")
	ctx := context.Background()

	_, _, err := f.svc.SendFriendRequest(ctx, f.actor("carol"), message.SendFriendRequestRequest{Username: "alice"})
	require.NoError(t, err)

	first, _, err := f.svc.SendMessage(ctx, f.actor("bob"), message.SendMessageRequest{ChannelID: ch.ID, Content: "1"})
	require.NoError(t, err)
	_, _, err = f.svc.SendMessage(ctx, f.actor("bob"), message.SendMessageRequest{ChannelID: ch.ID, Content: "2"})
	require.NoError(t, err)

	out := f.svc.Bootstrap(ctx, f.users["alice"].ID, map[string]int64{ch.ID: first.MessageID})
	require.Equal(t, []string{
		constants.EventUserInfo,
		constants.EventMessages,
		constants.EventFirstMessage,
		constants.EventChannelUnread,
		constants.EventFriends,
		constants.EventFriendRequests,
	}, emissionEvents(out))
	for _, e := range out {
		require.NoError(t, e.Err, e.Event)
	}

	info := out[0].Data.(*model.UserInfoAndChannels)
	assert.Equal(t, "alice", info.Username)
	// 私訊頻道與群組
	assert.Len(t, info.Channels, 2)

	unread := out[3].Data.(map[string]model.ChannelUnread)
	assert.Equal(t, 1, unread[ch.ID].Count)
	assert.False(t, unread[ch.ID].Capped)

	friends := out[4].Data.(*model.SelfAndUsers)
	assert.Contains(t, friends.Users, f.users["bob"].ID)

	// 只包含尚未結束的邀請
	reqs := out[5].Data.(*chat.FriendRequestsView)
	require.Len(t, reqs.FriendRequests, 1)
	for _, r := range reqs.FriendRequests {
		assert.Equal(t, f.users["carol"].ID, r.SenderID)
	}
}

func TestBootstrap_UnreadWindowFromConfig(t *testing.T) {
	limits := config.Default().Limits
	limits.Unread.Window = 1200
	f := newFixtureWithLimits(t, limits, "alice", "bob")
	f.befriend(t, "alice", "bob")
	ch := f.group(t, "alice", "bob")
	ctx := context.Background()

	for i := 0; i < 1250; i++ {
		_, _, err := f.svc.SendMessage(ctx, f.actor("bob"), message.SendMessageRequest{ChannelID: ch.ID, Content: "m"})
		require.NoError(t, err)
	}

	out := f.svc.Bootstrap(ctx, f.users["alice"].ID, nil)
	require.Equal(t, constants.EventChannelUnread, out[3].Event)
	require.NoError(t, out[3].Err)

	// 視窗大於一千時仍依設定取滿
	unread := out[3].Data.(map[string]model.ChannelUnread)
	assert.Equal(t, 1200, unread[ch.ID].Count)
	assert.True(t, unread[ch.ID].Capped)
	assert.Nil(t, unread[ch.ID].ReadMessageID)
}

func TestBootstrap_FirstMessageFalse(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := chat.NewService(store, idgen.NewAllocator(0), config.Default().Limits)
	ctx := context.Background()

	self := &model.User{ID: "u1", Username: "alice"}
	channels := []*model.Channel{{ID: "c1"}, {ID: "c2"}}

	store.EXPECT().GetUser(gomock.Any(), "u1").Return(self, nil)
	store.EXPECT().ChannelsOf(gomock.Any(), "u1").Return(channels, nil)
	store.EXPECT().RecentMessages(gomock.Any(), []string{"c1", "c2"}, gomock.Any()).
		Return(map[string][]*model.Message{}, nil).Times(2)
	store.EXPECT().FirstMessageIDs(gomock.Any(), []string{"c1", "c2"}).
		Return(map[string]string{"c1": "m1"}, nil)
	store.EXPECT().FriendRequestsOf(gomock.Any(), "u1").Return(nil, nil)

	out := svc.Bootstrap(ctx, "u1", nil)
	require.Len(t, out, 6)
	first := out[2].Data.(map[string]interface{})
	assert.Equal(t, "m1", first["c1"])
	assert.Equal(t, false, first["c2"])
}

func TestBootstrap_Failures(t *testing.T) {
	boom := errors.New("mongo unavailable")

	tests := []struct {
		name    string
		setup   func(store *mocks.MockStore)
		events  []string
		failing string
	}{
		{
			name: "個人資料讀取失敗",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().GetUser(gomock.Any(), "u1").Return(nil, boom)
			},
			events:  []string{constants.EventUserInfo},
			failing: constants.EventUserInfo,
		},
		{
			name: "頻道讀取失敗",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().GetUser(gomock.Any(), "u1").Return(&model.User{ID: "u1"}, nil)
				store.EXPECT().ChannelsOf(gomock.Any(), "u1").Return(nil, boom)
			},
			events:  []string{constants.EventUserInfo},
			failing: constants.EventUserInfo,
		},
		{
			name: "單一項目失敗不影響其他項目",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().GetUser(gomock.Any(), "u1").Return(&model.User{ID: "u1"}, nil)
				store.EXPECT().ChannelsOf(gomock.Any(), "u1").Return([]*model.Channel{{ID: "c1"}}, nil)
				store.EXPECT().RecentMessages(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(map[string][]*model.Message{}, nil).Times(2)
				store.EXPECT().FirstMessageIDs(gomock.Any(), gomock.Any()).Return(nil, boom)
				store.EXPECT().FriendRequestsOf(gomock.Any(), "u1").Return(nil, nil)
			},
			events: []string{
				constants.EventUserInfo,
				constants.EventMessages,
				constants.EventFirstMessage,
				constants.EventChannelUnread,
				constants.EventFriends,
				constants.EventFriendRequests,
			},
			failing: constants.EventFirstMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockStore(ctrl)
			tt.setup(store)
			svc := chat.NewService(store, idgen.NewAllocator(0), config.Default().Limits)

			out := svc.Bootstrap(context.Background(), "u1", nil)
			assert.Equal(t, tt.events, emissionEvents(out))
			for _, e := range out {
				if e.Event == tt.failing {
					assert.ErrorIs(t, e.Err, boom)
				} else {
					assert.NoError(t, e.Err, e.Event)
				}
			}
		})
	}
}

func TestJoin(t *testing.T) {
	f := newFixture(t, "alice")

	u, err := f.svc.Join(context.Background(), message.JoinRequest{UID: f.users["alice"].ID})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = f.svc.Join(context.Background(), message.JoinRequest{UID: ""})
	assert.Error(t, err)
}
