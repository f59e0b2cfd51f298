package chat

import (
	"context"
	"sync"

	"chat-sync/internal/constants"
	"chat-sync/internal/message"
	"chat-sync/internal/model"
	"chat-sync/internal/platform/logger"
	"chat-sync/internal/unread"
)

// Emission 初始化同步中要推送給加入連線的一個事件，Err 不為 nil 時代表該項失敗
type Emission struct {
	Event string
	Data  interface{}
	Err   error
}

// Join 驗證使用者存在，之後連線才可以登記到 presence
func (s *Service) Join(ctx context.Context, req message.JoinRequest) (*model.User, error) {
	if err := s.validator.ID("uid", req.UID); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, req.UID)
}

// Bootstrap 組出加入時的完整快照。個人資料讀取失敗時只回報 userInfo；
// 其餘各項彼此獨立，某一項失敗不影響其他項目。
func (s *Service) Bootstrap(ctx context.Context, uid string, readMarkers map[string]int64) []Emission {
	self, err := s.store.GetUser(ctx, uid)
	if err != nil {
		return []Emission{{Event: constants.EventUserInfo, Err: err}}
	}
	channels, err := s.store.ChannelsOf(ctx, uid)
	if err != nil {
		return []Emission{{Event: constants.EventUserInfo, Err: err}}
	}
	if channels == nil {
		channels = []*model.Channel{}
	}

	channelIDs := make([]string, 0, len(channels))
	for _, c := range channels {
		channelIDs = append(channelIDs, c.ID)
	}

	fetches := []struct {
		event string
		fetch func(context.Context) (interface{}, error)
	}{
		{constants.EventMessages, func(ctx context.Context) (interface{}, error) {
			return s.recentMessages(ctx, channelIDs)
		}},
		{constants.EventFirstMessage, func(ctx context.Context) (interface{}, error) {
			return s.firstMessages(ctx, channelIDs)
		}},
		{constants.EventChannelUnread, func(ctx context.Context) (interface{}, error) {
			return s.channelUnread(ctx, uid, channelIDs, readMarkers)
		}},
		{constants.EventFriends, func(ctx context.Context) (interface{}, error) {
			return s.friendsOf(ctx, self)
		}},
		{constants.EventFriendRequests, func(ctx context.Context) (interface{}, error) {
			return s.pendingRequests(ctx, uid)
		}},
	}

	out := make([]Emission, len(fetches)+1)
	out[0] = Emission{
		Event: constants.EventUserInfo,
		Data:  &model.UserInfoAndChannels{User: self, Channels: channels},
	}

	var wg sync.WaitGroup
	for i, f := range fetches {
		wg.Add(1)
		go func(i int, event string, fetch func(context.Context) (interface{}, error)) {
			defer wg.Done()
			data, err := fetch(ctx)
			if err != nil {
				logger.Warning(ctx, "初始化同步項目失敗",
					logger.WithUserID(uid),
					logger.WithEvent(event),
					logger.WithError(err),
				)
			}
			out[i+1] = Emission{Event: event, Data: data, Err: err}
		}(i, f.event, f.fetch)
	}
	wg.Wait()
	return out
}

func (s *Service) recentMessages(ctx context.Context, channelIDs []string) (model.Messages, error) {
	recent, err := s.store.RecentMessages(ctx, channelIDs, s.limits.Pagination.RecentPerChannel)
	if err != nil {
		return nil, err
	}
	var all []*model.Message
	for _, msgs := range recent {
		all = append(all, msgs...)
	}
	if err := s.attachAuthors(ctx, all); err != nil {
		return nil, err
	}
	return model.MessagesByID(all), nil
}

// firstMessages 以 false 區分「沒有訊息」與「有第一則訊息」
func (s *Service) firstMessages(ctx context.Context, channelIDs []string) (map[string]interface{}, error) {
	first, err := s.store.FirstMessageIDs(ctx, channelIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(channelIDs))
	for _, id := range channelIDs {
		if msgID, ok := first[id]; ok {
			out[id] = msgID
		} else {
			out[id] = false
		}
	}
	return out, nil
}

func (s *Service) channelUnread(ctx context.Context, uid string, channelIDs []string, readMarkers map[string]int64) (map[string]model.ChannelUnread, error) {
	window := s.limits.Unread.Window
	recent, err := s.store.RecentMessages(ctx, channelIDs, window)
	if err != nil {
		return nil, err
	}
	results := unread.ReconcileAll(uid, recent, readMarkers, window)
	out := make(map[string]model.ChannelUnread, len(results))
	for id, r := range results {
		out[id] = r.View()
	}
	return out, nil
}

func (s *Service) pendingRequests(ctx context.Context, uid string) (*FriendRequestsView, error) {
	reqs, err := s.store.FriendRequestsOf(ctx, uid)
	if err != nil {
		return nil, err
	}
	pending := make([]*model.FriendRequest, 0, len(reqs))
	for _, r := range reqs {
		if !r.Finished {
			pending = append(pending, r)
		}
	}
	if err := s.attachParties(ctx, pending...); err != nil {
		return nil, err
	}
	out := make(model.FriendRequests, len(pending))
	for _, r := range pending {
		out[r.ID] = r
	}
	return &FriendRequestsView{FriendRequests: out}, nil
}
