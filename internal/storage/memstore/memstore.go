// Package memstore 以記憶體實作 storage.Store，行為與 MongoDB 實作一致，供測試與本機開發使用。
package memstore

import (
	"context"
	"sort"
	"sync"

	"chat-sync/internal/apperror"
	"chat-sync/internal/channellog"
	"chat-sync/internal/constants"
	"chat-sync/internal/model"
	"chat-sync/internal/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var _ storage.Store = (*Store)(nil)

// Store 單一互斥鎖保護全部資料，每個方法即為一個交易
type Store struct {
	mu       sync.RWMutex
	users    map[string]*model.User
	channels map[string]*model.Channel
	messages map[string][]*model.Message // channelID -> 依 message_id 遞增
	requests map[string]*model.FriendRequest
}

// New 創建空的 Store
func New() *Store {
	return &Store{
		users:    make(map[string]*model.User),
		channels: make(map[string]*model.Channel),
		messages: make(map[string][]*model.Message),
		requests: make(map[string]*model.FriendRequest),
	}
}

func newID() string {
	return bson.NewObjectID().Hex()
}

func notFound(op string) error {
	return apperror.NotFound("%s: not found", op)
}

// CreateUser 創建使用者
func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return apperror.Constraint(apperror.ConstraintUsername, nil)
		}
	}
	if u.ID == "" {
		u.ID = newID()
	}
	if u.FriendIDs == nil {
		u.FriendIDs = []string{}
	}
	if u.FriendOfIDs == nil {
		u.FriendOfIDs = []string{}
	}
	s.users[u.ID] = copyUser(u)
	return nil
}

// GetUser 根據 ID 獲取使用者
func (s *Store) GetUser(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, notFound("get user")
	}
	return copyUser(u), nil
}

// GetUserByUsername 根據 username 獲取使用者
func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, notFound("get user by username")
}

// GetUsers 批次獲取，不存在的 ID 略過
func (s *Store) GetUsers(_ context.Context, ids []string) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

// UpdateBio 更新自我介紹
func (s *Store) UpdateBio(_ context.Context, uid, bio string) (*model.User, error) {
	return s.updateUser(uid, "update bio", func(u *model.User) { u.Bio = bio })
}

// UpdateNickname 更新暱稱
func (s *Store) UpdateNickname(_ context.Context, uid, nickname string) (*model.User, error) {
	return s.updateUser(uid, "update nickname", func(u *model.User) { u.Nickname = nickname })
}

func (s *Store) updateUser(uid, op string, fn func(*model.User)) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return nil, notFound(op)
	}
	fn(u)
	return copyUser(u), nil
}

// DeleteFriend 移除兩個方向的好友關係
func (s *Store) DeleteFriend(_ context.Context, uid, friendID string) (*model.User, *model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	self, ok := s.users[uid]
	if !ok {
		return nil, nil, notFound("delete friend")
	}
	friend, ok := s.users[friendID]
	if !ok {
		return nil, nil, notFound("delete friend")
	}
	self.FriendIDs = without(self.FriendIDs, friendID)
	self.FriendOfIDs = without(self.FriendOfIDs, friendID)
	friend.FriendIDs = without(friend.FriendIDs, uid)
	friend.FriendOfIDs = without(friend.FriendOfIDs, uid)
	return copyUser(self), copyUser(friend), nil
}

// ChannelsOf 使用者所屬頻道，依建立時間排序
func (s *Store) ChannelsOf(_ context.Context, uid string) ([]*model.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Channel
	for _, c := range s.channels {
		if c.HasMember(uid) {
			out = append(out, copyChannel(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt == out[j].CreatedAt {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

// GetChannel 根據 ID 獲取頻道
func (s *Store) GetChannel(_ context.Context, id string) (*model.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.channels[id]
	if !ok {
		return nil, notFound("get channel")
	}
	return copyChannel(c), nil
}

// CreateGroupChannel 建立群組與開始訊息
func (s *Store) CreateGroupChannel(_ context.Context, ch *model.Channel, start *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByDMID(ch.DMID) != nil {
		return apperror.Constraint(apperror.ConstraintDMPair, nil)
	}
	s.insertChannel(ch)
	s.appendMessages(ch.ID, start)
	return nil
}

// EnsureDMChannel 依 dm_id 取得或建立私訊頻道
func (s *Store) EnsureDMChannel(_ context.Context, ch *model.Channel, start *model.Message) (*model.Channel, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.findByDMID(ch.DMID); existing != nil {
		return copyChannel(existing), false, nil
	}
	s.insertChannel(ch)
	s.appendMessages(ch.ID, start)
	return copyChannel(ch), true, nil
}

// AddUsersToChannel 群組成員才能加人
func (s *Store) AddUsersToChannel(_ context.Context, actorID, channelID string, uids []string, msgs []*model.Message) (*model.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.channels[channelID]
	if !ok || c.Kind != model.ChannelGroup || !c.HasMember(actorID) {
		return nil, notFound("add users to channel")
	}
	for _, uid := range uids {
		if !c.HasMember(uid) {
			c.UserIDs = append(c.UserIDs, uid)
		}
	}
	s.appendMessages(channelID, msgs...)
	return copyChannel(c), nil
}

// RenameChannel 仍是成員的擁有者或管理員才能改名
func (s *Store) RenameChannel(_ context.Context, actorID, channelID, name string) (*model.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.channels[channelID]
	if !ok || c.Kind != model.ChannelGroup || !c.CanManage(actorID) {
		return nil, notFound("rename channel")
	}
	c.Name = name
	return copyChannel(c), nil
}

// LeaveChannel 離開群組
func (s *Store) LeaveChannel(_ context.Context, uid, channelID string) (*model.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.channels[channelID]
	if !ok || c.Kind != model.ChannelGroup || !c.HasMember(uid) {
		return nil, notFound("leave channel")
	}
	c.UserIDs = without(c.UserIDs, uid)
	c.AdminIDs = without(c.AdminIDs, uid)
	return copyChannel(c), nil
}

// CreateMessage 作者必須是頻道成員
func (s *Store) CreateMessage(_ context.Context, msg *model.Message) (*model.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.channels[msg.ChannelID]
	if !ok || !c.HasMember(msg.UserID) {
		return nil, notFound("create message")
	}
	s.appendMessages(c.ID, msg)
	return copyChannel(c), nil
}

// PageMessages 游標分頁，上限由呼叫端依設定決定
func (s *Store) PageMessages(_ context.Context, q channellog.Query) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q = q.Normalize(constants.DefaultPageSize, 0)
	return copyMessages(channellog.Page(s.messages[q.ChannelID], q)), nil
}

// RecentMessages 每個頻道最新的 limit 筆，新到舊
func (s *Store) RecentMessages(_ context.Context, channelIDs []string, limit int) (map[string][]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = constants.DefaultUnreadWindow
	}
	out := make(map[string][]*model.Message, len(channelIDs))
	for _, id := range channelIDs {
		q := channellog.Query{ChannelID: id, Direction: channellog.Descending, Limit: limit}
		out[id] = copyMessages(channellog.Page(s.messages[id], q))
	}
	return out, nil
}

// FirstMessageIDs 每個頻道最早一則訊息的 ID
func (s *Store) FirstMessageIDs(_ context.Context, channelIDs []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(channelIDs))
	for _, id := range channelIDs {
		if msgs := s.messages[id]; len(msgs) > 0 {
			out[id] = msgs[0].ID
		}
	}
	return out, nil
}

// MaxMessageID 最大 message_id
func (s *Store) MaxMessageID(_ context.Context) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		maxID int64
		found bool
	)
	for _, msgs := range s.messages {
		if len(msgs) == 0 {
			continue
		}
		last := msgs[len(msgs)-1].MessageID
		if !found || last > maxID {
			maxID = last
			found = true
		}
	}
	return maxID, found, nil
}

// CreateFriendRequest 創建好友邀請
func (s *Store) CreateFriendRequest(_ context.Context, req *model.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == "" {
		req.ID = newID()
	}
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

// FriendRequestsOf 寄出與收到的邀請，依建立時間排序
func (s *Store) FriendRequestsOf(_ context.Context, uid string) ([]*model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.FriendRequest
	for _, r := range s.requests {
		if r.Involves(uid) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt == out[j].CreatedAt {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

// UpdateFriendRequest 只更新尚未結束且由接收者操作的邀請
func (s *Store) UpdateFriendRequest(_ context.Context, id, receiverID string, status model.FriendRequestStatus) (*model.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.pendingRequest(id, receiverID, "update friend request")
	if err != nil {
		return nil, err
	}
	r.Status = status
	r.Finished = status.Terminal()
	cp := *r
	return &cp, nil
}

// AcceptFriendRequest 邀請狀態、好友關係與私訊頻道一次完成
func (s *Store) AcceptFriendRequest(_ context.Context, in storage.AcceptInput) (*storage.AcceptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.pendingRequest(in.RequestID, in.ReceiverID, "accept friend request")
	if err != nil {
		return nil, err
	}
	receiver, ok := s.users[r.ReceiverID]
	if !ok {
		return nil, notFound("accept friend request")
	}
	sender, ok := s.users[r.SenderID]
	if !ok {
		return nil, notFound("accept friend request")
	}

	r.Status = model.FriendRequestAccepted
	r.Finished = true
	receiver.FriendOfIDs = withAdded(receiver.FriendOfIDs, sender.ID)
	sender.FriendIDs = withAdded(sender.FriendIDs, receiver.ID)

	addFriend := &model.Message{
		MessageID: in.AddFriendMessageID,
		UserID:    receiver.ID,
		Kind:      model.MessageAddFriend,
		CreatedAt: in.CreatedAt,
	}
	msgs := []*model.Message{addFriend}

	ch := s.findByDMID(model.DMKey(sender.ID, receiver.ID))
	if ch == nil {
		ch = &model.Channel{
			Kind:      model.ChannelDirectMessage,
			DMID:      model.DMKey(sender.ID, receiver.ID),
			UserIDs:   []string{sender.ID, receiver.ID},
			CreatedAt: in.CreatedAt,
		}
		s.insertChannel(ch)
		start := &model.Message{
			MessageID: in.StartMessageID,
			UserID:    receiver.ID,
			Kind:      model.MessageChannelStart,
			CreatedAt: in.CreatedAt,
		}
		msgs = []*model.Message{start, addFriend}
	}
	s.appendMessages(ch.ID, msgs...)

	req := *r
	return &storage.AcceptResult{
		Request:  &req,
		Channel:  copyChannel(ch),
		Messages: copyMessages(msgs),
		Receiver: copyUser(receiver),
		Sender:   copyUser(sender),
	}, nil
}

func (s *Store) pendingRequest(id, receiverID, op string) (*model.FriendRequest, error) {
	r, ok := s.requests[id]
	if !ok || r.ReceiverID != receiverID || r.Finished {
		return nil, notFound(op)
	}
	return r, nil
}

func (s *Store) findByDMID(dmID string) *model.Channel {
	for _, c := range s.channels {
		if c.DMID == dmID {
			return c
		}
	}
	return nil
}

func (s *Store) insertChannel(ch *model.Channel) {
	if ch.ID == "" {
		ch.ID = newID()
	}
	if ch.AdminIDs == nil {
		ch.AdminIDs = []string{}
	}
	if ch.UserIDs == nil {
		ch.UserIDs = []string{}
	}
	s.channels[ch.ID] = copyChannel(ch)
}

// appendMessages 寫入並維持 message_id 遞增順序
func (s *Store) appendMessages(channelID string, msgs ...*model.Message) {
	for _, m := range msgs {
		if m == nil {
			continue
		}
		if m.ID == "" {
			m.ID = newID()
		}
		m.ChannelID = channelID
		cp := *m
		cp.User = nil
		s.messages[channelID] = append(s.messages[channelID], &cp)
	}
	list := s.messages[channelID]
	sort.SliceStable(list, func(i, j int) bool { return list[i].MessageID < list[j].MessageID })
}

func copyUser(u *model.User) *model.User {
	cp := *u
	cp.FriendIDs = append([]string{}, u.FriendIDs...)
	cp.FriendOfIDs = append([]string{}, u.FriendOfIDs...)
	return &cp
}

func copyChannel(c *model.Channel) *model.Channel {
	cp := *c
	cp.AdminIDs = append([]string{}, c.AdminIDs...)
	cp.UserIDs = append([]string{}, c.UserIDs...)
	return &cp
}

func copyMessages(msgs []*model.Message) []*model.Message {
	out := make([]*model.Message, 0, len(msgs))
	for _, m := range msgs {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func withAdded(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
