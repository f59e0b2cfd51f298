package storage

import (
	"context"

	"chat-sync/internal/channellog"
	"chat-sync/internal/model"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks chat-sync/internal/storage Store

// Store 聊天資料的持久化介面。
// 找不到資料或條件不成立時回傳 apperror NotFound；唯一性衝突回傳 apperror Constraint。
type Store interface {
	UserStore
	ChannelStore
	MessageStore
	FriendRequestStore
}

// UserStore 使用者
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUsers(ctx context.Context, ids []string) ([]*model.User, error)
	UpdateBio(ctx context.Context, uid, bio string) (*model.User, error)
	UpdateNickname(ctx context.Context, uid, nickname string) (*model.User, error)
	// DeleteFriend 同時移除兩個方向的好友關係，回傳更新後的雙方
	DeleteFriend(ctx context.Context, uid, friendID string) (self *model.User, friend *model.User, err error)
}

// ChannelStore 頻道
type ChannelStore interface {
	ChannelsOf(ctx context.Context, uid string) ([]*model.Channel, error)
	GetChannel(ctx context.Context, id string) (*model.Channel, error)
	// CreateGroupChannel 建立群組與開始訊息（單一交易）
	CreateGroupChannel(ctx context.Context, ch *model.Channel, start *model.Message) error
	// EnsureDMChannel 依 dm_id 取得或建立私訊頻道，created 表示本次新建
	EnsureDMChannel(ctx context.Context, ch *model.Channel, start *model.Message) (out *model.Channel, created bool, err error)
	// AddUsersToChannel 僅限群組且 actor 為成員，每位加入者一則 JoinChannel 訊息
	AddUsersToChannel(ctx context.Context, actorID, channelID string, uids []string, msgs []*model.Message) (*model.Channel, error)
	// RenameChannel 僅限群組且 actor 為擁有者或管理員
	RenameChannel(ctx context.Context, actorID, channelID, name string) (*model.Channel, error)
	// LeaveChannel 僅限群組且 uid 為成員
	LeaveChannel(ctx context.Context, uid, channelID string) (*model.Channel, error)
}

// MessageStore 訊息
type MessageStore interface {
	// CreateMessage 僅在作者為頻道成員時寫入，回傳所屬頻道
	CreateMessage(ctx context.Context, msg *model.Message) (*model.Channel, error)
	PageMessages(ctx context.Context, q channellog.Query) ([]*model.Message, error)
	// RecentMessages 每個頻道最新的 limit 筆，新到舊
	RecentMessages(ctx context.Context, channelIDs []string, limit int) (map[string][]*model.Message, error)
	// FirstMessageIDs 每個頻道第一則訊息的 ID，沒有訊息的頻道不在結果中
	FirstMessageIDs(ctx context.Context, channelIDs []string) (map[string]string, error)
	MaxMessageID(ctx context.Context) (int64, bool, error)
}

// FriendRequestStore 好友邀請
type FriendRequestStore interface {
	CreateFriendRequest(ctx context.Context, req *model.FriendRequest) error
	FriendRequestsOf(ctx context.Context, uid string) ([]*model.FriendRequest, error)
	// UpdateFriendRequest 條件為 finished=false 且 receiverID 相符
	UpdateFriendRequest(ctx context.Context, id, receiverID string, status model.FriendRequestStatus) (*model.FriendRequest, error)
	// AcceptFriendRequest 好友關係、私訊頻道、邀請狀態在同一交易內完成
	AcceptFriendRequest(ctx context.Context, in AcceptInput) (*AcceptResult, error)
}

// AcceptInput 接受好友邀請所需的預先配發值
type AcceptInput struct {
	RequestID          string
	ReceiverID         string
	CreatedAt          int64
	StartMessageID     int64
	AddFriendMessageID int64
}

// AcceptResult 接受好友邀請的結果
type AcceptResult struct {
	Request  *model.FriendRequest
	Channel  *model.Channel
	Messages []*model.Message
	Receiver *model.User
	Sender   *model.User
}
