package model

// ChannelKind 頻道類型
type ChannelKind string

const (
	ChannelDirectMessage ChannelKind = "DirectMessage"
	ChannelGroup         ChannelKind = "Group"
)

// MessageKind 訊息類型
type MessageKind string

const (
	MessageContent      MessageKind = "Content"
	MessageChannelStart MessageKind = "ChannelStart"
	MessageJoinChannel  MessageKind = "JoinChannel"
	MessageAddFriend    MessageKind = "AddFriend"
)

// FriendRequestStatus 好友邀請狀態
type FriendRequestStatus string

const (
	FriendRequestSent     FriendRequestStatus = "Sent"
	FriendRequestRead     FriendRequestStatus = "Read"
	FriendRequestAccepted FriendRequestStatus = "Accepted"
	FriendRequestRefused  FriendRequestStatus = "Refused"
)

// Terminal 是否為終止狀態
func (s FriendRequestStatus) Terminal() bool {
	return s == FriendRequestAccepted || s == FriendRequestRefused
}

// Valid 是否為已知狀態
func (s FriendRequestStatus) Valid() bool {
	switch s {
	case FriendRequestSent, FriendRequestRead, FriendRequestAccepted, FriendRequestRefused:
		return true
	}
	return false
}

// User 使用者
type User struct {
	ID          string   `bson:"_id" json:"id"`
	Username    string   `bson:"username" json:"username"`
	Nickname    string   `bson:"nickname" json:"nickname"`
	Bio         string   `bson:"bio" json:"bio"`
	FriendIDs   []string `bson:"friend_ids" json:"-"`
	FriendOfIDs []string `bson:"friend_of_ids" json:"-"`
	CreatedAt   int64    `bson:"created_at" json:"createdAt"`
}

// Friends 合併兩個方向的好友關係
func (u *User) Friends() []string {
	seen := make(map[string]struct{}, len(u.FriendIDs)+len(u.FriendOfIDs))
	out := make([]string, 0, len(u.FriendIDs)+len(u.FriendOfIDs))
	for _, ids := range [][]string{u.FriendIDs, u.FriendOfIDs} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// IsFriend 是否為好友（任一方向）
func (u *User) IsFriend(uid string) bool {
	for _, id := range u.Friends() {
		if id == uid {
			return true
		}
	}
	return false
}

// Channel 頻道
type Channel struct {
	ID        string      `bson:"_id" json:"id"`
	Kind      ChannelKind `bson:"kind" json:"channelType"`
	Name      string      `bson:"name" json:"name"`
	DMID      string      `bson:"dm_id" json:"dmID"`
	OwnerID   string      `bson:"owner_id,omitempty" json:"ownerID,omitempty"`
	AdminIDs  []string    `bson:"admin_ids" json:"adminIDs"`
	UserIDs   []string    `bson:"user_ids" json:"userIDs"`
	CreatedAt int64       `bson:"created_at" json:"createdAt"`
}

// HasMember 是否為成員
func (c *Channel) HasMember(uid string) bool {
	return contains(c.UserIDs, uid)
}

// CanManage 仍在頻道內的擁有者或管理員
func (c *Channel) CanManage(uid string) bool {
	return c.HasMember(uid) && (c.OwnerID == uid || contains(c.AdminIDs, uid))
}

// Message 訊息
type Message struct {
	ID        string      `bson:"_id" json:"id"`
	MessageID int64       `bson:"message_id" json:"messageID"`
	ChannelID string      `bson:"channel_id" json:"channelID"`
	UserID    string      `bson:"user_id" json:"userID"`
	Kind      MessageKind `bson:"kind" json:"messageType"`
	Content   string      `bson:"content" json:"content"`
	CreatedAt int64       `bson:"created_at" json:"createdAt"`
	User      *User       `bson:"-" json:"user,omitempty"`
}

// FriendRequest 好友邀請
type FriendRequest struct {
	ID         string              `bson:"_id" json:"id"`
	SenderID   string              `bson:"sender_id" json:"senderID"`
	ReceiverID string              `bson:"receiver_id" json:"receiverID"`
	Message    string              `bson:"message" json:"message"`
	Status     FriendRequestStatus `bson:"status" json:"status"`
	Finished   bool                `bson:"finished" json:"finished"`
	CreatedAt  int64               `bson:"created_at" json:"createdAt"`
	Sender     *User               `bson:"-" json:"sender,omitempty"`
	Receiver   *User               `bson:"-" json:"receiver,omitempty"`
}

// Involves 是否為邀請的任一方
func (r *FriendRequest) Involves(uid string) bool {
	return r.SenderID == uid || r.ReceiverID == uid
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
