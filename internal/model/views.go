package model

// Channels 以 ID 為鍵的頻道集合，nil 值表示頻道已被移除
type Channels map[string]*Channel

// Messages 以訊息 ID 為鍵
type Messages map[string]*Message

// Users 以使用者 ID 為鍵
type Users map[string]*User

// FriendRequests 以邀請 ID 為鍵
type FriendRequests map[string]*FriendRequest

// ChannelsAndMessages 頻道異動推送內容
type ChannelsAndMessages struct {
	Channels Channels `json:"channels"`
	Messages Messages `json:"messages,omitempty"`
}

// SelfAndUsers 好友清單推送內容
type SelfAndUsers struct {
	Self  *User `json:"self"`
	Users Users `json:"users"`
}

// AcceptedFriendRequest 接受好友邀請後給單一方的內容
type AcceptedFriendRequest struct {
	User           *User          `json:"user"`
	Channels       Channels       `json:"channels"`
	Users          Users          `json:"users"`
	Messages       Messages       `json:"messages"`
	FriendRequests FriendRequests `json:"friendRequests"`
}

// ChannelUnread 單一頻道的未讀資訊
type ChannelUnread struct {
	Count         int    `json:"count"`
	ReadMessageID *int64 `json:"readMessageID,omitempty"`
	Capped        bool   `json:"capped"`
}

// UserInfoAndChannels 連線初始化的個人資料與頻道
type UserInfoAndChannels struct {
	*User
	Channels []*Channel `json:"channels"`
}

// MessagesByID 將訊息轉為以 ID 為鍵的集合
func MessagesByID(msgs []*Message) Messages {
	out := make(Messages, len(msgs))
	for _, m := range msgs {
		out[m.ID] = m
	}
	return out
}

// ChannelsByID 將頻道轉為以 ID 為鍵的集合
func ChannelsByID(chs ...*Channel) Channels {
	out := make(Channels, len(chs))
	for _, c := range chs {
		out[c.ID] = c
	}
	return out
}
