// Package message 定義客戶端動作的請求內容與驗證規則。
package message

// JoinRequest 連線綁定使用者並觸發初始化同步
type JoinRequest struct {
	UID         string           `json:"uid"`
	ReadMarkers map[string]int64 `json:"readMarkers"`
}

// SendMessageRequest 發送訊息；沒有 channelID 時依 dmUserID 找到或建立私訊
type SendMessageRequest struct {
	ChannelID string `json:"channelID"`
	DMUserID  string `json:"dmUserID"`
	Content   string `json:"content"`
	CreatedAt *int64 `json:"createdAt"`
}

// FetchMessagesRequest 分頁讀取訊息
type FetchMessagesRequest struct {
	ChannelID string `json:"channelID"`
	Cursor    *int64 `json:"cursor"`
	Direction string `json:"direction"`
	Limit     int    `json:"limit"`
}

// ChannelRequest 只需要頻道 ID 的動作
type ChannelRequest struct {
	ChannelID string `json:"channelID"`
}

// CreateChannelRequest 建立群組
type CreateChannelRequest struct {
	Name      string   `json:"name"`
	UserIDs   []string `json:"userIDs"`
	CreatedAt *int64   `json:"createdAt"`
}

// AddUsersRequest 加入群組成員
type AddUsersRequest struct {
	ChannelID string   `json:"channelID"`
	UserIDs   []string `json:"userIDs"`
}

// RenameChannelRequest 群組改名
type RenameChannelRequest struct {
	ChannelID string `json:"channelID"`
	Name      string `json:"name"`
}

// SendFriendRequestRequest 送出好友邀請
type SendFriendRequestRequest struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// ResolveFriendRequestRequest 處理好友邀請
type ResolveFriendRequestRequest struct {
	RequestID string `json:"requestID"`
	Status    string `json:"status"`
}

// DeleteFriendRequest 刪除好友
type DeleteFriendRequest struct {
	UserID string `json:"userID"`
}

// UpdateBioRequest 更新自我介紹
type UpdateBioRequest struct {
	Bio string `json:"bio"`
}

// UpdateNicknameRequest 更新暱稱
type UpdateNicknameRequest struct {
	Nickname string `json:"nickname"`
}

// FetchUserRequest 依 ID 或 username 查詢使用者
type FetchUserRequest struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
}
