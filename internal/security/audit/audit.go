package audit

import (
	"context"

	"chat-sync/internal/platform/logger"
	"chat-sync/internal/platform/middleware"
)

// 審計事件類型
const (
	EventChannelCreated   = "channel_created"
	EventMembersAdded     = "members_added"
	EventChannelRenamed   = "channel_renamed"
	EventChannelLeft      = "channel_left"
	EventFriendRequest    = "friend_request_sent"
	EventFriendResolved   = "friend_request_resolved"
	EventFriendDeleted    = "friend_deleted"
	EventProfileUpdated   = "profile_updated"
	EventRateLimited      = "rate_limited"
	EventAccessDenied     = "access_denied"
	EventConnectionJoined = "connection_joined"
)

// AuditService 審計服務，事件以 NOTICE 等級寫入結構化日誌
type AuditService struct {
	enabled bool
}

// NewAuditService 創建審計服務
func NewAuditService(enabled bool) *AuditService {
	return &AuditService{enabled: enabled}
}

// IsEnabled 檢查審計是否啟用
func (a *AuditService) IsEnabled() bool {
	return a != nil && a.enabled
}

// LogChannelCreated 記錄群組建立
func (a *AuditService) LogChannelCreated(ctx context.Context, userID, channelID string, memberIDs []string) {
	a.log(ctx, EventChannelCreated, "success", userID, channelID, map[string]interface{}{
		"member_ids": memberIDs,
	})
}

// LogMembersAdded 記錄加入成員
func (a *AuditService) LogMembersAdded(ctx context.Context, operatorID, channelID string, memberIDs []string) {
	a.log(ctx, EventMembersAdded, "success", operatorID, channelID, map[string]interface{}{
		"member_ids": memberIDs,
	})
}

// LogChannelRenamed 記錄改名
func (a *AuditService) LogChannelRenamed(ctx context.Context, operatorID, channelID, name string) {
	a.log(ctx, EventChannelRenamed, "success", operatorID, channelID, map[string]interface{}{
		"name": name,
	})
}

// LogChannelLeft 記錄離開群組
func (a *AuditService) LogChannelLeft(ctx context.Context, userID, channelID string) {
	a.log(ctx, EventChannelLeft, "success", userID, channelID, nil)
}

// LogFriendRequestSent 記錄送出好友邀請
func (a *AuditService) LogFriendRequestSent(ctx context.Context, senderID, receiverID, requestID string) {
	a.log(ctx, EventFriendRequest, "success", senderID, "", map[string]interface{}{
		"receiver_id": receiverID,
		"request_id":  requestID,
	})
}

// LogFriendRequestResolved 記錄處理好友邀請
func (a *AuditService) LogFriendRequestResolved(ctx context.Context, receiverID, requestID, status string) {
	a.log(ctx, EventFriendResolved, "success", receiverID, "", map[string]interface{}{
		"request_id": requestID,
		"status":     status,
	})
}

// LogFriendDeleted 記錄刪除好友
func (a *AuditService) LogFriendDeleted(ctx context.Context, userID, friendID string) {
	a.log(ctx, EventFriendDeleted, "success", userID, "", map[string]interface{}{
		"friend_id": friendID,
	})
}

// LogProfileUpdated 記錄個人資料修改，只記錄欄位名稱
func (a *AuditService) LogProfileUpdated(ctx context.Context, userID, field string) {
	a.log(ctx, EventProfileUpdated, "success", userID, "", map[string]interface{}{
		"field": field,
	})
}

// LogConnectionJoined 記錄連線綁定使用者
func (a *AuditService) LogConnectionJoined(ctx context.Context, userID, connID string) {
	a.log(ctx, EventConnectionJoined, "success", userID, "", map[string]interface{}{
		"conn_id": connID,
	})
}

// LogRateLimitExceeded 記錄速率限制
func (a *AuditService) LogRateLimitExceeded(ctx context.Context, userID, action string) {
	a.log(ctx, EventRateLimited, "blocked", userID, "", map[string]interface{}{
		"limited_action": action,
	})
}

// LogAccessDenied 記錄被拒絕的操作
func (a *AuditService) LogAccessDenied(ctx context.Context, userID, action, reason string) {
	a.log(ctx, EventAccessDenied, "denied", userID, "", map[string]interface{}{
		"denied_action": action,
		"reason":        reason,
	})
}

func (a *AuditService) log(ctx context.Context, event, result, userID, channelID string, details map[string]interface{}) {
	if !a.IsEnabled() {
		return
	}
	if details == nil {
		details = make(map[string]interface{})
	}
	details["result"] = result

	meta := middleware.GetRequestMetadata(ctx)
	details["ip_address"] = meta.IPAddress
	details["user_agent"] = meta.UserAgent

	logger.Notice(ctx, "audit: "+event,
		logger.WithUserID(userID),
		logger.WithChannelID(channelID),
		logger.WithAction(event),
		logger.WithDetails(details),
		logger.WithLabels(map[string]string{"type": "audit"}),
	)
}
