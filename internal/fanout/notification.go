package fanout

import (
	"chat-sync/internal/constants"
	"chat-sync/internal/model"
)

// Notification 一次狀態變更要推送的事件，一律排除發起連線
type Notification struct {
	Event       string
	UserIDs     []string
	ExcludeConn string
	Payload     interface{}
}

// MessageSent 通知頻道其他成員
func MessageSent(actorConn string, ch *model.Channel, msg *model.Message) []Notification {
	return []Notification{{
		Event:       constants.EventNewMessage,
		UserIDs:     ch.UserIDs,
		ExcludeConn: actorConn,
		Payload:     msg,
	}}
}

// ChannelCreated 通知所有受邀成員
func ChannelCreated(actorConn string, ch *model.Channel, msgs []*model.Message) []Notification {
	return []Notification{{
		Event:       constants.EventUpdateChannels,
		UserIDs:     ch.UserIDs,
		ExcludeConn: actorConn,
		Payload: model.ChannelsAndMessages{
			Channels: model.ChannelsByID(ch),
			Messages: model.MessagesByID(msgs),
		},
	}}
}

// MembersAdded 通知新舊所有成員，ch 為加入後的頻道
func MembersAdded(actorConn string, ch *model.Channel, msgs []*model.Message) []Notification {
	return ChannelCreated(actorConn, ch, msgs)
}

// ChannelRenamed 通知所有成員
func ChannelRenamed(actorConn string, ch *model.Channel) []Notification {
	return []Notification{{
		Event:       constants.EventUpdateChannels,
		UserIDs:     ch.UserIDs,
		ExcludeConn: actorConn,
		Payload:     model.ChannelsAndMessages{Channels: model.ChannelsByID(ch)},
	}}
}

// MemberLeft 離開者的其他裝置收到移除標記，剩餘成員收到更新後的頻道
func MemberLeft(actorConn, leaverID string, ch *model.Channel) []Notification {
	return []Notification{
		{
			Event:       constants.EventUpdateChannels,
			UserIDs:     []string{leaverID},
			ExcludeConn: actorConn,
			Payload:     model.ChannelsAndMessages{Channels: model.Channels{ch.ID: nil}},
		},
		{
			Event:       constants.EventUpdateChannels,
			UserIDs:     ch.UserIDs,
			ExcludeConn: actorConn,
			Payload:     model.ChannelsAndMessages{Channels: model.ChannelsByID(ch)},
		},
	}
}

// FriendRequestSent 通知接收者與發送者的其他裝置
func FriendRequestSent(actorConn string, req *model.FriendRequest) []Notification {
	return []Notification{{
		Event:       constants.EventFriendRequests,
		UserIDs:     []string{req.ReceiverID, req.SenderID},
		ExcludeConn: actorConn,
		Payload:     model.FriendRequests{req.ID: req},
	}}
}

// FriendRequestResolved 非接受的處理結果，只有拒絕才通知雙方
func FriendRequestResolved(actorConn string, req *model.FriendRequest) []Notification {
	if req.Status != model.FriendRequestRefused {
		return nil
	}
	return []Notification{{
		Event:       constants.EventFriendRequests,
		UserIDs:     []string{req.SenderID, req.ReceiverID},
		ExcludeConn: actorConn,
		Payload:     model.FriendRequests{req.ID: req},
	}}
}

// FriendRequestAccepted 雙方各自收到以對方資料為主的內容
func FriendRequestAccepted(actorConn string, req *model.FriendRequest, receiverData, senderData *model.AcceptedFriendRequest) []Notification {
	return []Notification{
		{
			Event:       constants.EventAcceptedFriendRequest,
			UserIDs:     []string{req.ReceiverID},
			ExcludeConn: actorConn,
			Payload:     receiverData,
		},
		{
			Event:       constants.EventAcceptedFriendRequest,
			UserIDs:     []string{req.SenderID},
			ExcludeConn: actorConn,
			Payload:     senderData,
		},
	}
}

// FriendDeleted 雙方各自收到自己更新後的好友清單
func FriendDeleted(actorConn string, actor, friend *model.SelfAndUsers) []Notification {
	return []Notification{
		{
			Event:       constants.EventFriends,
			UserIDs:     []string{actor.Self.ID},
			ExcludeConn: actorConn,
			Payload:     actor,
		},
		{
			Event:       constants.EventFriends,
			UserIDs:     []string{friend.Self.ID},
			ExcludeConn: actorConn,
			Payload:     friend,
		},
	}
}

// ProfileUpdated 只通知本人的其他裝置
func ProfileUpdated(actorConn string, self *model.User) []Notification {
	return []Notification{{
		Event:       constants.EventSelf,
		UserIDs:     []string{self.ID},
		ExcludeConn: actorConn,
		Payload:     self,
	}}
}
