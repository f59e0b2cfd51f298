package chat

import (
	"context"

	"chat-sync/internal/apperror"
	"chat-sync/internal/constants"
	"chat-sync/internal/fanout"
	"chat-sync/internal/message"
	"chat-sync/internal/model"
	"chat-sync/internal/storage"
)

// FriendRequestsView 好友邀請推送內容
type FriendRequestsView struct {
	FriendRequests model.FriendRequests `json:"friendRequests"`
}

// SendFriendRequest 依 username 送出好友邀請
func (s *Service) SendFriendRequest(ctx context.Context, actor Actor, req message.SendFriendRequestRequest) (*FriendRequestsView, []fanout.Notification, error) {
	if err := s.allow(ctx, s.actions, actor, constants.ActionSendFriendRequest); err != nil {
		return nil, nil, err
	}
	if req.Username == "" {
		return nil, nil, apperror.Validation("username 不能為空")
	}
	note := message.SanitizeInput(req.Message)
	if note != "" {
		if err := s.validator.Content(note); err != nil {
			return nil, nil, err
		}
	}

	receiver, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, nil, err
	}
	if receiver.ID == actor.UserID {
		return nil, nil, apperror.Validation("cannot send a friend request to yourself")
	}
	if receiver.IsFriend(actor.UserID) {
		return nil, nil, apperror.Validation("already friends")
	}

	existing, err := s.store.FriendRequestsOf(ctx, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	for _, r := range existing {
		if !r.Finished && r.Involves(receiver.ID) {
			return nil, nil, apperror.Validation("a friend request is already pending")
		}
	}

	fr := &model.FriendRequest{
		SenderID:   actor.UserID,
		ReceiverID: receiver.ID,
		Message:    note,
		Status:     model.FriendRequestSent,
		CreatedAt:  s.nowMillis(nil),
	}
	if err := s.store.CreateFriendRequest(ctx, fr); err != nil {
		return nil, nil, err
	}
	if err := s.attachParties(ctx, fr); err != nil {
		return nil, nil, err
	}

	s.audit.LogFriendRequestSent(ctx, actor.UserID, receiver.ID, fr.ID)
	return &FriendRequestsView{FriendRequests: model.FriendRequests{fr.ID: fr}}, fanout.FriendRequestSent(actor.ConnID, fr), nil
}

// ResolveFriendRequest 接收者處理邀請。接受時回傳以寄件者為主的內容，其他狀態回傳更新後的邀請
func (s *Service) ResolveFriendRequest(ctx context.Context, actor Actor, req message.ResolveFriendRequestRequest) (interface{}, []fanout.Notification, error) {
	if err := s.allow(ctx, s.actions, actor, constants.ActionResolveFriendRequest); err != nil {
		return nil, nil, err
	}
	status, err := s.validator.Status(req.Status)
	if err != nil {
		return nil, nil, err
	}
	if err := s.validator.ID("requestID", req.RequestID); err != nil {
		return nil, nil, err
	}

	if status == model.FriendRequestAccepted {
		return s.acceptFriendRequest(ctx, actor, req.RequestID)
	}

	fr, err := s.store.UpdateFriendRequest(ctx, req.RequestID, actor.UserID, status)
	if err != nil {
		return nil, nil, err
	}
	if err := s.attachParties(ctx, fr); err != nil {
		return nil, nil, err
	}

	s.audit.LogFriendRequestResolved(ctx, actor.UserID, fr.ID, string(status))
	return &FriendRequestsView{FriendRequests: model.FriendRequests{fr.ID: fr}}, fanout.FriendRequestResolved(actor.ConnID, fr), nil
}

func (s *Service) acceptFriendRequest(ctx context.Context, actor Actor, requestID string) (interface{}, []fanout.Notification, error) {
	ids := s.ids.NextN(2)
	res, err := s.store.AcceptFriendRequest(ctx, storage.AcceptInput{
		RequestID:          requestID,
		ReceiverID:         actor.UserID,
		CreatedAt:          s.nowMillis(nil),
		StartMessageID:     ids[0],
		AddFriendMessageID: ids[1],
	})
	if err != nil {
		return nil, nil, err
	}

	fr := res.Request
	fr.Sender = res.Sender
	fr.Receiver = res.Receiver
	if err := s.attachAuthors(ctx, res.Messages); err != nil {
		return nil, nil, err
	}

	// 每一方都收到對方的資料
	receiverData := acceptedView(res, res.Sender)
	senderData := acceptedView(res, res.Receiver)

	s.audit.LogFriendRequestResolved(ctx, actor.UserID, fr.ID, string(model.FriendRequestAccepted))
	return receiverData, fanout.FriendRequestAccepted(actor.ConnID, fr, receiverData, senderData), nil
}

func acceptedView(res *storage.AcceptResult, counterpart *model.User) *model.AcceptedFriendRequest {
	return &model.AcceptedFriendRequest{
		User:           counterpart,
		Channels:       model.ChannelsByID(res.Channel),
		Users:          model.Users{counterpart.ID: counterpart},
		Messages:       model.MessagesByID(res.Messages),
		FriendRequests: model.FriendRequests{res.Request.ID: res.Request},
	}
}

// DeleteFriend 移除雙方好友關係，雙方各自收到更新後的清單
func (s *Service) DeleteFriend(ctx context.Context, actor Actor, req message.DeleteFriendRequest) (*model.SelfAndUsers, []fanout.Notification, error) {
	if err := s.allow(ctx, s.actions, actor, constants.ActionDeleteFriend); err != nil {
		return nil, nil, err
	}
	if err := s.validator.ID("userID", req.UserID); err != nil {
		return nil, nil, err
	}

	current, err := s.store.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	if !current.IsFriend(req.UserID) {
		return nil, nil, apperror.NotFound("friend %s: not found", req.UserID)
	}

	self, friend, err := s.store.DeleteFriend(ctx, actor.UserID, req.UserID)
	if err != nil {
		return nil, nil, err
	}
	selfView, err := s.friendsOf(ctx, self)
	if err != nil {
		return nil, nil, err
	}
	friendView, err := s.friendsOf(ctx, friend)
	if err != nil {
		return nil, nil, err
	}

	s.audit.LogFriendDeleted(ctx, actor.UserID, req.UserID)
	return selfView, fanout.FriendDeleted(actor.ConnID, selfView, friendView), nil
}

// FetchFriends 好友清單（兩個方向的聯集）
func (s *Service) FetchFriends(ctx context.Context, actor Actor) (*model.SelfAndUsers, error) {
	self, err := s.store.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.friendsOf(ctx, self)
}
