package chat

import (
	"context"

	"chat-sync/internal/apperror"
	"chat-sync/internal/constants"
	"chat-sync/internal/fanout"
	"chat-sync/internal/message"
	"chat-sync/internal/model"

	"github.com/oklog/ulid/v2"
)

// CreateChannel 建立群組，成員中至少要有一位是建立者的好友
func (s *Service) CreateChannel(ctx context.Context, actor Actor, req message.CreateChannelRequest) (*model.ChannelsAndMessages, []fanout.Notification, error) {
	if err := s.allow(ctx, s.actions, actor, constants.ActionCreateChannel); err != nil {
		return nil, nil, err
	}
	name := message.SanitizeInput(req.Name)
	if err := s.validator.ChannelName(name); err != nil {
		return nil, nil, err
	}
	members, err := s.validator.Members(actor.UserID, req.UserIDs)
	if err != nil {
		return nil, nil, err
	}

	self, err := s.store.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.requireUsers(ctx, members); err != nil {
		return nil, nil, err
	}
	hasFriend := false
	for _, id := range members {
		if self.IsFriend(id) {
			hasFriend = true
			break
		}
	}
	if !hasFriend {
		return nil, nil, apperror.Validation("group must include at least one friend")
	}

	createdAt := s.nowMillis(req.CreatedAt)
	ch := &model.Channel{
		Kind:      model.ChannelGroup,
		Name:      name,
		DMID:      model.GroupKey(createdAt, ulid.Make().String()),
		OwnerID:   actor.UserID,
		AdminIDs:  []string{actor.UserID},
		UserIDs:   append([]string{actor.UserID}, members...),
		CreatedAt: createdAt,
	}
	start := &model.Message{
		MessageID: s.ids.Next(),
		UserID:    actor.UserID,
		Kind:      model.MessageChannelStart,
		CreatedAt: createdAt,
	}
	if err := s.store.CreateGroupChannel(ctx, ch, start); err != nil {
		return nil, nil, err
	}
	msgs := []*model.Message{start}
	if err := s.attachAuthors(ctx, msgs); err != nil {
		return nil, nil, err
	}

	s.audit.LogChannelCreated(ctx, actor.UserID, ch.ID, members)
	out := &model.ChannelsAndMessages{Channels: model.ChannelsByID(ch), Messages: model.MessagesByID(msgs)}
	return out, fanout.ChannelCreated(actor.ConnID, ch, msgs), nil
}

// AddUsersToChannel 加入成員，每位新成員一則 JoinChannel 訊息
func (s *Service) AddUsersToChannel(ctx context.Context, actor Actor, req message.AddUsersRequest) (*model.ChannelsAndMessages, []fanout.Notification, error) {
	if err := s.allow(ctx, s.actions, actor, constants.ActionAddUsersToChannel); err != nil {
		return nil, nil, err
	}
	candidates, err := s.validator.Members(actor.UserID, req.UserIDs)
	if err != nil {
		return nil, nil, err
	}
	ch, err := s.memberChannel(ctx, actor, req.ChannelID)
	if err != nil {
		return nil, nil, err
	}
	if ch.Kind != model.ChannelGroup {
		return nil, nil, apperror.NotFound("channel %s: not found", req.ChannelID)
	}

	newcomers := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if !ch.HasMember(id) {
			newcomers = append(newcomers, id)
		}
	}
	if len(newcomers) == 0 {
		return nil, nil, apperror.Validation("users are already members")
	}
	if len(ch.UserIDs)+len(newcomers) > s.validator.MaxMembers() {
		return nil, nil, apperror.Validation("成員數超過上限 (%d)", s.validator.MaxMembers())
	}
	if err := s.requireUsers(ctx, newcomers); err != nil {
		return nil, nil, err
	}

	createdAt := s.nowMillis(nil)
	ids := s.ids.NextN(len(newcomers))
	msgs := make([]*model.Message, 0, len(newcomers))
	for i, uid := range newcomers {
		msgs = append(msgs, &model.Message{
			MessageID: ids[i],
			UserID:    uid,
			Kind:      model.MessageJoinChannel,
			CreatedAt: createdAt,
		})
	}

	updated, err := s.store.AddUsersToChannel(ctx, actor.UserID, ch.ID, newcomers, msgs)
	if err != nil {
		return nil, nil, err
	}
	if err := s.attachAuthors(ctx, msgs); err != nil {
		return nil, nil, err
	}

	s.audit.LogMembersAdded(ctx, actor.UserID, ch.ID, newcomers)
	out := &model.ChannelsAndMessages{Channels: model.ChannelsByID(updated), Messages: model.MessagesByID(msgs)}
	return out, fanout.MembersAdded(actor.ConnID, updated, msgs), nil
}

// RenameChannel 群組改名，僅限擁有者或管理員
func (s *Service) RenameChannel(ctx context.Context, actor Actor, req message.RenameChannelRequest) (*model.ChannelsAndMessages, []fanout.Notification, error) {
	if err := s.allow(ctx, s.actions, actor, constants.ActionRenameChannel); err != nil {
		return nil, nil, err
	}
	name := message.SanitizeInput(req.Name)
	if err := s.validator.ChannelName(name); err != nil {
		return nil, nil, err
	}
	if err := s.validator.ID("channelID", req.ChannelID); err != nil {
		return nil, nil, err
	}

	ch, err := s.store.RenameChannel(ctx, actor.UserID, req.ChannelID, name)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			s.audit.LogAccessDenied(ctx, actor.UserID, constants.ActionRenameChannel, "not owner or admin")
		}
		return nil, nil, err
	}

	s.audit.LogChannelRenamed(ctx, actor.UserID, ch.ID, name)
	return &model.ChannelsAndMessages{Channels: model.ChannelsByID(ch)}, fanout.ChannelRenamed(actor.ConnID, ch), nil
}

// LeaveChannel 離開群組；回傳給離開者的頻道值為 nil
func (s *Service) LeaveChannel(ctx context.Context, actor Actor, req message.ChannelRequest) (*model.ChannelsAndMessages, []fanout.Notification, error) {
	if err := s.allow(ctx, s.actions, actor, constants.ActionLeaveChannel); err != nil {
		return nil, nil, err
	}
	if err := s.validator.ID("channelID", req.ChannelID); err != nil {
		return nil, nil, err
	}

	ch, err := s.store.LeaveChannel(ctx, actor.UserID, req.ChannelID)
	if err != nil {
		return nil, nil, err
	}

	s.audit.LogChannelLeft(ctx, actor.UserID, ch.ID)
	out := &model.ChannelsAndMessages{Channels: model.Channels{ch.ID: nil}}
	return out, fanout.MemberLeft(actor.ConnID, actor.UserID, ch), nil
}

// requireUsers 所有使用者都必須存在
func (s *Service) requireUsers(ctx context.Context, ids []string) error {
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return apperror.NotFound("user %s: not found", id)
		}
	}
	return nil
}
