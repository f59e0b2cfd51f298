package chat

import (
	"context"

	"chat-sync/internal/apperror"
	"chat-sync/internal/channellog"
	"chat-sync/internal/constants"
	"chat-sync/internal/fanout"
	"chat-sync/internal/message"
	"chat-sync/internal/model"
	"chat-sync/internal/platform/logger"
)

// MessagePage 分頁結果，Order 為回傳順序
type MessagePage struct {
	Messages model.Messages `json:"messages"`
	Order    []string       `json:"order"`
}

// SendMessage 寫入訊息並通知頻道其他成員；指定 dmUserID 時會先確保私訊頻道存在
func (s *Service) SendMessage(ctx context.Context, actor Actor, req message.SendMessageRequest) (*model.Message, []fanout.Notification, error) {
	if err := s.allow(ctx, s.messages, actor, constants.ActionSendMessage); err != nil {
		return nil, nil, err
	}
	content := message.SanitizeInput(req.Content)
	if err := s.validator.Content(content); err != nil {
		return nil, nil, err
	}
	createdAt := s.nowMillis(req.CreatedAt)

	var notes []fanout.Notification
	channelID := req.ChannelID
	if channelID == "" {
		ch, start, created, err := s.ensureDM(ctx, actor, req.DMUserID, createdAt)
		if err != nil {
			return nil, nil, err
		}
		channelID = ch.ID
		if created {
			notes = append(notes, fanout.ChannelCreated(actor.ConnID, ch, []*model.Message{start})...)
		}
	}

	msg := &model.Message{
		MessageID: s.ids.Next(),
		ChannelID: channelID,
		UserID:    actor.UserID,
		Kind:      model.MessageContent,
		Content:   content,
		CreatedAt: createdAt,
	}
	ch, err := s.store.CreateMessage(ctx, msg)
	if err != nil {
		return nil, nil, err
	}
	if err := s.attachAuthors(ctx, []*model.Message{msg}); err != nil {
		return nil, nil, err
	}

	logger.Debug(ctx, "訊息已寫入",
		logger.WithUserID(actor.UserID),
		logger.WithChannelID(ch.ID),
		logger.WithMessageID(msg.MessageID),
	)
	return msg, append(notes, fanout.MessageSent(actor.ConnID, ch, msg)...), nil
}

// ensureDM 依對象取得或建立私訊頻道
func (s *Service) ensureDM(ctx context.Context, actor Actor, peerID string, createdAt int64) (*model.Channel, *model.Message, bool, error) {
	if err := s.validator.ID("dmUserID", peerID); err != nil {
		return nil, nil, false, err
	}
	if peerID == actor.UserID {
		return nil, nil, false, apperror.Validation("cannot message yourself")
	}
	if _, err := s.store.GetUser(ctx, peerID); err != nil {
		return nil, nil, false, err
	}

	ch := &model.Channel{
		Kind:      model.ChannelDirectMessage,
		DMID:      model.DMKey(actor.UserID, peerID),
		UserIDs:   []string{actor.UserID, peerID},
		CreatedAt: createdAt,
	}
	start := &model.Message{
		MessageID: s.ids.Next(),
		UserID:    actor.UserID,
		Kind:      model.MessageChannelStart,
		CreatedAt: createdAt,
	}
	out, created, err := s.store.EnsureDMChannel(ctx, ch, start)
	if err != nil {
		return nil, nil, false, err
	}
	return out, start, created, nil
}

// FetchMessages 分頁讀取，只有成員可以讀
func (s *Service) FetchMessages(ctx context.Context, actor Actor, req message.FetchMessagesRequest) (*MessagePage, error) {
	dir, err := channellog.ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}
	if _, err := s.memberChannel(ctx, actor, req.ChannelID); err != nil {
		return nil, err
	}

	q := channellog.Query{
		ChannelID: req.ChannelID,
		Direction: dir,
		Cursor:    req.Cursor,
		Limit:     req.Limit,
	}.Normalize(s.limits.Pagination.DefaultPageSize, s.limits.Pagination.MaxPageSize)

	msgs, err := s.store.PageMessages(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.attachAuthors(ctx, msgs); err != nil {
		return nil, err
	}

	page := &MessagePage{Messages: model.MessagesByID(msgs), Order: make([]string, 0, len(msgs))}
	for _, m := range msgs {
		page.Order = append(page.Order, m.ID)
	}
	return page, nil
}

// FetchFirstMessageID 頻道第一則訊息的 ID，頻道沒有訊息時 ok 為 false
func (s *Service) FetchFirstMessageID(ctx context.Context, actor Actor, req message.ChannelRequest) (string, bool, error) {
	if _, err := s.memberChannel(ctx, actor, req.ChannelID); err != nil {
		return "", false, err
	}
	first, err := s.store.FirstMessageIDs(ctx, []string{req.ChannelID})
	if err != nil {
		return "", false, err
	}
	id, ok := first[req.ChannelID]
	return id, ok, nil
}

// memberChannel 非成員與不存在的頻道一律回報 NotFound
func (s *Service) memberChannel(ctx context.Context, actor Actor, channelID string) (*model.Channel, error) {
	if err := s.validator.ID("channelID", channelID); err != nil {
		return nil, err
	}
	ch, err := s.store.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !ch.HasMember(actor.UserID) {
		return nil, apperror.NotFound("channel %s: not found", channelID)
	}
	return ch, nil
}
