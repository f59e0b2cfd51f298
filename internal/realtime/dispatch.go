package realtime

import (
	"context"
	"encoding/json"
	"time"

	"chat-sync/internal/apperror"
	"chat-sync/internal/chat"
	"chat-sync/internal/constants"
	"chat-sync/internal/fanout"
	"chat-sync/internal/httputil"
	"chat-sync/internal/message"
	"chat-sync/internal/platform/logger"
	"chat-sync/internal/platform/metrics"
	"chat-sync/internal/presence"

	"github.com/pkg/errors"
)

type handlerFunc func(ctx context.Context, actor chat.Actor, data json.RawMessage) (interface{}, []fanout.Notification, error)

func decode[T any](data json.RawMessage) (T, error) {
	var req T
	if len(data) == 0 || string(data) == "null" {
		return req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, badPayload(err)
	}
	return req, nil
}

// mutation 會產生推送的動作
func mutation[T, R any](fn func(context.Context, chat.Actor, T) (R, []fanout.Notification, error)) handlerFunc {
	return func(ctx context.Context, actor chat.Actor, data json.RawMessage) (interface{}, []fanout.Notification, error) {
		req, err := decode[T](data)
		if err != nil {
			return nil, nil, err
		}
		return fn(ctx, actor, req)
	}
}

// query 只回傳資料的動作
func query[T, R any](fn func(context.Context, chat.Actor, T) (R, error)) handlerFunc {
	return func(ctx context.Context, actor chat.Actor, data json.RawMessage) (interface{}, []fanout.Notification, error) {
		req, err := decode[T](data)
		if err != nil {
			return nil, nil, err
		}
		out, err := fn(ctx, actor, req)
		return out, nil, err
	}
}

func (h *Hub) actionTable() map[string]handlerFunc {
	svc := h.svc
	return map[string]handlerFunc{
		constants.ActionSendMessage:          mutation(svc.SendMessage),
		constants.ActionFetchMessages:        query(svc.FetchMessages),
		constants.ActionFetchFirstMessageID:  query(h.fetchFirstMessageID),
		constants.ActionCreateChannel:        mutation(svc.CreateChannel),
		constants.ActionAddUsersToChannel:    mutation(svc.AddUsersToChannel),
		constants.ActionRenameChannel:        mutation(svc.RenameChannel),
		constants.ActionLeaveChannel:         mutation(svc.LeaveChannel),
		constants.ActionSendFriendRequest:    mutation(svc.SendFriendRequest),
		constants.ActionResolveFriendRequest: mutation(svc.ResolveFriendRequest),
		constants.ActionDeleteFriend:         mutation(svc.DeleteFriend),
		constants.ActionUpdateBio:            mutation(svc.UpdateBio),
		constants.ActionUpdateNickname:       mutation(svc.UpdateNickname),
		constants.ActionFetchUser: query(func(ctx context.Context, _ chat.Actor, req message.FetchUserRequest) (*chat.UsersView, error) {
			return svc.FetchUser(ctx, req)
		}),
		constants.ActionFetchFriends: query(func(ctx context.Context, actor chat.Actor, _ struct{}) (interface{}, error) {
			return svc.FetchFriends(ctx, actor)
		}),
	}
}

// fetchFirstMessageID 沒有訊息的頻道回傳 false
func (h *Hub) fetchFirstMessageID(ctx context.Context, actor chat.Actor, req message.ChannelRequest) (interface{}, error) {
	id, ok, err := h.svc.FetchFirstMessageID(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return false, nil
	}
	return id, nil
}

// dispatch 處理單一動作：先回呼發起連線，再推送給其他連線
func (h *Hub) dispatch(ctx context.Context, c *Client, in Inbound) {
	start := time.Now()
	ctx = logger.WithTraceID(ctx, logger.NewTraceID())
	ctx = logger.ContextWith(ctx, logger.WithUserID(c.uid), logger.WithAction(in.Event))

	var (
		data  interface{}
		notes []fanout.Notification
		err   error
	)
	joined := false
	switch {
	case in.Event == constants.ActionJoin:
		data, err = h.join(ctx, c, in.Data)
		joined = err == nil
	case c.uid == "":
		err = errNotJoined
	default:
		fn, ok := h.handlers[in.Event]
		if !ok {
			err = errUnknownAction
			break
		}
		data, notes, err = fn(ctx, chat.Actor{UserID: c.uid, ConnID: c.id}, in.Data)
	}

	c.emit(ackFrame(in.Ack, data, err))
	label := h.actionLabel(in.Event)
	metrics.ActionsTotal.WithLabelValues(label, errorCode(err)).Inc()
	metrics.ActionDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	if err != nil {
		logAction(ctx, err)
		return
	}
	h.deliver(notes)
	if joined {
		h.bootstrap(ctx, c, in.Data)
	}
}

// actionLabel 未知動作合併為同一標籤，避免指標維度失控
func (h *Hub) actionLabel(event string) string {
	if _, ok := h.handlers[event]; ok || event == constants.ActionJoin {
		return event
	}
	return "unknown"
}

func logAction(ctx context.Context, err error) {
	if errorCode(err) == httputil.CodeInternal {
		logger.Error(ctx, "動作處理失敗", logger.WithError(err))
		return
	}
	logger.Debug(ctx, "動作被拒絕", logger.WithError(err))
}

// join 驗證使用者並登記連線；同一連線改綁其他使用者會被拒絕
func (h *Hub) join(ctx context.Context, c *Client, data json.RawMessage) (interface{}, error) {
	req, err := decode[message.JoinRequest](data)
	if err != nil {
		return nil, err
	}
	user, err := h.svc.Join(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := h.registry.Register(c, user.ID); err != nil {
		if errors.Is(err, presence.ErrConnectionBound) {
			h.audit.LogAccessDenied(ctx, user.ID, constants.ActionJoin, "connection bound to another user")
			return nil, apperror.Validation("connection already joined as another user")
		}
		return nil, err
	}
	c.uid = user.ID

	h.audit.LogConnectionJoined(ctx, user.ID, c.id)
	return map[string]string{"uid": user.ID}, nil
}

// bootstrap 依序推送初始化快照，失敗的項目以錯誤事件回報
func (h *Hub) bootstrap(ctx context.Context, c *Client, data json.RawMessage) {
	req, _ := decode[message.JoinRequest](data)
	for _, e := range h.svc.Bootstrap(ctx, c.uid, req.ReadMarkers) {
		if e.Err != nil {
			metrics.BootstrapFailures.WithLabelValues(e.Event).Inc()
		}
		c.emit(pushFrame(e.Event, e.Data, e.Err))
	}
}
