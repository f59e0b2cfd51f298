// Package chat 實作客戶端動作的業務邏輯：驗證、寫入與產生推送通知。
package chat

import (
	"context"
	"time"

	"chat-sync/internal/apperror"
	"chat-sync/internal/constants"
	"chat-sync/internal/idgen"
	"chat-sync/internal/message"
	"chat-sync/internal/model"
	"chat-sync/internal/platform/config"
	"chat-sync/internal/platform/logger"
	"chat-sync/internal/platform/metrics"
	"chat-sync/internal/security/audit"
	"chat-sync/internal/storage"
)

// Actor 發起動作的使用者與連線
type Actor struct {
	UserID string
	ConnID string
}

// Limiter 以 key 計數的速率限制
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Service 聊天業務服務
type Service struct {
	store     storage.Store
	ids       *idgen.Allocator
	validator *message.Validator
	limits    config.LimitsConfig
	audit     *audit.AuditService
	actions   Limiter
	messages  Limiter
	now       func() time.Time
}

// Option 服務選項
type Option func(*Service)

// WithAudit 設定審計服務
func WithAudit(a *audit.AuditService) Option {
	return func(s *Service) { s.audit = a }
}

// WithLimiters 設定一般動作與發送訊息的速率限制，nil 表示不限制
func WithLimiters(actions, messages Limiter) Option {
	return func(s *Service) {
		s.actions = actions
		s.messages = messages
	}
}

// WithClock 替換時間來源（測試用）
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService 創建聊天服務
func NewService(store storage.Store, ids *idgen.Allocator, limits config.LimitsConfig, opts ...Option) *Service {
	if limits.Pagination.DefaultPageSize <= 0 {
		limits.Pagination.DefaultPageSize = constants.DefaultPageSize
	}
	if limits.Pagination.MaxPageSize <= 0 {
		limits.Pagination.MaxPageSize = constants.DefaultMaxPageSize
	}
	if limits.Pagination.RecentPerChannel <= 0 {
		limits.Pagination.RecentPerChannel = constants.DefaultRecentPerChannel
	}
	if limits.Unread.Window <= 0 {
		limits.Unread.Window = constants.DefaultUnreadWindow
	}

	s := &Service{
		store:     store,
		ids:       ids,
		validator: message.NewValidator(limits),
		limits:    limits,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nowMillis 客戶端未提供時間時使用伺服器時間
func (s *Service) nowMillis(clientTime *int64) int64 {
	if clientTime != nil && *clientTime > 0 {
		return *clientTime
	}
	return s.now().UnixMilli()
}

// allow 檢查速率限制；限制器本身故障時放行並記錄
func (s *Service) allow(ctx context.Context, l Limiter, actor Actor, action string) error {
	if l == nil {
		return nil
	}
	ok, err := l.Allow(ctx, action+":"+actor.UserID)
	if err != nil {
		logger.Warning(ctx, "速率限制檢查失敗",
			logger.WithUserID(actor.UserID),
			logger.WithAction(action),
			logger.WithError(err),
		)
		return nil
	}
	if !ok {
		metrics.RateLimitHits.WithLabelValues(action).Inc()
		s.audit.LogRateLimitExceeded(ctx, actor.UserID, action)
		return apperror.RateLimited(action)
	}
	return nil
}

// attachAuthors 補上訊息作者的公開資料
func (s *Service) attachAuthors(ctx context.Context, msgs []*model.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, m := range msgs {
		if _, ok := seen[m.UserID]; !ok {
			seen[m.UserID] = struct{}{}
			ids = append(ids, m.UserID)
		}
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		m.User = users[m.UserID]
	}
	return nil
}

// attachParties 補上好友邀請雙方的資料
func (s *Service) attachParties(ctx context.Context, reqs ...*model.FriendRequest) error {
	ids := make([]string, 0, len(reqs)*2)
	for _, r := range reqs {
		ids = append(ids, r.SenderID, r.ReceiverID)
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return err
	}
	for _, r := range reqs {
		r.Sender = users[r.SenderID]
		r.Receiver = users[r.ReceiverID]
	}
	return nil
}

func (s *Service) usersByID(ctx context.Context, ids []string) (model.Users, error) {
	out := make(model.Users, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.store.GetUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// friendsOf 使用者與其好友清單
func (s *Service) friendsOf(ctx context.Context, self *model.User) (*model.SelfAndUsers, error) {
	users, err := s.usersByID(ctx, self.Friends())
	if err != nil {
		return nil, err
	}
	return &model.SelfAndUsers{Self: self, Users: users}, nil
}
