package chat

import (
	"context"

	"chat-sync/internal/apperror"
	"chat-sync/internal/constants"
	"chat-sync/internal/fanout"
	"chat-sync/internal/message"
	"chat-sync/internal/model"
)

// SelfView 個人資料推送內容
type SelfView struct {
	Self *model.User `json:"self"`
}

// UsersView 使用者查詢結果
type UsersView struct {
	Users model.Users `json:"users"`
}

// UpdateBio 更新自我介紹
func (s *Service) UpdateBio(ctx context.Context, actor Actor, req message.UpdateBioRequest) (*SelfView, []fanout.Notification, error) {
	if err := s.allow(ctx, s.actions, actor, constants.ActionUpdateBio); err != nil {
		return nil, nil, err
	}
	bio := message.SanitizeInput(req.Bio)
	if err := s.validator.Bio(bio); err != nil {
		return nil, nil, err
	}
	self, err := s.store.UpdateBio(ctx, actor.UserID, bio)
	if err != nil {
		return nil, nil, err
	}
	s.audit.LogProfileUpdated(ctx, actor.UserID, "bio")
	return &SelfView{Self: self}, fanout.ProfileUpdated(actor.ConnID, self), nil
}

// UpdateNickname 更新暱稱
func (s *Service) UpdateNickname(ctx context.Context, actor Actor, req message.UpdateNicknameRequest) (*SelfView, []fanout.Notification, error) {
	if err := s.allow(ctx, s.actions, actor, constants.ActionUpdateNickname); err != nil {
		return nil, nil, err
	}
	nickname := message.SanitizeInput(req.Nickname)
	if err := s.validator.Nickname(nickname); err != nil {
		return nil, nil, err
	}
	self, err := s.store.UpdateNickname(ctx, actor.UserID, nickname)
	if err != nil {
		return nil, nil, err
	}
	s.audit.LogProfileUpdated(ctx, actor.UserID, "nickname")
	return &SelfView{Self: self}, fanout.ProfileUpdated(actor.ConnID, self), nil
}

// FetchUser 依 ID 或 username 查詢公開資料
func (s *Service) FetchUser(ctx context.Context, req message.FetchUserRequest) (*UsersView, error) {
	var (
		u   *model.User
		err error
	)
	switch {
	case req.UserID != "":
		u, err = s.store.GetUser(ctx, req.UserID)
	case req.Username != "":
		u, err = s.store.GetUserByUsername(ctx, req.Username)
	default:
		return nil, apperror.Validation("userID or username is required")
	}
	if err != nil {
		return nil, err
	}
	return &UsersView{Users: model.Users{u.ID: u}}, nil
}

// CreateUser 建立帳號，供管理工具使用
func (s *Service) CreateUser(ctx context.Context, username, nickname string) (*model.User, error) {
	if err := s.validator.ID("username", username); err != nil {
		return nil, err
	}
	if len(username) > constants.MaxUsernameLength {
		return nil, apperror.Validation("username 超過最大長度限制 (%d 字符)", constants.MaxUsernameLength)
	}
	if nickname == "" {
		nickname = username
	}
	if err := s.validator.Nickname(nickname); err != nil {
		return nil, err
	}
	u := &model.User{
		Username:  username,
		Nickname:  nickname,
		CreatedAt: s.nowMillis(nil),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
