package message

import (
	"strings"
	"unicode/utf8"

	"chat-sync/internal/apperror"
	"chat-sync/internal/constants"
	"chat-sync/internal/model"
	"chat-sync/internal/platform/config"
)

// Validator 依設定的長度限制驗證輸入
type Validator struct {
	limits config.LimitsConfig
}

// NewValidator 創建驗證器，未設定的限制使用預設值
func NewValidator(limits config.LimitsConfig) *Validator {
	if limits.Profile.MaxBioLength <= 0 {
		limits.Profile.MaxBioLength = constants.DefaultMaxBioLength
	}
	if limits.Profile.MaxNicknameLength <= 0 {
		limits.Profile.MaxNicknameLength = constants.DefaultMaxNicknameLength
	}
	if limits.Channel.MaxNameLength <= 0 {
		limits.Channel.MaxNameLength = constants.DefaultMaxChannelNameLength
	}
	if limits.Channel.MaxMembers <= 0 {
		limits.Channel.MaxMembers = constants.DefaultMaxChannelMembers
	}
	if limits.Message.MaxLength <= 0 {
		limits.Message.MaxLength = constants.DefaultMaxMessageLength
	}
	return &Validator{limits: limits}
}

// MaxMembers 群組成員上限
func (v *Validator) MaxMembers() int {
	return v.limits.Channel.MaxMembers
}

// Content 驗證訊息內容
func (v *Validator) Content(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperror.Validation("訊息內容不能為空")
	}
	if utf8.RuneCountInString(content) > v.limits.Message.MaxLength {
		return apperror.Validation("訊息內容超過最大長度限制 (%d 字符)", v.limits.Message.MaxLength)
	}
	if strings.Contains(content, "\x00") {
		return apperror.Validation("訊息內容包含非法字符")
	}
	return nil
}

// ChannelName 驗證群組名稱
func (v *Validator) ChannelName(name string) error {
	trimmed := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmed) < constants.MinChannelNameLength {
		return apperror.Validation("頻道名稱不能為空")
	}
	if utf8.RuneCountInString(name) > v.limits.Channel.MaxNameLength {
		return apperror.Validation("頻道名稱超過最大長度限制 (%d 字符)", v.limits.Channel.MaxNameLength)
	}
	if strings.Contains(name, "\x00") {
		return apperror.Validation("頻道名稱包含非法字符")
	}
	return nil
}

// Bio 驗證自我介紹，允許空字串
func (v *Validator) Bio(bio string) error {
	if utf8.RuneCountInString(bio) > v.limits.Profile.MaxBioLength {
		return apperror.Validation("自我介紹超過最大長度限制 (%d 字符)", v.limits.Profile.MaxBioLength)
	}
	return nil
}

// Nickname 驗證暱稱長度
func (v *Validator) Nickname(nickname string) error {
	n := utf8.RuneCountInString(nickname)
	if n < constants.MinNicknameLength || n > v.limits.Profile.MaxNicknameLength {
		return apperror.Validation("暱稱長度必須介於 %d 到 %d 字符", constants.MinNicknameLength, v.limits.Profile.MaxNicknameLength)
	}
	return nil
}

// ID 驗證識別碼
func (v *Validator) ID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.Validation("%s 不能為空", field)
	}
	if len(id) > constants.MaxUserIDLength || strings.ContainsAny(id, "\x00${}[]") {
		return apperror.Validation("%s 格式錯誤", field)
	}
	return nil
}

// Members 驗證並去除重複的成員清單，會排除 self
func (v *Validator) Members(self string, ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := v.ID("userID", id); err != nil {
			return nil, err
		}
		if id == self {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, apperror.Validation("至少需要一位其他成員")
	}
	if len(out)+1 > v.limits.Channel.MaxMembers {
		return nil, apperror.Validation("成員數超過上限 (%d)", v.limits.Channel.MaxMembers)
	}
	return out, nil
}

// Status 解析好友邀請狀態，不接受回到 Sent
func (v *Validator) Status(s string) (model.FriendRequestStatus, error) {
	status := model.FriendRequestStatus(s)
	if !status.Valid() || status == model.FriendRequestSent {
		return "", apperror.Validation("invalid friend request status %q", s)
	}
	return status, nil
}

// SanitizeInput 移除控制字符（保留換行與 Tab）
func SanitizeInput(input string) string {
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\n' || r == '\t' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
