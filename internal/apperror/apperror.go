package apperror

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind 錯誤分類
type Kind string

const (
	KindValidation Kind = "VALIDATION_FAILED"
	KindConstraint Kind = "CONSTRAINT_VIOLATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindTransient  Kind = "INTERNAL"
	KindRateLimit  Kind = "RATE_LIMITED"
)

// 唯一性約束名稱
const (
	ConstraintUsername = "username"
	ConstraintDMPair   = "dm_pair"
)

// Error 領域錯誤
type Error struct {
	Kind       Kind   `json:"code"`
	Constraint string `json:"constraint,omitempty"`
	Message    string `json:"message"`
	Cause      error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Validation 呼叫端輸入不合法
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Constraint 唯一性約束衝突
func Constraint(constraint string, cause error) error {
	return &Error{
		Kind:       KindConstraint,
		Constraint: constraint,
		Message:    fmt.Sprintf("%s already exists", constraint),
		Cause:      cause,
	}
}

// NotFound 不存在或無權限，兩者對呼叫端不可區分
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Transient 基礎設施錯誤
func Transient(cause error, message string) error {
	return &Error{Kind: KindTransient, Message: message, Cause: errors.WithStack(cause)}
}

// RateLimited 超過速率限制
func RateLimited(action string) error {
	return &Error{Kind: KindRateLimit, Message: fmt.Sprintf("%s: rate limit exceeded", action)}
}

// KindOf 取得錯誤分類，非領域錯誤視為 Transient
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}

// Is 檢查錯誤分類
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ConstraintOf 取得衝突的約束名稱
func ConstraintOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindConstraint {
		return e.Constraint
	}
	return ""
}

// PublicMessage 可回傳給客戶端的訊息，Transient 不揭露原因
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	switch e.Kind {
	case KindTransient:
		return "internal error"
	case KindNotFound:
		return "not found"
	default:
		return e.Message
	}
}
