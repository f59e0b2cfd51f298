package httputil

import (
	"net/http"

	"chat-sync/internal/apperror"
)

// 錯誤代碼，ack 與 HTTP 回應共用
const (
	CodeValidation      = string(apperror.KindValidation)
	CodeConstraint      = string(apperror.KindConstraint)
	CodeNotFound        = string(apperror.KindNotFound)
	CodeInternal        = string(apperror.KindTransient)
	CodeRateLimited     = string(apperror.KindRateLimit)
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeUnknownAction   = "UNKNOWN_ACTION"
	CodeBadPayload      = "BAD_PAYLOAD"
)

// Code 錯誤對應的代碼，非領域錯誤一律視為 INTERNAL
func Code(err error) string {
	return string(apperror.KindOf(err))
}

// Status 錯誤對應的 HTTP 狀態碼
func Status(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindConstraint:
		return http.StatusConflict
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
