package httputil

// ErrorBody 對外的錯誤內容
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorBody 由錯誤產生可公開的內容
func NewErrorBody(code, message string) *ErrorBody {
	return &ErrorBody{Code: code, Message: message}
}

// ErrorResponse HTTP 錯誤回應
type ErrorResponse struct {
	OK        bool       `json:"ok"`
	Error     *ErrorBody `json:"error"`
	RequestID string     `json:"request_id,omitempty"`
}

// OKResponse 存活探測的固定回應
type OKResponse struct {
	OK bool `json:"ok"`
}
