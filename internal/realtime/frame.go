package realtime

import (
	"encoding/json"
	"errors"

	"chat-sync/internal/apperror"
	"chat-sync/internal/constants"
	"chat-sync/internal/httputil"
)

// Inbound 客戶端送來的動作，Ack 由客戶端指定並原樣回傳
type Inbound struct {
	Event string          `json:"event"`
	Ack   string          `json:"ack,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// AckResult 動作的回呼結果
type AckResult struct {
	OK    bool                `json:"ok"`
	Data  interface{}         `json:"data,omitempty"`
	Error *httputil.ErrorBody `json:"error,omitempty"`
}

// Outbound 伺服器送出的事件；推送失敗時帶 Error 而沒有 Data
type Outbound struct {
	Event string              `json:"event"`
	Ack   string              `json:"ack,omitempty"`
	Data  interface{}         `json:"data,omitempty"`
	Error *httputil.ErrorBody `json:"error,omitempty"`
}

// transportError 傳輸層自己的錯誤，不屬於業務分類
type transportError struct {
	code    string
	message string
}

func (e *transportError) Error() string { return e.message }

var (
	errNotJoined     = &transportError{code: httputil.CodeUnauthenticated, message: "join first"}
	errUnknownAction = &transportError{code: httputil.CodeUnknownAction, message: "unknown action"}
)

func badPayload(err error) error {
	return &transportError{code: httputil.CodeBadPayload, message: "invalid payload: " + err.Error()}
}

func errorBody(err error) *httputil.ErrorBody {
	var te *transportError
	if errors.As(err, &te) {
		return httputil.NewErrorBody(te.code, te.message)
	}
	return httputil.NewErrorBody(httputil.Code(err), apperror.PublicMessage(err))
}

// errorCode 指標用的結果標籤
func errorCode(err error) string {
	if err == nil {
		return "ok"
	}
	return errorBody(err).Code
}

func ackFrame(id string, data interface{}, err error) Outbound {
	res := AckResult{OK: err == nil}
	if err != nil {
		res.Error = errorBody(err)
	} else {
		res.Data = data
	}
	return Outbound{Event: constants.EventAck, Ack: id, Data: res}
}

func pushFrame(event string, data interface{}, err error) Outbound {
	if err != nil {
		return Outbound{Event: event, Error: errorBody(err)}
	}
	return Outbound{Event: event, Data: data}
}

func marshalFrame(f Outbound) ([]byte, error) {
	return json.Marshal(f)
}
