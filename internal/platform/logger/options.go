package logger

// LogOption 設定日誌欄位
type LogOption func(*LogEntry)

func WithUserID(userID string) LogOption {
	return func(e *LogEntry) { e.UserID = userID }
}

func WithChannelID(channelID string) LogOption {
	return func(e *LogEntry) { e.ChannelID = channelID }
}

// WithConnID WebSocket 連線識別碼
func WithConnID(connID string) LogOption {
	return func(e *LogEntry) { e.ConnID = connID }
}

// WithMessageID 訊息序號
func WithMessageID(messageID int64) LogOption {
	return func(e *LogEntry) { e.MessageID = messageID }
}

// WithEvent 推送事件名稱
func WithEvent(event string) LogOption {
	return func(e *LogEntry) { e.Event = event }
}

// WithAction 客戶端動作或審計事件
func WithAction(action string) LogOption {
	return func(e *LogEntry) { e.Action = action }
}

// WithDetails 合併到 details，不覆蓋其他選項已寫入的鍵
func WithDetails(details map[string]interface{}) LogOption {
	return func(e *LogEntry) {
		if e.Details == nil {
			e.Details = make(map[string]interface{}, len(details))
		}
		for k, v := range details {
			e.Details[k] = v
		}
	}
}

// WithError 錯誤訊息放在 details.error
func WithError(err error) LogOption {
	return func(e *LogEntry) {
		if err == nil {
			return
		}
		if e.Details == nil {
			e.Details = make(map[string]interface{})
		}
		e.Details["error"] = err.Error()
	}
}

func WithHTTPRequest(req *HTTPRequest) LogOption {
	return func(e *LogEntry) { e.HTTPRequest = req }
}

// WithLabels 附加標籤，service 標籤可被覆蓋
func WithLabels(labels map[string]string) LogOption {
	return func(e *LogEntry) {
		if e.Labels == nil {
			e.Labels = make(map[string]string, len(labels))
		}
		for k, v := range labels {
			e.Labels[k] = v
		}
	}
}
