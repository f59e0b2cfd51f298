package channellog

import (
	"sort"
	"strings"

	"chat-sync/internal/apperror"
	"chat-sync/internal/model"
)

// Direction 分頁方向
type Direction int

const (
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// SortOrder MongoDB 排序值
func (d Direction) SortOrder() int {
	if d == Ascending {
		return 1
	}
	return -1
}

// ParseDirection 解析方向，空字串為 Descending
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	}
	return Descending, apperror.Validation("invalid direction %q", s)
}

// Query 單一頻道的分頁查詢
type Query struct {
	ChannelID string
	Direction Direction
	Cursor    *int64 // 不含游標本身
	Limit     int
}

// Normalize 套用預設與上限
func (q Query) Normalize(defaultLimit, maxLimit int) Query {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return q
}

// After 訊息是否位於游標之後（依方向）
func (q Query) After(messageID int64) bool {
	if q.Cursor == nil {
		return true
	}
	if q.Direction == Ascending {
		return messageID > *q.Cursor
	}
	return messageID < *q.Cursor
}

// Page 在記憶體中的訊息序列上套用分頁規則
func Page(msgs []*model.Message, q Query) []*model.Message {
	sorted := make([]*model.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ChannelID == q.ChannelID && q.After(m.MessageID) {
			sorted = append(sorted, m)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if q.Direction == Ascending {
			return sorted[i].MessageID < sorted[j].MessageID
		}
		return sorted[i].MessageID > sorted[j].MessageID
	})

	if q.Limit > 0 && len(sorted) > q.Limit {
		sorted = sorted[:q.Limit]
	}
	return sorted
}

// Cursor 取得指標形式的游標
func Cursor(messageID int64) *int64 {
	return &messageID
}
