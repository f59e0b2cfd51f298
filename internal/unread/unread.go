package unread

import "chat-sync/internal/model"

// Result 單一頻道的未讀計算結果
type Result struct {
	// Count 未讀數；Capped 為 true 時代表「至少」這麼多
	Count int
	// ReadMessageID 有效的已讀位置，沒有任何邊界時為 nil
	ReadMessageID *int64
	Capped        bool
}

// View 轉為推送用的結構
func (r Result) View() model.ChannelUnread {
	return model.ChannelUnread{Count: r.Count, ReadMessageID: r.ReadMessageID, Capped: r.Capped}
}

// Reconcile 依最近訊息（新到舊）與客戶端回報的已讀位置計算未讀數。
// window 為查詢時使用的上限，0 表示 recent 已是完整紀錄。
// 自己發送的訊息與已讀標記取較新者為邊界，兩者位置相同時以已讀標記為準。
func Reconcile(uid string, recent []*model.Message, localRead *int64, window int) Result {
	fetched := len(recent)
	msgs := recent
	// 開始標記在視窗內代表已取得完整紀錄
	complete := false
	if n := len(msgs); n > 0 && msgs[n-1].Kind == model.MessageChannelStart {
		msgs = msgs[:n-1]
		complete = true
	}

	readIdx := -1
	if localRead != nil {
		for i, m := range msgs {
			if m.MessageID == *localRead {
				readIdx = i
				break
			}
		}
	}

	sendIdx := -1
	for i, m := range msgs {
		if m.UserID == uid {
			sendIdx = i
			break
		}
	}

	afterSend := len(msgs)
	if sendIdx >= 0 {
		afterSend = sendIdx
	}
	afterRead := len(msgs)
	if readIdx >= 0 {
		afterRead = readIdx
	}

	res := Result{Count: min(afterSend, afterRead)}
	// 不在視窗內的已讀標記無法驗證，不回傳
	switch {
	case afterSend < afterRead:
		id := msgs[sendIdx].MessageID
		res.ReadMessageID = &id
	case readIdx >= 0:
		id := msgs[readIdx].MessageID
		res.ReadMessageID = &id
	}

	if !complete && sendIdx < 0 && readIdx < 0 && window > 0 && fetched >= window {
		res.Capped = true
	}
	return res
}

// ReconcileAll 對多個頻道計算未讀數，localReads 以頻道 ID 為鍵
func ReconcileAll(uid string, recent map[string][]*model.Message, localReads map[string]int64, window int) map[string]Result {
	out := make(map[string]Result, len(recent))
	for channelID, msgs := range recent {
		var marker *int64
		if v, ok := localReads[channelID]; ok {
			marker = &v
		}
		out[channelID] = Reconcile(uid, msgs, marker, window)
	}
	return out
}
