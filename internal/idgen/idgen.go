package idgen

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
)

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks chat-sync/internal/idgen MaxMessageIDSource

// MaxMessageIDSource 提供已持久化的最大訊息序號
type MaxMessageIDSource interface {
	// MaxMessageID 回傳最大序號，沒有任何訊息時 ok 為 false
	MaxMessageID(ctx context.Context) (maxID int64, ok bool, err error)
}

// Allocator 行程內單調遞增的訊息序號
type Allocator struct {
	next atomic.Int64
}

// NewAllocator 從指定起點開始配發
func NewAllocator(start int64) *Allocator {
	a := &Allocator{}
	a.next.Store(start)
	return a
}

// Seed 依持久化狀態建立 Allocator，失敗時呼叫端必須中止啟動
func Seed(ctx context.Context, src MaxMessageIDSource) (*Allocator, error) {
	maxID, ok, err := src.MaxMessageID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "seed message id allocator")
	}
	if !ok {
		return NewAllocator(0), nil
	}
	if maxID < 0 {
		return nil, errors.Errorf("seed message id allocator: invalid max message id %d", maxID)
	}
	return NewAllocator(maxID + 1), nil
}

// Next 取得下一個未使用的序號
func (a *Allocator) Next() int64 {
	return a.next.Add(1) - 1
}

// NextN 一次保留 n 個連續序號
func (a *Allocator) NextN(n int) []int64 {
	if n <= 0 {
		return nil
	}
	end := a.next.Add(int64(n))
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = end - int64(n) + int64(i)
	}
	return ids
}

// Peek 下一個將配發的序號
func (a *Allocator) Peek() int64 {
	return a.next.Load()
}
