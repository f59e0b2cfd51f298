package database

import (
	"context"

	"chat-sync/internal/platform/logger"
	"chat-sync/internal/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	usersCollection          = "users"
	channelsCollection       = "channels"
	messagesCollection       = "messages"
	friendRequestsCollection = "friend_requests"
)

// ContentCipher 訊息內容落地加解密
type ContentCipher interface {
	Seal(channelID, content string) (string, error)
	Open(channelID, stored string) (string, error)
}

type plainCipher struct{}

func (plainCipher) Seal(_, content string) (string, error) { return content, nil }
func (plainCipher) Open(_, stored string) (string, error)  { return stored, nil }

var _ storage.Store = (*Store)(nil)

// Store MongoDB 實作的聊天資料存取
type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	channels *mongo.Collection
	messages *mongo.Collection
	requests *mongo.Collection
	cipher   ContentCipher
}

// NewStore 創建 Store，cipher 為 nil 時不加密
func NewStore(db *mongo.Database, cipher ContentCipher) *Store {
	if cipher == nil {
		cipher = plainCipher{}
	}
	return &Store{
		client:   db.Client(),
		users:    db.Collection(usersCollection),
		channels: db.Collection(channelsCollection),
		messages: db.Collection(messagesCollection),
		requests: db.Collection(friendRequestsCollection),
		cipher:   cipher,
	}
}

// NewRepositories 建立索引後回傳 Store；唯一索引是約束檢查的基礎，失敗時不可啟動
func NewRepositories(ctx context.Context, db *mongo.Database, cipher ContentCipher) (*Store, error) {
	if err := CreateIndexes(ctx, db); err != nil {
		return nil, err
	}
	logger.Info(ctx, "MongoDB 索引建立完成", logger.WithAction("create_indexes"))
	return NewStore(db, cipher), nil
}

// withTransaction 在單一交易中執行 fn
func (s *Store) withTransaction(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return translate(err, op)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fn(ctx)
	})
	return translate(err, op)
}

func newID() string {
	return bson.NewObjectID().Hex()
}
