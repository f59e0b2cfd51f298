package database

import (
	"context"

	"chat-sync/internal/channellog"
	"chat-sync/internal/constants"
	"chat-sync/internal/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CreateMessage 作者必須是頻道成員
func (s *Store) CreateMessage(ctx context.Context, msg *model.Message) (*model.Channel, error) {
	if err := validateIDs("create message", msg.ChannelID); err != nil {
		return nil, err
	}

	var ch model.Channel
	filter := bson.M{"_id": msg.ChannelID, "user_ids": msg.UserID}
	if err := s.channels.FindOne(ctx, filter).Decode(&ch); err != nil {
		return nil, translate(err, "create message")
	}
	if err := s.insertMessages(ctx, ch.ID, msg); err != nil {
		return nil, translate(err, "create message")
	}
	return &ch, nil
}

// insertMessages 加密後寫入；傳入的訊息保留明文
func (s *Store) insertMessages(ctx context.Context, channelID string, msgs ...*model.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		if m.ID == "" {
			m.ID = newID()
		}
		m.ChannelID = channelID
		sealed, err := s.cipher.Seal(channelID, m.Content)
		if err != nil {
			return errors.Wrap(err, "seal message content")
		}
		stored := *m
		stored.Content = sealed
		docs = append(docs, &stored)
	}
	_, err := s.messages.InsertMany(ctx, docs)
	return err
}

// PageMessages 游標分頁，不含游標本身；上限由呼叫端依設定決定
func (s *Store) PageMessages(ctx context.Context, q channellog.Query) ([]*model.Message, error) {
	if err := validateIDs("page messages", q.ChannelID); err != nil {
		return nil, err
	}
	q = q.Normalize(constants.DefaultPageSize, 0)

	filter := bson.M{"channel_id": q.ChannelID}
	if q.Cursor != nil {
		op := "$lt"
		if q.Direction == channellog.Ascending {
			op = "$gt"
		}
		filter["message_id"] = bson.M{op: *q.Cursor}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "message_id", Value: q.Direction.SortOrder()}}).
		SetLimit(int64(q.Limit))
	return s.findMessages(ctx, "page messages", filter, opts)
}

// RecentMessages 每個頻道最新的 limit 筆
func (s *Store) RecentMessages(ctx context.Context, channelIDs []string, limit int) (map[string][]*model.Message, error) {
	if limit <= 0 {
		limit = constants.DefaultUnreadWindow
	}
	out := make(map[string][]*model.Message, len(channelIDs))
	for _, id := range channelIDs {
		opts := options.Find().
			SetSort(bson.D{{Key: "message_id", Value: -1}}).
			SetLimit(int64(limit))
		msgs, err := s.findMessages(ctx, "recent messages", bson.M{"channel_id": id}, opts)
		if err != nil {
			return nil, err
		}
		out[id] = msgs
	}
	return out, nil
}

// FirstMessageIDs 每個頻道最早一則訊息的 ID
func (s *Store) FirstMessageIDs(ctx context.Context, channelIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(channelIDs))
	opts := options.FindOne().
		SetSort(bson.D{{Key: "message_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1})
	for _, id := range channelIDs {
		var doc struct {
			ID string `bson:"_id"`
		}
		err := s.messages.FindOne(ctx, bson.M{"channel_id": id}, opts).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, translate(err, "first message")
		}
		out[id] = doc.ID
	}
	return out, nil
}

// MaxMessageID 已落地的最大 message_id，沒有任何訊息時 ok 為 false
func (s *Store) MaxMessageID(ctx context.Context) (int64, bool, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "message_id", Value: -1}}).
		SetProjection(bson.M{"message_id": 1})
	var doc struct {
		MessageID int64 `bson:"message_id"`
	}
	err := s.messages.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, translate(err, "max message id")
	}
	return doc.MessageID, true, nil
}

func (s *Store) findMessages(ctx context.Context, op string, filter bson.M, opts *options.FindOptionsBuilder) ([]*model.Message, error) {
	cur, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, op)
	}
	defer cur.Close(ctx)

	msgs := []*model.Message{}
	for cur.Next(ctx) {
		var m model.Message
		if err := cur.Decode(&m); err != nil {
			return nil, translate(err, "decode message")
		}
		if err := s.open(&m); err != nil {
			return nil, err
		}
		msgs = append(msgs, &m)
	}
	return msgs, translate(cur.Err(), op)
}

func (s *Store) open(m *model.Message) error {
	content, err := s.cipher.Open(m.ChannelID, m.Content)
	if err != nil {
		return translate(errors.Wrap(err, "open message content"), "decode message")
	}
	m.Content = content
	return nil
}
