package database

import (
	"context"

	"chat-sync/internal/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ChannelsOf 使用者所屬的頻道
func (s *Store) ChannelsOf(ctx context.Context, uid string) ([]*model.Channel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.channels.Find(ctx, bson.M{"user_ids": uid}, opts)
	if err != nil {
		return nil, translate(err, "list channels")
	}
	defer cur.Close(ctx)

	var channels []*model.Channel
	for cur.Next(ctx) {
		var c model.Channel
		if err := cur.Decode(&c); err != nil {
			return nil, translate(err, "decode channel")
		}
		channels = append(channels, &c)
	}
	return channels, translate(cur.Err(), "list channels")
}

// GetChannel 根據 ID 獲取頻道
func (s *Store) GetChannel(ctx context.Context, id string) (*model.Channel, error) {
	if err := validateIDs("get channel", id); err != nil {
		return nil, err
	}
	var c model.Channel
	if err := s.channels.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err, "get channel")
	}
	return &c, nil
}

// CreateGroupChannel 建立群組與開始訊息
func (s *Store) CreateGroupChannel(ctx context.Context, ch *model.Channel, start *model.Message) error {
	prepareChannel(ch)
	return s.withTransaction(ctx, "create group channel", func(ctx context.Context) error {
		if _, err := s.channels.InsertOne(ctx, ch); err != nil {
			return err
		}
		return s.insertMessages(ctx, ch.ID, start)
	})
}

// EnsureDMChannel 依 dm_id 取得或建立私訊頻道；並發建立時以唯一索引決定勝出者
func (s *Store) EnsureDMChannel(ctx context.Context, ch *model.Channel, start *model.Message) (*model.Channel, bool, error) {
	existing, err := s.findByDMID(ctx, ch.DMID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, translate(err, "find dm channel")
	}

	prepareChannel(ch)
	err = s.withTransaction(ctx, "create dm channel", func(ctx context.Context) error {
		if _, err := s.channels.InsertOne(ctx, ch); err != nil {
			return err
		}
		return s.insertMessages(ctx, ch.ID, start)
	})
	if err == nil {
		return ch, true, nil
	}

	// 另一個請求先建立了同一組私訊
	if existing, findErr := s.findByDMID(ctx, ch.DMID); findErr == nil {
		return existing, false, nil
	}
	return nil, false, err
}

func (s *Store) findByDMID(ctx context.Context, dmID string) (*model.Channel, error) {
	var c model.Channel
	if err := s.channels.FindOne(ctx, bson.M{"dm_id": dmID}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// AddUsersToChannel 加入成員並寫入 JoinChannel 訊息
func (s *Store) AddUsersToChannel(ctx context.Context, actorID, channelID string, uids []string, msgs []*model.Message) (*model.Channel, error) {
	if err := validateIDs("add users to channel", channelID); err != nil {
		return nil, err
	}

	var updated model.Channel
	err := s.withTransaction(ctx, "add users to channel", func(ctx context.Context) error {
		filter := bson.M{
			"_id":      channelID,
			"kind":     model.ChannelGroup,
			"user_ids": actorID,
		}
		update := bson.M{"$addToSet": bson.M{"user_ids": bson.M{"$each": uids}}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		if err := s.channels.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
			return err
		}
		return s.insertMessages(ctx, channelID, msgs...)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RenameChannel 只有仍在群組內的擁有者或管理員可以改名
func (s *Store) RenameChannel(ctx context.Context, actorID, channelID, name string) (*model.Channel, error) {
	if err := validateIDs("rename channel", channelID); err != nil {
		return nil, err
	}
	filter := bson.M{
		"_id":      channelID,
		"kind":     model.ChannelGroup,
		"user_ids": actorID,
		"$or": bson.A{
			bson.M{"owner_id": actorID},
			bson.M{"admin_ids": actorID},
		},
	}
	return s.updateChannel(ctx, "rename channel", filter, bson.M{"$set": bson.M{"name": name}})
}

// LeaveChannel 離開群組
func (s *Store) LeaveChannel(ctx context.Context, uid, channelID string) (*model.Channel, error) {
	if err := validateIDs("leave channel", channelID); err != nil {
		return nil, err
	}
	filter := bson.M{
		"_id":      channelID,
		"kind":     model.ChannelGroup,
		"user_ids": uid,
	}
	update := bson.M{"$pull": bson.M{"user_ids": uid, "admin_ids": uid}}
	return s.updateChannel(ctx, "leave channel", filter, update)
}

func (s *Store) updateChannel(ctx context.Context, op string, filter, update bson.M) (*model.Channel, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c model.Channel
	if err := s.channels.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		return nil, translate(err, op)
	}
	return &c, nil
}

// prepareChannel 補上 ID 與空陣列
func prepareChannel(ch *model.Channel) {
	if ch.ID == "" {
		ch.ID = newID()
	}
	if ch.AdminIDs == nil {
		ch.AdminIDs = []string{}
	}
	if ch.UserIDs == nil {
		ch.UserIDs = []string{}
	}
}
