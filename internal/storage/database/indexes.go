package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// 唯一索引名稱，衝突時用來判斷是哪一個約束
const (
	usernameIndex  = "username_unique"
	dmIDIndex      = "dm_id_unique"
	messageIDIndex = "message_id_unique"
)

// CreateIndexes 創建數據庫索引
func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName(usernameIndex).SetUnique(true),
			},
		},
		channelsCollection: {
			// 群組的 dm_id 為 <createdAt>_<ulid>，因此對所有頻道都唯一
			{
				Keys:    bson.D{{Key: "dm_id", Value: 1}},
				Options: options.Index().SetName(dmIDIndex).SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "user_ids", Value: 1}},
				Options: options.Index().SetName("members_idx"),
			},
		},
		messagesCollection: {
			{
				Keys:    bson.D{{Key: "channel_id", Value: 1}, {Key: "message_id", Value: -1}},
				Options: options.Index().SetName("channel_message_idx"),
			},
			{
				Keys:    bson.D{{Key: "message_id", Value: -1}},
				Options: options.Index().SetName(messageIDIndex).SetUnique(true),
			},
		},
		friendRequestsCollection: {
			{
				Keys:    bson.D{{Key: "sender_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("sender_idx"),
			},
			{
				Keys:    bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("receiver_idx"),
			},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "create indexes on %s", name)
		}
	}
	return nil
}
