package database

import (
	"context"

	"chat-sync/internal/apperror"
	"chat-sync/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CreateUser 創建使用者，username 重複時回傳 Constraint
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	// $addToSet 不能作用在 null 欄位
	if u.FriendIDs == nil {
		u.FriendIDs = []string{}
	}
	if u.FriendOfIDs == nil {
		u.FriendOfIDs = []string{}
	}

	_, err := s.users.InsertOne(ctx, u)
	return translate(err, "create user")
}

// GetUser 根據 ID 獲取使用者
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := validateIDs("get user", id); err != nil {
		return nil, err
	}
	var u model.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, translate(err, "get user")
	}
	return &u, nil
}

// GetUserByUsername 根據 username 獲取使用者
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		return nil, translate(err, "get user by username")
	}
	return &u, nil
}

// GetUsers 批次獲取使用者，不存在的 ID 會被略過
func (s *Store) GetUsers(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate(err, "get users")
	}
	defer cur.Close(ctx)

	var users []*model.User
	for cur.Next(ctx) {
		var u model.User
		if err := cur.Decode(&u); err != nil {
			return nil, translate(err, "decode user")
		}
		users = append(users, &u)
	}
	return users, translate(cur.Err(), "get users")
}

// UpdateBio 更新自我介紹
func (s *Store) UpdateBio(ctx context.Context, uid, bio string) (*model.User, error) {
	return s.setUserField(ctx, uid, "bio", bio)
}

// UpdateNickname 更新暱稱
func (s *Store) UpdateNickname(ctx context.Context, uid, nickname string) (*model.User, error) {
	return s.setUserField(ctx, uid, "nickname", nickname)
}

func (s *Store) setUserField(ctx context.Context, uid, field, value string) (*model.User, error) {
	op := "update " + field
	if err := validateIDs(op, uid); err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u model.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{field: value}}, opts).Decode(&u)
	if err != nil {
		return nil, translate(err, op)
	}
	return &u, nil
}

// DeleteFriend 移除兩個方向的好友關係
func (s *Store) DeleteFriend(ctx context.Context, uid, friendID string) (*model.User, *model.User, error) {
	if err := validateIDs("delete friend", uid, friendID); err != nil {
		return nil, nil, err
	}

	var self, friend model.User
	err := s.withTransaction(ctx, "delete friend", func(ctx context.Context) error {
		for _, pair := range [][2]string{{uid, friendID}, {friendID, uid}} {
			res, err := s.users.UpdateOne(ctx,
				bson.M{"_id": pair[0]},
				bson.M{"$pull": bson.M{"friend_ids": pair[1], "friend_of_ids": pair[1]}},
			)
			if err != nil {
				return err
			}
			if err := requireMatched(res, "delete friend"); err != nil {
				return err
			}
		}
		if err := s.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&self); err != nil {
			return err
		}
		return s.users.FindOne(ctx, bson.M{"_id": friendID}).Decode(&friend)
	})
	if err != nil {
		return nil, nil, err
	}
	return &self, &friend, nil
}

// requireMatched 條件更新沒有命中時回傳 NotFound
func requireMatched(res *mongo.UpdateResult, op string) error {
	if res.MatchedCount == 0 {
		return apperror.NotFound("%s: not found", op)
	}
	return nil
}
