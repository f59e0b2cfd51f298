package database

import (
	"context"

	"chat-sync/internal/model"
	"chat-sync/internal/storage"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CreateFriendRequest 創建好友邀請
func (s *Store) CreateFriendRequest(ctx context.Context, req *model.FriendRequest) error {
	if req.ID == "" {
		req.ID = newID()
	}
	_, err := s.requests.InsertOne(ctx, req)
	return translate(err, "create friend request")
}

// FriendRequestsOf 寄出與收到的邀請
func (s *Store) FriendRequestsOf(ctx context.Context, uid string) ([]*model.FriendRequest, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": uid},
		bson.M{"receiver_id": uid},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.requests.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, "list friend requests")
	}
	defer cur.Close(ctx)

	var out []*model.FriendRequest
	for cur.Next(ctx) {
		var r model.FriendRequest
		if err := cur.Decode(&r); err != nil {
			return nil, translate(err, "decode friend request")
		}
		out = append(out, &r)
	}
	return out, translate(cur.Err(), "list friend requests")
}

// UpdateFriendRequest 只更新尚未結束、且由接收者操作的邀請
func (s *Store) UpdateFriendRequest(ctx context.Context, id, receiverID string, status model.FriendRequestStatus) (*model.FriendRequest, error) {
	if err := validateIDs("update friend request", id); err != nil {
		return nil, err
	}
	filter := bson.M{"_id": id, "receiver_id": receiverID, "finished": false}
	update := bson.M{"$set": bson.M{"status": status, "finished": status.Terminal()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var r model.FriendRequest
	if err := s.requests.FindOneAndUpdate(ctx, filter, update, opts).Decode(&r); err != nil {
		return nil, translate(err, "update friend request")
	}
	return &r, nil
}

// AcceptFriendRequest 邀請狀態、雙向好友與私訊頻道在同一交易內完成
func (s *Store) AcceptFriendRequest(ctx context.Context, in storage.AcceptInput) (*storage.AcceptResult, error) {
	if err := validateIDs("accept friend request", in.RequestID); err != nil {
		return nil, err
	}

	var res *storage.AcceptResult
	err := s.withTransaction(ctx, "accept friend request", func(ctx context.Context) error {
		// 交易可能重試，每次都重新組裝結果
		res = &storage.AcceptResult{}

		var req model.FriendRequest
		filter := bson.M{"_id": in.RequestID, "receiver_id": in.ReceiverID, "finished": false}
		update := bson.M{"$set": bson.M{"status": model.FriendRequestAccepted, "finished": true}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		if err := s.requests.FindOneAndUpdate(ctx, filter, update, opts).Decode(&req); err != nil {
			return err
		}
		res.Request = &req

		edges := []struct {
			uid, field, other string
		}{
			{req.ReceiverID, "friend_of_ids", req.SenderID},
			{req.SenderID, "friend_ids", req.ReceiverID},
		}
		for _, e := range edges {
			r, err := s.users.UpdateOne(ctx, bson.M{"_id": e.uid}, bson.M{"$addToSet": bson.M{e.field: e.other}})
			if err != nil {
				return err
			}
			if err := requireMatched(r, "accept friend request"); err != nil {
				return err
			}
		}

		ch, msgs, err := s.acceptDM(ctx, &req, in)
		if err != nil {
			return err
		}
		res.Channel = ch
		res.Messages = msgs

		var receiver, sender model.User
		if err := s.users.FindOne(ctx, bson.M{"_id": req.ReceiverID}).Decode(&receiver); err != nil {
			return err
		}
		if err := s.users.FindOne(ctx, bson.M{"_id": req.SenderID}).Decode(&sender); err != nil {
			return err
		}
		res.Receiver = &receiver
		res.Sender = &sender
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// acceptDM 找到或建立雙方的私訊頻道，並寫入 AddFriend 訊息
func (s *Store) acceptDM(ctx context.Context, req *model.FriendRequest, in storage.AcceptInput) (*model.Channel, []*model.Message, error) {
	dmID := model.DMKey(req.SenderID, req.ReceiverID)
	addFriend := &model.Message{
		MessageID: in.AddFriendMessageID,
		UserID:    req.ReceiverID,
		Kind:      model.MessageAddFriend,
		CreatedAt: in.CreatedAt,
	}

	var ch model.Channel
	err := s.channels.FindOne(ctx, bson.M{"dm_id": dmID}).Decode(&ch)
	switch {
	case err == nil:
		if err := s.insertMessages(ctx, ch.ID, addFriend); err != nil {
			return nil, nil, err
		}
		return &ch, []*model.Message{addFriend}, nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, nil, err
	}

	ch = model.Channel{
		Kind:      model.ChannelDirectMessage,
		DMID:      dmID,
		UserIDs:   []string{req.SenderID, req.ReceiverID},
		CreatedAt: in.CreatedAt,
	}
	prepareChannel(&ch)
	if _, err := s.channels.InsertOne(ctx, &ch); err != nil {
		return nil, nil, err
	}
	start := &model.Message{
		MessageID: in.StartMessageID,
		UserID:    req.ReceiverID,
		Kind:      model.MessageChannelStart,
		CreatedAt: in.CreatedAt,
	}
	msgs := []*model.Message{start, addFriend}
	if err := s.insertMessages(ctx, ch.ID, msgs...); err != nil {
		return nil, nil, err
	}
	return &ch, msgs, nil
}
