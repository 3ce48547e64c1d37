package message

import (
	"context"
	"time"

	chatmodel "MsgApp/module/chat/model"
	"MsgApp/tools/ids"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	m := chatmodel.Message{}
	return &MongoStore{coll: db.Collection(m.TableName())}
}

func (s *MongoStore) Insert(ctx context.Context, m *chatmodel.Message) error {
	m.MsgID = ids.Generate()
	m.Status = chatmodel.StatusSent
	if m.CreateTime.IsZero() {
		m.CreateTime = time.Now()
	}
	_, err := s.coll.InsertOne(ctx, m)
	return err
}

func (s *MongoStore) ListConversation(ctx context.Context, a, b int64) ([]*chatmodel.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}}
	cur, err := s.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "msg_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*chatmodel.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) CountUnreadBySender(ctx context.Context, receiver int64) (map[int64]int64, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"receiver_id": receiver,
			"status":      chatmodel.StatusSent,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$sender_id",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []chatmodel.SenderCount
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[int64]int64, len(rows))
	for _, r := range rows {
		out[r.SenderID] = r.Count
	}
	return out, nil
}

func (s *MongoStore) MarkRead(ctx context.Context, sender, receiver int64) error {
	// 单条 UpdateMany，无需事务；反方向的消息不受影响
	_, err := s.coll.UpdateMany(ctx,
		bson.M{
			"sender_id":   sender,
			"receiver_id": receiver,
			"status":      chatmodel.StatusSent,
		},
		bson.M{"$set": bson.M{"status": chatmodel.StatusRead}},
	)
	return err
}
