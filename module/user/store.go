package user

import (
	"context"
	"sort"
	"sync"

	usermodel "MsgApp/module/user/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store 身份只读视图。查不到一律返回 (nil, nil)，
// 缺失用 miss 表达而不是错误（调用方据此降级）。
type Store interface {
	FindByEmail(ctx context.Context, email string) (*usermodel.User, error)
	FindByID(ctx context.Context, id int64) (*usermodel.User, error)
	ListAll(ctx context.Context) ([]*usermodel.User, error)
}

// ===== Mongo 实现 =====

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	u := usermodel.User{}
	return &MongoStore{coll: db.Collection(u.GetTableName())}
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	var out usermodel.User
	err := s.coll.FindOne(ctx, bson.M{"email": email, "is_deleted": bson.M{"$ne": true}}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id int64) (*usermodel.User, error) {
	var out usermodel.User
	err := s.coll.FindOne(ctx, bson.M{"user_id": id, "is_deleted": bson.M{"$ne": true}}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MongoStore) ListAll(ctx context.Context) ([]*usermodel.User, error) {
	cur, err := s.coll.Find(ctx,
		bson.M{"is_deleted": bson.M{"$ne": true}},
		options.Find().SetSort(bson.D{{Key: "user_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*usermodel.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ===== 内存实现（单测 / 本地联调） =====

type MemStore struct {
	mu      sync.RWMutex
	byID    map[int64]*usermodel.User
	byEmail map[string]*usermodel.User
}

func NewMemStore(users ...*usermodel.User) *MemStore {
	s := &MemStore{
		byID:    make(map[int64]*usermodel.User),
		byEmail: make(map[string]*usermodel.User),
	}
	for _, u := range users {
		s.Put(u)
	}
	return s
}

func (s *MemStore) Put(u *usermodel.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.byID[cp.UserID] = &cp
	s.byEmail[cp.Email] = &cp
}

func (s *MemStore) FindByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) FindByID(ctx context.Context, id int64) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) ListAll(ctx context.Context) ([]*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*usermodel.User, 0, len(s.byID))
	for _, u := range s.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
