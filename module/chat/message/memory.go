package message

import (
	"context"
	"sync"
	"time"

	chatmodel "MsgApp/module/chat/model"
	"MsgApp/tools/ids"
)

// memStore 内存消息日志。追加序即 MsgID 序，与 Mongo 实现的排序语义一致。
type memStore struct {
	mu   sync.RWMutex
	msgs []*chatmodel.Message

	failInsert error // 单测注入：模拟存储不可用
}

func NewMemStore() *memStore {
	return &memStore{}
}

// FailInserts 让后续 Insert 固定返回 err（nil 恢复正常）。
func (s *memStore) FailInserts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failInsert = err
}

func (s *memStore) Insert(ctx context.Context, m *chatmodel.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil {
		return s.failInsert
	}
	m.MsgID = ids.Generate()
	m.Status = chatmodel.StatusSent
	if m.CreateTime.IsZero() {
		m.CreateTime = time.Now()
	}
	cp := *m
	s.msgs = append(s.msgs, &cp)
	return nil
}

func (s *memStore) ListConversation(ctx context.Context, a, b int64) ([]*chatmodel.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*chatmodel.Message
	for _, m := range s.msgs {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) CountUnreadBySender(ctx context.Context, receiver int64) (map[int64]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]int64)
	for _, m := range s.msgs {
		if m.ReceiverID == receiver && m.Status == chatmodel.StatusSent {
			out[m.SenderID]++
		}
	}
	return out, nil
}

func (s *memStore) MarkRead(ctx context.Context, sender, receiver int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.msgs {
		if m.SenderID == sender && m.ReceiverID == receiver && m.Status == chatmodel.StatusSent {
			m.Status = chatmodel.StatusRead
		}
	}
	return nil
}
