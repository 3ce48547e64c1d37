package message

import (
	"context"
	"testing"

	chatmodel "MsgApp/module/chat/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insert(t *testing.T, s Store, from, to int64, text string) *chatmodel.Message {
	t.Helper()
	m := &chatmodel.Message{SenderID: from, ReceiverID: to, Text: text}
	require.NoError(t, s.Insert(context.Background(), m))
	return m
}

func TestInsertAssignsMonotonicIDs(t *testing.T) {
	s := NewMemStore()
	a := insert(t, s, 1, 2, "a")
	b := insert(t, s, 1, 2, "b")
	c := insert(t, s, 2, 1, "c")

	assert.Less(t, a.MsgID, b.MsgID)
	assert.Less(t, b.MsgID, c.MsgID)
	assert.Equal(t, chatmodel.StatusSent, a.Status)
}

// markRead 只动 (sender, receiver) 这一个方向。
func TestMarkReadDirectionIsolation(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	insert(t, s, 1, 2, "to bob")
	insert(t, s, 2, 1, "to alice")

	require.NoError(t, s.MarkRead(ctx, 1, 2))

	bobCounts, err := s.CountUnreadBySender(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, bobCounts)

	aliceCounts, err := s.CountUnreadBySender(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{2: 1}, aliceCounts)
}

func TestCountGroupsBySender(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	insert(t, s, 1, 9, "x")
	insert(t, s, 1, 9, "y")
	insert(t, s, 2, 9, "z")
	insert(t, s, 3, 8, "other receiver")

	counts, err := s.CountUnreadBySender(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 2, 2: 1}, counts)
}

// 会话列表与读者视角无关：两个方向都在，升序。
func TestListConversationBothDirections(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	m1 := insert(t, s, 1, 2, "hello")
	m2 := insert(t, s, 2, 1, "hey")
	insert(t, s, 1, 3, "unrelated")

	msgs, err := s.ListConversation(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, m1.MsgID, msgs[0].MsgID)
	assert.Equal(t, m2.MsgID, msgs[1].MsgID)
}
