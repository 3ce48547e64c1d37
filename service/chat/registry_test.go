package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSink struct{}

func (nopSink) WriteMessage(int, []byte) error { return nil }
func (nopSink) Close() error                   { return nil }

func mkConn(id string, userID int64) *Conn {
	c := newConn(id, fmt.Sprintf("u%d@example.com", userID), nopSink{})
	c.UserID = userID
	return c
}

// 两个索引必须同进同出。
func (r *Registry) checkPairConsistency(t *testing.T) {
	t.Helper()
	r.mu.RLock()
	defer r.mu.RUnlock()
	for uid, c := range r.byUser {
		got, ok := r.byConn[c.ID]
		require.True(t, ok, "user %d resolves to conn %s missing from handle index", uid, c.ID)
		require.Same(t, c, got)
		require.Equal(t, uid, c.UserID)
	}
}

func TestRegistryAddRemove(t *testing.T) {
	r := NewRegistry()
	c := mkConn("c1", 1)

	r.add(c)
	r.checkPairConsistency(t)
	assert.Same(t, c, r.Resolve(1))
	assert.Same(t, c, r.lookup("c1"))
	assert.Equal(t, 1, r.size())

	r.remove(c)
	r.checkPairConsistency(t)
	assert.Nil(t, r.Resolve(1))
	assert.Nil(t, r.lookup("c1"))
	assert.Equal(t, 0, r.size())

	// 重复 remove 无伤
	r.remove(c)
	assert.Equal(t, 0, r.size())
}

// 同一身份快速重连（页面刷新）：寻址永远指向最新句柄。
func TestRegistryLastConnectWins(t *testing.T) {
	r := NewRegistry()
	c1 := mkConn("c1", 1)
	c2 := mkConn("c2", 1)

	r.add(c1)
	r.add(c2)
	r.checkPairConsistency(t)

	assert.Same(t, c2, r.Resolve(1))
	// 旧句柄还挂在句柄索引上（传输层负责真正关它）
	assert.Same(t, c1, r.lookup("c1"))

	// 被顶掉的旧连接事后断开，不得误伤新登记
	r.remove(c1)
	r.checkPairConsistency(t)
	assert.Same(t, c2, r.Resolve(1))
	assert.Nil(t, r.lookup("c1"))

	r.remove(c2)
	assert.Nil(t, r.Resolve(1))
}

// 身份解析失败的会话：进句柄索引但不可寻址。
func TestRegistryNonAddressableSession(t *testing.T) {
	r := NewRegistry()
	c := newConn("c1", "ghost@example.com", nopSink{}) // UserID == 0

	r.add(c)
	r.checkPairConsistency(t)
	assert.Same(t, c, r.lookup("c1"))
	assert.Nil(t, r.Resolve(0))
	assert.Len(t, r.snapshot(), 1)

	r.remove(c)
	assert.Equal(t, 0, r.size())
}

func TestRegistryPairAtomicityUnderChurn(t *testing.T) {
	r := NewRegistry()

	conns := make([]*Conn, 0, 32)
	for i := 0; i < 32; i++ {
		c := mkConn(fmt.Sprintf("c%d", i), int64(i%8)+1) // 8个身份反复顶替
		conns = append(conns, c)
		r.add(c)
		r.checkPairConsistency(t)
	}
	for _, c := range conns {
		r.remove(c)
		r.checkPairConsistency(t)
	}
	assert.Equal(t, 0, r.size())
}
