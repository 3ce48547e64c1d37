package chat

import (
	"sync"
)

// Registry 在线连接登记表。两个方向的索引必须一起变，
// 所以共用一把锁，别拆成两把。
//
//	byConn: 连接句柄 -> *Conn（句柄侧，永远登记）
//	byUser: 用户ID   -> *Conn（寻址侧，身份解析成功才登记）
//
// 同一用户后握手的连接覆盖先前的寻址（last wins）；被顶掉的
// 会话继续挂在 byConn 里读写，只是收不到定向推送。
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]*Conn
	byUser map[int64]*Conn
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*Conn),
		byUser: make(map[int64]*Conn),
	}
}

// add 登记一条连接。c.UserID == 0 表示身份没解析出来，只进句柄索引。
func (r *Registry) add(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConn[c.ID] = c
	if c.UserID != 0 {
		r.byUser[c.UserID] = c
	}
}

// remove 两个索引一起摘。寻址侧只有仍指向本连接时才摘——
// 被新连接顶掉后，旧连接断开不能误伤新登记。
func (r *Registry) remove(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byConn, c.ID)
	if c.UserID != 0 {
		if cur, ok := r.byUser[c.UserID]; ok && cur == c {
			delete(r.byUser, c.UserID)
		}
	}
}

// Resolve 纯查询：该用户当前可寻址的连接，没有返回 nil。
func (r *Registry) Resolve(userID int64) *Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byUser[userID]
}

// lookup 按句柄取连接。
func (r *Registry) lookup(connID string) *Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byConn[connID]
}

// snapshot 全部在线连接（广播用），持锁期间只拷指针。
func (r *Registry) snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Conn, 0, len(r.byConn))
	for _, c := range r.byConn {
		out = append(out, c)
	}
	return out
}

func (r *Registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
