package chat

import (
	"sync"
	"time"

	"MsgApp/logger"

	"github.com/gorilla/websocket"
)

const (
	sendQueueSize = 64
	writeWait     = 5 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = 50 * time.Second // 必须小于 pongWait
)

// Sink 写端最小接口；gorilla 的 *websocket.Conn 直接满足，
// 单测塞一个内存假实现进来。
type Sink interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Conn 一条传输会话。生命周期只归 Registry 管：
// 握手时创建，断开时销毁，别处不得新建。
type Conn struct {
	ID     string // 连接句柄（雪花）
	Email  string // 握手带上来的身份标识
	UserID int64  // 身份解析成功后非零；0 表示不可寻址会话

	sink Sink
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newConn(id, email string, sink Sink) *Conn {
	return &Conn{
		ID:    id,
		Email: email,
		sink:  sink,
		send:  make(chan []byte, sendQueueSize),
		done:  make(chan struct{}),
	}
}

// enqueue 非阻塞投递；慢客户端直接丢帧（presence 尽力而为）。
func (c *Conn) enqueue(data []byte) {
	select {
	case c.send <- data:
	case <-c.done:
	default:
		logger.Warnf("[conn] send queue full, drop frame conn=%s user=%d", c.ID, c.UserID)
	}
}

// writePump 独占写端。send 排空顺序即入队顺序，
// 单发送方的推送顺序由此保证。
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.sink.Close()
	}()
	for {
		select {
		case data := <-c.send:
			if ws, ok := c.sink.(*websocket.Conn); ok {
				_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			}
			if err := c.sink.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debugf("[conn] write err conn=%s: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			if ws, ok := c.sink.(*websocket.Conn); ok {
				_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			}
			if err := c.sink.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// shutdown 只负责叫停写协程；registry 条目的清理在 Gateway 里做。
func (c *Conn) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}
