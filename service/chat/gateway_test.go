package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	chatmsg "MsgApp/module/chat/message"
	chatmodel "MsgApp/module/chat/model"
	"MsgApp/module/user"
	usermodel "MsgApp/module/user/model"
	"MsgApp/tools/ids"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSink 捕获写到连接上的帧，ping 之类的控制帧忽略。
type memSink struct {
	mu     sync.Mutex
	frames []Frame
}

func (s *memSink) WriteMessage(mt int, data []byte) error {
	if mt != websocket.TextMessage {
		return nil
	}
	f, err := ParseFrame(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.frames = append(s.frames, *f)
	s.mu.Unlock()
	return nil
}

func (s *memSink) Close() error { return nil }

func (s *memSink) count(event string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, f := range s.frames {
		if f.Event == event {
			n++
		}
	}
	return n
}

func (s *memSink) lastMessage(t *testing.T) *chatmodel.Message {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Event == EvNewMessage {
			var m chatmodel.Message
			require.NoError(t, json.Unmarshal(s.frames[i].Data, &m))
			return &m
		}
	}
	return nil
}

func newTestGateway() *Gateway {
	users := user.NewMemStore(
		&usermodel.User{UserID: 1, Email: "alice@example.com", Nickname: "Alice"},
		&usermodel.User{UserID: 2, Email: "bob@example.com", Nickname: "Bob"},
	)
	return NewGateway(users, chatmsg.NewMemStore(), time.Minute)
}

func connect(g *Gateway, email string) (*Conn, *memSink) {
	sink := &memSink{}
	c := newConn(ids.GenerateString(), email, sink)
	go c.writePump()
	g.onConnect(context.Background(), c)
	return c, sink
}

func waitFrames(t *testing.T, sink *memSink, event string, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return sink.count(event) >= want },
		time.Second, 5*time.Millisecond, "expected %d %s frames, got %d", want, event, sink.count(event))
}

func TestConnectAnnouncesPresenceAndRoster(t *testing.T) {
	g := newTestGateway()

	_, aliceSink := connect(g, "alice@example.com")
	waitFrames(t, aliceSink, EvUserConnected, 1)
	waitFrames(t, aliceSink, EvUsers, 1)

	// 第二人上线：双方都收到通知和新花名册
	_, bobSink := connect(g, "bob@example.com")
	waitFrames(t, aliceSink, EvUserConnected, 2)
	waitFrames(t, bobSink, EvUsers, 1)

	assert.NotNil(t, g.Registry().Resolve(1))
	assert.NotNil(t, g.Registry().Resolve(2))
}

func TestUnknownHandshakeIdentityTolerated(t *testing.T) {
	g := newTestGateway()

	c, sink := connect(g, "ghost@example.com")
	assert.Zero(t, c.UserID)
	// 连接照常收广播
	waitFrames(t, sink, EvUsers, 1)

	// 对未知身份不发 userConnected 以外的定向帧；断开也不炸
	g.onDisconnect(context.Background(), c)
	assert.Equal(t, 0, g.Registry().size())
}

func TestSendDeliversToBothEnds(t *testing.T) {
	g := newTestGateway()
	_, aliceSink := connect(g, "alice@example.com")
	_, bobSink := connect(g, "bob@example.com")

	m, err := g.Delivery().Send(context.Background(), 1, 2, "hi")
	require.NoError(t, err)

	waitFrames(t, bobSink, EvNewMessage, 1)
	waitFrames(t, aliceSink, EvNewMessage, 1)

	got := bobSink.lastMessage(t)
	require.NotNil(t, got)
	assert.Equal(t, m.MsgID, got.MsgID)
	assert.Equal(t, chatmodel.StatusSent, got.Status)
	assert.Equal(t, "hi", got.Text)

	echo := aliceSink.lastMessage(t)
	require.NotNil(t, echo)
	assert.Equal(t, m.MsgID, echo.MsgID)
}

func TestSendToOfflineReceiverStillPersists(t *testing.T) {
	g := newTestGateway()
	ctx := context.Background()
	_, aliceSink := connect(g, "alice@example.com")
	bobConn, bobSink := connect(g, "bob@example.com")

	g.onDisconnect(ctx, bobConn)
	require.Nil(t, g.Registry().Resolve(2))
	before := bobSink.count(EvNewMessage)

	m, err := g.Delivery().Send(ctx, 1, 2, "are you there?")
	require.NoError(t, err)
	require.NotZero(t, m.MsgID)

	// 发方照样拿到回显
	waitFrames(t, aliceSink, EvNewMessage, 1)
	// 收方下线，静默降级；消息留在日志里等下次拉取
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, bobSink.count(EvNewMessage))

	msgs, err := g.Delivery().GetConversation(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	counts, err := g.Delivery().UnreadCounts(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1}, counts)
}

// 页面刷新场景：同一身份两次快速握手，推送只走最新连接。
func TestRapidReconnectRoutesToNewestConn(t *testing.T) {
	g := newTestGateway()
	ctx := context.Background()
	_, _ = connect(g, "alice@example.com")

	bob1, bob1Sink := connect(g, "bob@example.com")
	bob2, bob2Sink := connect(g, "bob@example.com")

	require.Same(t, bob2, g.Registry().Resolve(2))

	_, err := g.Delivery().Send(ctx, 1, 2, "ping")
	require.NoError(t, err)

	waitFrames(t, bob2Sink, EvNewMessage, 1)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, bob1Sink.count(EvNewMessage))

	// 旧会话姗姗来迟的断开不影响新会话的可寻址性
	g.onDisconnect(ctx, bob1)
	require.Same(t, bob2, g.Registry().Resolve(2))
}

func TestDisconnectAnnounces(t *testing.T) {
	g := newTestGateway()
	ctx := context.Background()
	_, aliceSink := connect(g, "alice@example.com")
	bobConn, _ := connect(g, "bob@example.com")

	g.onDisconnect(ctx, bobConn)
	waitFrames(t, aliceSink, EvUserDisconnected, 1)
	assert.Nil(t, g.Registry().Resolve(2))
}
