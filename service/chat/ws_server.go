package chat

import (
	"context"
	"net"
	"net/http"
	"time"

	"MsgApp/logger"
	"MsgApp/tools/decode"
	"MsgApp/tools/ids"
	"MsgApp/tools/safe"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS ===== WebSocket 入口 =====
//
// 握手：ws://host/chat?user=<email>。email 是会话可寻址的前提，
// 不带或查不到也放行（只收广播）。
func (g *Gateway) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// 常见：非 WebSocket 请求/握手失败
		logger.Infof("[HandleWS] upgrade websocket error: %v", err)
		return
	}

	conn := newConn(ids.GenerateString(), c.Query("user"), ws)

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	safe.SafeGo(conn.writePump)
	g.onConnect(c.Request.Context(), conn)
	defer g.onDisconnect(context.Background(), conn)

	// ---- 读循环：只读不写；出错即退出（写协程收尾） ----
	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[WS] peer closed conn=%s err=%v", conn.ID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[WS] read timeout conn=%s err=%v", conn.ID, rerr)
			} else {
				logger.Infof("[WS] read err conn=%s err=%v", conn.ID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Warnf("[WS] ParseFrame err conn=%s err=%v sample=%q", conn.ID, perr, sample)
			continue
		}

		if frame.Event != EvSendMessage {
			logger.Debugf("[WS] ignore event=%s conn=%s", frame.Event, conn.ID)
			continue
		}
		g.handleSendFrame(c.Request.Context(), conn, frame)
	}
}

func (g *Gateway) handleSendFrame(ctx context.Context, conn *Conn, frame *Frame) {
	if conn.UserID == 0 {
		logger.Warnf("[WS] sendMessage from non-addressable session conn=%s email=%s", conn.ID, conn.Email)
		return
	}
	m, err := frame.PayloadMap()
	if err != nil {
		logger.Warnf("[WS] sendMessage payload err conn=%s: %v", conn.ID, err)
		return
	}
	p, err := decode.DecodeStruct[SendPayload](m)
	if err != nil {
		logger.Warnf("[WS] sendMessage decode err conn=%s: %v", conn.ID, err)
		return
	}

	// 发送方取会话身份，不信 payload 里带的 senderId
	if _, err := g.delivery.Send(ctx, conn.UserID, p.ReceiverID, p.Text); err != nil {
		logger.Warnf("[WS] send failed from=%d to=%d: %v", conn.UserID, p.ReceiverID, err)
	}
}
