package chat

import (
	"context"
	"time"

	"MsgApp/logger"
	chatmsg "MsgApp/module/chat/message"
	chatmodel "MsgApp/module/chat/model"
	chatservice "MsgApp/module/chat/service"
	"MsgApp/module/user"
	online "MsgApp/service/storage"
)

// Gateway 单进程网关：Registry + Hub + 投递核心捆在一起。
// 同时实现 chatservice.Pusher —— 投递层要推送时按"当下"的
// 登记表重查连接，不会拿到落库前捞的陈旧句柄。
type Gateway struct {
	reg   *Registry
	hub   *Hub
	users user.Store

	delivery *chatservice.Delivery

	presenceTTL time.Duration
}

func NewGateway(users user.Store, store chatmsg.Store, presenceTTL time.Duration) *Gateway {
	g := &Gateway{
		reg:         NewRegistry(),
		users:       users,
		presenceTTL: presenceTTL,
	}
	g.hub = NewHub(g.reg)
	g.delivery = chatservice.NewDelivery(store, users, g)
	return g
}

func (g *Gateway) Delivery() *chatservice.Delivery { return g.delivery }
func (g *Gateway) Registry() *Registry             { return g.reg }
func (g *Gateway) Hub() *Hub                       { return g.hub }

// PushMessage implements chatservice.Pusher.
// 推送瞬间才解析收端连接；没有连接就静默放弃，消息已经落库。
func (g *Gateway) PushMessage(userID int64, m *chatmodel.Message) {
	c := g.reg.Resolve(userID)
	if c == nil {
		return
	}
	c.enqueue(BuildNewMessage(m))
}

// onConnect 握手完成后的登记链路。身份解析失败不报错：
// 连接照常收广播，只是成不了定向推送的目标。
func (g *Gateway) onConnect(ctx context.Context, c *Conn) {
	if c.Email != "" {
		u, err := g.users.FindByEmail(ctx, c.Email)
		if err != nil {
			logger.Warnf("[gateway] identity lookup failed email=%s: %v", c.Email, err)
		} else if u == nil {
			logger.Infof("[gateway] unknown identity email=%s, session not addressable", c.Email)
		} else {
			c.UserID = u.UserID
		}
	}

	g.reg.add(c)
	logger.Infof("[gateway] connected conn=%s email=%s user=%d online=%d",
		c.ID, c.Email, c.UserID, g.reg.size())

	if c.UserID != 0 && online.Enabled() {
		if err := online.PresenceOnline(c.UserID, c.ID, g.presenceTTL); err != nil {
			logger.Warnf("[gateway] presence mirror online failed user=%d: %v", c.UserID, err)
		}
	}

	if c.Email != "" {
		g.hub.AnnounceConnected(c.Email)
	}
	g.broadcastRoster(ctx)
}

// onDisconnect 无条件清理登记；in-flight 的 send 照常落库。
func (g *Gateway) onDisconnect(ctx context.Context, c *Conn) {
	// 被新会话顶掉寻址的旧连接：remove 里有 cur==c 的守卫
	g.reg.remove(c)
	c.shutdown()

	if c.UserID != 0 && online.Enabled() {
		// 只有自己还是当前可寻址连接时才摘镜像
		if g.reg.Resolve(c.UserID) == nil {
			if err := online.PresenceOffline(c.UserID); err != nil {
				logger.Warnf("[gateway] presence mirror offline failed user=%d: %v", c.UserID, err)
			}
		}
	}

	if c.Email != "" {
		g.hub.AnnounceDisconnected(c.Email)
	}
	g.broadcastRoster(ctx)
	logger.Infof("[gateway] disconnected conn=%s email=%s online=%d", c.ID, c.Email, g.reg.size())
}

func (g *Gateway) broadcastRoster(ctx context.Context) {
	users, err := g.users.ListAll(ctx)
	if err != nil {
		// 花名册广播尽力而为
		logger.Warnf("[gateway] roster load failed: %v", err)
		return
	}
	g.hub.AnnounceRoster(users)
}
