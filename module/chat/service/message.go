package service

import (
	"context"
	"strings"

	errs "MsgApp/tools/errs"

	chatmodel "MsgApp/module/chat/model"
	chatmsg "MsgApp/module/chat/message"
	"MsgApp/module/user"
)

// Pusher 是投递侧对传输层的全部要求：尽力把一条已落库的消息
// 推到某个用户当前的连接上。没有连接、连接刚断，都吞掉不报。
// 真实实现在 service/chat（WebSocket 网关），单测用假实现替换。
type Pusher interface {
	PushMessage(userID int64, m *chatmodel.Message)
}

type nopPusher struct{}

func (nopPusher) PushMessage(int64, *chatmodel.Message) {}

// Delivery 私聊投递核心：校验 -> 落库 -> 在线推送（收方 + 发方回显）。
type Delivery struct {
	store  chatmsg.Store
	users  user.Store
	pusher Pusher
}

func NewDelivery(store chatmsg.Store, users user.Store, pusher Pusher) *Delivery {
	if pusher == nil {
		pusher = nopPusher{}
	}
	return &Delivery{store: store, users: users, pusher: pusher}
}

// Send 持久化并投递一条消息。落库是唯一的成功判据：
// 推送在落库之后发生，推没推到不影响返回值。
// sender == receiver 不拦（自聊允许）。
func (d *Delivery) Send(ctx context.Context, senderID, receiverID int64, text string) (*chatmodel.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.ErrEmptyText
	}

	if u, err := d.users.FindByID(ctx, senderID); err != nil {
		return nil, err
	} else if u == nil {
		return nil, errs.ErrUnknownIdentity.WithDetailf("sender=%d", senderID)
	}
	if u, err := d.users.FindByID(ctx, receiverID); err != nil {
		return nil, err
	} else if u == nil {
		return nil, errs.ErrUnknownIdentity.WithDetailf("receiver=%d", receiverID)
	}

	m := &chatmodel.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
	}
	if err := d.store.Insert(ctx, m); err != nil {
		return nil, err
	}

	// 连接归属在推送瞬间由传输层重查，这里不提前捞句柄：
	// 落库期间对端可能已经掉线/重连
	d.pusher.PushMessage(receiverID, m)
	if senderID != receiverID {
		d.pusher.PushMessage(senderID, m)
	}
	return m, nil
}

// GetConversation 返回双向会话消息，升序。
func (d *Delivery) GetConversation(ctx context.Context, a, b int64) ([]*chatmodel.Message, error) {
	return d.store.ListConversation(ctx, a, b)
}

// UnreadCounts 按发送者统计 receiver 的未读条数。
// 每次现算，不维护计数器（没有漏加/漏减的可能）。
func (d *Delivery) UnreadCounts(ctx context.Context, receiverID int64) (map[int64]int64, error) {
	return d.store.CountUnreadBySender(ctx, receiverID)
}

// MarkRead 把 sender -> receiver 方向的未读全部置已读。幂等。
func (d *Delivery) MarkRead(ctx context.Context, senderID, receiverID int64) error {
	return d.store.MarkRead(ctx, senderID, receiverID)
}
