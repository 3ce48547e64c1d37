package message

import (
	"context"

	chatmodel "MsgApp/module/chat/model"
)

// Store 消息日志。生产实现是 Mongo（mongo.go），内存实现（memory.go）给单测用。
//
// Insert 是投递链路的持久化点：返回时 MsgID/CreateTime 已经分配好，
// 后续的在线推送失败与否都不回滚这条记录。
type Store interface {
	// Insert 落库一条 status=sent 的新消息并分配 MsgID。
	Insert(ctx context.Context, m *chatmodel.Message) error

	// ListConversation 返回 a 与 b 之间（双向）的全部消息，按落库顺序升序。
	ListConversation(ctx context.Context, a, b int64) ([]*chatmodel.Message, error)

	// CountUnreadBySender 对 receiver 名下 status=sent 的消息按 sender 分组计数。
	// 计数为零的发送者不出现在结果里。
	CountUnreadBySender(ctx context.Context, receiver int64) (map[int64]int64, error)

	// MarkRead 将 (sender -> receiver) 方向上所有 sent 置为 read。
	// 幂等：没有可更新的行时静默成功。
	MarkRead(ctx context.Context, sender, receiver int64) error
}
