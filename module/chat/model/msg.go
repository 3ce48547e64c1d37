package model

import "time"

const MsgTableName = "message" // 集合名

// Status 只允许 sent -> read 单向流转，且只按 (sender, receiver) 成批翻转。
const (
	StatusSent = "sent"
	StatusRead = "read"
)

// Message 一条私聊消息。MsgID 在落库时由存储层分配（雪花），同进程内单调递增。
type Message struct {
	MsgID      int64     `bson:"msg_id" json:"id"`
	SenderID   int64     `bson:"sender_id" json:"senderId"`
	ReceiverID int64     `bson:"receiver_id" json:"receiverId"`
	Text       string    `bson:"text" json:"text"`
	Status     string    `bson:"status" json:"status"`
	CreateTime time.Time `bson:"create_time" json:"createdAt"`
}

func (*Message) TableName() string { return MsgTableName }

// SenderCount 未读聚合结果：某个发送者名下未读条数。
type SenderCount struct {
	SenderID int64 `bson:"_id"`
	Count    int64 `bson:"count"`
}
