package model

import (
	"time"
)

// Status
const (
	UserNormal int32 = 0
	UserBanned int32 = 1
	UserClosed int32 = 2
)

// User 用户主档。本服务只读：建档/注销归外部账号系统管。
type User struct {
	UserID   int64  `bson:"user_id" json:"id"`        // 全局唯一、不可变的用户ID（主键）
	Email    string `bson:"email" json:"email"`       // 连接握手使用的标识
	Nickname string `bson:"nickname" json:"nickname"` // 显示名
	FaceURL  string `bson:"face_url,omitempty" json:"faceUrl,omitempty"`

	Status    int32      `bson:"status,omitempty" json:"-"` // 0=正常,1=禁用,2=注销
	IsDeleted bool       `bson:"is_deleted,omitempty" json:"-"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"`

	CreateTime time.Time `bson:"create_time" json:"-"`
	UpdateTime time.Time `bson:"update_time" json:"-"`
}

func (u *User) GetTableName() string { return "user" }
