package config

import (
	"os"
	"strconv"
	"time"
)

const NodeTypeChatNode = "chatNode" // 单进程即单节点

// AppConfig 进程级配置。字段全部有默认值，环境变量可覆盖（Load）。
type AppConfig struct {
	NodeType string
	NodeId   int64 // 雪花节点号（0~1023）

	HTTPAddr string // gin 监听地址

	MongoURI      string
	MongoDatabase string

	RedisAddr     string // 为空则禁用 presence 镜像
	RedisPassword string
	RedisDB       int

	JwtSecret []byte

	PresenceTTL time.Duration // redis presence key 的续期TTL
}

var Global = AppConfig{
	NodeType:      NodeTypeChatNode,
	NodeId:        100,
	HTTPAddr:      ":8080",
	MongoURI:      "mongodb://localhost:27017",
	MongoDatabase: "msgapp",
	RedisAddr:     "",
	RedisDB:       0,
	JwtSecret:     []byte("mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3Hp5Z8q9Rj1o="),
	PresenceTTL:   2 * time.Minute,
}

// Load 用环境变量覆盖默认配置。
func Load() *AppConfig {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		Global.HTTPAddr = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		Global.MongoURI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		Global.MongoDatabase = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		Global.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		Global.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			Global.RedisDB = n
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		Global.JwtSecret = []byte(v)
	}
	if v := os.Getenv("NODE_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			Global.NodeId = n
		}
	}
	return &Global
}

func GetJwtSecret() []byte { return Global.JwtSecret }
