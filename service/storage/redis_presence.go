package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis 只是 presence 的对外镜像（其他服务查在线用），
// 权威状态在进程内的 Registry。镜像写失败由调用方记日志后吞掉。

type Config struct {
	Addr     string
	Password string
	DB       int
}

var (
	rdb *redis.Client
	ctx = context.Background()
)

func InitRedis(c Config) error {
	rdb = redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	return rdb.Ping(ctx).Err()
}

// Enabled 未配置 redis 时镜像整体关闭。
func Enabled() bool { return rdb != nil }

// presence key: im:presence:<userID>
// value: 连接句柄；TTL 控制在线有效期
func presenceKey(userID int64) string {
	return "im:presence:" + strconv.FormatInt(userID, 10)
}

// PresenceOnline sets the user as online and renews the TTL.
func PresenceOnline(userID int64, connID string, ttl time.Duration) error {
	if rdb == nil {
		return errors.New("redis not initialized")
	}
	return rdb.Set(ctx, presenceKey(userID), connID, ttl).Err()
}

// PresenceOffline actively sets the user offline (deletes the key).
func PresenceOffline(userID int64) error {
	if rdb == nil {
		return errors.New("redis not initialized")
	}
	return rdb.Del(ctx, presenceKey(userID)).Err()
}

// PresenceLookup checks whether the user is online.
func PresenceLookup(userID int64) (connID string, online bool, err error) {
	if rdb == nil {
		return "", false, errors.New("redis not initialized")
	}
	val, err := rdb.Get(ctx, presenceKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
