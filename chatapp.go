package main

import (
	"context"
	"log"
	"time"

	"MsgApp/data/database/mgo/mongoutil"
	gconfig "MsgApp/global/config"
	"MsgApp/logger"
	mid "MsgApp/middleware"
	chathandler "MsgApp/module/chat"
	chatmsg "MsgApp/module/chat/message"
	"MsgApp/module/user"
	"MsgApp/service/chat"
	"MsgApp/service/storage"
	"MsgApp/tools/ids"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := gconfig.Load()
	ids.SetNodeID(cfg.NodeId)

	// 1) Mongo：消息日志 + 身份只读视图
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mcli, err := mongoutil.NewMongoDB(ctx, &mongoutil.Config{
		Uri:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
	if err != nil {
		log.Fatalf("mongo init failed: %v", err)
	}
	userStore := user.NewMongoStore(mcli.GetDB())
	msgStore := chatmsg.NewMongoStore(mcli.GetDB())

	// 2) Redis presence 镜像（可选，初始化失败只降级不退出）
	if cfg.RedisAddr != "" {
		if err := storage.InitRedis(storage.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}); err != nil {
			logger.Warnf("redis init failed, presence mirror disabled: %v", err)
		}
	}

	// 3) 网关（registry + hub + 投递核心）
	gw := chat.NewGateway(userStore, msgStore, cfg.PresenceTTL)
	msgHandler := chathandler.NewHandler(gw.Delivery())
	userHandler := user.NewHandler(userStore)

	// 4) HTTP + WebSocket
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/chat", gw.HandleWS) // e.g. ws://localhost:8080/chat?user=alice@example.com

	mid.POST(r, "/api/messages", msgHandler.HandlerSend, mid.RouteOpt{IsAuth: true})
	mid.GET(r, "/api/messages/conversation", msgHandler.HandlerConversation, mid.RouteOpt{IsAuth: true})
	mid.GET(r, "/api/messages/unread", msgHandler.HandlerUnread, mid.RouteOpt{IsAuth: true})
	mid.POST(r, "/api/messages/read", msgHandler.HandlerMarkRead, mid.RouteOpt{IsAuth: true})
	mid.GET(r, "/api/users", userHandler.HandlerList, mid.RouteOpt{IsAuth: true})

	logger.Infof("[HTTP] Listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
