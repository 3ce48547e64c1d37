package middleware

import (
	midsec "MsgApp/middleware/security"

	"github.com/gin-gonic/gin"
)

// RouteOpt 路由选项。
type RouteOpt struct {
	IsAuth bool
}

// POST 封装：按 opt 决定是否挂鉴权中间件。
func POST(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.POST(path, midsec.Middleware(midsec.DefaultOptions()), handler)
	} else {
		r.POST(path, handler)
	}
}

// GET 封装。
func GET(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.GET(path, midsec.Middleware(midsec.DefaultOptions()), handler)
	} else {
		r.GET(path, handler)
	}
}
