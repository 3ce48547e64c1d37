package security

import (
	"net/http"
	"strings"

	gconfig "MsgApp/global/config"
	errs "MsgApp/tools/errs"
	jwtlib "MsgApp/tools/security"

	"github.com/gin-gonic/gin"
)

// —— context key ——
// 后续 handler 统一用这俩 key 读取
const (
	CtxAuthKey    = "authorization" // string：原始token
	CtxSubjectKey = "authSubject"   // string：令牌 sub（用户ID）
)

type Options struct {
	EnableAuthorizationBearer bool // 默认 true：兼容 Authorization: Bearer xxx
	HeaderToken               string
}

func DefaultOptions() *Options {
	return &Options{
		HeaderToken:               CtxAuthKey,
		EnableAuthorizationBearer: true,
	}
}

// Middleware 校验 bearer 令牌；不合法的请求直接打回。
func Middleware(opts *Options) gin.HandlerFunc {
	if opts == nil {
		opts = DefaultOptions()
	}
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))

		if token == "" && opts.EnableAuthorizationBearer {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid)
			return
		}

		claims, err := jwtlib.Verify(jwtlib.DefaultOptions(gconfig.GetJwtSecret()), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid.WithDetail(err.Error()))
			return
		}

		c.Set(CtxAuthKey, token)
		c.Set(CtxSubjectKey, claims.Subject())
		c.Next()
	}
}
