package user

import (
	"net/http"

	usermodel "MsgApp/module/user/model"

	"github.com/gin-gonic/gin"
)

// Handler 身份只读 REST 面（花名册）。
type Handler struct {
	store Store
}

func NewHandler(s Store) *Handler {
	return &Handler{store: s}
}

// HandlerList GET /api/users
func (h *Handler) HandlerList(c *gin.Context) {
	users, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if users == nil {
		users = make([]*usermodel.User, 0)
	}
	c.JSON(http.StatusOK, users)
}
