package chat

import (
	"net/http"
	"strconv"

	chatmodel "MsgApp/module/chat/model"
	chatservice "MsgApp/module/chat/service"
	errs "MsgApp/tools/errs"

	"github.com/gin-gonic/gin"
)

// Handler 会话 REST 面。投递语义全在 chatservice.Delivery，
// 这里只做参数搬运和错误码映射。
type Handler struct {
	delivery *chatservice.Delivery
}

func NewHandler(d *chatservice.Delivery) *Handler {
	return &Handler{delivery: d}
}

type sendReq struct {
	SenderID   int64  `json:"senderId" binding:"required"`
	ReceiverID int64  `json:"receiverId" binding:"required"`
	Text       string `json:"text"`
}

// HandlerSend POST /api/messages
func (h *Handler) HandlerSend(c *gin.Context) {
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.delivery.Send(c.Request.Context(), req.SenderID, req.ReceiverID, req.Text)
	if err != nil {
		switch {
		case errs.IsCode(err, errs.CodeEmptyText):
			c.JSON(http.StatusBadRequest, err)
		case errs.IsCode(err, errs.CodeUnknownIdentity):
			c.JSON(http.StatusUnprocessableEntity, err)
		default:
			// 存储失败原样上抛给调用方，不吞
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, m)
}

// HandlerConversation GET /api/messages/conversation?a=&b=
func (h *Handler) HandlerConversation(c *gin.Context) {
	a, err1 := strconv.ParseInt(c.Query("a"), 10, 64)
	b, err2 := strconv.ParseInt(c.Query("b"), 10, 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a and b must be user ids"})
		return
	}
	msgs, err := h.delivery.GetConversation(c.Request.Context(), a, b)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if msgs == nil {
		msgs = make([]*chatmodel.Message, 0)
	}
	c.JSON(http.StatusOK, msgs)
}

// HandlerUnread GET /api/messages/unread?receiver=
func (h *Handler) HandlerUnread(c *gin.Context) {
	receiver, err := strconv.ParseInt(c.Query("receiver"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver must be a user id"})
		return
	}
	counts, err := h.delivery.UnreadCounts(c.Request.Context(), receiver)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// map key 序列化成字符串形式的 senderId
	out := make(map[string]int64, len(counts))
	for sender, n := range counts {
		out[strconv.FormatInt(sender, 10)] = n
	}
	c.JSON(http.StatusOK, out)
}

type markReadReq struct {
	SenderID   int64 `json:"senderId" binding:"required"`
	ReceiverID int64 `json:"receiverId" binding:"required"`
}

// HandlerMarkRead POST /api/messages/read
func (h *Handler) HandlerMarkRead(c *gin.Context) {
	var req markReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.delivery.MarkRead(c.Request.Context(), req.SenderID, req.ReceiverID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
