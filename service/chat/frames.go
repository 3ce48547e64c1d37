package chat

import (
	"encoding/json"
	"fmt"
	"time"

	chatmodel "MsgApp/module/chat/model"
	usermodel "MsgApp/module/user/model"
)

// ===== 事件名 =====
//
// 与前端约定的事件集合，握手之外的全部流量都走这些帧。
const (
	EvUserConnected    = "userConnected"
	EvUserDisconnected = "userDisconnected"
	EvUsers            = "users"
	EvNewMessage       = "newMessage"
	EvSendMessage      = "sendMessage"
)

// Frame 统一帧结构：{"event": "...", "data": {...}}。
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	f := &Frame{}
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("unmarshal frame failed: %w", err)
	}
	if f.Event == "" {
		return nil, fmt.Errorf("frame missing event")
	}
	return f, nil
}

// PayloadMap 把帧负载还原成 map，交给 tools/decode 做弱类型解码。
func (f *Frame) PayloadMap() (map[string]any, error) {
	if len(f.Data) == 0 {
		return nil, fmt.Errorf("frame %q has empty payload", f.Event)
	}
	var m map[string]any
	if err := json.Unmarshal(f.Data, &m); err != nil {
		return nil, fmt.Errorf("frame %q payload not object: %w", f.Event, err)
	}
	return m, nil
}

// SendPayload 客户端 sendMessage 帧的负载。
type SendPayload struct {
	ReceiverID int64  `json:"receiverId"`
	Text       string `json:"text"`
}

// ===== 服务端帧构造 =====

func marshalFrame(event string, data any) []byte {
	raw, _ := json.Marshal(data)
	b, _ := json.Marshal(&Frame{Event: event, Data: raw})
	return b
}

func BuildUserConnected(email string) []byte {
	return marshalFrame(EvUserConnected, map[string]any{
		"email":     email,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func BuildUserDisconnected(email string) []byte {
	return marshalFrame(EvUserDisconnected, map[string]any{"email": email})
}

func BuildRoster(users []*usermodel.User) []byte {
	return marshalFrame(EvUsers, users)
}

func BuildNewMessage(m *chatmodel.Message) []byte {
	return marshalFrame(EvNewMessage, m)
}
