package chat

import (
	usermodel "MsgApp/module/user/model"
)

// Hub 全量广播。fire-and-forget：不等回执，
// 正在断开的客户端丢帧即可。
type Hub struct {
	reg *Registry
}

func NewHub(reg *Registry) *Hub {
	return &Hub{reg: reg}
}

func (h *Hub) Broadcast(payload []byte) {
	for _, c := range h.reg.snapshot() {
		c.enqueue(payload)
	}
}

func (h *Hub) AnnounceConnected(email string) {
	h.Broadcast(BuildUserConnected(email))
}

func (h *Hub) AnnounceDisconnected(email string) {
	h.Broadcast(BuildUserDisconnected(email))
}

func (h *Hub) AnnounceRoster(users []*usermodel.User) {
	h.Broadcast(BuildRoster(users))
}
