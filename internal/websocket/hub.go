package websocket

import (
	"encoding/json"
	"sync"

	"sautipay/internal/settlement"
)

// AllCompanies is the subscription key for clients that see every tenant.
const AllCompanies = "*"

type SettlementUpdate struct {
	Type   string            `json:"type"`
	Status settlement.Status `json:"status"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(key string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[key] == nil {
		h.clients[key] = make(map[*Client]struct{})
	}
	h.clients[key][client] = struct{}{}
}

func (h *Hub) Unregister(key string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[key] == nil {
		return
	}
	delete(h.clients[key], client)
	if len(h.clients[key]) == 0 {
		delete(h.clients, key)
	}
}

func (h *Hub) Subscribers(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[key])
}

// PublishSettlement sends status to the company's subscribers and to
// AllCompanies subscribers. Slow clients drop the update.
func (h *Hub) PublishSettlement(companyID string, status settlement.Status) {
	payload, _ := json.Marshal(SettlementUpdate{Type: "settlement_status", Status: status})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, key := range []string{companyID, AllCompanies} {
		for client := range h.clients[key] {
			select {
			case client.send <- payload:
			default:
			}
		}
	}
}
