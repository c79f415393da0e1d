package handlers

import (
	"encoding/json"
	"net/http"

	"sautipay/internal/auth"
	"sautipay/internal/websocket"
)

// WSSettlements streams settlement readiness for the caller's company, or for
// every company when the caller is an owner. The current status is sent on
// connect.
func (h *Handler) WSSettlements(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	key := principal.CompanyID
	var initial []byte
	if principal.Role == auth.RoleOwner {
		key = websocket.AllCompanies
	} else {
		initial, _ = json.Marshal(websocket.SettlementUpdate{
			Type:   "settlement_status",
			Status: h.checker.Status(principal.CompanyID, h.now()),
		})
	}
	websocket.ServeWS(w, r, h.hub, key, initial)
}
