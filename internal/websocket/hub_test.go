package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sautipay/internal/settlement"

	gorilla "github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

func TestPublishSettlementRoutesByCompany(t *testing.T) {
	hub := NewHub()
	mine := &Client{send: make(chan []byte, 1)}
	other := &Client{send: make(chan []byte, 1)}
	owner := &Client{send: make(chan []byte, 1)}
	hub.Register("cmp-sauti", mine)
	hub.Register("cmp-safari", other)
	hub.Register(AllCompanies, owner)

	hub.PublishSettlement("cmp-sauti", settlement.Status{CompanyID: "cmp-sauti", DailySum: decimal.NewFromInt(1000), IsTransferReady: true})

	select {
	case payload := <-mine.send:
		var update SettlementUpdate
		if err := json.Unmarshal(payload, &update); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if update.Type != "settlement_status" || !update.Status.IsTransferReady {
			t.Fatalf("unexpected update: %#v", update)
		}
	default:
		t.Fatalf("expected company subscriber to receive update")
	}
	if len(owner.send) != 1 {
		t.Fatalf("expected owner subscriber to receive update")
	}
	if len(other.send) != 0 {
		t.Fatalf("other company should not receive update")
	}
}

func TestPublishSettlementDropsForSlowClients(t *testing.T) {
	hub := NewHub()
	slow := &Client{send: make(chan []byte)}
	hub.Register("cmp-sauti", slow)
	done := make(chan struct{})
	go func() {
		hub.PublishSettlement("cmp-sauti", settlement.Status{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on slow client")
	}
}

func TestUnregisterRemovesEmptyKeys(t *testing.T) {
	hub := NewHub()
	client := &Client{send: make(chan []byte, 1)}
	hub.Register("cmp-sauti", client)
	if hub.Subscribers("cmp-sauti") != 1 {
		t.Fatalf("expected one subscriber")
	}
	hub.Unregister("cmp-sauti", client)
	hub.Unregister("cmp-sauti", client)
	if hub.Subscribers("cmp-sauti") != 0 {
		t.Fatalf("expected no subscribers")
	}
}

func TestServeWSSendsInitialStatus(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(w, r, hub, "cmp-sauti", []byte(`{"type":"settlement_status"}`))
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(message) != `{"type":"settlement_status"}` {
		t.Fatalf("unexpected message: %s", message)
	}
}
