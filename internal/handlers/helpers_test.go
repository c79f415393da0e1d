package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"sautipay/internal/approval"
	"sautipay/internal/auth"
	"sautipay/internal/config"
	"sautipay/internal/currency"
	"sautipay/internal/listing"
	"sautipay/internal/models"
	"sautipay/internal/notify"
	"sautipay/internal/services"
	"sautipay/internal/settlement"
	"sautipay/internal/store"
	"sautipay/internal/websocket"

	"github.com/rs/zerolog"
)

// fixedNow falls inside the 00:00 minute so settlement readiness can be true.
var fixedNow = time.Date(2024, 6, 1, 0, 0, 30, 0, time.UTC)

var (
	userSauti   = auth.Principal{ID: "usr-001", Email: "user@sautipay.test", Role: auth.RoleUser, CompanyID: store.CompanySauti}
	adminSauti  = auth.Principal{ID: "usr-002", Email: "admin@sautipay.test", Role: auth.RoleAdmin, CompanyID: store.CompanySauti}
	adminSafari = auth.Principal{ID: "usr-003", Email: "admin@safaricover.test", Role: auth.RoleAdmin, CompanyID: store.CompanySafari}
	owner       = auth.Principal{ID: "usr-004", Email: "owner@sautipay.test", Role: auth.RoleOwner}
)

type stubPaymentProcessor struct {
	processFn func(ctx context.Context, req services.PaymentRequest) (services.PaymentResult, error)
}

func (s stubPaymentProcessor) Process(ctx context.Context, req services.PaymentRequest) (services.PaymentResult, error) {
	if s.processFn == nil {
		return services.PaymentResult{}, nil
	}
	return s.processFn(ctx, req)
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (n *stubNotifier) Send(_ context.Context, msg notify.Message) (notify.Delivery, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return notify.Delivery{ID: "dlv-1", Channel: msg.Type, Recipient: msg.Recipient}, n.err
}

func (n *stubNotifier) messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.sent...)
}

type stubCommissionStore struct {
	commissionsFn func(ctx context.Context, scope store.Scope) ([]models.Commission, error)
	updateFn      func(ctx context.Context, scope store.Scope, id string, role auth.Role, to approval.Status) (models.Commission, error)
}

func (s stubCommissionStore) Commissions(ctx context.Context, scope store.Scope) ([]models.Commission, error) {
	if s.commissionsFn == nil {
		return nil, nil
	}
	return s.commissionsFn(ctx, scope)
}

func (s stubCommissionStore) UpdateCommissionStatus(ctx context.Context, scope store.Scope, id string, role auth.Role, to approval.Status) (models.Commission, error) {
	if s.updateFn == nil {
		return models.Commission{}, nil
	}
	return s.updateFn(ctx, scope, id, role, to)
}

type testEnv struct {
	handler  *Handler
	router   http.Handler
	mem      *store.Memory
	rates    *currency.Table
	notifier *stubNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, stubPaymentProcessor{})
}

func newTestEnvWith(t *testing.T, payments PaymentProcessor) *testEnv {
	t.Helper()
	rates, err := currency.NewTable(currency.DefaultRates())
	if err != nil {
		t.Fatalf("rates: %v", err)
	}
	mem, err := store.NewMemory(rates, func() time.Time { return fixedNow })
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	cfg := config.Config{
		AppEnv:              "test",
		Port:                "0",
		JWTSecret:           "secret",
		TokenTTL:            time.Minute,
		AllowedOrigins:      "*",
		SettlementThreshold: settlement.DefaultThreshold,
		LoginRatePerMinute:  100,
	}
	notifier := &stubNotifier{}
	watcher := settlement.NewWatcher(mem, nil, cfg.SettlementThreshold, time.Minute, zerolog.Nop())
	h := New(cfg, mem, rates, payments, notifier, watcher, websocket.NewHub(), zerolog.Nop())
	h.now = func() time.Time { return fixedNow }
	return &testEnv{handler: h, router: h.Routes(), mem: mem, rates: rates, notifier: notifier}
}

// do sends a request through the full router. A nil principal sends no
// session.
func (e *testEnv) do(t *testing.T, method, path string, body any, principal *auth.Principal) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if principal != nil {
		token, err := auth.GenerateToken("secret", *principal, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

type testEnvelope struct {
	Success    bool                `json:"success"`
	Data       json.RawMessage     `json:"data"`
	Message    string              `json:"message"`
	Field      string              `json:"field"`
	Pagination *listing.Pagination `json:"pagination"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rr.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) testEnvelope {
	t.Helper()
	env := decodeEnvelope(t, rr)
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("decode data: %v (%s)", err, string(env.Data))
	}
	return env
}

func findCommission(t *testing.T, mem *store.Memory, companyID string, status approval.Status) models.Commission {
	t.Helper()
	commissions, _ := mem.Commissions(context.Background(), store.Scope{CompanyID: companyID})
	for _, c := range commissions {
		if c.Status == status {
			return c
		}
	}
	t.Fatalf("no %s commission for %s", status, companyID)
	return models.Commission{}
}

func findRefund(t *testing.T, mem *store.Memory, companyID string, status approval.Status) models.Refund {
	t.Helper()
	refunds, _ := mem.Refunds(context.Background(), store.Scope{CompanyID: companyID})
	for _, r := range refunds {
		if r.Status == status {
			return r
		}
	}
	t.Fatalf("no %s refund for %s", status, companyID)
	return models.Refund{}
}
