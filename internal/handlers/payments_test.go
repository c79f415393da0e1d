package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sautipay/internal/auth"
	"sautipay/internal/models"
	"sautipay/internal/services"
	"sautipay/internal/store"

	"github.com/shopspring/decimal"
)

func validPayment() map[string]any {
	return map[string]any{
		"customerName":  "Amina Odhiambo",
		"customerEmail": "amina@example.test",
		"policyNumber":  "POL-2024-2001",
		"brokerId":      "brk-001",
		"method":        "M-Pesa",
		"amount":        "150.00",
		"currency":      "usd",
	}
}

func TestProcessPaymentPinsCompany(t *testing.T) {
	var captured services.PaymentRequest
	env := newTestEnvWith(t, stubPaymentProcessor{
		processFn: func(_ context.Context, req services.PaymentRequest) (services.PaymentResult, error) {
			captured = req
			return services.PaymentResult{PaymentRecord: store.PaymentRecord{
				Payment: models.Payment{ID: "pay-1", CompanyID: req.CompanyID, Amount: req.Amount, Currency: req.Currency},
			}}, nil
		},
	})

	body := validPayment()
	body["companyId"] = store.CompanySafari
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/payments/process", bytes.NewReader(raw))
	token, err := auth.GenerateToken("secret", userSauti, time.Minute)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(idempotencyHeader, " key-1 ")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	if captured.CompanyID != store.CompanySauti || captured.IdempotencyKey != "key-1" || captured.Currency != "USD" {
		t.Fatalf("unexpected request %#v", captured)
	}
	if !captured.Amount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected amount %s", captured.Amount)
	}
}

func TestProcessPaymentReplayAndMismatch(t *testing.T) {
	calls := 0
	env := newTestEnvWith(t, stubPaymentProcessor{
		processFn: func(context.Context, services.PaymentRequest) (services.PaymentResult, error) {
			calls++
			switch calls {
			case 1:
				return services.PaymentResult{Replayed: true}, nil
			default:
				return services.PaymentResult{}, services.ErrIdempotencyMismatch
			}
		},
	})
	if rr := env.do(t, http.MethodPost, "/api/payments/process", validPayment(), &userSauti); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for a replay, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/api/payments/process", validPayment(), &userSauti); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestProcessPaymentValidation(t *testing.T) {
	env := newTestEnvWith(t, stubPaymentProcessor{
		processFn: func(_ context.Context, req services.PaymentRequest) (services.PaymentResult, error) {
			switch req.Method {
			case "Cheque":
				return services.PaymentResult{}, services.ErrInvalidPaymentMethod
			}
			if req.Amount.IsNegative() {
				return services.PaymentResult{}, services.ErrInvalidAmount
			}
			return services.PaymentResult{}, nil
		},
	})
	for field, value := range map[string]any{
		"currency": "XYZ",
		"method":   "Cheque",
		"amount":   "-5",
	} {
		body := validPayment()
		body[field] = value
		rr := env.do(t, http.MethodPost, "/api/payments/process", body, &userSauti)
		if rr.Code != http.StatusBadRequest || decodeEnvelope(t, rr).Field != field {
			t.Fatalf("%s: expected field validation, got %d", field, rr.Code)
		}
	}

	rr := env.do(t, http.MethodPost, "/api/payments/process", validPayment(), &owner)
	if rr.Code != http.StatusBadRequest || decodeEnvelope(t, rr).Field != "companyId" {
		t.Fatalf("expected companyId validation for owner, got %d", rr.Code)
	}
}

func TestProcessPaymentEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	processor := services.NewPaymentService(env.mem, env.notifier, nil, decimal.NewFromInt(1000), time.Hour, env.handler.logger)
	env.handler.payments = processor

	rr := env.do(t, http.MethodPost, "/api/payments/process", validPayment(), &userSauti)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	var result services.PaymentResult
	decodeData(t, rr, &result)
	if result.Receipt.ID == "" || result.Transaction.CompanyID != store.CompanySauti {
		t.Fatalf("unexpected result %#v", result)
	}
}
