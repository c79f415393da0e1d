package handlers

import (
	"errors"
	"net/http"
	"strings"

	"sautipay/internal/auth"
	"sautipay/internal/currency"
	"sautipay/internal/services"
	"sautipay/internal/validator"

	"github.com/shopspring/decimal"
)

const idempotencyHeader = "Idempotency-Key"

type paymentRequest struct {
	CompanyID     string          `json:"companyId"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	PolicyNumber  string          `json:"policyNumber"`
	BrokerID      string          `json:"brokerId"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// ProcessPayment records a simulated payment. No money moves.
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	companyID := principal.CompanyID
	if principal.Role == auth.RoleOwner {
		companyID = strings.TrimSpace(req.CompanyID)
		if companyID == "" {
			respondValidation(w, invalid("companyId", "is required"))
			return
		}
	}
	code := currency.Normalize(req.Currency)
	if !h.rates.Known(code) {
		respondValidation(w, invalid("currency", "is not a supported currency"))
		return
	}

	result, err := h.payments.Process(r.Context(), services.PaymentRequest{
		IdempotencyKey: strings.TrimSpace(r.Header.Get(idempotencyHeader)),
		CompanyID:      companyID,
		CustomerName:   req.CustomerName,
		CustomerEmail:  strings.TrimSpace(req.CustomerEmail),
		PolicyNumber:   req.PolicyNumber,
		BrokerID:       req.BrokerID,
		Method:         req.Method,
		Amount:         req.Amount,
		Currency:       code,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			respondValidation(w, invalid("amount", "must be positive with at most 2 decimals"))
		case errors.Is(err, services.ErrInvalidPaymentMethod):
			respondValidation(w, invalid("method", "must be one of M-Pesa, Card, Bank Transfer"))
		case errors.Is(err, validator.ErrInvalidName):
			respondValidation(w, invalid("customerName", "must be between 2 and 100 characters"))
		case errors.Is(err, validator.ErrInvalidPolicy):
			respondValidation(w, invalid("policyNumber", "must look like POL-2024-0001"))
		case errors.Is(err, validator.ErrInvalidEmail):
			respondValidation(w, invalid("customerEmail", "must be a valid email address"))
		case errors.Is(err, services.ErrIdempotencyMismatch):
			respondError(w, http.StatusConflict, err.Error())
		default:
			h.respondStoreError(w, err, "process payment")
		}
		return
	}
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	respondData(w, status, result)
}
