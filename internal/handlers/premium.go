package handlers

import (
	"errors"
	"net/http"

	"sautipay/internal/currency"
	"sautipay/internal/premium"

	"github.com/shopspring/decimal"
)

type premiumRequest struct {
	GrossPremium   decimal.Decimal          `json:"grossPremium"`
	Currency       string                   `json:"currency"`
	CommissionRate *decimal.Decimal         `json:"commissionRate"`
	Fees           *[]premium.DeductibleFee `json:"fees"`
}

type premiumResponse struct {
	premium.Result
	CommissionRate decimal.Decimal `json:"commissionRate"`
	Commission     decimal.Decimal `json:"commission"`
}

// CalculatePremium returns the fee breakdown for a gross premium. Fees in the
// body override the stored settings for this calculation only.
func (h *Handler) CalculatePremium(w http.ResponseWriter, r *http.Request) {
	var req premiumRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !req.GrossPremium.IsPositive() {
		respondValidation(w, invalid("grossPremium", "must be greater than 0"))
		return
	}
	code := currency.Normalize(req.Currency)
	if code == "" {
		code = currency.Base
	}
	if !h.rates.Known(code) {
		respondValidation(w, invalid("currency", "is not a supported currency"))
		return
	}
	rate := decimal.Zero
	if req.CommissionRate != nil {
		if req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(maxCommissionRate) {
			respondValidation(w, invalid("commissionRate", "must be between 0 and 100"))
			return
		}
		rate = *req.CommissionRate
	}

	var fees []premium.DeductibleFee
	if req.Fees != nil {
		fees = *req.Fees
	} else {
		stored, err := h.settings.Fees(r.Context())
		if err != nil {
			h.respondStoreError(w, err, "load fees")
			return
		}
		fees = stored
	}

	result, err := premium.Breakdown(req.GrossPremium, fees, code, h.rates)
	if err != nil {
		if errors.Is(err, currency.ErrUnknownCurrency) || errors.Is(err, premium.ErrUnknownFeeType) {
			respondValidation(w, invalid("fees", err.Error()))
			return
		}
		h.respondStoreError(w, err, "calculate premium")
		return
	}
	respondData(w, http.StatusOK, premiumResponse{
		Result:         result,
		CommissionRate: rate,
		Commission:     premium.Commission(result.Net, rate).Round(2),
	})
}
