package handlers

import (
	"errors"
	"net/http"
	"strings"

	"sautipay/internal/currency"
	"sautipay/internal/premium"
	"sautipay/internal/store"
	"sautipay/internal/validator"

	"github.com/shopspring/decimal"
)

func (h *Handler) ExchangeRates(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]any{
		"base":   currency.Base,
		"markup": h.rates.Markup(),
		"rates":  h.rates.Snapshot(),
	})
}

type exchangeRatesRequest struct {
	Rates  map[string]decimal.Decimal `json:"rates"`
	Markup *decimal.Decimal           `json:"markup"`
}

// UpdateExchangeRates installs manual rates and/or the display markup. All
// values are validated before any is applied.
func (h *Handler) UpdateExchangeRates(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req exchangeRatesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(req.Rates) == 0 && req.Markup == nil {
		respondValidation(w, invalid("rates", "or markup is required"))
		return
	}
	normalized := make(map[string]decimal.Decimal, len(req.Rates))
	for code, rate := range req.Rates {
		code = currency.Normalize(code)
		if !currency.ValidCode(code) {
			respondValidation(w, invalid("rates."+code, "must be a 3-letter currency code"))
			return
		}
		if code == currency.Base {
			respondValidation(w, invalid("rates."+code, "base currency rate is fixed at 1"))
			return
		}
		if !rate.IsPositive() {
			respondValidation(w, invalid("rates."+code, "must be greater than 0"))
			return
		}
		normalized[code] = rate
	}
	if req.Markup != nil && (req.Markup.IsNegative() || req.Markup.GreaterThan(decimal.NewFromInt(100))) {
		respondValidation(w, invalid("markup", "must be between 0 and 100"))
		return
	}

	for code, rate := range normalized {
		if err := h.rates.SetRate(code, rate); err != nil {
			h.respondStoreError(w, err, "set rate")
			return
		}
		h.logger.Info().Str("currency", code).Str("rate", rate.String()).Str("actor", principal.ID).Msg("manual rate set")
	}
	if req.Markup != nil {
		if err := h.rates.SetMarkup(*req.Markup); err != nil {
			h.respondStoreError(w, err, "set markup")
			return
		}
	}
	h.ExchangeRates(w, r)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GeneralSettings(r.Context())
	if err != nil {
		h.respondStoreError(w, err, "get settings")
		return
	}
	respondData(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch store.GeneralSettingsPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if patch.CompanyName != nil && strings.TrimSpace(*patch.CompanyName) == "" {
		respondValidation(w, invalid("companyName", "must not be empty"))
		return
	}
	if patch.SupportEmail != nil {
		if err := validator.ValidateEmail(*patch.SupportEmail); err != nil {
			respondValidation(w, invalid("supportEmail", "must be a valid email address"))
			return
		}
	}
	if patch.DefaultCurrency != nil {
		code := currency.Normalize(*patch.DefaultCurrency)
		if !h.rates.Known(code) {
			respondValidation(w, invalid("defaultCurrency", "is not a supported currency"))
			return
		}
		patch.DefaultCurrency = &code
	}
	settings, err := h.settings.UpdateGeneralSettings(r.Context(), patch)
	if err != nil {
		h.respondStoreError(w, err, "update settings")
		return
	}
	respondData(w, http.StatusOK, settings)
}

func (h *Handler) GetFees(w http.ResponseWriter, r *http.Request) {
	fees, err := h.settings.Fees(r.Context())
	if err != nil {
		h.respondStoreError(w, err, "get fees")
		return
	}
	respondData(w, http.StatusOK, fees)
}

type feesRequest struct {
	Fees []premium.DeductibleFee `json:"fees"`
}

func (h *Handler) ReplaceFees(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req feesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Fees == nil {
		respondValidation(w, invalid("fees", "is required"))
		return
	}
	for i := range req.Fees {
		req.Fees[i].Name = strings.TrimSpace(req.Fees[i].Name)
		req.Fees[i].Currency = currency.Normalize(req.Fees[i].Currency)
		if err := premium.ValidateFee(req.Fees[i], h.rates); err != nil {
			if errors.Is(err, premium.ErrInvalidFee) {
				respondValidation(w, invalid("fees", err.Error()))
				return
			}
			h.respondStoreError(w, err, "replace fees")
			return
		}
	}
	fees, err := h.settings.ReplaceFees(r.Context(), req.Fees)
	if err != nil {
		h.respondStoreError(w, err, "replace fees")
		return
	}
	h.logger.Info().Int("count", len(fees)).Str("actor", principal.ID).Msg("deductible fees replaced")
	respondData(w, http.StatusOK, fees)
}
