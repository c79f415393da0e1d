package handlers

import (
	"net/http"
	"strings"

	"sautipay/internal/auth"
	"sautipay/internal/models"
	"sautipay/internal/store"
	"sautipay/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

var maxCommissionRate = decimal.NewFromInt(100)

type brokerRequest struct {
	CompanyID      string           `json:"companyId"`
	Name           *string          `json:"name"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	CommissionRate *decimal.Decimal `json:"commissionRate"`
	Status         *string          `json:"status"`
}

// validate checks the fields present. Creation additionally requires name,
// email and commissionRate.
func (req brokerRequest) validate(create bool) *ValidationError {
	if create {
		switch {
		case req.Name == nil:
			return invalid("name", "is required")
		case req.Email == nil:
			return invalid("email", "is required")
		case req.CommissionRate == nil:
			return invalid("commissionRate", "is required")
		}
	}
	if req.Name != nil {
		if err := validator.ValidateName(strings.TrimSpace(*req.Name)); err != nil {
			return invalid("name", "must be between 2 and 100 characters")
		}
	}
	if req.Email != nil {
		if err := validator.ValidateEmail(*req.Email); err != nil {
			return invalid("email", "must be a valid email address")
		}
	}
	if req.Phone != nil && *req.Phone != "" {
		if err := validator.ValidatePhone(*req.Phone); err != nil {
			return invalid("phone", "must be a valid phone number")
		}
	}
	if req.CommissionRate != nil {
		if req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(maxCommissionRate) {
			return invalid("commissionRate", "must be between 0 and 100")
		}
	}
	if req.Status != nil && *req.Status != models.BrokerActive && *req.Status != models.BrokerInactive {
		return invalid("status", "must be Active or Inactive")
	}
	return nil
}

func (h *Handler) ListBrokers(w http.ResponseWriter, r *http.Request) {
	listRecords(h, w, r, "list brokers", h.brokers.Brokers, models.BrokerAccessor)
}

func (h *Handler) GetBroker(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	broker, err := h.brokers.Broker(r.Context(), scopeFrom(r, principal), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err, "get broker")
		return
	}
	respondData(w, http.StatusOK, broker)
}

func (h *Handler) CreateBroker(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req brokerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if verr := req.validate(true); verr != nil {
		respondValidation(w, verr)
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
	broker := models.Broker{
		CompanyID:      companyID,
		Name:           strings.TrimSpace(*req.Name),
		Email:          strings.TrimSpace(*req.Email),
		CommissionRate: *req.CommissionRate,
	}
	if req.Phone != nil {
		broker.Phone = *req.Phone
	}
	if req.Status != nil {
		broker.Status = *req.Status
	}
	created, err := h.brokers.CreateBroker(r.Context(), broker)
	if err != nil {
		h.respondStoreError(w, err, "create broker")
		return
	}
	h.logger.Info().Str("broker_id", created.ID).Str("company_id", companyID).Str("actor", principal.ID).Msg("broker created")
	respondData(w, http.StatusCreated, created)
}

func (h *Handler) UpdateBroker(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req brokerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if verr := req.validate(false); verr != nil {
		respondValidation(w, verr)
		return
	}
	patch := store.BrokerPatch{
		Phone:          req.Phone,
		CommissionRate: req.CommissionRate,
		Status:         req.Status,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		patch.Name = &name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		patch.Email = &email
	}
	updated, err := h.brokers.UpdateBroker(r.Context(), scopeFrom(r, principal), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.respondStoreError(w, err, "update broker")
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (h *Handler) DeleteBroker(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.brokers.DeleteBroker(r.Context(), scopeFrom(r, principal), id); err != nil {
		h.respondStoreError(w, err, "delete broker")
		return
	}
	h.logger.Info().Str("broker_id", id).Str("actor", principal.ID).Msg("broker deleted")
	respondMessage(w, http.StatusOK, "broker deleted")
}
