package handlers

import (
	"net/http"
	"strings"

	"sautipay/internal/approval"
	"sautipay/internal/models"
	"sautipay/internal/settlement"
	"sautipay/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

var knownStatuses = []approval.Status{
	approval.Pending, approval.Approved, approval.Rejected,
	approval.Paid, approval.Active, approval.Suspended,
}

type statusRequest struct {
	Status string `json:"status"`
}

// parseStatus accepts any casing of a status the machine knows.
func parseStatus(machine *approval.Machine, raw string) (approval.Status, *ValidationError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalid("status", "is required")
	}
	for _, status := range knownStatuses {
		if strings.EqualFold(string(status), raw) && machine.Knows(status) {
			return status, nil
		}
	}
	return "", invalid("status", "is not a valid "+machine.Name()+" status")
}

func (h *Handler) decodeStatus(w http.ResponseWriter, r *http.Request, machine *approval.Machine) (approval.Status, bool) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return "", false
	}
	status, verr := parseStatus(machine, req.Status)
	if verr != nil {
		respondValidation(w, verr)
		return "", false
	}
	return status, true
}

func (h *Handler) ListCommissions(w http.ResponseWriter, r *http.Request) {
	listRecords(h, w, r, "list commissions", h.commissions.Commissions, models.CommissionAccessor)
}

func (h *Handler) UpdateCommissionStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	to, ok := h.decodeStatus(w, r, approval.Commissions)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	updated, err := h.commissions.UpdateCommissionStatus(r.Context(), scopeFrom(r, principal), id, principal.Role, to)
	if err != nil {
		h.respondStoreError(w, err, "update commission")
		return
	}
	h.logger.Info().Str("commission_id", id).Str("status", string(to)).Str("actor", principal.ID).Msg("commission status changed")
	respondData(w, http.StatusOK, updated)
}

func (h *Handler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	listRecords(h, w, r, "list refunds", h.refunds.Refunds, models.RefundAccessor)
}

type refundRequest struct {
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
}

func (h *Handler) CreateRefund(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req refundRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		respondValidation(w, invalid("transactionId", "is required"))
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		respondValidation(w, invalid("reason", "is required"))
		return
	}
	if req.Amount.IsNegative() {
		respondValidation(w, invalid("amount", "must not be negative"))
		return
	}
	created, err := h.refunds.CreateRefund(r.Context(), scopeFrom(r, principal), models.Refund{
		TransactionID: strings.TrimSpace(req.TransactionID),
		Amount:        req.Amount,
		Reason:        strings.TrimSpace(req.Reason),
	})
	if err != nil {
		h.respondStoreError(w, err, "create refund")
		return
	}
	h.logger.Info().Str("refund_id", created.ID).Str("transaction_id", created.TransactionID).Str("actor", principal.ID).Msg("refund requested")
	respondData(w, http.StatusCreated, created)
}

func (h *Handler) UpdateRefundStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	to, ok := h.decodeStatus(w, r, approval.Refunds)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	updated, err := h.refunds.UpdateRefundStatus(r.Context(), scopeFrom(r, principal), id, principal.Role, to)
	if err != nil {
		h.respondStoreError(w, err, "update refund")
		return
	}
	h.logger.Info().Str("refund_id", id).Str("status", string(to)).Str("actor", principal.ID).Msg("refund status changed")
	respondData(w, http.StatusOK, updated)
}

func (h *Handler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	listRecords(h, w, r, "list receipts", h.receipts.Receipts, models.ReceiptAccessor)
}

func (h *Handler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	listRecords(h, w, r, "list settlements", h.settlements.Settlements, models.SettlementAccessor)
}

func (h *Handler) UpdateSettlementStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	to, ok := h.decodeStatus(w, r, approval.Settlements)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	updated, err := h.settlements.UpdateSettlementStatus(r.Context(), scopeFrom(r, principal), id, principal.Role, to)
	if err != nil {
		h.respondStoreError(w, err, "update settlement")
		return
	}
	h.logger.Info().Str("settlement_id", id).Str("status", string(to)).Str("actor", principal.ID).Msg("settlement status changed")
	respondData(w, http.StatusOK, updated)
}

// SettlementStatus reports transfer readiness for the caller's company. An
// owner without ?companyId= gets one status per active company.
func (h *Handler) SettlementStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	now := h.now()
	scope := scopeFrom(r, principal)
	if scope == store.AllCompanies() {
		companies := h.settlements.SettlementCompanies()
		statuses := make([]settlement.Status, 0, len(companies))
		for _, companyID := range companies {
			statuses = append(statuses, h.checker.Status(companyID, now))
		}
		respondData(w, http.StatusOK, statuses)
		return
	}
	respondData(w, http.StatusOK, h.checker.Status(scope.CompanyID, now))
}
