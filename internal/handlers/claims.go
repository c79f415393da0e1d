package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"sautipay/internal/approval"
	"sautipay/internal/currency"
	"sautipay/internal/models"
	"sautipay/internal/notify"
	"sautipay/internal/store"
	"sautipay/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type claimRequest struct {
	PolicyNumber string          `json:"policyNumber"`
	ClaimantName string          `json:"claimantName"`
	Email        string          `json:"email"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Description  string          `json:"description"`
}

func (req claimRequest) validate(known func(string) bool) *ValidationError {
	if err := validator.ValidatePolicyNumber(req.PolicyNumber); err != nil {
		return invalid("policyNumber", "must look like POL-2024-0001")
	}
	if err := validator.ValidateName(req.ClaimantName); err != nil {
		return invalid("claimantName", "must be between 2 and 100 characters")
	}
	if req.Email != "" {
		if err := validator.ValidateEmail(req.Email); err != nil {
			return invalid("email", "must be a valid email address")
		}
	}
	if !req.Amount.IsPositive() {
		return invalid("amount", "must be greater than 0")
	}
	if !known(currency.Normalize(req.Currency)) {
		return invalid("currency", "is not a supported currency")
	}
	if strings.TrimSpace(req.Description) == "" {
		return invalid("description", "is required")
	}
	return nil
}

// claimStatusView is what an unauthenticated claimant may see.
type claimStatusView struct {
	Reference    string          `json:"reference"`
	PolicyNumber string          `json:"policyNumber"`
	Status       approval.Status `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	SubmittedAt  time.Time       `json:"submittedAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func newClaimStatusView(c models.Claim) claimStatusView {
	return claimStatusView{
		Reference:    c.Reference,
		PolicyNumber: c.PolicyNumber,
		Status:       c.Status,
		Notes:        c.Notes,
		SubmittedAt:  c.SubmittedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (h *Handler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if verr := req.validate(h.rates.Known); verr != nil {
		respondValidation(w, verr)
		return
	}
	claim, err := h.claims.CreateClaim(r.Context(), models.Claim{
		PolicyNumber: strings.TrimSpace(req.PolicyNumber),
		ClaimantName: strings.TrimSpace(req.ClaimantName),
		Email:        strings.TrimSpace(req.Email),
		Amount:       req.Amount,
		Currency:     currency.Normalize(req.Currency),
		Description:  strings.TrimSpace(req.Description),
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "policy not found")
			return
		}
		h.respondStoreError(w, err, "submit claim")
		return
	}
	h.logger.Info().Str("reference", claim.Reference).Str("company_id", claim.CompanyID).Msg("claim submitted")
	h.notifyClaim(r.Context(), claim)
	respondData(w, http.StatusCreated, newClaimStatusView(claim))
}

func (h *Handler) TrackClaim(w http.ResponseWriter, r *http.Request) {
	claim, err := h.claims.ClaimByReference(r.Context(), store.AllCompanies(), chi.URLParam(r, "reference"))
	if err != nil {
		h.respondStoreError(w, err, "track claim")
		return
	}
	respondData(w, http.StatusOK, newClaimStatusView(claim))
}

type approveClaimRequest struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

func (h *Handler) ApproveClaim(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req approveClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Reference) == "" {
		respondValidation(w, invalid("reference", "is required"))
		return
	}
	to, verr := parseStatus(approval.Claims, req.Status)
	if verr != nil {
		respondValidation(w, verr)
		return
	}
	claim, err := h.claims.UpdateClaimStatus(r.Context(), scopeFrom(r, principal), strings.TrimSpace(req.Reference), principal.Role, to, strings.TrimSpace(req.Notes))
	if err != nil {
		h.respondStoreError(w, err, "approve claim")
		return
	}
	h.logger.Info().Str("reference", claim.Reference).Str("status", string(to)).Str("actor", principal.ID).Msg("claim reviewed")
	h.notifyClaim(r.Context(), claim)
	respondData(w, http.StatusOK, claim)
}

// notifyClaim emails the claimant when an address was given. Failures are
// logged only.
func (h *Handler) notifyClaim(ctx context.Context, claim models.Claim) {
	if claim.Email == "" || h.notifier == nil {
		return
	}
	_, err := h.notifier.Send(ctx, notify.Message{
		Type:      notify.ChannelEmail,
		Recipient: claim.Email,
		Template:  "claim_update",
		Data: map[string]string{
			"name":      claim.ClaimantName,
			"reference": claim.Reference,
			"status":    string(claim.Status),
			"notes":     claim.Notes,
		},
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("reference", claim.Reference).Msg("claim notification not sent")
	}
}
