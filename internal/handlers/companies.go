package handlers

import (
	"net/http"

	"sautipay/internal/approval"
	"sautipay/internal/listing"
	"sautipay/internal/models"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	query, err := listing.ParseQuery(r.URL.Query())
	if err != nil {
		h.respondStoreError(w, err, "list companies")
		return
	}
	companies, err := h.companies.Companies(r.Context())
	if err != nil {
		h.respondStoreError(w, err, "list companies")
		return
	}
	respondList(w, listing.Apply(companies, query, models.CompanyAccessor))
}

func (h *Handler) UpdateCompanyStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	to, ok := h.decodeStatus(w, r, approval.Companies)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	company, err := h.companies.UpdateCompanyStatus(r.Context(), id, principal.Role, to)
	if err != nil {
		h.respondStoreError(w, err, "update company")
		return
	}
	h.logger.Info().Str("company_id", id).Str("status", string(to)).Str("actor", principal.ID).Msg("company status changed")
	respondData(w, http.StatusOK, company)
}

// ResetData reloads the seed data. Development only.
func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	if err := h.resetter.Reset(); err != nil {
		h.logError(err, "reset data")
		respondError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	h.logger.Warn().Msg("repository reset to seed data")
	respondMessage(w, http.StatusOK, "data reset")
}
