package handlers

import (
	"context"
	"fmt"
	"net/http"

	"sautipay/internal/export"
	"sautipay/internal/listing"
	"sautipay/internal/models"
	"sautipay/internal/premium"
	"sautipay/internal/store"

	"github.com/shopspring/decimal"
)

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	listRecords(h, w, r, "list transactions", h.transactionViews, models.TransactionAccessor)
}

// ExportTransactions applies the same filters as the list and returns every
// matching row as an xlsx workbook.
func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	query, err := listing.ParseQuery(r.URL.Query())
	if err != nil {
		h.respondStoreError(w, err, "export transactions")
		return
	}
	views, err := h.transactionViews(r.Context(), scopeFrom(r, principal))
	if err != nil {
		h.respondStoreError(w, err, "export transactions")
		return
	}
	query.Page = 1
	query.Limit = len(views) + 1
	page := listing.Apply(views, query, models.TransactionAccessor)

	body, err := export.Workbook("Transactions", "Sauti Pay", export.TransactionColumns, page.Data)
	if err != nil {
		h.logError(err, "export transactions")
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}
	filename := fmt.Sprintf("transactions-%s.xlsx", h.now().Format("20060102-150405"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// transactionViews derives net premium and commission for each transaction
// from the current fee settings and the broker's rate.
func (h *Handler) transactionViews(ctx context.Context, scope store.Scope) ([]models.TransactionView, error) {
	txns, err := h.transactions.Transactions(ctx, scope)
	if err != nil {
		return nil, err
	}
	fees, err := h.settings.Fees(ctx)
	if err != nil {
		return nil, err
	}
	brokers, err := h.brokers.Brokers(ctx, scope)
	if err != nil {
		return nil, err
	}
	rates := make(map[string]decimal.Decimal, len(brokers))
	for _, broker := range brokers {
		rates[broker.ID] = broker.CommissionRate
	}

	views := make([]models.TransactionView, 0, len(txns))
	for _, txn := range txns {
		rate := rates[txn.BrokerID]
		derived, err := premium.Derive(txn.GrossPremium, fees, txn.Currency, rate, h.rates)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", txn.ID, err)
		}
		views = append(views, models.TransactionView{
			Transaction:    txn,
			NetPremium:     derived.Net.Round(2),
			CommissionRate: rate,
			Commission:     derived.Commission.Round(2),
		})
	}
	return views, nil
}
