package handlers

import (
	"context"
	"net/http"

	"sautipay/internal/listing"
	"sautipay/internal/store"
)

// listRecords parses the listing query, loads the records visible to the
// caller and writes one page in the list envelope.
func listRecords[T any](h *Handler, w http.ResponseWriter, r *http.Request, action string, load func(context.Context, store.Scope) ([]T, error), acc listing.Accessor[T]) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	query, err := listing.ParseQuery(r.URL.Query())
	if err != nil {
		h.respondStoreError(w, err, action)
		return
	}
	items, err := load(r.Context(), scopeFrom(r, principal))
	if err != nil {
		h.respondStoreError(w, err, action)
		return
	}
	respondList(w, listing.Apply(items, query, acc))
}
