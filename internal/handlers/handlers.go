package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sautipay/internal/approval"
	"sautipay/internal/listing"
	"sautipay/internal/store"
)

type envelope struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data,omitempty"`
	Message    string              `json:"message,omitempty"`
	Field      string              `json:"field,omitempty"`
	Pagination *listing.Pagination `json:"pagination,omitempty"`
}

// ValidationError is a 400 naming the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Success: false, Message: message})
}

func respondData(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Success: true, Message: message})
}

func respondList[T any](w http.ResponseWriter, page listing.Page[T]) {
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: page.Data, Pagination: &page.Pagination})
}

func respondValidation(w http.ResponseWriter, err *ValidationError) {
	respondJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error(), Field: err.Field})
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

// respondStoreError maps repository and transition errors to status codes.
// Anything unrecognised is logged and hidden behind a 500.
func (h *Handler) respondStoreError(w http.ResponseWriter, err error, action string) {
	var queryErr *listing.QueryError
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondValidation(w, validationErr)
	case errors.As(err, &queryErr):
		respondValidation(w, invalid(queryErr.Field, queryErr.Message))
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, "already exists")
	case errors.Is(err, approval.ErrForbidden):
		respondError(w, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, approval.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.logError(err, action)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) logError(err error, action string) {
	h.logger.Error().Err(err).Str("action", action).Msg("request failed")
}
