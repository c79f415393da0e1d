package handlers

import (
	"errors"
	"net/http"

	"sautipay/internal/notify"
	"sautipay/internal/validator"
)

func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var msg notify.Message
	if err := decodeJSON(r, &msg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := notify.Validate(msg); err != nil {
		switch {
		case errors.Is(err, notify.ErrInvalidChannel):
			respondValidation(w, invalid("type", "must be email or sms"))
		case errors.Is(err, notify.ErrUnknownTemplate):
			respondValidation(w, invalid("template", "is not a known template"))
		case errors.Is(err, validator.ErrInvalidEmail), errors.Is(err, validator.ErrInvalidPhone):
			respondValidation(w, invalid("recipient", "is not a valid "+string(msg.Type)+" recipient"))
		default:
			respondValidation(w, invalid("recipient", err.Error()))
		}
		return
	}
	delivery, err := h.notifier.Send(r.Context(), msg)
	if err != nil {
		h.logError(err, "send notification")
		respondError(w, http.StatusBadGateway, "notification could not be delivered")
		return
	}
	h.logger.Info().Str("delivery_id", delivery.ID).Str("template", msg.Template).Str("actor", principal.ID).Msg("notification sent")
	respondData(w, http.StatusOK, delivery)
}
