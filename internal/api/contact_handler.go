package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lwsbooking/internal/entities"
	apperrors "lwsbooking/internal/errors"
	"lwsbooking/internal/service"
)

type ContactHandler struct {
	Service *service.ContactService
	logger  *zap.Logger
}

func NewContactHandler(svc *service.ContactService, logger *zap.Logger) *ContactHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactHandler{Service: svc, logger: logger}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var msg entities.ContactMessage
	if err := decode(w, r, &msg); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.Submit(r.Context(), msg); err != nil {
		var validation *apperrors.ValidationError
		if errors.As(err, &validation) {
			writeError(w, err)
			return
		}
		apperrors.WriteJSON(w, apperrors.ErrBadGateway("We could not send your message. Please try again or email us directly."))
		return
	}
	writeJSON(w, http.StatusOK, ContactResponse{Success: true, Message: "Thank you! We will get back to you within 24-48 hours."})
}
