package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"lwsbooking/internal/auth"
	"lwsbooking/internal/entities"
	apperrors "lwsbooking/internal/errors"
	"lwsbooking/internal/repository"
	"lwsbooking/internal/service"
)

type BookingHandler struct {
	Wizard *service.WizardService
	Tokens *auth.TokenIssuer
	logger *zap.Logger
}

func NewBookingHandler(wizard *service.WizardService, tokens *auth.TokenIssuer, logger *zap.Logger) *BookingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingHandler{Wizard: wizard, Tokens: tokens, logger: logger}
}

func (h *BookingHandler) ListDates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DatesResponse{Dates: h.Wizard.Dates(), Offering: h.Wizard.Offering()})
}

func (h *BookingHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	slots, err := h.Wizard.Slots(r.Context(), date)
	if err != nil {
		h.logger.Warn("listing slots failed", zap.String("date", date), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.SlotsResponse{Date: date, Slots: slots})
}

func (h *BookingHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.Wizard.Start(r.Context())
	if err != nil {
		h.logger.Error("starting session failed", zap.Error(err))
		writeError(w, err)
		return
	}
	token, err := h.Tokens.Issue(s.ID)
	if err != nil {
		h.logger.Error("issuing session token failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, StartSessionResponse{Session: s, Token: token})
}

func (h *BookingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Wizard.Get)
}

func (h *BookingHandler) SetFormat(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, func(ctx context.Context, id string) (*repository.Session, error) {
		return h.Wizard.SetFormat(ctx, id, req.Format)
	})
}

func (h *BookingHandler) ChooseDate(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Wizard.ChooseDate)
}

func (h *BookingHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req DateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, func(ctx context.Context, id string) (*repository.Session, error) {
		return h.Wizard.SelectDate(ctx, id, req.Date)
	})
}

func (h *BookingHandler) SelectTime(w http.ResponseWriter, r *http.Request) {
	var req TimeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, func(ctx context.Context, id string) (*repository.Session, error) {
		return h.Wizard.SelectTime(ctx, id, req.Time)
	})
}

func (h *BookingHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Wizard.Proceed)
}

func (h *BookingHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Wizard.Back)
}

func (h *BookingHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req entities.ClientInfo
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, func(ctx context.Context, id string) (*repository.Session, error) {
		return h.Wizard.UpdateClient(ctx, id, req)
	})
}

// Submit answers 502 when the booking endpoint fails; the session is then back on the
// client info step and can be fetched again.
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Wizard.Submit)
}

func (h *BookingHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Wizard.Dismiss)
}

func (h *BookingHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Wizard.Reset)
}

func (h *BookingHandler) respond(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*repository.Session, error)) {
	id := mux.Vars(r)["id"]
	s, err := op(r.Context(), id)
	if err != nil {
		if apperrors.ToHTTP(err).Code >= http.StatusInternalServerError {
			h.logger.Error("booking session request failed", zap.String("session_id", id), zap.String("path", r.URL.Path), zap.Error(err))
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
