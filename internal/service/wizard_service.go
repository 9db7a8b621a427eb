package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lwsbooking/internal/celebration"
	"lwsbooking/internal/entities"
	apperrors "lwsbooking/internal/errors"
	"lwsbooking/internal/flow"
	"lwsbooking/internal/metrics"
	"lwsbooking/internal/repository"
)

// BookingSubmitter is the part of BookingService the wizard depends on.
type BookingSubmitter interface {
	Submit(ctx context.Context, req entities.BookingRequest) (*entities.BookingResult, error)
}

type WizardConfig struct {
	Offering    entities.Offering
	Celebration celebration.Config
	// Scheduler drives the celebration timers; nil means wall-clock timers.
	Scheduler celebration.Scheduler
	Now       func() time.Time
}

// WizardService runs one booking wizard per session on top of the flow state machine.
type WizardService struct {
	sessions  repository.SessionRepository
	slots     AvailabilityProvider
	booking   BookingSubmitter
	sequencer *celebration.Sequencer
	offering  entities.Offering
	now       func() time.Time
	locks     sessionLocks
	logger    *zap.Logger
}

func NewWizardService(sessions repository.SessionRepository, slots AvailabilityProvider, booking BookingSubmitter, cfg WizardConfig, logger *zap.Logger) *WizardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if slots == nil {
		slots = HashAvailability{}
	}
	w := &WizardService{
		sessions: sessions,
		slots:    slots,
		booking:  booking,
		offering: cfg.Offering,
		now:      cfg.Now,
		logger:   logger,
	}
	w.sequencer = celebration.NewSequencer(cfg.Celebration, cfg.Scheduler, w.ApplyPresentation, logger)
	return w
}

func (w *WizardService) Offering() entities.Offering {
	return w.offering
}

// Dates lists the bookable days starting tomorrow.
func (w *WizardService) Dates() []entities.DateOption {
	return GenerateDates(w.now())
}

// Slots returns the time roster for a bookable date.
func (w *WizardService) Slots(ctx context.Context, date string) ([]entities.TimeSlot, error) {
	if !IsBookableDate(w.now(), date) {
		return nil, apperrors.NewValidationError("date", "Please choose one of the available dates")
	}
	return w.slots.TimeSlots(ctx, date)
}

func (w *WizardService) Start(ctx context.Context) (*repository.Session, error) {
	now := w.now()
	s := &repository.Session{
		ID:        uuid.NewString(),
		Flow:      flow.New().Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	metrics.ActiveSessions.Inc()
	w.logger.Info("booking session started", zap.String("session_id", s.ID))
	return s, nil
}

func (w *WizardService) Get(ctx context.Context, id string) (*repository.Session, error) {
	return w.sessions.Get(ctx, id)
}

// mutate loads the session under its lock, applies fn to the flow and saves the result.
// Nothing is saved when fn fails.
func (w *WizardService) mutate(ctx context.Context, id string, fn func(f *flow.Flow, s *repository.Session) error) (*repository.Session, error) {
	unlock := w.locks.lock(id)
	defer unlock()

	s, err := w.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f := flow.Restore(s.Flow)
	if err := fn(f, s); err != nil {
		return nil, err
	}
	s.Flow = f.Snapshot()
	s.UpdatedAt = w.now()
	if err := w.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (w *WizardService) SetFormat(ctx context.Context, id string, format entities.Format) (*repository.Session, error) {
	return w.mutate(ctx, id, func(f *flow.Flow, _ *repository.Session) error {
		return f.SetFormat(format)
	})
}

func (w *WizardService) ChooseDate(ctx context.Context, id string) (*repository.Session, error) {
	return w.mutate(ctx, id, func(f *flow.Flow, _ *repository.Session) error {
		return f.ChooseDate()
	})
}

func (w *WizardService) SelectDate(ctx context.Context, id, date string) (*repository.Session, error) {
	slots, err := w.Slots(ctx, date)
	if err != nil {
		return nil, err
	}
	return w.mutate(ctx, id, func(f *flow.Flow, _ *repository.Session) error {
		return f.SelectDate(date, slots)
	})
}

// SelectTime ignores labels that are not offered or not available on the chosen date.
func (w *WizardService) SelectTime(ctx context.Context, id, label string) (*repository.Session, error) {
	return w.mutate(ctx, id, func(f *flow.Flow, _ *repository.Session) error {
		ok, err := f.SelectTime(label)
		if err == nil && !ok {
			w.logger.Debug("ignored unavailable time", zap.String("session_id", id), zap.String("time", label))
		}
		return err
	})
}

func (w *WizardService) Proceed(ctx context.Context, id string) (*repository.Session, error) {
	return w.mutate(ctx, id, func(f *flow.Flow, _ *repository.Session) error {
		return f.Proceed()
	})
}

func (w *WizardService) Back(ctx context.Context, id string) (*repository.Session, error) {
	return w.mutate(ctx, id, func(f *flow.Flow, _ *repository.Session) error {
		return f.Back()
	})
}

func (w *WizardService) UpdateClient(ctx context.Context, id string, info entities.ClientInfo) (*repository.Session, error) {
	return w.mutate(ctx, id, func(f *flow.Flow, _ *repository.Session) error {
		return f.UpdateClient(info)
	})
}

// Submit books the current selection. The session sits in Submitting while the booking
// endpoint is called, which rejects any concurrent submit. On failure the session is
// back in the client info step with everything kept and the error is returned.
func (w *WizardService) Submit(ctx context.Context, id string) (*repository.Session, error) {
	var req entities.BookingRequest
	if _, err := w.mutate(ctx, id, func(f *flow.Flow, _ *repository.Session) error {
		var err error
		req, err = f.BeginSubmit(w.offering)
		return err
	}); err != nil {
		return nil, err
	}

	// The booking may commit server side, so the outcome is recorded even if the caller leaves.
	ctx = context.WithoutCancel(ctx)
	result, submitErr := w.booking.Submit(ctx, req)

	s, err := w.mutate(ctx, id, func(f *flow.Flow, s *repository.Session) error {
		if submitErr != nil {
			return f.Fail(failureMessage(submitErr))
		}
		s.Presentation = celebration.State{}
		return f.Succeed(*result)
	})
	if err != nil {
		w.logger.Error("could not record booking outcome", zap.String("session_id", id), zap.Error(err))
		if submitErr != nil {
			return nil, submitErr
		}
		return nil, err
	}
	if submitErr != nil {
		return s, submitErr
	}

	w.logger.Info("booking succeeded", zap.String("session_id", id), zap.String("booking_id", result.BookingID))
	w.sequencer.Start(id)
	return w.sessions.Get(ctx, id)
}

func failureMessage(err error) string {
	var serverErr *apperrors.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.UserMessage()
	}
	var validation *apperrors.ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	return "Something went wrong with your booking. Please try again, or contact us directly to complete your booking."
}

// Dismiss closes the success modal and returns the session to a fresh wizard.
func (w *WizardService) Dismiss(ctx context.Context, id string) (*repository.Session, error) {
	return w.mutate(ctx, id, func(f *flow.Flow, s *repository.Session) error {
		if err := f.Dismiss(); err != nil {
			return err
		}
		w.sequencer.Stop(id)
		s.Presentation = celebration.State{}
		return nil
	})
}

// Reset starts the wizard over from any step except while a submission is in flight.
func (w *WizardService) Reset(ctx context.Context, id string) (*repository.Session, error) {
	return w.mutate(ctx, id, func(f *flow.Flow, s *repository.Session) error {
		if f.State() == flow.Submitting {
			return apperrors.ErrInvalidTransition
		}
		w.sequencer.Stop(id)
		s.Presentation = celebration.State{}
		f.Reset()
		return nil
	})
}

// ApplyPresentation records a celebration phase. Phases arriving after the session left
// Succeeded are dropped.
func (w *WizardService) ApplyPresentation(id string, phase celebration.Phase) {
	ctx := context.Background()
	unlock := w.locks.lock(id)
	defer unlock()

	s, err := w.sessions.Get(ctx, id)
	if err != nil {
		w.logger.Debug("celebration phase for missing session", zap.String("session_id", id), zap.String("phase", string(phase)))
		return
	}
	if s.Flow.State != flow.Succeeded {
		return
	}
	s.Presentation = s.Presentation.Apply(phase)
	if err := w.sessions.Save(ctx, s); err != nil {
		w.logger.Error("saving celebration phase failed", zap.String("session_id", id), zap.Error(err))
	}
}

// CelebrationActive reports whether celebration phases are still pending for the session.
func (w *WizardService) CelebrationActive(id string) bool {
	return w.sequencer.Active(id)
}
