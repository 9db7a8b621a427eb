package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lwsbooking/internal/entities"
	apperrors "lwsbooking/internal/errors"
	"lwsbooking/internal/metrics"
)

const (
	bookingIDPrefix     = "LWS-"
	defaultEmailTimeout = 10 * time.Second
)

// BookingService submits a booking and then, best effort, confirms it to the client.
type BookingService struct {
	gateway      BookingGateway
	email        ConfirmationSender
	sms          SMSNotifier
	business     BusinessInfo
	emailTimeout time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

type BookingServiceConfig struct {
	Business     BusinessInfo
	EmailTimeout time.Duration
	Now          func() time.Time
}

// NewBookingService wires the coordinator. sms may be nil.
func NewBookingService(gateway BookingGateway, email ConfirmationSender, sms SMSNotifier, cfg BookingServiceConfig, logger *zap.Logger) *BookingService {
	if cfg.EmailTimeout <= 0 {
		cfg.EmailTimeout = defaultEmailTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if email == nil {
		email = NewDisabledSender(logger)
	}
	return &BookingService{
		gateway:      gateway,
		email:        email,
		sms:          sms,
		business:     cfg.Business,
		emailTimeout: cfg.EmailTimeout,
		now:          cfg.Now,
		logger:       logger,
	}
}

// FallbackBookingID is the reference used when the endpoint does not assign one.
func FallbackBookingID(now time.Time) string {
	return fmt.Sprintf("%s%d", bookingIDPrefix, now.UnixMilli())
}

// Submit runs validate, POST, confirmation email and SMS strictly in that order.
// Only validation and the POST can fail the booking.
func (s *BookingService) Submit(ctx context.Context, req entities.BookingRequest) (*entities.BookingResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Client = req.Client.Normalized()

	resp, err := s.gateway.CreateBooking(ctx, req)
	if err != nil {
		metrics.RecordBookingSubmission("failed")
		var serverErr *apperrors.ServerError
		if !errors.As(err, &serverErr) {
			err = &apperrors.ServerError{Message: "We could not complete your booking", Err: err}
		}
		s.logger.Error("booking submission failed",
			zap.String("date", req.Date),
			zap.String("time", req.Time),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.RecordBookingSubmission("succeeded")

	bookingID := resp.BookingID
	if bookingID == "" {
		bookingID = FallbackBookingID(s.now())
		s.logger.Info("booking endpoint returned no id; using local reference", zap.String("booking_id", bookingID))
	}

	// The booking is committed: confirmations must not be cut short by the caller going away.
	notifyCtx := context.WithoutCancel(ctx)
	data := buildConfirmationData(req, bookingID, s.business, s.now().Year())
	emailSent := s.sendConfirmation(notifyCtx, data)
	s.sendSMS(notifyCtx, req.Client, data)

	s.logger.Info("booking confirmed",
		zap.String("booking_id", bookingID),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.String("format", string(req.Format)),
		zap.Bool("email_sent", emailSent),
	)
	return &entities.BookingResult{Success: true, BookingID: bookingID, EmailSent: emailSent}, nil
}

func (s *BookingService) sendConfirmation(ctx context.Context, data entities.ConfirmationEmailData) bool {
	ctx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()

	s.logger.Info("sending confirmation email", zap.String("booking_id", data.BookingID), zap.String("to", data.ToEmail))
	if err := s.email.SendConfirmation(ctx, data); err != nil {
		warning := &apperrors.EmailDeliveryWarning{BookingID: data.BookingID, Err: err}
		s.logger.Warn("confirmation email failed", zap.String("booking_id", data.BookingID), zap.Error(warning))
		metrics.RecordConfirmationEmail("failed")
		return false
	}
	s.logger.Info("confirmation email delivered", zap.String("booking_id", data.BookingID))
	metrics.RecordConfirmationEmail("sent")
	return true
}

func (s *BookingService) sendSMS(ctx context.Context, client entities.ClientInfo, data entities.ConfirmationEmailData) {
	if s.sms == nil || !client.HasPhone() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()

	if err := s.sms.SendBookingSMS(ctx, client.Phone, data); err != nil {
		s.logger.Warn("confirmation SMS failed", zap.String("booking_id", data.BookingID), zap.Error(err))
		metrics.RecordConfirmationSMS("failed")
		return
	}
	metrics.RecordConfirmationSMS("sent")
}
