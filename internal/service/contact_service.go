package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"lwsbooking/internal/entities"
	"lwsbooking/internal/metrics"
)

const defaultContactTimeout = 10 * time.Second

// ContactService relays the contact form to the site owner and acknowledges the sender.
type ContactService struct {
	formURL    string
	business   BusinessInfo
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

func NewContactService(formURL string, business BusinessInfo, timeout time.Duration, logger *zap.Logger) *ContactService {
	if timeout <= 0 {
		timeout = defaultContactTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{
		formURL:    formURL,
		business:   business,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func ownerNotification(msg entities.ContactMessage) url.Values {
	subject := msg.Subject
	if subject == "" {
		subject = "New contact form message"
	}
	phone := strings.TrimSpace(msg.Phone)
	if phone == "" {
		phone = entities.DefaultPhone
	}
	v := url.Values{}
	v.Set("name", strings.TrimSpace(msg.Name))
	v.Set("email", strings.TrimSpace(msg.Email))
	v.Set("phone", phone)
	v.Set("subject", subject)
	v.Set("message", strings.TrimSpace(msg.Message))
	v.Set("_replyto", strings.TrimSpace(msg.Email))
	v.Set("_subject", fmt.Sprintf("Contact form: %s", subject))
	return v
}

func submitterConfirmation(msg entities.ContactMessage, business BusinessInfo) url.Values {
	name := strings.TrimSpace(msg.Name)
	v := url.Values{}
	v.Set("email", strings.TrimSpace(msg.Email))
	v.Set("_replyto", business.Email)
	v.Set("_subject", fmt.Sprintf("Thank you for contacting %s", business.Name))
	v.Set("message", fmt.Sprintf(
		"Hi %s,\n\nThank you for reaching out to %s. We received your message and will get back to you within 24-48 hours.\n\nYour message:\n%s",
		name, business.Name, strings.TrimSpace(msg.Message),
	))
	return v
}

// Submit sends the owner notification and then the confirmation. The second POST is
// attempted even if the first fails; any failure is returned.
func (s *ContactService) Submit(ctx context.Context, msg entities.ContactMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if s.formURL == "" {
		metrics.RecordContactMessage("failed")
		return errors.New("contact form relay is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var errs []error
	if err := postForm(ctx, s.httpClient, s.formURL, ownerNotification(msg)); err != nil {
		errs = append(errs, fmt.Errorf("owner notification: %w", err))
	}
	if err := postForm(ctx, s.httpClient, s.formURL, submitterConfirmation(msg, s.business)); err != nil {
		errs = append(errs, fmt.Errorf("submitter confirmation: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Error("contact message relay failed", zap.String("email", msg.Email), zap.Error(err))
		metrics.RecordContactMessage("failed")
		return err
	}
	s.logger.Info("contact message relayed", zap.String("email", msg.Email))
	metrics.RecordContactMessage("sent")
	return nil
}
