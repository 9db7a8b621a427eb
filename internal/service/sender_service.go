package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"lwsbooking/internal/entities"
	apperrors "lwsbooking/internal/errors"
	"lwsbooking/internal/utils"
)

// ConfirmationSender delivers the booking confirmation to the client.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, data entities.ConfirmationEmailData) error
}

// BusinessInfo is the sender identity shown in confirmations.
type BusinessInfo struct {
	Name  string
	Email string
}

func buildConfirmationData(req entities.BookingRequest, bookingID string, business BusinessInfo, year int) entities.ConfirmationEmailData {
	client := req.Client.Normalized()
	return entities.ConfirmationEmailData{
		ToEmail:       client.Email,
		ToName:        client.Name,
		FromName:      business.Name,
		ServiceName:   req.ServiceName,
		DateFormatted: utils.LongDate(req.Date),
		Time:          req.Time,
		FormatLabel:   utils.FormatLabel(req.Format),
		Duration:      req.Duration,
		Price:         req.Price,
		BookingID:     bookingID,
		ClientPhone:   client.Phone,
		ClientNotes:   client.Notes,
		BusinessEmail: business.Email,
		CurrentYear:   year,
	}
}

func confirmationSubject(d entities.ConfirmationEmailData) string {
	return fmt.Sprintf("Your %s booking is confirmed - Ref: %s", d.ServiceName, d.BookingID)
}

func confirmationPlainText(d entities.ConfirmationEmailData) string {
	return fmt.Sprintf(
		"Hello %s,\n\nYour %s appointment is confirmed.\n\n"+
			"Booking Details:\n"+
			"Booking Reference: %s\n"+
			"Date: %s\n"+
			"Time: %s\n"+
			"Session: %s\n"+
			"Duration: %s\n"+
			"Investment: %s\n"+
			"Phone: %s\n"+
			"Notes: %s\n\n"+
			"Questions? Reply to %s.\n\n"+
			"%d %s. All rights reserved.",
		d.ToName, d.ServiceName, d.BookingID, d.DateFormatted, d.Time, d.FormatLabel,
		d.Duration, d.Price, d.ClientPhone, d.ClientNotes, d.BusinessEmail, d.CurrentYear, d.FromName,
	)
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #2b2b2b;">
  <h2>Your appointment is confirmed</h2>
  <p>Hello {{.ToName}},</p>
  <p>Thank you for booking <strong>{{.ServiceName}}</strong> with {{.FromName}}.</p>
  <table cellpadding="4">
    <tr><td>Booking reference</td><td><strong>{{.BookingID}}</strong></td></tr>
    <tr><td>Date</td><td>{{.DateFormatted}}</td></tr>
    <tr><td>Time</td><td>{{.Time}}</td></tr>
    <tr><td>Session</td><td>{{.FormatLabel}}</td></tr>
    <tr><td>Duration</td><td>{{.Duration}}</td></tr>
    <tr><td>Investment</td><td>{{.Price}}</td></tr>
    <tr><td>Phone</td><td>{{.ClientPhone}}</td></tr>
    <tr><td>Notes</td><td>{{.ClientNotes}}</td></tr>
  </table>
  <p>Questions? Write to <a href="mailto:{{.BusinessEmail}}">{{.BusinessEmail}}</a>.</p>
  <p style="font-size: 12px; color: #888;">&copy; {{.CurrentYear}} {{.FromName}}. All rights reserved.</p>
</body>
</html>`))

func confirmationHTMLBody(d entities.ConfirmationEmailData) (string, error) {
	var buf bytes.Buffer
	if err := confirmationHTML.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("rendering confirmation email: %w", err)
	}
	return buf.String(), nil
}

// EmailJSConfig identifies the EmailJS service and template used for confirmations.
type EmailJSConfig struct {
	URL        string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// EmailJSSender posts the template parameters form-encoded to EmailJS.
type EmailJSSender struct {
	cfg        EmailJSConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewEmailJSSender(cfg EmailJSConfig, logger *zap.Logger) *EmailJSSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailJSSender{cfg: cfg, httpClient: &http.Client{}, logger: logger}
}

func emailJSFields(cfg EmailJSConfig, d entities.ConfirmationEmailData) url.Values {
	v := url.Values{}
	v.Set("service_id", cfg.ServiceID)
	v.Set("template_id", cfg.TemplateID)
	v.Set("user_id", cfg.PublicKey)
	v.Set("to_email", d.ToEmail)
	v.Set("to_name", d.ToName)
	v.Set("from_name", d.FromName)
	v.Set("service_name", d.ServiceName)
	v.Set("appointment_date", d.DateFormatted)
	v.Set("appointment_time", d.Time)
	v.Set("session_format", d.FormatLabel)
	v.Set("duration", d.Duration)
	v.Set("price", d.Price)
	v.Set("booking_id", d.BookingID)
	v.Set("client_phone", d.ClientPhone)
	v.Set("client_notes", d.ClientNotes)
	v.Set("business_email", d.BusinessEmail)
	return v
}

func (s *EmailJSSender) SendConfirmation(ctx context.Context, d entities.ConfirmationEmailData) error {
	if err := postForm(ctx, s.httpClient, s.cfg.URL, emailJSFields(s.cfg, d)); err != nil {
		return fmt.Errorf("emailjs: %w", err)
	}
	s.logger.Info("confirmation email sent via emailjs", zap.String("to", d.ToEmail), zap.String("booking_id", d.BookingID))
	return nil
}

// DisabledSender stands in when no email provider is configured.
type DisabledSender struct {
	logger *zap.Logger
}

func NewDisabledSender(logger *zap.Logger) *DisabledSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DisabledSender{logger: logger}
}

func (s *DisabledSender) SendConfirmation(_ context.Context, d entities.ConfirmationEmailData) error {
	s.logger.Warn("no email provider configured; confirmation not sent", zap.String("booking_id", d.BookingID))
	return apperrors.ErrEmailDisabled
}
