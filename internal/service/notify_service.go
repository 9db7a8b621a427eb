package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"lwsbooking/internal/entities"
)

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender delivers confirmations through the SendGrid v3 API.
type SendGridSender struct {
	cfg     SendGridConfig
	baseURL string
	logger  *zap.Logger
}

func NewSendGridSender(cfg SendGridConfig, logger *zap.Logger) *SendGridSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FromName == "" {
		cfg.FromName = "LWS Styling"
	}
	return &SendGridSender{cfg: cfg, logger: logger}
}

func (s *SendGridSender) SendConfirmation(ctx context.Context, d entities.ConfirmationEmailData) error {
	htmlBody, err := confirmationHTMLBody(d)
	if err != nil {
		return err
	}
	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	to := mail.NewEmail(d.ToName, d.ToEmail)
	message := mail.NewSingleEmail(from, confirmationSubject(d), to, confirmationPlainText(d), htmlBody)

	client := sendgrid.NewSendClient(s.cfg.APIKey)
	if s.baseURL != "" {
		client.BaseURL = s.baseURL
	}
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: send to %s failed: %w", d.ToEmail, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		s.logger.Error("sendgrid returned error status",
			zap.Int("status", response.StatusCode),
			zap.String("body", response.Body),
			zap.String("to", d.ToEmail),
		)
		return fmt.Errorf("sendgrid: returned status %d", response.StatusCode)
	}
	s.logger.Info("confirmation email sent via sendgrid", zap.String("to", d.ToEmail), zap.Int("status", response.StatusCode))
	return nil
}

// SMSNotifier sends the optional text confirmation.
type SMSNotifier interface {
	SendBookingSMS(ctx context.Context, to string, d entities.ConfirmationEmailData) error
}

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type TwilioSMSNotifier struct {
	api    messageCreator
	from   string
	logger *zap.Logger
}

func NewTwilioSMSNotifier(cfg TwilioConfig, logger *zap.Logger) *TwilioSMSNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   cfg.AccountSID,
		Password:   cfg.AuthToken,
		AccountSid: cfg.AccountSID,
	})
	return &TwilioSMSNotifier{api: client.Api, from: cfg.FromNumber, logger: logger}
}

func bookingSMSText(d entities.ConfirmationEmailData) string {
	return fmt.Sprintf("%s: your %s (%s) is confirmed for %s at %s. Ref %s. Details are in your email.",
		d.FromName, d.ServiceName, d.FormatLabel, d.DateFormatted, d.Time, d.BookingID)
}

func (n *TwilioSMSNotifier) SendBookingSMS(_ context.Context, to string, d entities.ConfirmationEmailData) error {
	if !strings.HasPrefix(to, "+") {
		n.logger.Warn("destination number is not E.164; SMS may fail", zap.String("to", to))
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(bookingSMSText(d))

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: send to %s failed: %w", to, err)
	}
	if resp != nil && resp.Sid != nil {
		n.logger.Info("confirmation SMS sent", zap.String("to", to), zap.String("sid", *resp.Sid))
	}
	return nil
}
