package entities

import (
	"strings"

	apperrors "lwsbooking/internal/errors"
)

type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (m ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return apperrors.NewValidationError("name", "Please enter your name")
	}
	if !ValidEmail(m.Email) {
		return apperrors.NewValidationError("email", "Please enter a valid email address")
	}
	if strings.TrimSpace(m.Message) == "" {
		return apperrors.NewValidationError("message", "Please enter a message")
	}
	return nil
}
