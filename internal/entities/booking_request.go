package entities

import (
	"regexp"
	"strings"

	apperrors "lwsbooking/internal/errors"
)

type Format string

const (
	FormatInPerson Format = "in-person"
	FormatVirtual  Format = "virtual"
)

func (f Format) Valid() bool {
	return f == FormatInPerson || f == FormatVirtual
}

const (
	DefaultPhone = "Not provided"
	DefaultNotes = "None"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s (after trimming) looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

type ClientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// Validate checks the required fields, name first.
func (c ClientInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperrors.NewValidationError("name", "Please enter your name")
	}
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return apperrors.NewValidationError("email", "Please enter your email address")
	}
	if !emailPattern.MatchString(email) {
		return apperrors.NewValidationError("email", "Please enter a valid email address")
	}
	return nil
}

// Normalized trims every field and fills the optional ones with their display defaults.
func (c ClientInfo) Normalized() ClientInfo {
	out := ClientInfo{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
		Notes: strings.TrimSpace(c.Notes),
	}
	if out.Phone == "" {
		out.Phone = DefaultPhone
	}
	if out.Notes == "" {
		out.Notes = DefaultNotes
	}
	return out
}

// HasPhone is false when the visitor left the phone field empty.
func (c ClientInfo) HasPhone() bool {
	p := strings.TrimSpace(c.Phone)
	return p != "" && p != DefaultPhone
}

// BookingRequest is the payload posted to the booking endpoint.
type BookingRequest struct {
	ServiceName string     `json:"serviceName"`
	Date        string     `json:"selectedDate"`
	Time        string     `json:"selectedTime"`
	Format      Format     `json:"selectedFormat"`
	Duration    string     `json:"duration"`
	Price       string     `json:"price"`
	Client      ClientInfo `json:"clientInfo"`
}

// Validate applies the submission guard: name, then email, then date/time.
func (r BookingRequest) Validate() error {
	if err := r.Client.Validate(); err != nil {
		return err
	}
	if r.Date == "" {
		return apperrors.NewValidationError("date", "Please select a date and time")
	}
	if r.Time == "" {
		return apperrors.NewValidationError("time", "Please select a date and time")
	}
	return nil
}

// Offering describes the service being booked. Duration and price are display text only.
type Offering struct {
	ServiceName string `json:"serviceName"`
	Duration    string `json:"duration"`
	Price       string `json:"price"`
}
