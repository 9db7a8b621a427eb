package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"lwsbooking/internal/entities"
	apperrors "lwsbooking/internal/errors"
)

const defaultBookingTimeout = 15 * time.Second

// BookingGateway hands a booking to the system of record.
type BookingGateway interface {
	CreateBooking(ctx context.Context, req entities.BookingRequest) (*entities.BookingResponse, error)
}

// HTTPBookingGateway posts bookings as JSON to the bookings endpoint.
type HTTPBookingGateway struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPBookingGateway(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPBookingGateway {
	if timeout <= 0 {
		timeout = defaultBookingTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPBookingGateway{
		endpoint:   endpoint,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (g *HTTPBookingGateway) CreateBooking(ctx context.Context, req entities.BookingRequest) (*entities.BookingResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding booking request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building booking request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		msg := "We could not reach our booking system"
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "Our booking system took too long to respond"
		}
		g.logger.Error("booking request failed", zap.String("endpoint", g.endpoint), zap.Error(err))
		return nil, &apperrors.ServerError{Message: msg, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &apperrors.ServerError{Status: resp.StatusCode, Message: "We could not read the booking confirmation", Err: err}
	}

	var out entities.BookingResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("Booking request failed (status %d)", resp.StatusCode)
		if decodeErr == nil && out.Error != "" {
			msg = out.Error
		}
		g.logger.Warn("booking rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("error", msg),
		)
		return nil, &apperrors.ServerError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &apperrors.ServerError{Status: resp.StatusCode, Message: "We could not read the booking confirmation", Err: decodeErr}
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "Booking was not accepted"
		}
		return nil, &apperrors.ServerError{Status: resp.StatusCode, Message: msg}
	}
	return &out, nil
}
