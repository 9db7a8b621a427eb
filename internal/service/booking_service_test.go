package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"lwsbooking/internal/entities"
	apperrors "lwsbooking/internal/errors"
)

// callLog records the order in which outbound calls happen.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type mockSender struct {
	mock.Mock
	log *callLog
}

func (m *mockSender) SendConfirmation(ctx context.Context, d entities.ConfirmationEmailData) error {
	if m.log != nil {
		m.log.add("email")
	}
	return m.Called(d).Error(0)
}

type mockSMS struct {
	mock.Mock
	log *callLog
}

func (m *mockSMS) SendBookingSMS(ctx context.Context, to string, d entities.ConfirmationEmailData) error {
	if m.log != nil {
		m.log.add("sms")
	}
	return m.Called(to, d).Error(0)
}

func bookingServer(t *testing.T, log *callLog, status int, body string) (*httptest.Server, *entities.BookingRequest) {
	t.Helper()
	var received entities.BookingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if log != nil {
			log.add("booking")
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestBookingService(endpoint string, sender ConfirmationSender, sms SMSNotifier, logger *zap.Logger) *BookingService {
	gw := NewHTTPBookingGateway(endpoint, time.Second, logger)
	return NewBookingService(gw, sender, sms, BookingServiceConfig{
		Business: testBusiness,
		Now:      func() time.Time { return fixedNow },
	}, logger)
}

func TestSubmitSuccessUsesServerBookingID(t *testing.T) {
	log := &callLog{}
	srv, received := bookingServer(t, log, http.StatusOK, `{"success":true,"bookingId":"BK-77"}`)
	sender := &mockSender{log: log}
	sender.On("SendConfirmation", mock.MatchedBy(func(d entities.ConfirmationEmailData) bool {
		return d.BookingID == "BK-77" && d.ToEmail == "ada@example.com"
	})).Return(nil).Once()

	svc := newTestBookingService(srv.URL, sender, nil, nil)
	res, err := svc.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, &entities.BookingResult{Success: true, BookingID: "BK-77", EmailSent: true}, res)
	assert.Equal(t, []string{"booking", "email"}, log.list())
	assert.Equal(t, "Ada", received.Client.Name)
	assert.Equal(t, entities.DefaultPhone, received.Client.Phone)
	assert.Equal(t, entities.DefaultNotes, received.Client.Notes)
	assert.Equal(t, entities.FormatVirtual, received.Format)
	sender.AssertExpectations(t)
}

func TestSubmitFallsBackToLocalBookingID(t *testing.T) {
	srv, _ := bookingServer(t, nil, http.StatusCreated, `{"success":true}`)
	sender := &mockSender{}
	sender.On("SendConfirmation", mock.Anything).Return(nil).Once()

	svc := newTestBookingService(srv.URL, sender, nil, nil)
	res, err := svc.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, FallbackBookingID(fixedNow), res.BookingID)
	assert.Regexp(t, `^LWS-\d+$`, res.BookingID)
}

func TestSubmitEmailFailureStillSucceeds(t *testing.T) {
	srv, _ := bookingServer(t, nil, http.StatusOK, `{"success":true,"bookingId":"BK-1"}`)
	sender := &mockSender{}
	sender.On("SendConfirmation", mock.Anything).Return(errors.New("smtp down")).Once()

	core, logs := observer.New(zapcore.InfoLevel)
	svc := newTestBookingService(srv.URL, sender, nil, zap.New(core))
	res, err := svc.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "BK-1", res.BookingID)
	assert.False(t, res.EmailSent)
	assert.Equal(t, 1, logs.FilterMessage("sending confirmation email").Len())

	warnings := logs.FilterMessage("confirmation email failed").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
	assert.Contains(t, warnings[0].ContextMap()["error"], "smtp down")
}

func TestSubmitWithEmailDisabled(t *testing.T) {
	srv, _ := bookingServer(t, nil, http.StatusOK, `{"success":true,"bookingId":"BK-2"}`)

	svc := newTestBookingService(srv.URL, nil, nil, nil)
	res, err := svc.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.EmailSent)
}

func TestSubmitValidationMakesNoNetworkCall(t *testing.T) {
	log := &callLog{}
	srv, _ := bookingServer(t, log, http.StatusOK, `{"success":true}`)
	sender := &mockSender{log: log}

	svc := newTestBookingService(srv.URL, sender, nil, nil)

	cases := []struct {
		name  string
		edit  func(*entities.BookingRequest)
		field string
	}{
		{"missing name", func(r *entities.BookingRequest) { r.Client.Name = "  " }, "name"},
		{"missing email", func(r *entities.BookingRequest) { r.Client.Email = "" }, "email"},
		{"bad email", func(r *entities.BookingRequest) { r.Client.Email = "ada@example" }, "email"},
		{"missing date", func(r *entities.BookingRequest) { r.Date = "" }, "date"},
		{"missing time", func(r *entities.BookingRequest) { r.Time = "" }, "time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := sampleRequest()
			tc.edit(&req)
			_, err := svc.Submit(context.Background(), req)
			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
	assert.Empty(t, log.list())
}

func TestSubmitServerRejection(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error body", http.StatusConflict, `{"success":false,"error":"Slot already taken"}`, "Slot already taken"},
		{"unparseable body", http.StatusInternalServerError, `<html>oops</html>`, "Booking request failed (status 500)"},
		{"success false on 200", http.StatusOK, `{"success":false,"error":"Closed that day"}`, "Closed that day"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log := &callLog{}
			srv, _ := bookingServer(t, log, tc.status, tc.body)
			sender := &mockSender{log: log}

			svc := newTestBookingService(srv.URL, sender, nil, nil)
			res, err := svc.Submit(context.Background(), sampleRequest())
			assert.Nil(t, res)

			var se *apperrors.ServerError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.status, se.Status)
			assert.Equal(t, tc.message, se.Message)
			assert.Equal(t, []string{"booking"}, log.list())
		})
	}
}

func TestSubmitUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := newTestBookingService(url, &mockSender{}, nil, nil)
	_, err := svc.Submit(context.Background(), sampleRequest())

	var se *apperrors.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.Status)
	assert.Contains(t, se.UserMessage(), "contact us directly")
}

func TestSubmitTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	gw := NewHTTPBookingGateway(srv.URL, 50*time.Millisecond, nil)
	svc := NewBookingService(gw, &mockSender{}, nil, BookingServiceConfig{}, nil)
	_, err := svc.Submit(context.Background(), sampleRequest())

	var se *apperrors.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Our booking system took too long to respond", se.Message)
}

func TestSubmitSendsSMSAfterEmailWhenPhoneGiven(t *testing.T) {
	log := &callLog{}
	srv, _ := bookingServer(t, log, http.StatusOK, `{"success":true,"bookingId":"BK-5"}`)
	sender := &mockSender{log: log}
	sender.On("SendConfirmation", mock.Anything).Return(nil).Once()
	sms := &mockSMS{log: log}
	sms.On("SendBookingSMS", "+15550100", mock.Anything).Return(errors.New("twilio down")).Once()

	svc := newTestBookingService(srv.URL, sender, sms, nil)
	req := sampleRequest()
	req.Client.Phone = "+15550100"
	res, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.EmailSent)
	assert.Equal(t, []string{"booking", "email", "sms"}, log.list())
	sms.AssertExpectations(t)
}

func TestSubmitSkipsSMSWithoutPhone(t *testing.T) {
	srv, _ := bookingServer(t, nil, http.StatusOK, `{"success":true,"bookingId":"BK-6"}`)
	sender := &mockSender{}
	sender.On("SendConfirmation", mock.Anything).Return(nil).Once()
	sms := &mockSMS{}

	svc := newTestBookingService(srv.URL, sender, sms, nil)
	_, err := svc.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)
	sms.AssertNotCalled(t, "SendBookingSMS", mock.Anything, mock.Anything)
}
