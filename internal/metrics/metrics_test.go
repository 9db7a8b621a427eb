package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBookingSubmission(t *testing.T) {
	before := testutil.ToFloat64(BookingSubmissionsTotal.WithLabelValues("succeeded"))
	RecordBookingSubmission("succeeded")
	assert.Equal(t, before+1, testutil.ToFloat64(BookingSubmissionsTotal.WithLabelValues("succeeded")))
}

func TestRecordConfirmationEmail(t *testing.T) {
	before := testutil.ToFloat64(ConfirmationEmailsTotal.WithLabelValues("failed"))
	RecordConfirmationEmail("failed")
	RecordConfirmationEmail("failed")
	assert.Equal(t, before+2, testutil.ToFloat64(ConfirmationEmailsTotal.WithLabelValues("failed")))
}

func TestRecordContactMessage(t *testing.T) {
	before := testutil.ToFloat64(ContactMessagesTotal.WithLabelValues("sent"))
	RecordContactMessage("sent")
	assert.Equal(t, before+1, testutil.ToFloat64(ContactMessagesTotal.WithLabelValues("sent")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/booking/dates", "200"))
	RecordHTTPRequest("GET", "/api/booking/dates", "200", 0.01)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/booking/dates", "200")))
}
