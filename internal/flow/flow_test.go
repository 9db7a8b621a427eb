package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lwsbooking/internal/entities"
	apperrors "lwsbooking/internal/errors"
)

var offering = entities.Offering{ServiceName: "Personal Styling", Duration: "90 minutes", Price: "$150"}

func slots() []entities.TimeSlot {
	return []entities.TimeSlot{
		{Time: "9:00 AM", Available: false},
		{Time: "10:00 AM", Available: true},
		{Time: "11:00 AM", Available: true},
	}
}

// readyForClient drives a flow to EnteringClientInfo with a date and time chosen.
func readyForClient(t *testing.T) *Flow {
	t.Helper()
	f := New()
	require.NoError(t, f.SelectDate("2026-10-19", slots()))
	ok, err := f.SelectTime("10:00 AM")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ReviewingSelection, f.State())
	require.NoError(t, f.Proceed())
	return f
}

func TestNewFlowDefaults(t *testing.T) {
	f := New()
	s := f.Snapshot()
	assert.Equal(t, ChoosingFormat, s.State)
	assert.Equal(t, entities.FormatInPerson, s.Format)
	assert.Empty(t, s.Date)
	assert.Empty(t, s.Time)
}

func TestSetFormatDoesNotAdvance(t *testing.T) {
	f := New()
	require.NoError(t, f.SetFormat(entities.FormatVirtual))
	assert.Equal(t, ChoosingFormat, f.State())
	assert.Equal(t, entities.FormatVirtual, f.Snapshot().Format)

	err := f.SetFormat("hologram")
	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "format", ve.Field)
	assert.Equal(t, entities.FormatVirtual, f.Snapshot().Format)
}

func TestChooseDateStep(t *testing.T) {
	f := New()
	require.NoError(t, f.ChooseDate())
	assert.Equal(t, ChoosingDate, f.State())
	assert.ErrorIs(t, f.ChooseDate(), apperrors.ErrInvalidTransition)
}

func TestSelectDateClearsTime(t *testing.T) {
	f := New()
	require.NoError(t, f.SelectDate("2026-10-19", slots()))
	_, err := f.SelectTime("11:00 AM")
	require.NoError(t, err)
	require.Equal(t, "11:00 AM", f.Snapshot().Time)

	require.NoError(t, f.SelectDate("2026-10-20", slots()))
	s := f.Snapshot()
	assert.Equal(t, "2026-10-20", s.Date)
	assert.Empty(t, s.Time)
	assert.Equal(t, ChoosingTime, s.State)
}

func TestSelectUnavailableTimeIsNoOp(t *testing.T) {
	f := New()
	require.NoError(t, f.SelectDate("2026-10-19", slots()))
	before := f.Snapshot()

	ok, err := f.SelectTime("9:00 AM")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, f.Snapshot())

	ok, err = f.SelectTime("7:00 PM")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, f.Snapshot())
}

func TestSelectTimeBeforeDateRejected(t *testing.T) {
	f := New()
	_, err := f.SelectTime("10:00 AM")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestReviewRequiresExplicitProceed(t *testing.T) {
	f := New()
	require.NoError(t, f.SelectDate("2026-10-19", slots()))
	_, err := f.SelectTime("10:00 AM")
	require.NoError(t, err)
	assert.Equal(t, ReviewingSelection, f.State())

	_, err = f.BeginSubmit(offering)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, f.UpdateClient(entities.ClientInfo{Name: "x"}), apperrors.ErrInvalidTransition)

	require.NoError(t, f.Proceed())
	assert.Equal(t, EnteringClientInfo, f.State())
}

func TestBackKeepsClientInfo(t *testing.T) {
	f := readyForClient(t)
	info := entities.ClientInfo{Name: "Jane Doe", Email: "jane@example.com", Notes: "wedding"}
	require.NoError(t, f.UpdateClient(info))

	require.NoError(t, f.Back())
	assert.Equal(t, ReviewingSelection, f.State())
	assert.Equal(t, info, f.Snapshot().Client)

	require.NoError(t, f.Proceed())
	assert.Equal(t, info, f.Snapshot().Client)
}

func TestBeginSubmitValidation(t *testing.T) {
	f := readyForClient(t)

	_, err := f.BeginSubmit(offering)
	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, EnteringClientInfo, f.State())

	require.NoError(t, f.UpdateClient(entities.ClientInfo{Name: "Jane", Email: "a@b"}))
	_, err = f.BeginSubmit(offering)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email", ve.Field)
	assert.Equal(t, EnteringClientInfo, f.State())

	require.NoError(t, f.UpdateClient(entities.ClientInfo{Name: " Jane ", Email: "a@b.com"}))
	req, err := f.BeginSubmit(offering)
	require.NoError(t, err)
	assert.Equal(t, Submitting, f.State())
	assert.Equal(t, entities.BookingRequest{
		ServiceName: "Personal Styling",
		Date:        "2026-10-19",
		Time:        "10:00 AM",
		Format:      entities.FormatInPerson,
		Duration:    "90 minutes",
		Price:       "$150",
		Client: entities.ClientInfo{
			Name:  "Jane",
			Email: "a@b.com",
			Phone: entities.DefaultPhone,
			Notes: entities.DefaultNotes,
		},
	}, req)
}

func TestSubmittingBlocksEverything(t *testing.T) {
	f := readyForClient(t)
	require.NoError(t, f.UpdateClient(entities.ClientInfo{Name: "Jane", Email: "jane@example.com"}))
	_, err := f.BeginSubmit(offering)
	require.NoError(t, err)

	_, err = f.BeginSubmit(offering)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, f.SetFormat(entities.FormatVirtual), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, f.SelectDate("2026-10-21", slots()), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, f.Back(), apperrors.ErrInvalidTransition)
}

func TestFailReturnsToClientInfo(t *testing.T) {
	f := readyForClient(t)
	info := entities.ClientInfo{Name: "Jane", Email: "jane@example.com", Phone: "555"}
	require.NoError(t, f.UpdateClient(info))
	_, err := f.BeginSubmit(offering)
	require.NoError(t, err)

	require.NoError(t, f.Fail("slot taken"))
	s := f.Snapshot()
	assert.Equal(t, EnteringClientInfo, s.State)
	assert.Equal(t, "slot taken", s.Error)
	assert.Equal(t, "2026-10-19", s.Date)
	assert.Equal(t, "10:00 AM", s.Time)
	assert.Equal(t, info, s.Client)

	_, err = f.BeginSubmit(offering)
	require.NoError(t, err)
	assert.Empty(t, f.Snapshot().Error)
}

func TestSucceedAndDismissResets(t *testing.T) {
	f := readyForClient(t)
	require.NoError(t, f.SetFormat(entities.FormatVirtual))
	require.NoError(t, f.UpdateClient(entities.ClientInfo{Name: "Jane", Email: "jane@example.com"}))
	_, err := f.BeginSubmit(offering)
	require.NoError(t, err)

	require.NoError(t, f.Succeed(entities.BookingResult{Success: true, BookingID: "LWS-999", EmailSent: true}))
	s := f.Snapshot()
	assert.Equal(t, Succeeded, s.State)
	assert.Equal(t, "LWS-999", s.BookingID)
	assert.True(t, s.EmailSent)

	require.NoError(t, f.Dismiss())
	assert.Equal(t, New().Snapshot(), f.Snapshot())
}

func TestDismissOnlyAfterSuccess(t *testing.T) {
	f := readyForClient(t)
	assert.ErrorIs(t, f.Dismiss(), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, f.Succeed(entities.BookingResult{}), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, f.Fail("x"), apperrors.ErrInvalidTransition)
}

func TestRestoreRoundTrip(t *testing.T) {
	f := readyForClient(t)
	restored := Restore(f.Snapshot())
	assert.Equal(t, f.Snapshot(), restored.Snapshot())

	assert.Equal(t, New().Snapshot(), Restore(Snapshot{}).Snapshot())
}

func TestTransitionForUnknown(t *testing.T) {
	_, ok := TransitionFor(Succeeded, EvSubmit)
	assert.False(t, ok)
	tr, ok := TransitionFor(Failed, EvRetry)
	require.True(t, ok)
	assert.Equal(t, EnteringClientInfo, tr.To)
}
