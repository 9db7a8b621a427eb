// Package flow holds the booking wizard state machine. It performs no I/O: callers feed it
// slot lists and submission outcomes.
package flow

import (
	"fmt"

	"lwsbooking/internal/entities"
	apperrors "lwsbooking/internal/errors"
)

// Snapshot is the complete wizard state. It is what session stores persist.
type Snapshot struct {
	State     State               `json:"state"`
	Format    entities.Format     `json:"format"`
	Date      string              `json:"date,omitempty"`
	Time      string              `json:"time,omitempty"`
	Slots     []entities.TimeSlot `json:"slots,omitempty"`
	Client    entities.ClientInfo `json:"clientInfo"`
	BookingID string              `json:"bookingId,omitempty"`
	EmailSent bool                `json:"emailSent"`
	Error     string              `json:"error,omitempty"`
}

type Flow struct {
	s Snapshot
}

func New() *Flow {
	f := &Flow{}
	f.Reset()
	return f
}

// Restore rebuilds a flow from a stored snapshot.
func Restore(s Snapshot) *Flow {
	if s.State == "" {
		return New()
	}
	s.Slots = append([]entities.TimeSlot(nil), s.Slots...)
	return &Flow{s: s}
}

func (f *Flow) State() State {
	return f.s.State
}

// Snapshot returns a copy that shares no memory with the flow.
func (f *Flow) Snapshot() Snapshot {
	out := f.s
	out.Slots = append([]entities.TimeSlot(nil), f.s.Slots...)
	return out
}

func (f *Flow) apply(ev Event) error {
	tr, ok := TransitionFor(f.s.State, ev)
	if !ok {
		return fmt.Errorf("%w: %s from %s", apperrors.ErrInvalidTransition, ev, f.s.State)
	}
	f.s.State = tr.To
	return nil
}

func (f *Flow) SetFormat(format entities.Format) error {
	if !format.Valid() {
		return apperrors.NewValidationError("format", "Please choose an in-person or virtual session")
	}
	if err := f.apply(EvSetFormat); err != nil {
		return err
	}
	f.s.Format = format
	return nil
}

func (f *Flow) ChooseDate() error {
	return f.apply(EvChooseDate)
}

// SelectDate sets the date, replaces the slot list and clears any chosen time.
func (f *Flow) SelectDate(date string, slots []entities.TimeSlot) error {
	if date == "" {
		return apperrors.NewValidationError("date", "Please select a date")
	}
	if err := f.apply(EvSelectDate); err != nil {
		return err
	}
	f.s.Date = date
	f.s.Time = ""
	f.s.Slots = append([]entities.TimeSlot(nil), slots...)
	return nil
}

// SelectTime picks a slot for the current date. Picking an unknown or unavailable slot
// changes nothing and reports false.
func (f *Flow) SelectTime(label string) (bool, error) {
	if _, ok := TransitionFor(f.s.State, EvSelectTime); !ok {
		return false, fmt.Errorf("%w: %s from %s", apperrors.ErrInvalidTransition, EvSelectTime, f.s.State)
	}
	if !f.slotAvailable(label) {
		return false, nil
	}
	if err := f.apply(EvSelectTime); err != nil {
		return false, err
	}
	f.s.Time = label
	return true, nil
}

func (f *Flow) slotAvailable(label string) bool {
	for _, slot := range f.s.Slots {
		if slot.Time == label {
			return slot.Available
		}
	}
	return false
}

// Proceed is the explicit confirmation that moves from the reviewed selection to the form.
func (f *Flow) Proceed() error {
	return f.apply(EvProceed)
}

// Back returns to the date/time review keeping everything entered so far.
func (f *Flow) Back() error {
	return f.apply(EvBack)
}

func (f *Flow) UpdateClient(info entities.ClientInfo) error {
	if err := f.apply(EvUpdateClient); err != nil {
		return err
	}
	f.s.Client = info
	return nil
}

// Request builds the payload from the current selection without validating it.
func (f *Flow) Request(offering entities.Offering) entities.BookingRequest {
	return entities.BookingRequest{
		ServiceName: offering.ServiceName,
		Date:        f.s.Date,
		Time:        f.s.Time,
		Format:      f.s.Format,
		Duration:    offering.Duration,
		Price:       offering.Price,
		Client:      f.s.Client.Normalized(),
	}
}

// BeginSubmit checks the submission guard and, when it holds, moves to Submitting and
// returns the request to send. On a validation failure the state is unchanged.
func (f *Flow) BeginSubmit(offering entities.Offering) (entities.BookingRequest, error) {
	if _, ok := TransitionFor(f.s.State, EvSubmit); !ok {
		return entities.BookingRequest{}, fmt.Errorf("%w: %s from %s", apperrors.ErrInvalidTransition, EvSubmit, f.s.State)
	}
	req := f.Request(offering)
	if err := req.Validate(); err != nil {
		return entities.BookingRequest{}, err
	}
	if err := f.apply(EvSubmit); err != nil {
		return entities.BookingRequest{}, err
	}
	f.s.Error = ""
	return req, nil
}

func (f *Flow) Succeed(result entities.BookingResult) error {
	if err := f.apply(EvSucceed); err != nil {
		return err
	}
	f.s.BookingID = result.BookingID
	f.s.EmailSent = result.EmailSent
	f.s.Error = ""
	return nil
}

// Fail records the failure and hands the form back with date, time and client info intact.
func (f *Flow) Fail(message string) error {
	if err := f.apply(EvFail); err != nil {
		return err
	}
	f.s.Error = message
	return f.apply(EvRetry)
}

// Dismiss closes the success modal and starts over.
func (f *Flow) Dismiss() error {
	if err := f.apply(EvDismiss); err != nil {
		return err
	}
	f.Reset()
	return nil
}

// Reset clears every field unconditionally.
func (f *Flow) Reset() {
	f.s = Snapshot{
		State:  ChoosingFormat,
		Format: entities.FormatInPerson,
	}
}
