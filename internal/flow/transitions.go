package flow

type State string

const (
	ChoosingFormat     State = "choosing_format"
	ChoosingDate       State = "choosing_date"
	ChoosingTime       State = "choosing_time"
	ReviewingSelection State = "reviewing_selection"
	EnteringClientInfo State = "entering_client_info"
	Submitting         State = "submitting"
	Succeeded          State = "succeeded"
	// Failed is transient: a failed submission lands back in EnteringClientInfo.
	Failed State = "failed"
)

type Event string

const (
	EvSetFormat    Event = "set_format"
	EvChooseDate   Event = "choose_date"
	EvSelectDate   Event = "select_date"
	EvSelectTime   Event = "select_time"
	EvProceed      Event = "proceed"
	EvBack         Event = "back"
	EvUpdateClient Event = "update_client"
	EvSubmit       Event = "submit"
	EvSucceed      Event = "succeed"
	EvFail         Event = "fail"
	EvRetry        Event = "retry"
	EvDismiss      Event = "dismiss"
)

// Transition is a single allowed edge in the booking wizard.
type Transition struct {
	From  State
	Event Event
	To    State
}

var transitionsTable = []Transition{
	// Format toggles in place until the booking is submitted.
	{From: ChoosingFormat, Event: EvSetFormat, To: ChoosingFormat},
	{From: ChoosingDate, Event: EvSetFormat, To: ChoosingDate},
	{From: ChoosingTime, Event: EvSetFormat, To: ChoosingTime},
	{From: ReviewingSelection, Event: EvSetFormat, To: ReviewingSelection},
	{From: EnteringClientInfo, Event: EvSetFormat, To: EnteringClientInfo},

	{From: ChoosingFormat, Event: EvChooseDate, To: ChoosingDate},

	// A new date always invalidates the time.
	{From: ChoosingFormat, Event: EvSelectDate, To: ChoosingTime},
	{From: ChoosingDate, Event: EvSelectDate, To: ChoosingTime},
	{From: ChoosingTime, Event: EvSelectDate, To: ChoosingTime},
	{From: ReviewingSelection, Event: EvSelectDate, To: ChoosingTime},

	{From: ChoosingTime, Event: EvSelectTime, To: ReviewingSelection},
	{From: ReviewingSelection, Event: EvSelectTime, To: ReviewingSelection},

	{From: ReviewingSelection, Event: EvProceed, To: EnteringClientInfo},
	{From: EnteringClientInfo, Event: EvBack, To: ReviewingSelection},
	{From: EnteringClientInfo, Event: EvUpdateClient, To: EnteringClientInfo},

	// Submission path
	{From: EnteringClientInfo, Event: EvSubmit, To: Submitting},
	{From: Submitting, Event: EvSucceed, To: Succeeded},
	{From: Submitting, Event: EvFail, To: Failed},
	{From: Failed, Event: EvRetry, To: EnteringClientInfo},

	{From: Succeeded, Event: EvDismiss, To: ChoosingFormat},
}

// TransitionFor returns the allowed transition for a given state+event.
func TransitionFor(from State, ev Event) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return Transition{}, false
}
