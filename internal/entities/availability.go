package entities

// TimeSlot is one bookable label on a given date. Unavailable slots are still listed so
// clients can render them disabled.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DateOption is a selectable calendar day.
type DateOption struct {
	Date         string `json:"date"`
	DisplayLabel string `json:"displayLabel"`
	Weekday      string `json:"weekday"`
}

type SlotsResponse struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}
