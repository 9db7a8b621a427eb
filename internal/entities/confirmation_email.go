package entities

// ConfirmationEmailData holds the rendered fields of a booking confirmation.
type ConfirmationEmailData struct {
	ToEmail       string
	ToName        string
	FromName      string
	ServiceName   string
	DateFormatted string
	Time          string
	FormatLabel   string
	Duration      string
	Price         string
	BookingID     string
	ClientPhone   string
	ClientNotes   string
	BusinessEmail string
	CurrentYear   int
}
