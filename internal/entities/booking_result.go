package entities

// BookingResult is what a submission attempt hands back to the wizard.
type BookingResult struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId"`
	EmailSent bool   `json:"emailSent"`
}

// BookingResponse is the success body of the booking endpoint.
type BookingResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId,omitempty"`
	Error     string `json:"error,omitempty"`
}
