package utils

import (
	"time"

	"lwsbooking/internal/entities"
)

const ISODate = "2006-01-02"

// FormatLabel is the session format as shown in emails and the success modal.
func FormatLabel(f entities.Format) string {
	if f == entities.FormatVirtual {
		return "Virtual Session"
	}
	return "In-Person Session"
}

// LongDate renders an ISO date as "Monday, January 2, 2006". Unparseable input is returned as is.
func LongDate(iso string) string {
	d, err := time.Parse(ISODate, iso)
	if err != nil {
		return iso
	}
	return d.Format("Monday, January 2, 2006")
}

// ShortDate renders an ISO date as "Jan 2".
func ShortDate(d time.Time) string {
	return d.Format("Jan 2")
}
