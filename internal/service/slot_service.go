package service

import (
	"context"
	"fmt"
	"time"

	"lwsbooking/internal/db"
	"lwsbooking/internal/entities"
	"lwsbooking/internal/utils"
)

const bookingWindowDays = 14

// TimeLabels is the fixed daily roster, hourly from 9 AM to 5 PM.
var TimeLabels = []string{
	"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM",
}

// GenerateDates lists the bookable days: the next 14 days starting tomorrow, Sundays excluded.
func GenerateDates(now time.Time) []entities.DateOption {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	dates := make([]entities.DateOption, 0, bookingWindowDays)
	for i := 1; i <= bookingWindowDays; i++ {
		day := today.AddDate(0, 0, i)
		if day.Weekday() == time.Sunday {
			continue
		}
		dates = append(dates, entities.DateOption{
			Date:         day.Format(utils.ISODate),
			DisplayLabel: utils.ShortDate(day),
			Weekday:      day.Weekday().String(),
		})
	}
	return dates
}

// IsBookableDate reports whether date is one of GenerateDates(now).
func IsBookableDate(now time.Time, date string) bool {
	for _, d := range GenerateDates(now) {
		if d.Date == date {
			return true
		}
	}
	return false
}

// GenerateTimeSlots returns the full roster for date with the placeholder availability.
func GenerateTimeSlots(date string) []entities.TimeSlot {
	slots := make([]entities.TimeSlot, len(TimeLabels))
	for i, label := range TimeLabels {
		slots[i] = entities.TimeSlot{Time: label, Available: slotHash(date, label)%3 != 0}
	}
	return slots
}

// slotHash sums the code points of the date and the first character of the label.
func slotHash(date, label string) int {
	h := 0
	for _, r := range date {
		h += int(r)
	}
	if label != "" {
		h += int(label[0])
	}
	return h
}

// AvailabilityProvider yields the ordered, complete slot roster of a date.
type AvailabilityProvider interface {
	TimeSlots(ctx context.Context, date string) ([]entities.TimeSlot, error)
}

// HashAvailability is the deterministic stand-in used when no calendar is configured.
type HashAvailability struct{}

func (HashAvailability) TimeSlots(_ context.Context, date string) ([]entities.TimeSlot, error) {
	return GenerateTimeSlots(date), nil
}

type calendarBlocks interface {
	BlocksForDate(ctx context.Context, date string) ([]db.CalendarBlock, error)
}

// CalendarAvailability marks a label unavailable when the calendar holds a block for it.
type CalendarAvailability struct {
	Calendar calendarBlocks
}

func NewCalendarAvailability(calendar calendarBlocks) *CalendarAvailability {
	return &CalendarAvailability{Calendar: calendar}
}

func (c *CalendarAvailability) TimeSlots(ctx context.Context, date string) ([]entities.TimeSlot, error) {
	blocks, err := c.Calendar.BlocksForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("could not load availability for %s: %w", date, err)
	}
	taken := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		taken[b.SlotTime] = true
	}
	slots := make([]entities.TimeSlot, len(TimeLabels))
	for i, label := range TimeLabels {
		slots[i] = entities.TimeSlot{Time: label, Available: !taken[label]}
	}
	return slots, nil
}
