package db

import "time"

// CalendarBlock is a row of calendar_blocks: a slot the stylist cannot take.
type CalendarBlock struct {
	ID        int
	SlotDate  time.Time
	SlotTime  string
	Status    string
	CreatedAt time.Time
}

const (
	BlockStatusBooked  = "booked"
	BlockStatusBlocked = "blocked"
	BlockStatusOpen    = "released"
)
