package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"lwsbooking/internal/db"
)

type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(db *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: db}
}

var unavailableStatuses = []string{db.BlockStatusBooked, db.BlockStatusBlocked}

// BlocksForDate returns the booked or blocked calendar rows of one day.
func (r *AvailabilityRepository) BlocksForDate(ctx context.Context, date string) ([]db.CalendarBlock, error) {
	query := `
		SELECT id, slot_date, slot_time, status, created_at
		FROM calendar_blocks
		WHERE slot_date = $1::date AND status = ANY($2)
		ORDER BY slot_time`

	rows, err := r.DB.QueryContext(ctx, query, date, pq.Array(unavailableStatuses))
	if err != nil {
		return nil, fmt.Errorf("error querying calendar blocks for %s: %w", date, err)
	}
	defer rows.Close()

	var blocks []db.CalendarBlock
	for rows.Next() {
		var b db.CalendarBlock
		if err := rows.Scan(&b.ID, &b.SlotDate, &b.SlotTime, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning calendar block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating calendar blocks: %w", err)
	}
	return blocks, nil
}
