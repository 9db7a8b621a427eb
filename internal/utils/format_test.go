package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lwsbooking/internal/entities"
)

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, "Virtual Session", FormatLabel(entities.FormatVirtual))
	assert.Equal(t, "In-Person Session", FormatLabel(entities.FormatInPerson))
	assert.Equal(t, "In-Person Session", FormatLabel(""))
}

func TestLongDate(t *testing.T) {
	assert.Equal(t, "Monday, October 19, 2026", LongDate("2026-10-19"))
	assert.Equal(t, "next week", LongDate("next week"))
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "Oct 19", ShortDate(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
}
