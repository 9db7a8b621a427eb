package api

import (
	"lwsbooking/internal/entities"
	"lwsbooking/internal/repository"
)

// Dates
type DatesResponse struct {
	Dates    []entities.DateOption `json:"dates"`
	Offering entities.Offering     `json:"offering"`
}

// Sessions
type StartSessionResponse struct {
	Session *repository.Session `json:"session"`
	Token   string              `json:"token"`
}

type FormatRequest struct {
	Format entities.Format `json:"format"`
}

type DateRequest struct {
	Date string `json:"date"`
}

type TimeRequest struct {
	Time string `json:"time"`
}

// Contact
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
