package testfixtures

import (
	"time"

	"github.com/mark3labs/frontdesk/internal/registration"
)

// Fixed test values for consistent assertions
var (
	FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
)

// Guest returns a complete, valid registration.
func Guest() *registration.Registration {
	return &registration.Registration{
		ID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
		Name:      "Ada Lovelace",
		Document:  "AB12345",
		Email:     "ada@example.com",
		Adults:    2,
		Children:  1,
		Notes:     "Late arrival, needs a cot.",
		CreatedAt: FixedTime,
	}
}
