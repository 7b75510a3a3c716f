package cycle

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyCycle is the time-boxed rotation window. Exactly one cycle is active
// at any instant; the scheduler that flips the flag lives outside this
// service.
type WeeklyCycle struct {
	ID         uuid.UUID `json:"id" db:"id"`
	WeekNumber int       `json:"week_number" db:"week_number"`
	StartDate  time.Time `json:"start_date" db:"start_date"`
	EndDate    time.Time `json:"end_date" db:"end_date"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
