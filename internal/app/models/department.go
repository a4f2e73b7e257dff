package models

import (
	"time"

	"github.com/google/uuid"
)

// Department represents a department offering courses.
//
// RowVersion is the optimistic-concurrency token. It is assigned on creation,
// rotated by the store on every successful update, and compared (never set)
// by callers on subsequent update or delete attempts.
type Department struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" validate:"required,min=3,max=50"`
	Budget       float64   `json:"budget" db:"budget" validate:"gte=0"`
	StartDate    time.Time `json:"startDate" db:"start_date"`
	InstructorID *int64    `json:"instructorId,omitempty" db:"instructor_id"` // administrator, optional
	RowVersion   uuid.UUID `json:"rowVersion" db:"row_version"`

	// Relations (populated when eagerly included)
	Administrator *Instructor `json:"administrator,omitempty"`
	Courses       []*Course   `json:"courses,omitempty"`
}
