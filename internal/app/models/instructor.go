package models

import (
	"encoding/json"
	"time"
)

// Instructor defines the instructor model based on the 'instructors' table
type Instructor struct {
	ID        int64     `json:"id" db:"id"`
	LastName  string    `json:"lastName" db:"last_name" validate:"required,max=50"`
	FirstName string    `json:"firstName" db:"first_name" validate:"required,max=50"`
	HireDate  time.Time `json:"hireDate" db:"hire_date"`

	// Relations (populated when eagerly included)
	OfficeAssignment *OfficeAssignment `json:"officeAssignment,omitempty"`
	Courses          []*Course         `json:"courses,omitempty"`
}

// FullName returns the display name in "Last, First" form.
func (i *Instructor) FullName() string {
	return i.LastName + ", " + i.FirstName
}

// MarshalJSON adds the computed display name to the serialized instructor.
func (i Instructor) MarshalJSON() ([]byte, error) {
	type alias Instructor
	return json.Marshal(struct {
		alias
		FullName string `json:"fullName"`
	}{alias(i), i.FullName()})
}
