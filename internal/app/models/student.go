package models

import (
	"encoding/json"
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID             int64     `json:"id" db:"id"`
	LastName       string    `json:"lastName" db:"last_name" validate:"required,max=50"`
	FirstName      string    `json:"firstName" db:"first_name" validate:"required,max=50"`
	EnrollmentDate time.Time `json:"enrollmentDate" db:"enrollment_date"` // date-only, truncated on write

	// Relations (populated when eagerly included)
	Enrollments []*Enrollment `json:"enrollments,omitempty"`
}

// FullName returns the display name in "Last, First" form.
func (s *Student) FullName() string {
	return s.LastName + ", " + s.FirstName
}

// MarshalJSON adds the computed display name to the serialized student.
func (s Student) MarshalJSON() ([]byte, error) {
	type alias Student
	return json.Marshal(struct {
		alias
		FullName string `json:"fullName"`
	}{alias(s), s.FullName()})
}
