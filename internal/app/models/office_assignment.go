package models

// OfficeAssignment records an instructor's office location. It shares its
// primary key with the owning instructor and cannot exist without one.
type OfficeAssignment struct {
	InstructorID int64  `json:"instructorId" db:"instructor_id"`
	Location     string `json:"location" db:"location" validate:"required,max=50"`
}
