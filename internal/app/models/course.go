package models

// Course represents a course offered by a department.
//
// Unlike every other entity, the course number (ID) is assigned by the
// caller at creation time, not generated by the store.
type Course struct {
	ID           int32  `json:"id" db:"id" validate:"required,gt=0"`
	Title        string `json:"title" db:"title" validate:"required,min=3,max=50"`
	Credits      int32  `json:"credits" db:"credits" validate:"gte=0,lte=5"`
	DepartmentID int64  `json:"departmentId" db:"department_id" validate:"required,gt=0"`

	// Relations (populated when eagerly included)
	Department  *Department   `json:"department,omitempty"`
	Instructors []*Instructor `json:"instructors,omitempty"`
	Enrollments []*Enrollment `json:"enrollments,omitempty"`
}
