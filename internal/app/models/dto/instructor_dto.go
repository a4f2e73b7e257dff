package dto

import "time"

// InstructorRequest is the create/update payload for instructors. The office
// assignment and the taught-course set are edited together with the
// instructor in one request.
type InstructorRequest struct {
	LastName       string    `json:"lastName"`
	FirstName      string    `json:"firstName"`
	HireDate       time.Time `json:"hireDate"`
	OfficeLocation *string   `json:"officeLocation,omitempty"` // nil removes the assignment
	CourseIDs      []int32   `json:"courseIds"`
}
