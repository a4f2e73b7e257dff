package models

// Grade is a letter grade. A nil grade on an enrollment means "pending".
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Valid reports whether g is one of the defined letter grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeF:
		return true
	}
	return false
}

// Enrollment links a student to a course, optionally with a grade.
type Enrollment struct {
	ID        int64  `json:"id" db:"id"`
	CourseID  int32  `json:"courseId" db:"course_id" validate:"required,gt=0"`
	StudentID int64  `json:"studentId" db:"student_id" validate:"required,gt=0"`
	Grade     *Grade `json:"grade,omitempty" db:"grade" validate:"omitempty,oneof=A B C D F"`

	// Relations (populated when eagerly included)
	Course  *Course  `json:"course,omitempty"`
	Student *Student `json:"student,omitempty"`
}
