package services

import (
	"errors"

	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/pkg/apperrors"
)

// Services bundles all entity services.
type Services struct {
	Students    *StudentService
	Instructors *InstructorService
	Departments *DepartmentService
	Courses     *CourseService
	Enrollments *EnrollmentService
}

// NewServices wires services over the repository container.
func NewServices(repos *repositories.Repositories, defaultPageSize int) *Services {
	return &Services{
		Students:    NewStudentService(repos.Students, defaultPageSize),
		Instructors: NewInstructorService(repos.Instructors, defaultPageSize),
		Departments: NewDepartmentService(repos.Departments, defaultPageSize),
		Courses:     NewCourseService(repos.Courses, defaultPageSize),
		Enrollments: NewEnrollmentService(repos.Enrollments, defaultPageSize),
	}
}

// domainErrors are the recoverable error kinds passed through to the caller
// untouched. Anything else coming out of a repository is a storage fault.
var domainErrors = []error{
	apperrors.ErrValidationFailed,
	apperrors.ErrConcurrencyConflict,
	apperrors.ErrResourceNotFound,
	apperrors.ErrStudentNotFound,
	apperrors.ErrInstructorNotFound,
	apperrors.ErrDepartmentNotFound,
	apperrors.ErrCourseNotFound,
	apperrors.ErrEnrollmentNotFound,
	apperrors.ErrDepartmentNameTaken,
	apperrors.ErrCourseAlreadyExists,
	apperrors.ErrStudentAlreadyEnrolled,
}

// wrapStorage classifies a repository error: domain errors pass through,
// everything else surfaces as a StorageError for the named operation. The
// caller must re-issue the whole operation; nothing is retried here.
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, domain := range domainErrors {
		if errors.Is(err, domain) {
			return err
		}
	}
	return apperrors.NewStorageError(op, err)
}

// pageSizeOrDefault falls back to the configured default page size.
func pageSizeOrDefault(size, defaultSize int) int {
	if size <= 0 {
		return defaultSize
	}
	return size
}
