package services

import (
	"context"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/app/models/dto"
	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
	"github.com/emrekoc/registrar/internal/pkg/validation"
)

// CourseStore is the persistence surface the course service needs.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int32, include repositories.CourseInclude) (*models.Course, error)
	List(ctx context.Context, filter repositories.CourseFilter, sort string, desc bool, page, size int) ([]*models.Course, int64, int, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int32) error
	SetInstructors(ctx context.Context, courseID int32, instructorIDs []int64) error
}

// CourseService handles course operations. Course numbers are chosen by the
// caller at creation time.
type CourseService struct {
	store           CourseStore
	defaultPageSize int
}

// NewCourseService creates a new course service.
func NewCourseService(store CourseStore, defaultPageSize int) *CourseService {
	return &CourseService{store: store, defaultPageSize: defaultPageSize}
}

// CreateCourse validates and stores a new course. Constraint violations such
// as an out-of-range credit value never reach the store.
func (s *CourseService) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := validation.Struct(course); err != nil {
		return err
	}
	return wrapStorage("create course", s.store.Create(ctx, course))
}

// GetCourse retrieves a course with its department, and optionally its
// instructors and enrollments, in the minimum number of round trips.
func (s *CourseService) GetCourse(ctx context.Context, id int32, withInstructors, withEnrollments bool) (*models.Course, error) {
	course, err := s.store.GetByID(ctx, id, repositories.CourseInclude{
		Department:  true,
		Instructors: withInstructors,
		Enrollments: withEnrollments,
	})
	if err != nil {
		return nil, wrapStorage("get course", err)
	}
	return course, nil
}

// ListCourses returns one page of courses plus page metadata.
func (s *CourseService) ListCourses(ctx context.Context, filter repositories.CourseFilter, sort string, desc bool, page, size int) ([]*models.Course, dto.PaginationInfo, error) {
	size = pageSizeOrDefault(size, s.defaultPageSize)
	courses, total, page, err := s.store.List(ctx, filter, sort, desc, page, size)
	if err != nil {
		return nil, dto.PaginationInfo{}, wrapStorage("list courses", err)
	}
	return courses, helpers.NewPaginationInfo(total, page, size), nil
}

// UpdateCourse validates and applies an edit. Last writer wins.
func (s *CourseService) UpdateCourse(ctx context.Context, course *models.Course) error {
	if err := validation.Struct(course); err != nil {
		return err
	}
	return wrapStorage("update course", s.store.Update(ctx, course))
}

// DeleteCourse removes a course with its enrollments and instructor
// assignments.
func (s *CourseService) DeleteCourse(ctx context.Context, id int32) error {
	return wrapStorage("delete course", s.store.Delete(ctx, id))
}

// SetCourseInstructors replaces the course's instructor set.
func (s *CourseService) SetCourseInstructors(ctx context.Context, courseID int32, instructorIDs []int64) error {
	return wrapStorage("set course instructors", s.store.SetInstructors(ctx, courseID, instructorIDs))
}
