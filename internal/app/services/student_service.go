package services

import (
	"context"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/app/models/dto"
	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
	"github.com/emrekoc/registrar/internal/pkg/validation"
)

// StudentStore is the persistence surface the student service needs.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64, include repositories.StudentInclude) (*models.Student, error)
	List(ctx context.Context, filter repositories.StudentFilter, sort string, desc bool, page, size int) ([]*models.Student, int64, int, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// StudentService handles student record operations.
type StudentService struct {
	store           StudentStore
	defaultPageSize int
}

// NewStudentService creates a new student service.
func NewStudentService(store StudentStore, defaultPageSize int) *StudentService {
	return &StudentService{store: store, defaultPageSize: defaultPageSize}
}

// CreateStudent validates and stores a new student.
func (s *StudentService) CreateStudent(ctx context.Context, student *models.Student) error {
	if err := validation.Struct(student); err != nil {
		return err
	}
	return wrapStorage("create student", s.store.Create(ctx, student))
}

// GetStudent retrieves a student, optionally with enrollments and their
// courses fetched eagerly.
func (s *StudentService) GetStudent(ctx context.Context, id int64, withEnrollments bool) (*models.Student, error) {
	student, err := s.store.GetByID(ctx, id, repositories.StudentInclude{Enrollments: withEnrollments})
	if err != nil {
		return nil, wrapStorage("get student", err)
	}
	return student, nil
}

// ListStudents returns one page of students plus page metadata.
func (s *StudentService) ListStudents(ctx context.Context, filter repositories.StudentFilter, sort string, desc bool, page, size int) ([]*models.Student, dto.PaginationInfo, error) {
	size = pageSizeOrDefault(size, s.defaultPageSize)
	students, total, page, err := s.store.List(ctx, filter, sort, desc, page, size)
	if err != nil {
		return nil, dto.PaginationInfo{}, wrapStorage("list students", err)
	}
	return students, helpers.NewPaginationInfo(total, page, size), nil
}

// UpdateStudent validates and applies an edit. Last writer wins.
func (s *StudentService) UpdateStudent(ctx context.Context, student *models.Student) error {
	if err := validation.Struct(student); err != nil {
		return err
	}
	return wrapStorage("update student", s.store.Update(ctx, student))
}

// DeleteStudent removes a student and all of that student's enrollments.
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	return wrapStorage("delete student", s.store.Delete(ctx, id))
}
