package services

import (
	"context"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/app/models/dto"
	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
	"github.com/emrekoc/registrar/internal/pkg/validation"
)

// InstructorStore is the persistence surface the instructor service needs.
type InstructorStore interface {
	Create(ctx context.Context, instructor *models.Instructor, courseIDs []int32) error
	GetByID(ctx context.Context, id int64, include repositories.InstructorInclude) (*models.Instructor, error)
	List(ctx context.Context, filter repositories.InstructorFilter, sort string, desc bool, page, size int) ([]*models.Instructor, int64, int, error)
	Update(ctx context.Context, instructor *models.Instructor, courseIDs []int32) error
	Delete(ctx context.Context, id int64) error
}

// InstructorService handles instructor operations. The office assignment and
// the taught-course set are edited together with the instructor.
type InstructorService struct {
	store           InstructorStore
	defaultPageSize int
}

// NewInstructorService creates a new instructor service.
func NewInstructorService(store InstructorStore, defaultPageSize int) *InstructorService {
	return &InstructorService{store: store, defaultPageSize: defaultPageSize}
}

// CreateInstructor validates and stores a new instructor with its owned
// office assignment and course assignments.
func (s *InstructorService) CreateInstructor(ctx context.Context, instructor *models.Instructor, courseIDs []int32) error {
	if err := s.validate(instructor); err != nil {
		return err
	}
	return wrapStorage("create instructor", s.store.Create(ctx, instructor, courseIDs))
}

// GetInstructor retrieves an instructor with office assignment and taught
// courses fetched eagerly.
func (s *InstructorService) GetInstructor(ctx context.Context, id int64) (*models.Instructor, error) {
	instructor, err := s.store.GetByID(ctx, id, repositories.InstructorInclude{
		Office:  true,
		Courses: true,
	})
	if err != nil {
		return nil, wrapStorage("get instructor", err)
	}
	return instructor, nil
}

// ListInstructors returns one page of instructors plus page metadata.
func (s *InstructorService) ListInstructors(ctx context.Context, filter repositories.InstructorFilter, sort string, desc bool, page, size int) ([]*models.Instructor, dto.PaginationInfo, error) {
	size = pageSizeOrDefault(size, s.defaultPageSize)
	instructors, total, page, err := s.store.List(ctx, filter, sort, desc, page, size)
	if err != nil {
		return nil, dto.PaginationInfo{}, wrapStorage("list instructors", err)
	}
	return instructors, helpers.NewPaginationInfo(total, page, size), nil
}

// UpdateInstructor validates and applies an edit, rewriting the office
// assignment and course set with it. Last writer wins.
func (s *InstructorService) UpdateInstructor(ctx context.Context, instructor *models.Instructor, courseIDs []int32) error {
	if err := s.validate(instructor); err != nil {
		return err
	}
	return wrapStorage("update instructor", s.store.Update(ctx, instructor, courseIDs))
}

// DeleteInstructor removes an instructor, its office assignment, and its
// course assignments; administered departments lose their administrator but
// survive, as do taught courses.
func (s *InstructorService) DeleteInstructor(ctx context.Context, id int64) error {
	return wrapStorage("delete instructor", s.store.Delete(ctx, id))
}

// validate checks the instructor and, when present, its office assignment.
func (s *InstructorService) validate(instructor *models.Instructor) error {
	if err := validation.Struct(instructor); err != nil {
		return err
	}
	if instructor.OfficeAssignment != nil {
		if err := validation.Struct(instructor.OfficeAssignment); err != nil {
			return err
		}
	}
	return nil
}
