package services

import (
	"context"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/app/models/dto"
	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
	"github.com/emrekoc/registrar/internal/pkg/validation"
)

// EnrollmentStore is the persistence surface the enrollment service needs.
type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	List(ctx context.Context, filter repositories.EnrollmentFilter, sort string, desc bool, page, size int) ([]*models.Enrollment, int64, int, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
}

// EnrollmentService handles enrollment operations. A missing grade means
// the enrollment is still pending.
type EnrollmentService struct {
	store           EnrollmentStore
	defaultPageSize int
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(store EnrollmentStore, defaultPageSize int) *EnrollmentService {
	return &EnrollmentService{store: store, defaultPageSize: defaultPageSize}
}

// CreateEnrollment validates and stores a new enrollment.
func (s *EnrollmentService) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if err := validation.Struct(enrollment); err != nil {
		return err
	}
	return wrapStorage("create enrollment", s.store.Create(ctx, enrollment))
}

// GetEnrollment retrieves an enrollment with its student and course.
func (s *EnrollmentService) GetEnrollment(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, wrapStorage("get enrollment", err)
	}
	return enrollment, nil
}

// ListEnrollments returns one page of enrollments plus page metadata.
func (s *EnrollmentService) ListEnrollments(ctx context.Context, filter repositories.EnrollmentFilter, sort string, desc bool, page, size int) ([]*models.Enrollment, dto.PaginationInfo, error) {
	size = pageSizeOrDefault(size, s.defaultPageSize)
	enrollments, total, page, err := s.store.List(ctx, filter, sort, desc, page, size)
	if err != nil {
		return nil, dto.PaginationInfo{}, wrapStorage("list enrollments", err)
	}
	return enrollments, helpers.NewPaginationInfo(total, page, size), nil
}

// UpdateEnrollment validates and applies a grade change. Last writer wins.
func (s *EnrollmentService) UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if err := validation.Struct(enrollment); err != nil {
		return err
	}
	return wrapStorage("update enrollment", s.store.Update(ctx, enrollment))
}

// DeleteEnrollment removes a single enrollment.
func (s *EnrollmentService) DeleteEnrollment(ctx context.Context, id int64) error {
	return wrapStorage("delete enrollment", s.store.Delete(ctx, id))
}
