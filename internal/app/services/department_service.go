package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/app/models/dto"
	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
	"github.com/emrekoc/registrar/internal/pkg/validation"
)

// DepartmentStore is the persistence surface the department service needs.
type DepartmentStore interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id int64, include repositories.DepartmentInclude) (*models.Department, error)
	List(ctx context.Context, filter repositories.DepartmentFilter, sort string, desc bool, page, size int) ([]*models.Department, int64, int, error)
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id int64, rowVersion uuid.UUID) error
}

// DepartmentService handles department operations, including the
// optimistic-concurrency protocol on edits.
//
// Every department write follows the same state flow: a caller holds the
// token it last observed (clean), edits locally (dirty), and saves. A save
// against a stale token returns a ConflictError carrying both value sets;
// from there the caller either reloads and discards its edits, or
// force-overwrites via OverwriteDepartment. No path retries automatically.
type DepartmentService struct {
	store           DepartmentStore
	defaultPageSize int
}

// NewDepartmentService creates a new department service.
func NewDepartmentService(store DepartmentStore, defaultPageSize int) *DepartmentService {
	return &DepartmentService{store: store, defaultPageSize: defaultPageSize}
}

// CreateDepartment validates and stores a new department. The store assigns
// the first concurrency token and writes it back into the model.
func (s *DepartmentService) CreateDepartment(ctx context.Context, department *models.Department) error {
	if err := validation.Struct(department); err != nil {
		return err
	}
	return wrapStorage("create department", s.store.Create(ctx, department))
}

// GetDepartment retrieves a department, optionally with its administrator
// and courses fetched eagerly.
func (s *DepartmentService) GetDepartment(ctx context.Context, id int64, withCourses bool) (*models.Department, error) {
	department, err := s.store.GetByID(ctx, id, repositories.DepartmentInclude{
		Administrator: true,
		Courses:       withCourses,
	})
	if err != nil {
		return nil, wrapStorage("get department", err)
	}
	return department, nil
}

// ListDepartments returns one page of departments plus page metadata.
func (s *DepartmentService) ListDepartments(ctx context.Context, filter repositories.DepartmentFilter, sort string, desc bool, page, size int) ([]*models.Department, dto.PaginationInfo, error) {
	size = pageSizeOrDefault(size, s.defaultPageSize)
	departments, total, page, err := s.store.List(ctx, filter, sort, desc, page, size)
	if err != nil {
		return nil, dto.PaginationInfo{}, wrapStorage("list departments", err)
	}
	return departments, helpers.NewPaginationInfo(total, page, size), nil
}

// UpdateDepartment saves an edit under the caller's observed concurrency
// token (department.RowVersion). On success the model carries the rotated
// token; the caller must keep it for any further edit, otherwise the next
// save conflicts against its own prior write. A stale token yields a
// ConflictError with both value sets.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, department *models.Department) error {
	if err := validation.Struct(department); err != nil {
		return err
	}
	return wrapStorage("update department", s.store.Update(ctx, department))
}

// OverwriteDepartment resolves a conflict by explicit caller choice: it
// re-reads the store's current token and re-attempts the save exactly once
// with it. It is not a retry loop; a further concurrent write surfaces as a
// fresh ConflictError for the caller to resolve again.
func (s *DepartmentService) OverwriteDepartment(ctx context.Context, department *models.Department) error {
	if err := validation.Struct(department); err != nil {
		return err
	}
	current, err := s.store.GetByID(ctx, department.ID, repositories.DepartmentInclude{})
	if err != nil {
		return wrapStorage("overwrite department", err)
	}
	department.RowVersion = current.RowVersion
	return wrapStorage("overwrite department", s.store.Update(ctx, department))
}

// DeleteDepartment removes a department and its whole course subtree under
// the caller's observed token. A concurrent edit wins over the delete: the
// token mismatch surfaces as a ConflictError and nothing is removed.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id int64, rowVersion uuid.UUID) error {
	return wrapStorage("delete department", s.store.Delete(ctx, id, rowVersion))
}
