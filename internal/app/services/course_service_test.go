package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/pkg/apperrors"
)

// fakeCourseStore records every call so tests can assert that validation
// failures never reach storage.
type fakeCourseStore struct {
	courses map[int32]*models.Course
	calls   []string
	listErr error
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[int32]*models.Course)}
}

func (f *fakeCourseStore) Create(ctx context.Context, course *models.Course) error {
	f.calls = append(f.calls, "create")
	if _, ok := f.courses[course.ID]; ok {
		return apperrors.ErrCourseAlreadyExists
	}
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id int32, include repositories.CourseInclude) (*models.Course, error) {
	f.calls = append(f.calls, "get")
	stored, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *stored
	return &cp, nil
}

func (f *fakeCourseStore) List(ctx context.Context, filter repositories.CourseFilter, sort string, desc bool, page, size int) ([]*models.Course, int64, int, error) {
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, 0, 0, f.listErr
	}
	out := make([]*models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		cp := *c
		out = append(out, &cp)
	}
	return out, int64(len(out)), page, nil
}

func (f *fakeCourseStore) Update(ctx context.Context, course *models.Course) error {
	f.calls = append(f.calls, "update")
	if _, ok := f.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseStore) Delete(ctx context.Context, id int32) error {
	f.calls = append(f.calls, "delete")
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseStore) SetInstructors(ctx context.Context, courseID int32, instructorIDs []int64) error {
	f.calls = append(f.calls, "setInstructors")
	return nil
}

func TestCreateCourse_CallerAssignedNumber(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store, 10)

	course := &models.Course{ID: 4022, Title: "Microeconomics", Credits: 3, DepartmentID: 1}
	require.NoError(t, svc.CreateCourse(context.Background(), course))
	assert.Contains(t, store.courses, int32(4022))
}

func TestCreateCourse_InvalidCreditsNeverReachStorage(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store, 10)

	course := &models.Course{ID: 4022, Title: "Microeconomics", Credits: 6, DepartmentID: 1}
	err := svc.CreateCourse(context.Background(), course)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Empty(t, store.calls, "validation must short-circuit before any storage call")
}

func TestCreateCourse_DuplicateNumber(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store, 10)
	ctx := context.Background()

	course := &models.Course{ID: 1050, Title: "Chemistry", Credits: 3, DepartmentID: 1}
	require.NoError(t, svc.CreateCourse(ctx, course))

	dup := &models.Course{ID: 1050, Title: "Chemistry II", Credits: 4, DepartmentID: 1}
	err := svc.CreateCourse(ctx, dup)
	assert.True(t, errors.Is(err, apperrors.ErrCourseAlreadyExists))
}

func TestListCourses_WrapsStorageFaults(t *testing.T) {
	store := newFakeCourseStore()
	store.listErr = errors.New("connection reset")
	svc := NewCourseService(store, 10)

	_, _, err := svc.ListCourses(context.Background(), repositories.CourseFilter{}, "", false, 1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))

	var storageErr *apperrors.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "list courses", storageErr.Op)
}

func TestListCourses_DefaultPageSize(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store, 25)

	require.NoError(t, svc.CreateCourse(context.Background(), &models.Course{ID: 1050, Title: "Chemistry", Credits: 3, DepartmentID: 1}))

	_, pagination, err := svc.ListCourses(context.Background(), repositories.CourseFilter{}, "", false, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, pagination.PageSize)
}

func TestGetCourse_NotFoundPassesThrough(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store, 10)

	_, err := svc.GetCourse(context.Background(), 9999, false, false)
	assert.True(t, errors.Is(err, apperrors.ErrCourseNotFound))
}
