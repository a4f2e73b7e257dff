package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/pkg/apperrors"
)

// fakeDepartmentStore mimics the repository's concurrency protocol in
// memory: token equality gates every update and delete, and the token
// rotates on each successful write.
type fakeDepartmentStore struct {
	departments map[int64]*models.Department
	nextID      int64
}

func newFakeDepartmentStore() *fakeDepartmentStore {
	return &fakeDepartmentStore{departments: make(map[int64]*models.Department), nextID: 1}
}

func (f *fakeDepartmentStore) clone(d *models.Department) *models.Department {
	cp := *d
	return &cp
}

func (f *fakeDepartmentStore) Create(ctx context.Context, department *models.Department) error {
	department.ID = f.nextID
	f.nextID++
	department.RowVersion = uuid.New()
	f.departments[department.ID] = f.clone(department)
	return nil
}

func (f *fakeDepartmentStore) GetByID(ctx context.Context, id int64, include repositories.DepartmentInclude) (*models.Department, error) {
	stored, ok := f.departments[id]
	if !ok {
		return nil, apperrors.ErrDepartmentNotFound
	}
	return f.clone(stored), nil
}

func (f *fakeDepartmentStore) List(ctx context.Context, filter repositories.DepartmentFilter, sort string, desc bool, page, size int) ([]*models.Department, int64, int, error) {
	out := make([]*models.Department, 0, len(f.departments))
	for _, d := range f.departments {
		out = append(out, f.clone(d))
	}
	return out, int64(len(out)), page, nil
}

func (f *fakeDepartmentStore) Update(ctx context.Context, department *models.Department) error {
	stored, ok := f.departments[department.ID]
	if !ok {
		return apperrors.ErrDepartmentNotFound
	}
	if stored.RowVersion != department.RowVersion {
		attempted := f.clone(department)
		return apperrors.NewConflictError("department", attempted, f.clone(stored))
	}
	department.RowVersion = uuid.New()
	f.departments[department.ID] = f.clone(department)
	return nil
}

func (f *fakeDepartmentStore) Delete(ctx context.Context, id int64, rowVersion uuid.UUID) error {
	stored, ok := f.departments[id]
	if !ok {
		// Row already gone counts as success.
		return nil
	}
	if stored.RowVersion != rowVersion {
		return apperrors.NewConflictError("department", nil, f.clone(stored))
	}
	delete(f.departments, id)
	return nil
}

func newMathDepartment() *models.Department {
	return &models.Department{
		Name:      "Mathematics",
		Budget:    100000,
		StartDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateDepartment_AssignsToken(t *testing.T) {
	store := newFakeDepartmentStore()
	svc := NewDepartmentService(store, 10)

	department := newMathDepartment()
	require.NoError(t, svc.CreateDepartment(context.Background(), department))
	assert.NotEqual(t, uuid.Nil, department.RowVersion, "store assigns the first token on create")
}

func TestCreateDepartment_ValidationShortCircuits(t *testing.T) {
	store := newFakeDepartmentStore()
	svc := NewDepartmentService(store, 10)

	department := newMathDepartment()
	department.Budget = -1

	err := svc.CreateDepartment(context.Background(), department)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Empty(t, store.departments, "validation failure must not reach the store")
}

func TestUpdateDepartment_RotatesToken(t *testing.T) {
	store := newFakeDepartmentStore()
	svc := NewDepartmentService(store, 10)
	ctx := context.Background()

	department := newMathDepartment()
	require.NoError(t, svc.CreateDepartment(ctx, department))
	t0 := department.RowVersion

	department.Budget = 110000
	require.NoError(t, svc.UpdateDepartment(ctx, department))
	assert.NotEqual(t, t0, department.RowVersion, "successful save rotates the token")
}

// TestUpdateDepartment_StaleTokenConflicts walks the two-caller scenario:
// A and B both load the department at token T0, A saves first, then B's
// save with T0 must conflict and report both value sets.
func TestUpdateDepartment_StaleTokenConflicts(t *testing.T) {
	store := newFakeDepartmentStore()
	svc := NewDepartmentService(store, 10)
	ctx := context.Background()

	department := newMathDepartment()
	require.NoError(t, svc.CreateDepartment(ctx, department))

	callerA, err := svc.GetDepartment(ctx, department.ID, false)
	require.NoError(t, err)
	callerB, err := svc.GetDepartment(ctx, department.ID, false)
	require.NoError(t, err)

	callerA.Budget = 110000
	require.NoError(t, svc.UpdateDepartment(ctx, callerA))

	callerB.Budget = 120000
	err = svc.UpdateDepartment(ctx, callerB)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConcurrencyConflict))

	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	attempted := conflict.Attempted.(*models.Department)
	current := conflict.Current.(*models.Department)
	assert.Equal(t, float64(120000), attempted.Budget)
	assert.Equal(t, float64(110000), current.Budget)
}

func TestUpdateDepartment_SecondSaveWithRefreshedToken(t *testing.T) {
	store := newFakeDepartmentStore()
	svc := NewDepartmentService(store, 10)
	ctx := context.Background()

	department := newMathDepartment()
	require.NoError(t, svc.CreateDepartment(ctx, department))

	department.Budget = 110000
	require.NoError(t, svc.UpdateDepartment(ctx, department))

	// The model carries the rotated token, so a further edit saves cleanly.
	department.Budget = 115000
	assert.NoError(t, svc.UpdateDepartment(ctx, department))
}

func TestOverwriteDepartment_WinsOverStaleToken(t *testing.T) {
	store := newFakeDepartmentStore()
	svc := NewDepartmentService(store, 10)
	ctx := context.Background()

	department := newMathDepartment()
	require.NoError(t, svc.CreateDepartment(ctx, department))

	stale, err := svc.GetDepartment(ctx, department.ID, false)
	require.NoError(t, err)

	department.Budget = 110000
	require.NoError(t, svc.UpdateDepartment(ctx, department))

	stale.Budget = 120000
	require.Error(t, svc.UpdateDepartment(ctx, stale), "stale save must conflict first")

	require.NoError(t, svc.OverwriteDepartment(ctx, stale))

	final, err := svc.GetDepartment(ctx, department.ID, false)
	require.NoError(t, err)
	assert.Equal(t, float64(120000), final.Budget)
}

func TestDeleteDepartment_StaleTokenConflicts(t *testing.T) {
	store := newFakeDepartmentStore()
	svc := NewDepartmentService(store, 10)
	ctx := context.Background()

	department := newMathDepartment()
	require.NoError(t, svc.CreateDepartment(ctx, department))
	t0 := department.RowVersion

	department.Budget = 110000
	require.NoError(t, svc.UpdateDepartment(ctx, department))

	err := svc.DeleteDepartment(ctx, department.ID, t0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConcurrencyConflict))
	assert.Len(t, store.departments, 1, "conflicted delete removes nothing")
}

func TestDeleteDepartment_AlreadyGoneIsNoOp(t *testing.T) {
	store := newFakeDepartmentStore()
	svc := NewDepartmentService(store, 10)

	assert.NoError(t, svc.DeleteDepartment(context.Background(), 42, uuid.New()))
}

func TestUpdateDepartment_MissingRowIsNotFound(t *testing.T) {
	store := newFakeDepartmentStore()
	svc := NewDepartmentService(store, 10)

	department := newMathDepartment()
	department.ID = 42
	err := svc.UpdateDepartment(context.Background(), department)
	assert.True(t, errors.Is(err, apperrors.ErrDepartmentNotFound))
}
