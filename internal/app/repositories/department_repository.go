package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/db"
	"github.com/emrekoc/registrar/internal/pkg/apperrors"
	"github.com/emrekoc/registrar/internal/pkg/dberrors"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
)

// departmentSortColumns whitelists sortable columns for department lists.
var departmentSortColumns = map[string]string{
	"name":      "d.name",
	"budget":    "d.budget",
	"startDate": "d.start_date",
}

// DepartmentFilter narrows department list queries.
type DepartmentFilter struct {
	// Search matches the department name, case-insensitive substring.
	Search string
}

// DepartmentInclude declares which related entities are fetched in the same
// round trip as the department.
type DepartmentInclude struct {
	// Administrator fetches the administering instructor.
	Administrator bool
	// Courses fetches the department's courses.
	Courses bool
}

// DepartmentRepository handles database operations for departments,
// including the optimistic-concurrency protocol on department writes.
type DepartmentRepository struct {
	db *pgxpool.Pool
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create inserts a new department, assigning its first concurrency token.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	department.StartDate = helpers.DateOnly(department.StartDate)
	department.RowVersion = uuid.New()

	query := `
		INSERT INTO departments (name, budget, start_date, instructor_id, row_version)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		department.Name,
		department.Budget,
		department.StartDate,
		department.InstructorID,
		department.RowVersion,
	).Scan(&department.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "departments_name_key") {
			return apperrors.ErrDepartmentNameTaken
		}
		if dberrors.IsForeignKeyViolation(err, "") {
			return apperrors.ErrInstructorNotFound
		}
		return fmt.Errorf("error creating department: %w", err)
	}
	return nil
}

// GetByID retrieves a department by ID with the requested includes.
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64, include DepartmentInclude) (*models.Department, error) {
	department, err := r.getByID(ctx, r.db, id, include.Administrator)
	if err != nil {
		return nil, err
	}

	if include.Courses {
		courses, err := coursesForDepartments(ctx, r.db, []int64{id})
		if err != nil {
			return nil, err
		}
		department.Courses = courses[id]
	}

	return department, nil
}

// getByID reads one department row, optionally joining the administrator.
func (r *DepartmentRepository) getByID(ctx context.Context, q DBTX, id int64, withAdministrator bool) (*models.Department, error) {
	query := `
		SELECT d.id, d.name, d.budget, d.start_date, d.instructor_id, d.row_version,
		       i.id, i.last_name, i.first_name, i.hire_date
		FROM departments d
		LEFT JOIN instructors i ON i.id = d.instructor_id
		WHERE d.id = $1
	`

	var department models.Department
	var admin instructorRow
	err := q.QueryRow(ctx, query, id).Scan(
		&department.ID,
		&department.Name,
		&department.Budget,
		&department.StartDate,
		&department.InstructorID,
		&department.RowVersion,
		&admin.ID,
		&admin.LastName,
		&admin.FirstName,
		&admin.HireDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}

	if withAdministrator {
		department.Administrator = admin.toModel()
	}
	return &department, nil
}

// List retrieves one page of departments with their administrators eagerly
// joined. Returns items, total count, and the clamped page number.
func (r *DepartmentRepository) List(ctx context.Context, filter DepartmentFilter, sort string, desc bool, page, size int) ([]*models.Department, int64, int, error) {
	countQ := psql.Select("COUNT(*)").From("departments d")
	listQ := psql.Select(
		"d.id", "d.name", "d.budget", "d.start_date", "d.instructor_id", "d.row_version",
		"i.id", "i.last_name", "i.first_name", "i.hire_date",
	).
		From("departments d").
		LeftJoin("instructors i ON i.id = d.instructor_id")

	if filter.Search != "" {
		cond := squirrel.ILike{"d.name": "%" + filter.Search + "%"}
		countQ = countQ.Where(cond)
		listQ = listQ.Where(cond)
	}

	total, err := countRows(ctx, r.db, countQ)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error counting departments: %w", err)
	}

	page = helpers.ClampPage(page, size, total)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	listQ = listQ.
		OrderBy(sortClause(departmentSortColumns, sort, "d.name", desc), "d.id ASC").
		Offset(offset).
		Limit(uint64(limit))

	sql, args, err := listQ.ToSql()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error building department query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error listing departments: %w", err)
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		var department models.Department
		var admin instructorRow
		if err := rows.Scan(
			&department.ID,
			&department.Name,
			&department.Budget,
			&department.StartDate,
			&department.InstructorID,
			&department.RowVersion,
			&admin.ID,
			&admin.LastName,
			&admin.FirstName,
			&admin.HireDate,
		); err != nil {
			return nil, 0, 0, fmt.Errorf("error scanning department: %w", err)
		}
		department.Administrator = admin.toModel()
		departments = append(departments, &department)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("error listing departments: %w", err)
	}

	return departments, total, page, nil
}

// Update applies the caller's values only if the caller's observed
// concurrency token still matches the stored one. On success the token is
// rotated and written back into department.RowVersion. On a token mismatch
// the returned ConflictError carries both the attempted and current values;
// a vanished row is reported as not found.
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	department.StartDate = helpers.DateOnly(department.StartDate)
	observed := department.RowVersion
	next := uuid.New()

	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			UPDATE departments
			SET name = $1, budget = $2, start_date = $3, instructor_id = $4, row_version = $5
			WHERE id = $6 AND row_version = $7
		`
		cmdTag, err := tx.Exec(ctx, query,
			department.Name,
			department.Budget,
			department.StartDate,
			department.InstructorID,
			next,
			department.ID,
			observed,
		)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "departments_name_key") {
				return apperrors.ErrDepartmentNameTaken
			}
			if dberrors.IsForeignKeyViolation(err, "") {
				return apperrors.ErrInstructorNotFound
			}
			return fmt.Errorf("error updating department: %w", err)
		}

		if cmdTag.RowsAffected() == 1 {
			department.RowVersion = next
			return nil
		}

		// Zero rows: either the row is gone or the token is stale. Read the
		// current row in the same transaction to tell the two apart.
		attempted := *department
		attempted.RowVersion = observed
		current, err := r.getByID(ctx, tx, department.ID, false)
		if err != nil {
			if errors.Is(err, apperrors.ErrDepartmentNotFound) {
				return apperrors.ErrDepartmentNotFound
			}
			return err
		}
		return apperrors.NewConflictError("department", &attempted, current)
	})
}

// Delete removes a department and its entire course subtree (course
// enrollments, course-instructor assignments, courses) in one transaction.
// The caller's observed token is checked first; a mismatch aborts the whole
// cascade with a ConflictError. Deleting an already-deleted department is a
// no-op so a delete raced by another delete still succeeds.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64, rowVersion uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		return deleteDepartmentCascade(ctx, tx, id, rowVersion)
	})
}

// deleteDepartmentCascade removes a department and all of its descendants
// inside one transaction. The token check happens under a row lock before
// any child row is touched; deletes run leaf-to-root.
func deleteDepartmentCascade(ctx context.Context, tx pgx.Tx, id int64, rowVersion uuid.UUID) error {
	// Lock the row so no concurrent writer can advance the token between
	// the check and the cascade.
	var current models.Department
	err := tx.QueryRow(ctx, `
		SELECT id, name, budget, start_date, instructor_id, row_version
		FROM departments
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(
		&current.ID,
		&current.Name,
		&current.Budget,
		&current.StartDate,
		&current.InstructorID,
		&current.RowVersion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("error locking department: %w", err)
	}

	if current.RowVersion != rowVersion {
		return apperrors.NewConflictError("department", nil, &current)
	}

	// Collect descendant IDs first, then delete leaf-to-root.
	rows, err := tx.Query(ctx, `SELECT id FROM courses WHERE department_id = $1`, id)
	if err != nil {
		return fmt.Errorf("error collecting department courses: %w", err)
	}
	var courseIDs []int32
	for rows.Next() {
		var courseID int32
		if err := rows.Scan(&courseID); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning course id: %w", err)
		}
		courseIDs = append(courseIDs, courseID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error collecting department courses: %w", err)
	}

	if len(courseIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM enrollments WHERE course_id = ANY($1)`, courseIDs); err != nil {
			return fmt.Errorf("error deleting course enrollments: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM course_instructors WHERE course_id = ANY($1)`, courseIDs); err != nil {
			return fmt.Errorf("error deleting course instructor assignments: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM courses WHERE department_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting department courses: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting department: %w", err)
	}
	return nil
}

// instructorRow scans a LEFT JOINed instructor whose columns may all be NULL.
type instructorRow struct {
	ID        *int64
	LastName  *string
	FirstName *string
	HireDate  *time.Time
}

func (row *instructorRow) toModel() *models.Instructor {
	if row.ID == nil {
		return nil
	}
	instructor := &models.Instructor{
		ID:        *row.ID,
		LastName:  *row.LastName,
		FirstName: *row.FirstName,
	}
	if row.HireDate != nil {
		instructor.HireDate = *row.HireDate
	}
	return instructor
}
