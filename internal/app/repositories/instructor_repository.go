package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/db"
	"github.com/emrekoc/registrar/internal/pkg/apperrors"
	"github.com/emrekoc/registrar/internal/pkg/dberrors"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
)

// instructorSortColumns whitelists sortable columns for instructor lists.
var instructorSortColumns = map[string]string{
	"lastName":  "i.last_name",
	"firstName": "i.first_name",
	"hireDate":  "i.hire_date",
}

// InstructorFilter narrows instructor list queries.
type InstructorFilter struct {
	// Search matches last or first name, case-insensitive substring.
	Search string
}

// InstructorInclude declares which related entities are fetched in the same
// round trip as the instructor.
type InstructorInclude struct {
	// Office fetches the office assignment.
	Office bool
	// Courses fetches the taught courses.
	Courses bool
}

// InstructorRepository handles database operations for instructors. The
// office assignment and course-assignment rows are owned by the instructor
// and written together with it.
type InstructorRepository struct {
	db *pgxpool.Pool
}

// NewInstructorRepository creates a new instructor repository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// Create inserts a new instructor, together with its office assignment and
// course assignments when present, in one transaction.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor, courseIDs []int32) error {
	instructor.HireDate = helpers.DateOnly(instructor.HireDate)

	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO instructors (last_name, first_name, hire_date)
			VALUES ($1, $2, $3)
			RETURNING id
		`, instructor.LastName, instructor.FirstName, instructor.HireDate).Scan(&instructor.ID)
		if err != nil {
			return fmt.Errorf("error creating instructor: %w", err)
		}

		if instructor.OfficeAssignment != nil {
			instructor.OfficeAssignment.InstructorID = instructor.ID
			_, err := tx.Exec(ctx, `
				INSERT INTO office_assignments (instructor_id, location)
				VALUES ($1, $2)
			`, instructor.ID, instructor.OfficeAssignment.Location)
			if err != nil {
				return fmt.Errorf("error creating office assignment: %w", err)
			}
		}

		if len(courseIDs) > 0 {
			if err := replaceInstructorCourses(ctx, tx, instructor.ID, courseIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves an instructor by ID with the requested includes.
func (r *InstructorRepository) GetByID(ctx context.Context, id int64, include InstructorInclude) (*models.Instructor, error) {
	query := `
		SELECT i.id, i.last_name, i.first_name, i.hire_date, o.location
		FROM instructors i
		LEFT JOIN office_assignments o ON o.instructor_id = i.id
		WHERE i.id = $1
	`

	var instructor models.Instructor
	var location *string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&instructor.ID,
		&instructor.LastName,
		&instructor.FirstName,
		&instructor.HireDate,
		&location,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}

	if include.Office && location != nil {
		instructor.OfficeAssignment = &models.OfficeAssignment{
			InstructorID: instructor.ID,
			Location:     *location,
		}
	}

	if include.Courses {
		courses, err := coursesForInstructors(ctx, r.db, []int64{id})
		if err != nil {
			return nil, err
		}
		instructor.Courses = courses[id]
	}

	return &instructor, nil
}

// List retrieves one page of instructors. Office assignments are joined in
// the page query; taught courses for the whole page are fetched with one
// additional batched query rather than one per instructor.
func (r *InstructorRepository) List(ctx context.Context, filter InstructorFilter, sort string, desc bool, page, size int) ([]*models.Instructor, int64, int, error) {
	countQ := psql.Select("COUNT(*)").From("instructors i")
	listQ := psql.Select(
		"i.id", "i.last_name", "i.first_name", "i.hire_date", "o.location",
	).
		From("instructors i").
		LeftJoin("office_assignments o ON o.instructor_id = i.id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		cond := squirrel.Or{
			squirrel.ILike{"i.last_name": pattern},
			squirrel.ILike{"i.first_name": pattern},
		}
		countQ = countQ.Where(cond)
		listQ = listQ.Where(cond)
	}

	total, err := countRows(ctx, r.db, countQ)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error counting instructors: %w", err)
	}

	page = helpers.ClampPage(page, size, total)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	listQ = listQ.
		OrderBy(sortClause(instructorSortColumns, sort, "i.last_name", desc), "i.id ASC").
		Offset(offset).
		Limit(uint64(limit))

	sql, args, err := listQ.ToSql()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error building instructor query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error listing instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*models.Instructor
	var ids []int64
	for rows.Next() {
		var instructor models.Instructor
		var location *string
		if err := rows.Scan(
			&instructor.ID,
			&instructor.LastName,
			&instructor.FirstName,
			&instructor.HireDate,
			&location,
		); err != nil {
			return nil, 0, 0, fmt.Errorf("error scanning instructor: %w", err)
		}
		if location != nil {
			instructor.OfficeAssignment = &models.OfficeAssignment{
				InstructorID: instructor.ID,
				Location:     *location,
			}
		}
		instructors = append(instructors, &instructor)
		ids = append(ids, instructor.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("error listing instructors: %w", err)
	}

	if len(ids) > 0 {
		courses, err := coursesForInstructors(ctx, r.db, ids)
		if err != nil {
			return nil, 0, 0, err
		}
		for _, instructor := range instructors {
			instructor.Courses = courses[instructor.ID]
		}
	}

	return instructors, total, page, nil
}

// Update rewrites the instructor row plus its owned office assignment and
// course-assignment set in one transaction. Concurrent edits to the same
// instructor are last-writer-wins.
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor, courseIDs []int32) error {
	instructor.HireDate = helpers.DateOnly(instructor.HireDate)

	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, `
			UPDATE instructors
			SET last_name = $1, first_name = $2, hire_date = $3
			WHERE id = $4
		`, instructor.LastName, instructor.FirstName, instructor.HireDate, instructor.ID)
		if err != nil {
			return fmt.Errorf("error updating instructor: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrInstructorNotFound
		}

		if instructor.OfficeAssignment != nil {
			instructor.OfficeAssignment.InstructorID = instructor.ID
			_, err = tx.Exec(ctx, `
				INSERT INTO office_assignments (instructor_id, location)
				VALUES ($1, $2)
				ON CONFLICT (instructor_id) DO UPDATE SET location = EXCLUDED.location
			`, instructor.ID, instructor.OfficeAssignment.Location)
			if err != nil {
				return fmt.Errorf("error upserting office assignment: %w", err)
			}
		} else {
			if _, err := tx.Exec(ctx, `DELETE FROM office_assignments WHERE instructor_id = $1`, instructor.ID); err != nil {
				return fmt.Errorf("error removing office assignment: %w", err)
			}
		}

		return replaceInstructorCourses(ctx, tx, instructor.ID, courseIDs)
	})
}

// Delete removes an instructor, its office assignment, and its course
// assignments, and clears any department administrator reference, all in one
// transaction. Courses themselves survive the delete.
func (r *InstructorRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM office_assignments WHERE instructor_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting office assignment: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM course_instructors WHERE instructor_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting course assignments: %w", err)
		}
		// An administered department keeps existing without an administrator.
		// The department's concurrency token is rotated because the row
		// changed underneath any caller editing it.
		if _, err := tx.Exec(ctx, `
			UPDATE departments
			SET instructor_id = NULL, row_version = gen_random_uuid()
			WHERE instructor_id = $1
		`, id); err != nil {
			return fmt.Errorf("error clearing department administrator: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM instructors WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting instructor: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrInstructorNotFound
		}
		return nil
	})
}

// replaceInstructorCourses rewrites the association rows for one instructor.
func replaceInstructorCourses(ctx context.Context, tx pgx.Tx, instructorID int64, courseIDs []int32) error {
	if _, err := tx.Exec(ctx, `DELETE FROM course_instructors WHERE instructor_id = $1`, instructorID); err != nil {
		return fmt.Errorf("error clearing course assignments: %w", err)
	}
	for _, courseID := range courseIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO course_instructors (course_id, instructor_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, courseID, instructorID)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err, "course_instructors_course_id_fkey") {
				return apperrors.ErrCourseNotFound
			}
			if dberrors.IsForeignKeyViolation(err, "course_instructors_instructor_id_fkey") {
				return apperrors.ErrInstructorNotFound
			}
			return fmt.Errorf("error assigning course %d: %w", courseID, err)
		}
	}
	return nil
}

// coursesForInstructors fetches taught courses for a batch of instructor IDs
// in one query, keyed by instructor ID.
func coursesForInstructors(ctx context.Context, q DBTX, instructorIDs []int64) (map[int64][]*models.Course, error) {
	query := `
		SELECT ci.instructor_id, c.id, c.title, c.credits, c.department_id, d.name
		FROM course_instructors ci
		JOIN courses c ON c.id = ci.course_id
		JOIN departments d ON d.id = c.department_id
		WHERE ci.instructor_id = ANY($1)
		ORDER BY c.id
	`

	rows, err := q.Query(ctx, query, instructorIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving taught courses: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]*models.Course)
	for rows.Next() {
		var instructorID int64
		var course models.Course
		var departmentName string
		if err := rows.Scan(
			&instructorID,
			&course.ID,
			&course.Title,
			&course.Credits,
			&course.DepartmentID,
			&departmentName,
		); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		course.Department = &models.Department{ID: course.DepartmentID, Name: departmentName}
		result[instructorID] = append(result[instructorID], &course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error retrieving taught courses: %w", err)
	}

	return result, nil
}
