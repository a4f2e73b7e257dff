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
	"github.com/emrekoc/registrar/internal/pkg/helpers"
)

// studentSortColumns whitelists sortable columns for student lists.
var studentSortColumns = map[string]string{
	"lastName":       "last_name",
	"firstName":      "first_name",
	"enrollmentDate": "enrollment_date",
}

// StudentFilter narrows student list queries.
type StudentFilter struct {
	// Search matches last or first name, case-insensitive substring.
	Search string
}

// StudentInclude declares which related entities are fetched in the same
// round trip as the student.
type StudentInclude struct {
	// Enrollments fetches the student's enrollments with their courses.
	Enrollments bool
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student and fills in the generated ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.EnrollmentDate = helpers.DateOnly(student.EnrollmentDate)

	query := `
		INSERT INTO students (last_name, first_name, enrollment_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		student.LastName, student.FirstName, student.EnrollmentDate).Scan(&student.ID)
	if err != nil {
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetByID retrieves a student by ID with the requested includes.
func (r *StudentRepository) GetByID(ctx context.Context, id int64, include StudentInclude) (*models.Student, error) {
	query := `
		SELECT id, last_name, first_name, enrollment_date
		FROM students
		WHERE id = $1
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.LastName,
		&student.FirstName,
		&student.EnrollmentDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	if include.Enrollments {
		enrollments, err := r.enrollmentsForStudents(ctx, r.db, []int64{id})
		if err != nil {
			return nil, err
		}
		student.Enrollments = enrollments[id]
	}

	return &student, nil
}

// List retrieves one page of students matching the filter, ordered by the
// named sort column with the primary key as tie-break. It returns the page
// items, the total matching count, and the clamped 1-based page number.
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter, sort string, desc bool, page, size int) ([]*models.Student, int64, int, error) {
	countQ := psql.Select("COUNT(*)").From("students")
	listQ := psql.Select("id", "last_name", "first_name", "enrollment_date").From("students")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		cond := squirrel.Or{
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"first_name": pattern},
		}
		countQ = countQ.Where(cond)
		listQ = listQ.Where(cond)
	}

	total, err := countRows(ctx, r.db, countQ)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error counting students: %w", err)
	}

	page = helpers.ClampPage(page, size, total)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	listQ = listQ.
		OrderBy(sortClause(studentSortColumns, sort, "last_name", desc), "id ASC").
		Offset(offset).
		Limit(uint64(limit))

	sql, args, err := listQ.ToSql()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error building student query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.ID,
			&student.LastName,
			&student.FirstName,
			&student.EnrollmentDate,
		); err != nil {
			return nil, 0, 0, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, &student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("error listing students: %w", err)
	}

	return students, total, page, nil
}

// Update applies the caller's values unconditionally; concurrent edits to
// the same student are last-writer-wins.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.EnrollmentDate = helpers.DateOnly(student.EnrollmentDate)

	query := `
		UPDATE students
		SET last_name = $1, first_name = $2, enrollment_date = $3
		WHERE id = $4
	`
	cmdTag, err := r.db.Exec(ctx, query,
		student.LastName, student.FirstName, student.EnrollmentDate, student.ID)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student and all of that student's enrollments in one
// transaction: either the whole subtree goes or none of it does.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM enrollments WHERE student_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting student enrollments: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting student: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}
		return nil
	})
}

// enrollmentsForStudents fetches enrollments with their courses for a batch
// of student IDs in a single query, keyed by student ID.
func (r *StudentRepository) enrollmentsForStudents(ctx context.Context, q DBTX, studentIDs []int64) (map[int64][]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.course_id, e.student_id, e.grade,
		       c.title, c.credits, c.department_id
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = ANY($1)
		ORDER BY e.id
	`

	rows, err := q.Query(ctx, query, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]*models.Enrollment)
	for rows.Next() {
		var enrollment models.Enrollment
		var course models.Course
		var grade *string
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.CourseID,
			&enrollment.StudentID,
			&grade,
			&course.Title,
			&course.Credits,
			&course.DepartmentID,
		); err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		if grade != nil {
			g := models.Grade(*grade)
			enrollment.Grade = &g
		}
		course.ID = enrollment.CourseID
		enrollment.Course = &course
		result[enrollment.StudentID] = append(result[enrollment.StudentID], &enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}

	return result, nil
}
