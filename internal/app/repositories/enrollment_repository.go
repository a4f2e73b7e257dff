package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/pkg/apperrors"
	"github.com/emrekoc/registrar/internal/pkg/dberrors"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
)

// enrollmentSortColumns whitelists sortable columns for enrollment lists.
var enrollmentSortColumns = map[string]string{
	"student": "s.last_name",
	"course":  "c.title",
	"grade":   "e.grade",
}

// EnrollmentFilter narrows enrollment list queries.
type EnrollmentFilter struct {
	CourseID  *int32
	StudentID *int64
}

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts a new enrollment and fills in the generated ID.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (course_id, student_id, grade)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		enrollment.CourseID, enrollment.StudentID, gradeValue(enrollment.Grade)).Scan(&enrollment.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_course_student_key") {
			return apperrors.ErrStudentAlreadyEnrolled
		}
		if dberrors.IsForeignKeyViolation(err, "enrollments_course_id_fkey") {
			return apperrors.ErrCourseNotFound
		}
		if dberrors.IsForeignKeyViolation(err, "enrollments_student_id_fkey") {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}
	return nil
}

// GetByID retrieves an enrollment with its student and course in one round
// trip.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := `
		SELECT e.id, e.course_id, e.student_id, e.grade,
		       s.last_name, s.first_name, s.enrollment_date,
		       c.title, c.credits, c.department_id
		FROM enrollments e
		JOIN students s ON s.id = e.student_id
		JOIN courses c ON c.id = e.course_id
		WHERE e.id = $1
	`

	var enrollment models.Enrollment
	var student models.Student
	var course models.Course
	var grade *string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&enrollment.ID,
		&enrollment.CourseID,
		&enrollment.StudentID,
		&grade,
		&student.LastName,
		&student.FirstName,
		&student.EnrollmentDate,
		&course.Title,
		&course.Credits,
		&course.DepartmentID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	if grade != nil {
		g := models.Grade(*grade)
		enrollment.Grade = &g
	}
	student.ID = enrollment.StudentID
	course.ID = enrollment.CourseID
	enrollment.Student = &student
	enrollment.Course = &course
	return &enrollment, nil
}

// List retrieves one page of enrollments with student and course joined in
// the same round trip. Returns items, total count, and the clamped page.
func (r *EnrollmentRepository) List(ctx context.Context, filter EnrollmentFilter, sort string, desc bool, page, size int) ([]*models.Enrollment, int64, int, error) {
	countQ := psql.Select("COUNT(*)").From("enrollments e")
	listQ := psql.Select(
		"e.id", "e.course_id", "e.student_id", "e.grade",
		"s.last_name", "s.first_name",
		"c.title",
	).
		From("enrollments e").
		Join("students s ON s.id = e.student_id").
		Join("courses c ON c.id = e.course_id")

	if filter.CourseID != nil {
		cond := squirrel.Eq{"e.course_id": *filter.CourseID}
		countQ = countQ.Where(cond)
		listQ = listQ.Where(cond)
	}
	if filter.StudentID != nil {
		cond := squirrel.Eq{"e.student_id": *filter.StudentID}
		countQ = countQ.Where(cond)
		listQ = listQ.Where(cond)
	}

	total, err := countRows(ctx, r.db, countQ)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error counting enrollments: %w", err)
	}

	page = helpers.ClampPage(page, size, total)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	listQ = listQ.
		OrderBy(sortClause(enrollmentSortColumns, sort, "e.id", desc), "e.id ASC").
		Offset(offset).
		Limit(uint64(limit))

	sql, args, err := listQ.ToSql()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error building enrollment query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		var student models.Student
		var course models.Course
		var grade *string
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.CourseID,
			&enrollment.StudentID,
			&grade,
			&student.LastName,
			&student.FirstName,
			&course.Title,
		); err != nil {
			return nil, 0, 0, fmt.Errorf("error scanning enrollment: %w", err)
		}
		if grade != nil {
			g := models.Grade(*grade)
			enrollment.Grade = &g
		}
		student.ID = enrollment.StudentID
		course.ID = enrollment.CourseID
		enrollment.Student = &student
		enrollment.Course = &course
		enrollments = append(enrollments, &enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("error listing enrollments: %w", err)
	}

	return enrollments, total, page, nil
}

// Update rewrites the grade; course and student references are immutable
// once enrolled. Concurrent edits are last-writer-wins.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE enrollments SET grade = $1 WHERE id = $2
	`, gradeValue(enrollment.Grade), enrollment.ID)
	if err != nil {
		return fmt.Errorf("error updating enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

// Delete removes a single enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

// gradeValue converts an optional grade to its nullable column value.
func gradeValue(g *models.Grade) *string {
	if g == nil {
		return nil
	}
	s := string(*g)
	return &s
}
