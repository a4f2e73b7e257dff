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

// courseSortColumns whitelists sortable columns for course lists.
var courseSortColumns = map[string]string{
	"id":         "c.id",
	"title":      "c.title",
	"credits":    "c.credits",
	"department": "d.name",
}

// CourseFilter narrows course list queries.
type CourseFilter struct {
	// DepartmentID restricts to one department when set.
	DepartmentID *int64
	// Search matches the course title, case-insensitive substring.
	Search string
}

// CourseInclude declares which related entities are fetched in the same
// round trip as the course.
type CourseInclude struct {
	Department  bool
	Instructors bool
	Enrollments bool
}

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course under its caller-assigned course number.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, title, credits, department_id)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query,
		course.ID, course.Title, course.Credits, course.DepartmentID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_pkey") {
			return apperrors.ErrCourseAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err, "courses_department_id_fkey") {
			return apperrors.ErrDepartmentNotFound
		}
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a course by its number with the requested includes.
func (r *CourseRepository) GetByID(ctx context.Context, id int32, include CourseInclude) (*models.Course, error) {
	query := `
		SELECT c.id, c.title, c.credits, c.department_id,
		       d.name, d.budget, d.start_date, d.instructor_id, d.row_version
		FROM courses c
		JOIN departments d ON d.id = c.department_id
		WHERE c.id = $1
	`

	var course models.Course
	var department models.Department
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Credits,
		&course.DepartmentID,
		&department.Name,
		&department.Budget,
		&department.StartDate,
		&department.InstructorID,
		&department.RowVersion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	if include.Department {
		department.ID = course.DepartmentID
		course.Department = &department
	}

	if include.Instructors {
		instructors, err := instructorsForCourses(ctx, r.db, []int32{id})
		if err != nil {
			return nil, err
		}
		course.Instructors = instructors[id]
	}

	if include.Enrollments {
		enrollments, err := r.enrollmentsForCourse(ctx, id)
		if err != nil {
			return nil, err
		}
		course.Enrollments = enrollments
	}

	return &course, nil
}

// List retrieves one page of courses with their departments eagerly joined.
// Returns items, total count, and the clamped page number.
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter, sort string, desc bool, page, size int) ([]*models.Course, int64, int, error) {
	countQ := psql.Select("COUNT(*)").From("courses c")
	listQ := psql.Select(
		"c.id", "c.title", "c.credits", "c.department_id", "d.name",
	).
		From("courses c").
		Join("departments d ON d.id = c.department_id")

	if filter.DepartmentID != nil {
		cond := squirrel.Eq{"c.department_id": *filter.DepartmentID}
		countQ = countQ.Where(cond)
		listQ = listQ.Where(cond)
	}
	if filter.Search != "" {
		cond := squirrel.ILike{"c.title": "%" + filter.Search + "%"}
		countQ = countQ.Where(cond)
		listQ = listQ.Where(cond)
	}

	total, err := countRows(ctx, r.db, countQ)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error counting courses: %w", err)
	}

	page = helpers.ClampPage(page, size, total)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	listQ = listQ.
		OrderBy(sortClause(courseSortColumns, sort, "c.id", desc), "c.id ASC").
		Offset(offset).
		Limit(uint64(limit))

	sql, args, err := listQ.ToSql()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error building course query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		var departmentName string
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Credits,
			&course.DepartmentID,
			&departmentName,
		); err != nil {
			return nil, 0, 0, fmt.Errorf("error scanning course: %w", err)
		}
		course.Department = &models.Department{ID: course.DepartmentID, Name: departmentName}
		courses = append(courses, &course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("error listing courses: %w", err)
	}

	return courses, total, page, nil
}

// Update applies the caller's values unconditionally; concurrent edits to
// the same course are last-writer-wins. The course number itself is
// immutable.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = $1, credits = $2, department_id = $3
		WHERE id = $4
	`
	cmdTag, err := r.db.Exec(ctx, query,
		course.Title, course.Credits, course.DepartmentID, course.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "courses_department_id_fkey") {
			return apperrors.ErrDepartmentNotFound
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course, its enrollments, and its instructor assignments
// in one transaction.
func (r *CourseRepository) Delete(ctx context.Context, id int32) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM enrollments WHERE course_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting course enrollments: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM course_instructors WHERE course_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting course instructor assignments: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting course: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrCourseNotFound
		}
		return nil
	})
}

// SetInstructors replaces the course's instructor assignments with the given
// set inside one transaction.
func (r *CourseRepository) SetInstructors(ctx context.Context, courseID int32, instructorIDs []int64) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		return setCourseInstructors(ctx, tx, courseID, instructorIDs)
	})
}

// setCourseInstructors rewrites the association rows for one course.
func setCourseInstructors(ctx context.Context, tx pgx.Tx, courseID int32, instructorIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM course_instructors WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error clearing course instructor assignments: %w", err)
	}
	for _, instructorID := range instructorIDs {
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
			return fmt.Errorf("error assigning instructor to course: %w", err)
		}
	}
	return nil
}

// enrollmentsForCourse fetches a course's enrollments with their students in
// a single query.
func (r *CourseRepository) enrollmentsForCourse(ctx context.Context, courseID int32) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.course_id, e.student_id, e.grade,
		       s.last_name, s.first_name, s.enrollment_date
		FROM enrollments e
		JOIN students s ON s.id = e.student_id
		WHERE e.course_id = $1
		ORDER BY e.id
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		var student models.Student
		var grade *string
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.CourseID,
			&enrollment.StudentID,
			&grade,
			&student.LastName,
			&student.FirstName,
			&student.EnrollmentDate,
		); err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		if grade != nil {
			g := models.Grade(*grade)
			enrollment.Grade = &g
		}
		student.ID = enrollment.StudentID
		enrollment.Student = &student
		enrollments = append(enrollments, &enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error retrieving course enrollments: %w", err)
	}

	return enrollments, nil
}

// coursesForDepartments fetches courses for a batch of department IDs in one
// query, keyed by department ID.
func coursesForDepartments(ctx context.Context, q DBTX, departmentIDs []int64) (map[int64][]*models.Course, error) {
	query := `
		SELECT id, title, credits, department_id
		FROM courses
		WHERE department_id = ANY($1)
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, departmentIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving department courses: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]*models.Course)
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Credits,
			&course.DepartmentID,
		); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		result[course.DepartmentID] = append(result[course.DepartmentID], &course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error retrieving department courses: %w", err)
	}

	return result, nil
}

// instructorsForCourses fetches assigned instructors for a batch of course
// numbers in one query, keyed by course number.
func instructorsForCourses(ctx context.Context, q DBTX, courseIDs []int32) (map[int32][]*models.Instructor, error) {
	query := `
		SELECT ci.course_id, i.id, i.last_name, i.first_name, i.hire_date
		FROM course_instructors ci
		JOIN instructors i ON i.id = ci.instructor_id
		WHERE ci.course_id = ANY($1)
		ORDER BY i.last_name, i.id
	`

	rows, err := q.Query(ctx, query, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course instructors: %w", err)
	}
	defer rows.Close()

	result := make(map[int32][]*models.Instructor)
	for rows.Next() {
		var courseID int32
		var instructor models.Instructor
		if err := rows.Scan(
			&courseID,
			&instructor.ID,
			&instructor.LastName,
			&instructor.FirstName,
			&instructor.HireDate,
		); err != nil {
			return nil, fmt.Errorf("error scanning instructor: %w", err)
		}
		result[courseID] = append(result[courseID], &instructor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error retrieving course instructors: %w", err)
	}

	return result, nil
}
