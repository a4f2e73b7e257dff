package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emrekoc/registrar/internal/pkg/apperrors"
	"github.com/emrekoc/registrar/internal/pkg/pgxtest"
)

// statementIndex returns the position of the first recorded statement
// containing substr, or -1.
func statementIndex(statements []string, substr string) int {
	for i, sql := range statements {
		if strings.Contains(sql, substr) {
			return i
		}
	}
	return -1
}

func departmentRow(token uuid.UUID) pgx.Row {
	start := time.Date(2007, time.September, 1, 0, 0, 0, 0, time.UTC)
	return pgxtest.ValueRow(int64(3), "Engineering", 350000.0, start, nil, token)
}

func TestDeleteDepartmentCascadeOrder(t *testing.T) {
	token := uuid.New()
	tx := &pgxtest.Tx{
		QueryRowFunc: func(sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "FOR UPDATE")
			return departmentRow(token)
		},
		QueryFunc: func(sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "FROM courses")
			return pgxtest.Rows([]any{int32(1050)}, []any{int32(3141)}), nil
		},
	}

	require.NoError(t, deleteDepartmentCascade(context.Background(), tx, 3, token))

	enrollments := statementIndex(tx.Statements, "DELETE FROM enrollments")
	assignments := statementIndex(tx.Statements, "DELETE FROM course_instructors")
	courses := statementIndex(tx.Statements, "DELETE FROM courses")
	department := statementIndex(tx.Statements, "DELETE FROM departments")

	require.NotEqual(t, -1, enrollments)
	require.NotEqual(t, -1, assignments)
	require.NotEqual(t, -1, courses)
	require.NotEqual(t, -1, department)

	// Leaf-to-root: children go before their parents.
	assert.Less(t, enrollments, assignments)
	assert.Less(t, assignments, courses)
	assert.Less(t, courses, department)
}

func TestDeleteDepartmentStaleTokenAbortsBeforeAnyDelete(t *testing.T) {
	tx := &pgxtest.Tx{
		QueryRowFunc: func(sql string, args ...any) pgx.Row {
			return departmentRow(uuid.New())
		},
	}

	err := deleteDepartmentCascade(context.Background(), tx, 3, uuid.New())

	require.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Nil(t, conflict.Attempted)
	assert.NotNil(t, conflict.Current)

	for _, sql := range tx.Statements {
		assert.NotContains(t, sql, "DELETE")
	}
}

func TestDeleteDepartmentGoneRowIsNoOp(t *testing.T) {
	tx := &pgxtest.Tx{}

	require.NoError(t, deleteDepartmentCascade(context.Background(), tx, 3, uuid.New()))

	for _, sql := range tx.Statements {
		assert.NotContains(t, sql, "DELETE")
	}
}

func TestDeleteDepartmentMidCascadeFailureStopsCascade(t *testing.T) {
	token := uuid.New()
	tx := &pgxtest.Tx{
		QueryRowFunc: func(sql string, args ...any) pgx.Row {
			return departmentRow(token)
		},
		QueryFunc: func(sql string, args ...any) (pgx.Rows, error) {
			return pgxtest.Rows([]any{int32(1050)}), nil
		},
		ExecFunc: func(sql string, args ...any) (pgconn.CommandTag, error) {
			if strings.Contains(sql, "course_instructors") {
				return pgconn.CommandTag{}, errors.New("connection reset")
			}
			return pgconn.CommandTag{}, nil
		},
	}

	err := deleteDepartmentCascade(context.Background(), tx, 3, token)
	require.Error(t, err)

	// Later statements never run; the surrounding transaction rolls back
	// whatever did.
	assert.Equal(t, -1, statementIndex(tx.Statements, "DELETE FROM courses WHERE"))
	assert.Equal(t, -1, statementIndex(tx.Statements, "DELETE FROM departments"))
}

func TestReplaceInstructorCoursesClassifiesUnknownCourse(t *testing.T) {
	tx := &pgxtest.Tx{
		ExecFunc: func(sql string, args ...any) (pgconn.CommandTag, error) {
			if strings.Contains(sql, "INSERT INTO course_instructors") {
				return pgconn.CommandTag{}, &pgconn.PgError{
					Code:           "23503",
					ConstraintName: "course_instructors_course_id_fkey",
				}
			}
			return pgconn.CommandTag{}, nil
		},
	}

	err := replaceInstructorCourses(context.Background(), tx, 7, []int32{9999})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestReplaceInstructorCoursesClassifiesUnknownInstructor(t *testing.T) {
	tx := &pgxtest.Tx{
		ExecFunc: func(sql string, args ...any) (pgconn.CommandTag, error) {
			if strings.Contains(sql, "INSERT INTO course_instructors") {
				return pgconn.CommandTag{}, &pgconn.PgError{
					Code:           "23503",
					ConstraintName: "course_instructors_instructor_id_fkey",
				}
			}
			return pgconn.CommandTag{}, nil
		},
	}

	err := replaceInstructorCourses(context.Background(), tx, 9999, []int32{1050})
	assert.ErrorIs(t, err, apperrors.ErrInstructorNotFound)
}
