package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, letting the same query
// code run standalone or inside a cascade transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds queries with PostgreSQL positional placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories bundles all entity repositories over one connection pool.
type Repositories struct {
	Students    *StudentRepository
	Instructors *InstructorRepository
	Departments *DepartmentRepository
	Courses     *CourseRepository
	Enrollments *EnrollmentRepository
}

// NewRepositories creates the repository container.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Students:    NewStudentRepository(pool),
		Instructors: NewInstructorRepository(pool),
		Departments: NewDepartmentRepository(pool),
		Courses:     NewCourseRepository(pool),
		Enrollments: NewEnrollmentRepository(pool),
	}
}

// sortClause resolves a caller-supplied sort key against a column whitelist
// and renders the ORDER BY expression. Unknown keys fall back to the given
// column; nothing caller-supplied ever reaches the SQL text.
func sortClause(columns map[string]string, sort, fallback string, desc bool) string {
	column, ok := columns[sort]
	if !ok {
		column = fallback
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// countRows executes a COUNT(*) builder and returns the total.
func countRows(ctx context.Context, q DBTX, builder squirrel.SelectBuilder) (int64, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var total int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
