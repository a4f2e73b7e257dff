package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/pkg/pgxtest"
	"github.com/emrekoc/registrar/internal/pkg/validation"
)

// The dataset is hand-authored, so these checks pin its internal
// consistency: every cross-reference resolves and every row would pass
// entity validation on insert.

func TestSeedDatasetCounts(t *testing.T) {
	assert.Len(t, students, 8)
	assert.Len(t, instructors, 5)
	assert.Len(t, departments, 4)
	assert.Len(t, courses, 7)
	assert.Len(t, enrollments, 11)
}

func TestSeedDatasetReferencesResolve(t *testing.T) {
	instructorNames := make(map[string]bool)
	for _, ins := range instructors {
		instructorNames[ins.lastName] = true
	}
	studentNames := make(map[string]bool)
	for _, s := range students {
		studentNames[s.lastName] = true
	}
	departmentNames := make(map[string]bool)
	for _, d := range departments {
		departmentNames[d.name] = true
	}
	courseIDs := make(map[int32]bool)
	for _, c := range courses {
		require.False(t, courseIDs[c.id], "course number %d listed twice", c.id)
		courseIDs[c.id] = true
	}

	for _, d := range departments {
		if d.administrator != "" {
			assert.True(t, instructorNames[d.administrator], "administrator %q not a seeded instructor", d.administrator)
		}
	}
	for _, c := range courses {
		assert.True(t, departmentNames[c.department], "course %s references unknown department %q", c.title, c.department)
		for _, name := range c.instructors {
			assert.True(t, instructorNames[name], "course %s references unknown instructor %q", c.title, name)
		}
	}

	type pair struct {
		student string
		course  int32
	}
	seen := make(map[pair]bool)
	for _, e := range enrollments {
		assert.True(t, studentNames[e.student], "enrollment references unknown student %q", e.student)
		assert.True(t, courseIDs[e.course], "enrollment references unknown course %d", e.course)

		key := pair{e.student, e.course}
		assert.False(t, seen[key], "student %s enrolled twice in course %d", e.student, e.course)
		seen[key] = true
	}
}

func TestSeedDatasetPassesEntityValidation(t *testing.T) {
	for _, s := range students {
		assert.NoError(t, validation.Struct(&models.Student{
			LastName:       s.lastName,
			FirstName:      s.firstName,
			EnrollmentDate: s.enrollment,
		}))
	}
	for _, d := range departments {
		assert.NoError(t, validation.Struct(&models.Department{
			Name:      d.name,
			Budget:    d.budget,
			StartDate: d.startDate,
		}))
	}
	for _, c := range courses {
		assert.NoError(t, validation.Struct(&models.Course{
			ID:           c.id,
			Title:        c.title,
			Credits:      c.credits,
			DepartmentID: 1,
		}))
	}
	for _, e := range enrollments {
		if e.grade == "" {
			continue
		}
		assert.True(t, models.Grade(e.grade).Valid(), "grade %q on %s/%d", e.grade, e.student, e.course)
	}
}

func TestPopulateSkipsSeededStore(t *testing.T) {
	tx := &pgxtest.Tx{
		QueryRowFunc: func(sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "COUNT(*)")
			return pgxtest.ValueRow(int64(8))
		},
	}

	require.NoError(t, populate(context.Background(), tx))

	require.NotEmpty(t, tx.Statements)
	assert.Contains(t, tx.Statements[0], "pg_advisory_xact_lock")
	for _, sql := range tx.Statements {
		assert.NotContains(t, sql, "INSERT")
	}
}

func TestPopulateInsertsDatasetInDependencyOrder(t *testing.T) {
	var nextID int64
	tx := &pgxtest.Tx{
		QueryRowFunc: func(sql string, args ...any) pgx.Row {
			if strings.Contains(sql, "COUNT(*)") {
				return pgxtest.ValueRow(int64(0))
			}
			require.Contains(t, sql, "RETURNING id")
			nextID++
			return pgxtest.ValueRow(nextID)
		},
	}

	require.NoError(t, populate(context.Background(), tx))

	count := func(substr string) int {
		n := 0
		for _, sql := range tx.Statements {
			if strings.Contains(sql, substr) {
				n++
			}
		}
		return n
	}
	assert.Equal(t, len(students), count("INSERT INTO students"))
	assert.Equal(t, len(instructors), count("INSERT INTO instructors"))
	assert.Equal(t, 3, count("INSERT INTO office_assignments"))
	assert.Equal(t, len(departments), count("INSERT INTO departments"))
	assert.Equal(t, len(courses), count("INSERT INTO courses"))
	assert.Equal(t, 8, count("INSERT INTO course_instructors"))
	assert.Equal(t, len(enrollments), count("INSERT INTO enrollments"))

	first := func(substr string) int {
		for i, sql := range tx.Statements {
			if strings.Contains(sql, substr) {
				return i
			}
		}
		return -1
	}
	last := func(substr string) int {
		idx := -1
		for i, sql := range tx.Statements {
			if strings.Contains(sql, substr) {
				idx = i
			}
		}
		return idx
	}

	// Referenced rows go in before the rows that point at them.
	assert.Less(t, last("INSERT INTO instructors"), first("INSERT INTO departments"))
	assert.Less(t, last("INSERT INTO departments"), first("INSERT INTO courses"))
	assert.Less(t, first("INSERT INTO courses"), first("INSERT INTO course_instructors"))
	assert.Less(t, last("INSERT INTO students"), first("INSERT INTO enrollments"))
	assert.Less(t, last("INSERT INTO courses"), first("INSERT INTO enrollments"))
}
