package repositories

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortClause(t *testing.T) {
	tests := []struct {
		name string
		sort string
		desc bool
		want string
	}{
		{name: "whitelisted column ascending", sort: "lastName", want: "last_name ASC"},
		{name: "whitelisted column descending", sort: "enrollmentDate", desc: true, want: "enrollment_date DESC"},
		{name: "unknown key falls back", sort: "lastName; DROP TABLE students", want: "last_name ASC"},
		{name: "empty key falls back", sort: "", want: "last_name ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sortClause(studentSortColumns, tt.sort, "last_name", tt.desc))
		})
	}
}

// TestListQueryComposition pins the shape of a composed page query: the
// filter condition, the primary-key tie-break after the sort column, and
// the positional placeholders.
func TestListQueryComposition(t *testing.T) {
	listQ := psql.Select("id", "last_name", "first_name", "enrollment_date").
		From("students").
		Where(squirrel.Or{
			squirrel.ILike{"last_name": "%an%"},
			squirrel.ILike{"first_name": "%an%"},
		}).
		OrderBy(sortClause(studentSortColumns, "lastName", "last_name", false), "id ASC").
		Offset(3).
		Limit(3)

	sql, args, err := listQ.ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, last_name, first_name, enrollment_date FROM students "+
			"WHERE (last_name ILIKE $1 OR first_name ILIKE $2) "+
			"ORDER BY last_name ASC, id ASC LIMIT 3 OFFSET 3",
		sql)
	assert.Equal(t, []interface{}{"%an%", "%an%"}, args)
}

func TestSortColumnWhitelists(t *testing.T) {
	// Every whitelist value must be a plain column reference; anything else
	// would splice caller input into ORDER BY.
	for name, columns := range map[string]map[string]string{
		"students":    studentSortColumns,
		"instructors": instructorSortColumns,
		"departments": departmentSortColumns,
		"courses":     courseSortColumns,
		"enrollments": enrollmentSortColumns,
	} {
		for key, column := range columns {
			assert.NotContains(t, column, " ", "%s sort %q maps to suspicious column %q", name, key, column)
			assert.NotContains(t, column, ";", "%s sort %q maps to suspicious column %q", name, key, column)
		}
	}
}
