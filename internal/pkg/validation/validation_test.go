package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/pkg/apperrors"
)

func fieldNames(verr *apperrors.ValidationError) []string {
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestStruct_ValidCourse(t *testing.T) {
	course := &models.Course{ID: 4022, Title: "Microeconomics", Credits: 3, DepartmentID: 1}
	assert.NoError(t, Struct(course))
}

func TestStruct_CourseCreditsOutOfRange(t *testing.T) {
	course := &models.Course{ID: 4022, Title: "Microeconomics", Credits: 6, DepartmentID: 1}

	err := Struct(course)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, fieldNames(verr), "Credits")
}

func TestStruct_CourseNegativeCredits(t *testing.T) {
	course := &models.Course{ID: 1050, Title: "Chemistry", Credits: -1, DepartmentID: 1}

	var verr *apperrors.ValidationError
	err := Struct(course)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, fieldNames(verr), "Credits")
}

func TestStruct_StudentRequiredNames(t *testing.T) {
	student := &models.Student{EnrollmentDate: time.Now()}

	err := Struct(student)
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	names := fieldNames(verr)
	assert.Contains(t, names, "LastName")
	assert.Contains(t, names, "FirstName")
}

func TestStruct_StudentNameTooLong(t *testing.T) {
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	student := &models.Student{LastName: string(long), FirstName: "Carson"}

	var verr *apperrors.ValidationError
	err := Struct(student)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"LastName"}, fieldNames(verr))
}

func TestStruct_DepartmentConstraints(t *testing.T) {
	tests := []struct {
		name       string
		department models.Department
		wantField  string
	}{
		{name: "missing name", department: models.Department{Budget: 1000}, wantField: "Name"},
		{name: "name too short", department: models.Department{Name: "IT", Budget: 1000}, wantField: "Name"},
		{name: "negative budget", department: models.Department{Name: "Economics", Budget: -5}, wantField: "Budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *apperrors.ValidationError
			err := Struct(&tt.department)
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, fieldNames(verr), tt.wantField)
		})
	}
}

func TestStruct_EnrollmentGrade(t *testing.T) {
	pending := &models.Enrollment{CourseID: 1050, StudentID: 1}
	assert.NoError(t, Struct(pending), "absent grade means pending and is valid")

	graded := models.GradeB
	valid := &models.Enrollment{CourseID: 1050, StudentID: 1, Grade: &graded}
	assert.NoError(t, Struct(valid))

	bogus := models.Grade("E")
	invalid := &models.Enrollment{CourseID: 1050, StudentID: 1, Grade: &bogus}
	var verr *apperrors.ValidationError
	err := Struct(invalid)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, fieldNames(verr), "Grade")
}
