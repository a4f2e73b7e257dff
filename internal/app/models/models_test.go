package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullName(t *testing.T) {
	student := Student{LastName: "Alonso", FirstName: "Meredith"}
	assert.Equal(t, "Alonso, Meredith", student.FullName())

	instructor := Instructor{LastName: "Abercrombie", FirstName: "Kim"}
	assert.Equal(t, "Abercrombie, Kim", instructor.FullName())
}

func TestMarshalIncludesFullName(t *testing.T) {
	data, err := json.Marshal(&Student{ID: 1, LastName: "Li", FirstName: "Yan"})
	require.NoError(t, err)
	var student map[string]any
	require.NoError(t, json.Unmarshal(data, &student))
	assert.Equal(t, "Li, Yan", student["fullName"])
	assert.Equal(t, "Li", student["lastName"])

	data, err = json.Marshal(Instructor{ID: 2, LastName: "Harui", FirstName: "Roger"})
	require.NoError(t, err)
	var instructor map[string]any
	require.NoError(t, json.Unmarshal(data, &instructor))
	assert.Equal(t, "Harui, Roger", instructor["fullName"])
}
