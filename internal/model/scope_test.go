package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionFromPtr(t *testing.T) {
	zero, neg, five := 0, -2, 5
	assert.False(t, SectionFromPtr(nil).IsSectioned())
	assert.False(t, SectionFromPtr(&zero).IsSectioned())
	assert.False(t, SectionFromPtr(&neg).IsSectioned())
	assert.Equal(t, Sectioned(5), SectionFromPtr(&five))
	assert.Nil(t, Unsectioned().Ptr())
	assert.Equal(t, 5, *Sectioned(5).Ptr())
}

func TestSectionRefEquality(t *testing.T) {
	assert.True(t, Unsectioned().Equal(SectionRef{}))
	assert.True(t, Sectioned(3).Equal(Sectioned(3)))
	assert.False(t, Sectioned(3).Equal(Sectioned(4)))
	assert.False(t, Sectioned(3).Equal(Unsectioned()))

	a := Scope{BatchID: 1, DepartmentID: 2, SemesterID: 3}
	b := a
	b.Section = Sectioned(9)
	assert.NotEqual(t, a, b)
	assert.True(t, a == Scope{BatchID: 1, DepartmentID: 2, SemesterID: 3, Section: Unsectioned()})
}

func TestSectionRefJSON(t *testing.T) {
	out, err := json.Marshal(Scope{BatchID: 1, DepartmentID: 2, Section: Sectioned(7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"batch_id":1,"department_id":2,"section_id":7}`, string(out))

	out, err = json.Marshal(Scope{BatchID: 1, DepartmentID: 2, SemesterID: 4})
	require.NoError(t, err)
	assert.JSONEq(t, `{"batch_id":1,"department_id":2,"semester_id":4,"section_id":null}`, string(out))

	tests := []struct {
		in   string
		want SectionRef
	}{
		{`null`, Unsectioned()},
		{`""`, Unsectioned()},
		{`0`, Unsectioned()},
		{`12`, Sectioned(12)},
		{`"12"`, Sectioned(12)},
	}
	for _, tt := range tests {
		var got SectionRef
		require.NoError(t, json.Unmarshal([]byte(tt.in), &got), tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	var bad SectionRef
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &bad))
}

func TestScopeQueryScope(t *testing.T) {
	zero := 0
	q := ScopeQuery{BatchID: 1, DepartmentID: 2, SemesterID: 3, SectionID: &zero}
	assert.Equal(t, Scope{BatchID: 1, DepartmentID: 2, SemesterID: 3}, q.Scope())
}
