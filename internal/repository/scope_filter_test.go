package repository

import (
	"testing"

	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildScopePredicate(t *testing.T) {
	tests := []struct {
		name     string
		alias    string
		scope    model.Scope
		first    int
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "unsectioned with semester",
			alias:    "c",
			scope:    model.Scope{BatchID: 1, DepartmentID: 2, SemesterID: 3},
			first:    1,
			wantSQL:  "c.batch_id = $1 AND c.department_id = $2 AND c.semester_id = $3 AND c.section_id IS NULL",
			wantArgs: []any{1, 2, 3},
		},
		{
			name:     "sectioned with semester",
			alias:    "c",
			scope:    model.Scope{BatchID: 1, DepartmentID: 2, SemesterID: 3, Section: model.Sectioned(9)},
			first:    1,
			wantSQL:  "c.batch_id = $1 AND c.department_id = $2 AND c.semester_id = $3 AND c.section_id = $4",
			wantArgs: []any{1, 2, 3, 9},
		},
		{
			name:     "semester omitted and offset placeholders",
			alias:    "",
			scope:    model.Scope{BatchID: 5, DepartmentID: 6, Section: model.Sectioned(7)},
			first:    3,
			wantSQL:  "batch_id = $3 AND department_id = $4 AND section_id = $5",
			wantArgs: []any{5, 6, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildScopePredicate(tt.alias, tt.scope, tt.first)
			assert.Equal(t, tt.wantSQL, p.SQL)
			assert.Equal(t, tt.wantArgs, p.Args)
			assert.Equal(t, tt.first+len(tt.wantArgs), p.NextArg(tt.first))
		})
	}
}

func TestBuildScopePredicateNeverBindsSectionWhenUnsectioned(t *testing.T) {
	for _, sc := range []model.Scope{
		{BatchID: 1, DepartmentID: 1},
		{BatchID: 1, DepartmentID: 1, SemesterID: 4, Section: model.SectionFromPtr(nil)},
		{BatchID: 1, DepartmentID: 1, Section: model.SectionFromPtr(new(int))},
	} {
		p := BuildScopePredicate("t", sc, 1)
		assert.Contains(t, p.SQL, "t.section_id IS NULL")
		assert.NotContains(t, p.SQL, "t.section_id =")
	}
}
