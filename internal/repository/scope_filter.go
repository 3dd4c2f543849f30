package repository

import (
	"fmt"
	"strings"

	"github.com/stemsi/presensi-backend/internal/model"
)

// Predicate is a parameterized SQL fragment and its positional arguments.
type Predicate struct {
	SQL  string
	Args []any
}

// NextArg returns the placeholder index following this predicate's args,
// given the index its first arg was bound to.
func (p Predicate) NextArg(firstArg int) int {
	return firstArg + len(p.Args)
}

// BuildScopePredicate renders the scope filter used by every scoped table.
// The section dimension matches an exact id when sectioned and IS NULL when
// unsectioned, so a row never matches both. A zero SemesterID leaves the
// semester column unconstrained. Placeholders start at $firstArg.
func BuildScopePredicate(alias string, sc model.Scope, firstArg int) Predicate {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	n := firstArg
	var conds []string
	var args []any
	add := func(column string, v any) {
		conds = append(conds, fmt.Sprintf("%s = $%d", col(column), n))
		args = append(args, v)
		n++
	}

	add("batch_id", sc.BatchID)
	add("department_id", sc.DepartmentID)
	if sc.SemesterID > 0 {
		add("semester_id", sc.SemesterID)
	}
	if sc.Section.IsSectioned() {
		add("section_id", sc.Section.ID())
	} else {
		conds = append(conds, col("section_id")+" IS NULL")
	}

	return Predicate{SQL: strings.Join(conds, " AND "), Args: args}
}

// scanScope is the column list order shared by scoped tables.
const scopeColumns = "batch_id, department_id, semester_id, section_id"

func scopeFromColumns(batchID, departmentID, semesterID int, sectionID *int) model.Scope {
	return model.Scope{
		BatchID:      batchID,
		DepartmentID: departmentID,
		SemesterID:   semesterID,
		Section:      model.SectionFromPtr(sectionID),
	}
}
