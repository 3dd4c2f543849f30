package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SectionRef is the optional section dimension of a scope: either
// unsectioned or bound to exactly one section id. The zero value is
// Unsectioned.
type SectionRef struct {
	id    int
	valid bool
}

// Unsectioned returns the "no section" reference.
func Unsectioned() SectionRef { return SectionRef{} }

// Sectioned returns a reference to the given section id.
func Sectioned(id int) SectionRef { return SectionRef{id: id, valid: true} }

// SectionFromPtr maps a nullable column or request field to a SectionRef.
// nil and 0 both mean unsectioned.
func SectionFromPtr(p *int) SectionRef {
	if p == nil || *p <= 0 {
		return Unsectioned()
	}
	return Sectioned(*p)
}

func (s SectionRef) ID() int           { return s.id }
func (s SectionRef) IsSectioned() bool { return s.valid }

// Ptr returns the section id as a nullable value for SQL parameters.
func (s SectionRef) Ptr() *int {
	if !s.valid {
		return nil
	}
	id := s.id
	return &id
}

func (s SectionRef) Equal(o SectionRef) bool {
	return s.valid == o.valid && (!s.valid || s.id == o.id)
}

func (s SectionRef) String() string {
	if !s.valid {
		return "none"
	}
	return strconv.Itoa(s.id)
}

func (s SectionRef) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.id)), nil
}

// UnmarshalJSON accepts null, "", a number or a numeric string.
func (s *SectionRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*s = Unsectioned()
		return nil
	}
	var raw json.Number
	if err := json.Unmarshal(bytes.Trim(data, `"`), &raw); err != nil {
		return fmt.Errorf("section: %w", err)
	}
	id, err := strconv.Atoi(raw.String())
	if err != nil {
		return fmt.Errorf("section: %w", err)
	}
	if id <= 0 {
		*s = Unsectioned()
		return nil
	}
	*s = Sectioned(id)
	return nil
}

// Scope is the (batch, department, semester, section) tuple most entities
// and queries are keyed by. SemesterID 0 means the semester dimension is
// not part of the filter.
type Scope struct {
	BatchID      int        `json:"batch_id"`
	DepartmentID int        `json:"department_id"`
	SemesterID   int        `json:"semester_id,omitempty"`
	Section      SectionRef `json:"section_id"`
}

// ScopeQuery is the request-side form of a Scope, bound from query strings
// or JSON bodies. An empty or zero section_id means unsectioned.
type ScopeQuery struct {
	BatchID      int  `form:"batch_id" json:"batch_id" binding:"required,min=1"`
	DepartmentID int  `form:"department_id" json:"department_id" binding:"required,min=1"`
	SemesterID   int  `form:"semester_id" json:"semester_id" binding:"omitempty,min=1"`
	SectionID    *int `form:"section_id" json:"section_id" binding:"omitempty,min=0"`
}

// Scope converts the bound query into a Scope.
func (q ScopeQuery) Scope() Scope {
	return Scope{
		BatchID:      q.BatchID,
		DepartmentID: q.DepartmentID,
		SemesterID:   q.SemesterID,
		Section:      SectionFromPtr(q.SectionID),
	}
}
