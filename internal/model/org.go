package model

import "time"

// OrgKind names one of the flat organizational tables.
type OrgKind string

const (
	OrgBatch      OrgKind = "batch"
	OrgDepartment OrgKind = "department"
	OrgSemester   OrgKind = "semester"
)

// Table returns the backing table for the kind.
func (k OrgKind) Table() string {
	switch k {
	case OrgBatch:
		return "batches"
	case OrgDepartment:
		return "departments"
	case OrgSemester:
		return "semesters"
	}
	return ""
}

// ScopeColumn returns the column scoped rows use to reference this kind.
func (k OrgKind) ScopeColumn() string {
	return string(k) + "_id"
}

// OrgUnit is a batch, department or semester.
type OrgUnit struct {
	ID        int       `json:"id"`
	Kind      OrgKind   `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrgUnitRequest is the payload for creating or renaming an org unit.
type OrgUnitRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// Section is an optional subdivision of a (batch, department) cohort.
type Section struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	BatchID      int       `json:"batch_id"`
	DepartmentID int       `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateSectionRequest is the payload for creating a section.
type CreateSectionRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=50"`
	BatchID      int    `json:"batch_id" binding:"required,min=1"`
	DepartmentID int    `json:"department_id" binding:"required,min=1"`
}
