package model

import (
	"strconv"
	"time"
)

// Role is the portal role a user acts as.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// BatchStatus marks whether a student joined with the batch or later.
type BatchStatus string

const (
	BatchStatusNew BatchStatus = "new"
	BatchStatusOld BatchStatus = "old"
)

// StudentCode is a student identifier split into its cohort prefix and
// numeric sequence, e.g. "CS23-042" → {"CS23-", 42}.
type StudentCode struct {
	Prefix string `json:"prefix"`
	Seq    *int   `json:"seq"`
}

// ParseStudentCode splits the trailing run of digits off an id. Ids that do
// not end in a digit, or whose digits overflow int32, have a nil Seq and
// sort after every numbered id.
func ParseStudentCode(id string) StudentCode {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return StudentCode{Prefix: id}
	}
	// student_seq is an INT column; longer runs count as unnumbered.
	n, err := strconv.ParseInt(id[i:], 10, 32)
	if err != nil {
		return StudentCode{Prefix: id}
	}
	seq := int(n)
	return StudentCode{Prefix: id[:i], Seq: &seq}
}

// Less orders codes by sequence number, unnumbered codes last, ties by prefix.
func (c StudentCode) Less(o StudentCode) bool {
	switch {
	case c.Seq == nil && o.Seq == nil:
		return c.Prefix < o.Prefix
	case c.Seq == nil:
		return false
	case o.Seq == nil:
		return true
	case *c.Seq != *o.Seq:
		return *c.Seq < *o.Seq
	}
	return c.Prefix < o.Prefix
}

// User is an admin, teacher or student account.
type User struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Role         Role            `json:"role"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Student      *StudentProfile `json:"student,omitempty"`
}

// StudentProfile carries the scope fields only students have.
type StudentProfile struct {
	BatchID       int         `json:"batch_id"`
	DepartmentID  int         `json:"department_id"`
	Section       SectionRef  `json:"section_id"`
	BatchStatus   BatchStatus `json:"batch_status"`
	AdmissionDate *string     `json:"admission_date,omitempty"`
	Code          StudentCode `json:"code"`
}

// Scope returns the student's own scope for the given semester.
func (p *StudentProfile) Scope(semesterID int) Scope {
	return Scope{
		BatchID:      p.BatchID,
		DepartmentID: p.DepartmentID,
		SemesterID:   semesterID,
		Section:      p.Section,
	}
}

// RosterEntry is a student line on a marking roster or search result.
type RosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LoginRequest is the payload for email + password authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// RegisterAdminRequest is the payload for the one-time admin registration.
type RegisterAdminRequest struct {
	ID       string `json:"id" binding:"required,min=1,max=50"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// CreateUserRequest is the payload for creating a teacher or student.
type CreateUserRequest struct {
	ID            string      `json:"id" binding:"required,min=1,max=50"`
	Name          string      `json:"name" binding:"required,min=2,max=100"`
	Email         string      `json:"email" binding:"required,email"`
	Password      string      `json:"password" binding:"required,min=8,max=128"`
	Role          Role        `json:"role" binding:"required,oneof=teacher student"`
	BatchID       int         `json:"batch_id" binding:"required_if=Role student,omitempty,min=1"`
	DepartmentID  int         `json:"department_id" binding:"required_if=Role student,omitempty,min=1"`
	SectionID     *int        `json:"section_id" binding:"omitempty,min=0"`
	BatchStatus   BatchStatus `json:"batch_status" binding:"required_if=Role student,omitempty,oneof=new old"`
	AdmissionDate string      `json:"admission_date" binding:"required_if=BatchStatus new,omitempty,isodate"`
}

// UpdateStudentRequest is the payload for editing a student.
type UpdateStudentRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	Email        string `json:"email" binding:"required,email"`
	BatchID      int    `json:"batch_id" binding:"required,min=1"`
	DepartmentID int    `json:"department_id" binding:"required,min=1"`
	SectionID    *int   `json:"section_id" binding:"omitempty,min=0"`
}

// UpdateTeacherRequest is the payload for editing a teacher. An empty
// password leaves the existing hash in place.
type UpdateTeacherRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=8,max=128"`
}

// ImportResult summarizes a bulk user import.
type ImportResult struct {
	Imported int `json:"imported"`
	Students int `json:"students"`
	Teachers int `json:"teachers"`
}
