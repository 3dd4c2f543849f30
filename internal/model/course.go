package model

import "time"

// Course is a subject taught within one scope.
type Course struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Scope     Scope     `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=120"`
	BatchID      int    `json:"batch_id" binding:"required,min=1"`
	DepartmentID int    `json:"department_id" binding:"required,min=1"`
	SemesterID   int    `json:"semester_id" binding:"required,min=1"`
	SectionID    *int   `json:"section_id" binding:"omitempty,min=0"`
}

// Scope returns the course's scope.
func (r CreateCourseRequest) Scope() Scope {
	return Scope{
		BatchID:      r.BatchID,
		DepartmentID: r.DepartmentID,
		SemesterID:   r.SemesterID,
		Section:      SectionFromPtr(r.SectionID),
	}
}

// Allocation binds a teacher to a course within a scope and date range.
type Allocation struct {
	ID          int       `json:"id"`
	CourseID    int       `json:"course_id"`
	CourseName  string    `json:"course_name,omitempty"`
	TeacherID   string    `json:"teacher_id"`
	TeacherName string    `json:"teacher_name,omitempty"`
	Scope       Scope     `json:"scope"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AllocateRequest is the payload for create-or-update allocation.
type AllocateRequest struct {
	CourseID     int    `json:"course_id" binding:"required,min=1"`
	TeacherID    string `json:"teacher_id" binding:"required,min=1,max=50"`
	BatchID      int    `json:"batch_id" binding:"required,min=1"`
	DepartmentID int    `json:"department_id" binding:"required,min=1"`
	SemesterID   int    `json:"semester_id" binding:"required,min=1"`
	SectionID    *int   `json:"section_id" binding:"omitempty,min=0"`
	StartDate    string `json:"start_date" binding:"required,isodate"`
	EndDate      string `json:"end_date" binding:"required,isodate"`
	Force        bool   `json:"force"`
}

// Scope returns the allocation's scope.
func (r AllocateRequest) Scope() Scope {
	return Scope{
		BatchID:      r.BatchID,
		DepartmentID: r.DepartmentID,
		SemesterID:   r.SemesterID,
		Section:      SectionFromPtr(r.SectionID),
	}
}

// AllocationResult reports the outcome of an allocation request. When an
// existing allocation was overwritten, PreviousTeacherID names its holder.
type AllocationResult struct {
	Allocation        *Allocation `json:"allocation"`
	Replaced          bool        `json:"replaced"`
	PreviousTeacherID string      `json:"previous_teacher_id,omitempty"`
}
