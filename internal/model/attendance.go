package model

import "time"

// AttendanceStatus is the per-student outcome of a session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

// AttendanceRecord is one student's status for one course session slot.
type AttendanceRecord struct {
	ID          int              `json:"id"`
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name,omitempty"`
	CourseID    int              `json:"course_id"`
	CourseName  string           `json:"course_name,omitempty"`
	Scope       Scope            `json:"scope"`
	Date        string           `json:"date"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	ClassType   string           `json:"class_type"`
	Status      AttendanceStatus `json:"status"`
	MarkedBy    string           `json:"marked_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// StudentStatus is a single student's submitted status.
type StudentStatus struct {
	StudentID string           `json:"student_id" binding:"required,min=1,max=50"`
	Status    AttendanceStatus `json:"status" binding:"required,attendance_status"`
}

// MarkAttendanceRequest is a teacher's marking submission for one session.
type MarkAttendanceRequest struct {
	CourseID     int             `json:"course_id" binding:"required,min=1"`
	BatchID      int             `json:"batch_id" binding:"required,min=1"`
	DepartmentID int             `json:"department_id" binding:"required,min=1"`
	SemesterID   int             `json:"semester_id" binding:"required,min=1"`
	SectionID    *int            `json:"section_id" binding:"omitempty,min=0"`
	Date         string          `json:"date" binding:"required,isodate"`
	StartTime    string          `json:"start_time" binding:"required,hhmm"`
	EndTime      string          `json:"end_time" binding:"required,hhmm"`
	ClassType    string          `json:"class_type" binding:"required,min=1,max=30"`
	Statuses     []StudentStatus `json:"statuses" binding:"required,min=1,dive"`
}

// Scope returns the submission's scope.
func (r MarkAttendanceRequest) Scope() Scope {
	return Scope{
		BatchID:      r.BatchID,
		DepartmentID: r.DepartmentID,
		SemesterID:   r.SemesterID,
		Section:      SectionFromPtr(r.SectionID),
	}
}

// MarkResult summarizes a committed marking.
type MarkResult struct {
	Records  int        `json:"records"`
	Students int        `json:"students"`
	Slots    []TimeSlot `json:"slots"`
	Expanded bool       `json:"expanded"`
}

// AttendanceEvent is published on the live feed after a marking commits.
type AttendanceEvent struct {
	TeacherID string     `json:"teacher_id"`
	CourseID  int        `json:"course_id"`
	Scope     Scope      `json:"scope"`
	Date      string     `json:"date"`
	ClassType string     `json:"class_type"`
	Slots     []TimeSlot `json:"slots"`
	Present   int        `json:"present"`
	Absent    int        `json:"absent"`
	MarkedAt  time.Time  `json:"marked_at"`
}

// AttendanceSearch filters the admin attendance search.
type AttendanceSearch struct {
	ScopeQuery
	CourseID  int    `form:"course_id" binding:"required,min=1"`
	StudentID string `form:"student_id" binding:"omitempty,max=50"`
	Date      string `form:"date" binding:"omitempty,isodate"`
}

// UpdateAttendanceRequest is the admin payload for correcting a status.
type UpdateAttendanceRequest struct {
	Status AttendanceStatus `json:"status" binding:"required,attendance_status"`
}

// ReportRow is one student's attendance summary.
type ReportRow struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	Total       int     `json:"total_sessions"`
	Present     int     `json:"present_sessions"`
	Percentage  float64 `json:"percentage"`
}

// ReportQuery is the explicit scope of a report request.
type ReportQuery struct {
	ScopeQuery
	CourseID int `form:"course_id" binding:"omitempty,min=1"`
}

// DashboardSummary holds admin overview counts.
type DashboardSummary struct {
	Batches     int `json:"batches"`
	Departments int `json:"departments"`
	Semesters   int `json:"semesters"`
	Students    int `json:"students"`
	Teachers    int `json:"teachers"`
	Courses     int `json:"courses"`
	MarkedToday int `json:"marked_today"`
}
