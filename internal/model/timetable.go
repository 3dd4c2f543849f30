package model

import "time"

// Weekdays is the fixed, ordered set of timetable columns.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// TimetableEntry is a recurring weekly slot for a course.
type TimetableEntry struct {
	ID        int       `json:"id"`
	CourseID  int       `json:"course_id"`
	Scope     Scope     `json:"scope"`
	Day       string    `json:"day"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	ClassType string    `json:"class_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TimetableRequest is the payload for creating or editing an entry.
type TimetableRequest struct {
	CourseID     int    `json:"course_id" binding:"required,min=1"`
	BatchID      int    `json:"batch_id" binding:"required,min=1"`
	DepartmentID int    `json:"department_id" binding:"required,min=1"`
	SemesterID   int    `json:"semester_id" binding:"required,min=1"`
	SectionID    *int   `json:"section_id" binding:"omitempty,min=0"`
	Day          string `json:"day" binding:"required,weekday"`
	StartTime    string `json:"start_time" binding:"required,hhmm"`
	EndTime      string `json:"end_time" binding:"required,hhmm"`
	ClassType    string `json:"class_type" binding:"required,min=1,max=30"`
}

// Entry converts the payload into an entry.
func (r TimetableRequest) Entry() *TimetableEntry {
	return &TimetableEntry{
		CourseID: r.CourseID,
		Scope: Scope{
			BatchID:      r.BatchID,
			DepartmentID: r.DepartmentID,
			SemesterID:   r.SemesterID,
			Section:      SectionFromPtr(r.SectionID),
		},
		Day:       r.Day,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		ClassType: r.ClassType,
	}
}

// TimeSlot is a (start, end) pair.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Key is the "start-end" form used to bucket entries.
func (t TimeSlot) Key() string { return t.StartTime + "-" + t.EndTime }

// TimetableListing is an entry joined with its course and allocated teacher.
type TimetableListing struct {
	EntryID     int     `json:"entry_id"`
	CourseID    int     `json:"course_id"`
	CourseName  string  `json:"course_name"`
	TeacherName *string `json:"teacher_name"`
	Day         string  `json:"day"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	ClassType   string  `json:"class_type"`
}

// GridCell is a populated timetable cell.
type GridCell struct {
	EntryID     int     `json:"entry_id"`
	CourseName  string  `json:"course_name"`
	TeacherName *string `json:"teacher_name"`
	ClassType   string  `json:"class_type"`
}

// GridRow is one time-slot row of the weekly grid. Days holds every
// weekday; an empty cell is nil.
type GridRow struct {
	StartTime string               `json:"start_time"`
	EndTime   string               `json:"end_time"`
	Days      map[string]*GridCell `json:"days"`
}

// TimetableGrid is the weekly day × time-slot view of a scope.
type TimetableGrid struct {
	Scope Scope     `json:"scope"`
	Days  []string  `json:"days"`
	Rows  []GridRow `json:"rows"`
}
