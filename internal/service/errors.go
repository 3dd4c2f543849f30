package service

import "errors"

// Domain errors returned by services. Handlers map them to response codes.
var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrSessionRevoked          = errors.New("session revoked")
	ErrAdminExists             = errors.New("an admin account already exists")
	ErrSectionScopeMismatch    = errors.New("section does not belong to the batch and department")
	ErrCourseScopeMismatch     = errors.New("course does not belong to the requested scope")
	ErrNotAllocated            = errors.New("teacher is not allocated to this course")
	ErrAllocationExists        = errors.New("course is already allocated in this scope")
	ErrInvalidDateRange        = errors.New("start date is after end date")
	ErrInvalidTimeRange        = errors.New("start time must be before end time")
	ErrDuplicateTimetableEntry = errors.New("timetable entry already exists")
	ErrSlotOccupied            = errors.New("time slot already holds another entry")
	ErrNoStudentStatuses       = errors.New("at least one student status is required")
	ErrUnknownStudent          = errors.New("student is not enrolled in this scope")
	ErrDuplicateStudent        = errors.New("student listed more than once")
	ErrAlreadyMarked           = errors.New("attendance already marked for this session")
	ErrSemesterRequired        = errors.New("semester is required")
	ErrAdmissionDateRequired   = errors.New("admission date is required for new batch students")
)
