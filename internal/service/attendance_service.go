package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
)

// FeedPublisher broadcasts committed markings to live listeners.
type FeedPublisher interface {
	PublishAttendance(ctx context.Context, ev model.AttendanceEvent) error
}

// AttendanceService validates, expands and persists attendance markings.
type AttendanceService struct {
	attendanceRepo  repository.AttendanceRepository
	timetableRepo   repository.TimetableRepository
	userRepo        repository.UserRepository
	courses         *CourseService
	sections        *SectionService
	feed            FeedPublisher
	practicalMarker string
	log             zerolog.Logger
	now             func() time.Time
}

// NewAttendanceService creates a new AttendanceService. practicalMarker is
// the class type whose markings expand across the day's scheduled slots.
func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	timetableRepo repository.TimetableRepository,
	userRepo repository.UserRepository,
	courses *CourseService,
	sections *SectionService,
	feed FeedPublisher,
	practicalMarker string,
	log zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo:  attendanceRepo,
		timetableRepo:   timetableRepo,
		userRepo:        userRepo,
		courses:         courses,
		sections:        sections,
		feed:            feed,
		practicalMarker: practicalMarker,
		log:             log.With().Str("component", "attendance_service").Logger(),
		now:             time.Now,
	}
}

// IsPractical reports whether a class type matches the practical marker.
func IsPractical(classType, marker string) bool {
	return strings.EqualFold(strings.TrimSpace(classType), strings.TrimSpace(marker))
}

// PlanSlots picks the slots a marking is written to: every scheduled
// practical slot of the day, or the submitted slot when none exist.
func PlanSlots(submitted model.TimeSlot, practical []model.TimeSlot) (slots []model.TimeSlot, expanded bool) {
	if len(practical) == 0 {
		return []model.TimeSlot{submitted}, false
	}
	return practical, true
}

// ExpandSession produces one record per (student, slot), copying scope,
// course, date and class type from base.
func ExpandSession(base model.AttendanceRecord, statuses []model.StudentStatus, slots []model.TimeSlot) []model.AttendanceRecord {
	records := make([]model.AttendanceRecord, 0, len(statuses)*len(slots))
	for _, st := range statuses {
		for _, slot := range slots {
			r := base
			r.StudentID = st.StudentID
			r.Status = st.Status
			r.StartTime = slot.StartTime
			r.EndTime = slot.EndTime
			records = append(records, r)
		}
	}
	return records
}

// Mark records a teacher's submission for one class session. The steps run
// in order and any failure leaves no rows behind: authorize against the
// allocation, validate the payload, plan the slots, reject if any planned
// or submitted slot is already marked, then insert every row atomically.
func (s *AttendanceService) Mark(ctx context.Context, teacherID string, req model.MarkAttendanceRequest) (*model.MarkResult, error) {
	sc, err := s.sections.ResolveScope(ctx, req.Scope())
	if err != nil {
		return nil, err
	}

	if err := s.courses.VerifyAllocation(ctx, teacherID, req.CourseID, sc); err != nil {
		return nil, err
	}

	date, err := s.validateMarking(ctx, sc, req)
	if err != nil {
		return nil, err
	}

	submitted := model.TimeSlot{StartTime: req.StartTime, EndTime: req.EndTime}
	var practical []model.TimeSlot
	if IsPractical(req.ClassType, s.practicalMarker) {
		practical, err = s.timetableRepo.ListPracticalSlots(ctx, sc, req.CourseID, date.Weekday().String(), s.practicalMarker)
		if err != nil {
			return nil, fmt.Errorf("list practical slots: %w", err)
		}
	}
	slots, expanded := PlanSlots(submitted, practical)

	checked := slots
	if expanded {
		checked = append([]model.TimeSlot{submitted}, slots...)
	}
	marked, err := s.attendanceRepo.ExistsForSession(ctx, sc, req.CourseID, req.Date, checked)
	if err != nil {
		return nil, fmt.Errorf("check existing attendance: %w", err)
	}
	if marked {
		return nil, ErrAlreadyMarked
	}

	records := ExpandSession(model.AttendanceRecord{
		CourseID:  req.CourseID,
		Scope:     sc,
		Date:      req.Date,
		ClassType: req.ClassType,
		MarkedBy:  teacherID,
	}, req.Statuses, slots)

	if err := s.attendanceRepo.InsertAll(ctx, records); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyMarked
		}
		s.log.Error().Err(err).Int("course_id", req.CourseID).Str("date", req.Date).Msg("Attendance insert rolled back")
		return nil, err
	}

	s.log.Info().
		Str("teacher_id", teacherID).
		Int("course_id", req.CourseID).
		Str("date", req.Date).
		Int("records", len(records)).
		Bool("expanded", expanded).
		Msg("Attendance marked")

	s.publish(ctx, teacherID, sc, req, slots)

	return &model.MarkResult{
		Records:  len(records),
		Students: len(req.Statuses),
		Slots:    slots,
		Expanded: expanded,
	}, nil
}

// validateMarking checks the statuses against the scope's roster and
// returns the parsed session date.
func (s *AttendanceService) validateMarking(ctx context.Context, sc model.Scope, req model.MarkAttendanceRequest) (time.Time, error) {
	if len(req.Statuses) == 0 {
		return time.Time{}, ErrNoStudentStatuses
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("date: %w", err)
	}
	if req.StartTime >= req.EndTime {
		return time.Time{}, ErrInvalidTimeRange
	}

	roster, err := s.userRepo.Roster(ctx, sc)
	if err != nil {
		return time.Time{}, fmt.Errorf("load roster: %w", err)
	}
	enrolled := make(map[string]struct{}, len(roster))
	for _, r := range roster {
		enrolled[r.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(req.Statuses))
	for _, st := range req.Statuses {
		if _, ok := enrolled[st.StudentID]; !ok {
			return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownStudent, st.StudentID)
		}
		if _, dup := seen[st.StudentID]; dup {
			return time.Time{}, fmt.Errorf("%w: %s", ErrDuplicateStudent, st.StudentID)
		}
		seen[st.StudentID] = struct{}{}
	}
	return date, nil
}

func (s *AttendanceService) publish(ctx context.Context, teacherID string, sc model.Scope, req model.MarkAttendanceRequest, slots []model.TimeSlot) {
	if s.feed == nil {
		return
	}
	ev := model.AttendanceEvent{
		TeacherID: teacherID,
		CourseID:  req.CourseID,
		Scope:     sc,
		Date:      req.Date,
		ClassType: req.ClassType,
		Slots:     slots,
		MarkedAt:  s.now().UTC(),
	}
	for _, st := range req.Statuses {
		if st.Status == model.StatusPresent {
			ev.Present++
		} else {
			ev.Absent++
		}
	}
	if err := s.feed.PublishAttendance(ctx, ev); err != nil {
		s.log.Warn().Err(err).Int("course_id", req.CourseID).Msg("Failed to publish attendance event")
	}
}

// Roster lists the students a teacher marks for a course in a scope.
func (s *AttendanceService) Roster(ctx context.Context, teacherID string, courseID int, sc model.Scope) ([]model.RosterEntry, error) {
	sc, err := s.sections.ResolveScope(ctx, sc)
	if err != nil {
		return nil, err
	}
	if err := s.courses.VerifyAllocation(ctx, teacherID, courseID, sc); err != nil {
		return nil, err
	}
	return s.userRepo.Roster(ctx, sc)
}

// StudentAttendance lists a student's own records for one course.
func (s *AttendanceService) StudentAttendance(ctx context.Context, studentID string, courseID int) ([]model.AttendanceRecord, error) {
	return s.attendanceRepo.ListForStudent(ctx, studentID, courseID)
}

// Search lists records for the admin attendance browser.
func (s *AttendanceService) Search(ctx context.Context, q model.AttendanceSearch) ([]model.AttendanceRecord, error) {
	if _, err := s.sections.ResolveScope(ctx, q.Scope()); err != nil {
		return nil, err
	}
	return s.attendanceRepo.Search(ctx, q)
}

// UpdateStatus corrects the status of one record.
func (s *AttendanceService) UpdateStatus(ctx context.Context, id int, status model.AttendanceStatus) error {
	if err := s.attendanceRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.log.Info().Int("record_id", id).Str("status", string(status)).Msg("Attendance status updated")
	return nil
}

// Delete removes one record.
func (s *AttendanceService) Delete(ctx context.Context, id int) error {
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("record_id", id).Msg("Attendance record deleted")
	return nil
}
