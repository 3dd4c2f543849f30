package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
)

// TimetableService manages timetable entries and builds weekly grids.
type TimetableService struct {
	timetableRepo repository.TimetableRepository
	courseRepo    repository.CourseRepository
	sections      *SectionService
	log           zerolog.Logger
}

// NewTimetableService creates a new TimetableService.
func NewTimetableService(
	timetableRepo repository.TimetableRepository,
	courseRepo repository.CourseRepository,
	sections *SectionService,
	log zerolog.Logger,
) *TimetableService {
	return &TimetableService{
		timetableRepo: timetableRepo,
		courseRepo:    courseRepo,
		sections:      sections,
		log:           log.With().Str("component", "timetable_service").Logger(),
	}
}

// validate checks an entry's scope, course and cell before a write.
// excludeID is the entry being edited, or 0 on create.
func (s *TimetableService) validate(ctx context.Context, e *model.TimetableEntry, excludeID int) error {
	if e.StartTime >= e.EndTime {
		return ErrInvalidTimeRange
	}
	if e.Scope.SemesterID <= 0 {
		return ErrSemesterRequired
	}
	sc, err := s.sections.ResolveScope(ctx, e.Scope)
	if err != nil {
		return err
	}
	e.Scope = sc

	course, err := s.courseRepo.GetByID(ctx, e.CourseID)
	if err != nil {
		return err
	}
	if course.Scope != e.Scope {
		return ErrCourseScopeMismatch
	}

	occupants, err := s.timetableRepo.FindCell(ctx, e.Scope, e.Day,
		model.TimeSlot{StartTime: e.StartTime, EndTime: e.EndTime}, excludeID)
	if err != nil {
		return err
	}
	for _, o := range occupants {
		if strings.EqualFold(o.ClassType, e.ClassType) {
			return ErrDuplicateTimetableEntry
		}
	}
	if len(occupants) > 0 {
		return ErrSlotOccupied
	}
	return nil
}

// Create adds an entry after the duplicate and cell checks.
func (s *TimetableService) Create(ctx context.Context, e *model.TimetableEntry) error {
	if err := s.validate(ctx, e, 0); err != nil {
		return err
	}
	if err := s.timetableRepo.Create(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateTimetableEntry
		}
		return err
	}
	s.log.Info().Int("entry_id", e.ID).Str("day", e.Day).Str("start", e.StartTime).Msg("Timetable entry created")
	return nil
}

// Update edits an entry, applying the same checks as Create.
func (s *TimetableService) Update(ctx context.Context, id int, e *model.TimetableEntry) error {
	if _, err := s.timetableRepo.GetByID(ctx, id); err != nil {
		return err
	}
	e.ID = id
	if err := s.validate(ctx, e, id); err != nil {
		return err
	}
	if err := s.timetableRepo.Update(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateTimetableEntry
		}
		return err
	}
	return nil
}

// Delete removes an entry.
func (s *TimetableService) Delete(ctx context.Context, id int) error {
	return s.timetableRepo.Delete(ctx, id)
}

// Grid builds the weekly grid for a scope.
func (s *TimetableService) Grid(ctx context.Context, sc model.Scope) (*model.TimetableGrid, error) {
	if sc.SemesterID <= 0 {
		return nil, ErrSemesterRequired
	}
	sc, err := s.sections.ResolveScope(ctx, sc)
	if err != nil {
		return nil, err
	}
	slots, err := s.timetableRepo.ListSlots(ctx, sc)
	if err != nil {
		return nil, err
	}
	entries, err := s.timetableRepo.ListEntries(ctx, sc)
	if err != nil {
		return nil, err
	}
	return &model.TimetableGrid{
		Scope: sc,
		Days:  model.Weekdays,
		Rows:  BuildGrid(slots, entries),
	}, nil
}

// BuildGrid lays entries out as one row per time slot, in slot order, with
// a cell for every weekday. Cells without an entry are nil. When two
// entries claim the same cell the first one listed wins.
func BuildGrid(slots []model.TimeSlot, entries []model.TimetableListing) []model.GridRow {
	byDay := make(map[string]map[string]model.TimetableListing, len(model.Weekdays))
	for _, d := range model.Weekdays {
		byDay[d] = make(map[string]model.TimetableListing)
	}
	for _, e := range entries {
		cells, ok := byDay[e.Day]
		if !ok {
			continue
		}
		key := model.TimeSlot{StartTime: e.StartTime, EndTime: e.EndTime}.Key()
		if _, taken := cells[key]; !taken {
			cells[key] = e
		}
	}

	rows := make([]model.GridRow, 0, len(slots))
	for _, slot := range slots {
		row := model.GridRow{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Days:      make(map[string]*model.GridCell, len(model.Weekdays)),
		}
		for _, d := range model.Weekdays {
			e, ok := byDay[d][slot.Key()]
			if !ok {
				row.Days[d] = nil
				continue
			}
			row.Days[d] = &model.GridCell{
				EntryID:     e.EntryID,
				CourseName:  e.CourseName,
				TeacherName: e.TeacherName,
				ClassType:   e.ClassType,
			}
		}
		rows = append(rows, row)
	}
	return rows
}
