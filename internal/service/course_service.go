package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
)

// ErrNotATeacher is returned when an allocation names a non-teacher user.
var ErrNotATeacher = errors.New("user is not a teacher")

// CourseService resolves courses and allocations for a scope and gates
// teacher actions on allocations.
type CourseService struct {
	courseRepo     repository.CourseRepository
	allocationRepo repository.AllocationRepository
	userRepo       repository.UserRepository
	sections       *SectionService
	log            zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	courseRepo repository.CourseRepository,
	allocationRepo repository.AllocationRepository,
	userRepo repository.UserRepository,
	sections *SectionService,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		allocationRepo: allocationRepo,
		userRepo:       userRepo,
		sections:       sections,
		log:            log.With().Str("component", "course_service").Logger(),
	}
}

// resolve validates a full scope, semester included.
func (s *CourseService) resolve(ctx context.Context, sc model.Scope) (model.Scope, error) {
	if sc.SemesterID <= 0 {
		return sc, ErrSemesterRequired
	}
	return s.sections.ResolveScope(ctx, sc)
}

// GetByID retrieves a course.
func (s *CourseService) GetByID(ctx context.Context, id int) (*model.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// CreateCourse adds a course to a scope. Names are unique per scope,
// case-insensitively; a sectioned and an unsectioned scope are distinct.
func (s *CourseService) CreateCourse(ctx context.Context, c *model.Course) error {
	sc, err := s.resolve(ctx, c.Scope)
	if err != nil {
		return err
	}
	c.Scope = sc
	if err := s.courseRepo.Create(ctx, c); err != nil {
		return err
	}
	s.log.Info().Int("course_id", c.ID).Str("section", c.Scope.Section.String()).Msg("Course created")
	return nil
}

// ListCourses returns the courses of exactly this scope, ordered by name.
func (s *CourseService) ListCourses(ctx context.Context, sc model.Scope) ([]model.Course, error) {
	sc, err := s.resolve(ctx, sc)
	if err != nil {
		return nil, err
	}
	return s.courseRepo.ListByScope(ctx, sc)
}

// ListTeacherCourses returns the courses the teacher is allocated to in
// exactly this scope.
func (s *CourseService) ListTeacherCourses(ctx context.Context, teacherID string, sc model.Scope) ([]model.Course, error) {
	sc, err := s.resolve(ctx, sc)
	if err != nil {
		return nil, err
	}
	return s.courseRepo.ListForTeacher(ctx, teacherID, sc)
}

// VerifyAllocation returns nil only when an allocation binds the teacher to
// the course in exactly this scope. Every other outcome, lookup failures
// included, denies.
func (s *CourseService) VerifyAllocation(ctx context.Context, teacherID string, courseID int, sc model.Scope) error {
	ok, err := s.allocationRepo.Exists(ctx, teacherID, courseID, sc)
	if err != nil {
		s.log.Error().Err(err).Str("teacher_id", teacherID).Int("course_id", courseID).Msg("Allocation lookup failed")
		return fmt.Errorf("%w: %w", ErrNotAllocated, err)
	}
	if !ok {
		return ErrNotAllocated
	}
	return nil
}

// Allocate binds a teacher to a course in a scope. An existing allocation
// is only replaced when force is set; the result then names the teacher
// who held it.
func (s *CourseService) Allocate(ctx context.Context, req model.AllocateRequest) (*model.AllocationResult, error) {
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	sc, err := s.resolve(ctx, req.Scope())
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if course.Scope != sc {
		return nil, ErrCourseScopeMismatch
	}

	teacher, err := s.userRepo.GetByID(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != model.RoleTeacher {
		return nil, ErrNotATeacher
	}

	alloc := &model.Allocation{
		CourseID:    course.ID,
		CourseName:  course.Name,
		TeacherID:   teacher.ID,
		TeacherName: teacher.Name,
		Scope:       sc,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	existing, err := s.allocationRepo.FindByScope(ctx, course.ID, sc)
	switch {
	case err == nil:
		if !req.Force {
			return nil, ErrAllocationExists
		}
		alloc.ID = existing.ID
		if err := s.allocationRepo.Reassign(ctx, alloc); err != nil {
			return nil, err
		}
		s.log.Info().
			Int("allocation_id", alloc.ID).
			Str("previous_teacher_id", existing.TeacherID).
			Str("teacher_id", alloc.TeacherID).
			Msg("Allocation reassigned")
		return &model.AllocationResult{
			Allocation:        alloc,
			Replaced:          true,
			PreviousTeacherID: existing.TeacherID,
		}, nil
	case errors.Is(err, repository.ErrNotFound):
		if err := s.allocationRepo.Create(ctx, alloc); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, ErrAllocationExists
			}
			return nil, err
		}
		s.log.Info().Int("allocation_id", alloc.ID).Str("teacher_id", alloc.TeacherID).Msg("Course allocated")
		return &model.AllocationResult{Allocation: alloc}, nil
	default:
		return nil, err
	}
}

// ListAllocations returns the allocations of a scope with names joined.
func (s *CourseService) ListAllocations(ctx context.Context, sc model.Scope) ([]model.Allocation, error) {
	sc, err := s.resolve(ctx, sc)
	if err != nil {
		return nil, err
	}
	return s.allocationRepo.ListByScope(ctx, sc)
}

// DeleteCourse removes a course with its allocations, timetable entries
// and attendance.
func (s *CourseService) DeleteCourse(ctx context.Context, id int) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("course_id", id).Msg("Course deleted with dependents")
	return nil
}
