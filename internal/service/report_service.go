package service

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
)

// ReportService produces per-student attendance summaries. The scope is
// always passed with the request.
type ReportService struct {
	reportRepo repository.ReportRepository
	courses    *CourseService
	sections   *SectionService
	log        zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repository.ReportRepository, courses *CourseService, sections *SectionService, log zerolog.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		courses:    courses,
		sections:   sections,
		log:        log.With().Str("component", "report_service").Logger(),
	}
}

// Percentage returns present/total as a percentage rounded to two
// decimals, or 0 when there were no sessions.
func Percentage(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(present)*10000/float64(total)) / 100
}

func toReportRows(counts []repository.ReportCounts) []model.ReportRow {
	rows := make([]model.ReportRow, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, model.ReportRow{
			StudentID:   c.StudentID,
			StudentName: c.StudentName,
			Total:       c.Total,
			Present:     c.Present,
			Percentage:  Percentage(c.Present, c.Total),
		})
	}
	return rows
}

// AdminReport summarizes every student of the scope over the semester,
// optionally limited to one course.
func (s *ReportService) AdminReport(ctx context.Context, sc model.Scope, courseID int) ([]model.ReportRow, error) {
	if sc.SemesterID <= 0 {
		return nil, ErrSemesterRequired
	}
	sc, err := s.sections.ResolveScope(ctx, sc)
	if err != nil {
		return nil, err
	}
	counts, err := s.reportRepo.StudentCounts(ctx, sc, courseID)
	if err != nil {
		return nil, err
	}
	return toReportRows(counts), nil
}

// TeacherReport summarizes one course for the teacher allocated to it.
func (s *ReportService) TeacherReport(ctx context.Context, teacherID string, courseID int, sc model.Scope) ([]model.ReportRow, error) {
	if sc.SemesterID <= 0 {
		return nil, ErrSemesterRequired
	}
	sc, err := s.sections.ResolveScope(ctx, sc)
	if err != nil {
		return nil, err
	}
	if err := s.courses.VerifyAllocation(ctx, teacherID, courseID, sc); err != nil {
		return nil, err
	}
	counts, err := s.reportRepo.StudentCounts(ctx, sc, courseID)
	if err != nil {
		return nil, err
	}
	return toReportRows(counts), nil
}
