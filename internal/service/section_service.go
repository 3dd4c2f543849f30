package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
)

// SessionRevoker ends every session of a user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

// SectionService owns section CRUD and resolves the section dimension of
// incoming scopes.
type SectionService struct {
	repo     repository.SectionRepository
	sessions SessionRevoker
	log      zerolog.Logger
}

// NewSectionService creates a new SectionService. sessions may be nil for
// tools that never delete sections.
func NewSectionService(repo repository.SectionRepository, sessions SessionRevoker, log zerolog.Logger) *SectionService {
	return &SectionService{
		repo:     repo,
		sessions: sessions,
		log:      log.With().Str("component", "section_service").Logger(),
	}
}

// SectionsEnabled reports whether the (batch, department) pair is
// subdivided. A section with no students yet still counts.
func (s *SectionService) SectionsEnabled(ctx context.Context, batchID, departmentID int) (bool, error) {
	return s.repo.ExistsForPair(ctx, batchID, departmentID)
}

// ResolveScope checks that a sectioned scope names a section owned by the
// scope's (batch, department) pair. Unsectioned scopes pass unchanged.
func (s *SectionService) ResolveScope(ctx context.Context, sc model.Scope) (model.Scope, error) {
	if !sc.Section.IsSectioned() {
		return sc, nil
	}
	section, err := s.repo.GetByID(ctx, sc.Section.ID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return sc, ErrSectionScopeMismatch
		}
		return sc, fmt.Errorf("resolve section: %w", err)
	}
	if section.BatchID != sc.BatchID || section.DepartmentID != sc.DepartmentID {
		return sc, ErrSectionScopeMismatch
	}
	return sc, nil
}

// ListByPair returns the sections of a (batch, department) pair.
func (s *SectionService) ListByPair(ctx context.Context, batchID, departmentID int) ([]model.Section, error) {
	return s.repo.ListByPair(ctx, batchID, departmentID)
}

// Create adds a section. Names are unique within the pair.
func (s *SectionService) Create(ctx context.Context, section *model.Section) error {
	if err := s.repo.Create(ctx, section); err != nil {
		return err
	}
	s.log.Info().
		Int("section_id", section.ID).
		Int("batch_id", section.BatchID).
		Int("department_id", section.DepartmentID).
		Msg("Section created")
	return nil
}

// Rename changes a section's name.
func (s *SectionService) Rename(ctx context.Context, id int, name string) (*model.Section, error) {
	if err := s.repo.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes a section, detaching every row that referenced it. The
// detached students are logged out since their tokens still carry the
// old section.
func (s *SectionService) Delete(ctx context.Context, id int) error {
	students, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if s.sessions != nil {
		for _, userID := range students {
			if err := s.sessions.RevokeUser(ctx, userID); err != nil {
				s.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to revoke sessions")
			}
		}
	}
	s.log.Info().Int("section_id", id).Int("students_detached", len(students)).Msg("Section deleted")
	return nil
}
