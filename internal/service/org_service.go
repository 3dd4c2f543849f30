package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
)

// OrgService handles batches, departments and semesters.
type OrgService struct {
	repo repository.OrgUnitRepository
	log  zerolog.Logger
}

// NewOrgService creates a new OrgService.
func NewOrgService(repo repository.OrgUnitRepository, log zerolog.Logger) *OrgService {
	return &OrgService{
		repo: repo,
		log:  log.With().Str("component", "org_service").Logger(),
	}
}

func (s *OrgService) List(ctx context.Context, kind model.OrgKind) ([]model.OrgUnit, error) {
	return s.repo.List(ctx, kind)
}

func (s *OrgService) GetByID(ctx context.Context, kind model.OrgKind, id int) (*model.OrgUnit, error) {
	return s.repo.GetByID(ctx, kind, id)
}

func (s *OrgService) Create(ctx context.Context, kind model.OrgKind, name string) (*model.OrgUnit, error) {
	unit := &model.OrgUnit{Kind: kind, Name: name}
	if err := s.repo.Create(ctx, unit); err != nil {
		return nil, err
	}
	s.log.Info().Str("kind", string(kind)).Int("id", unit.ID).Msg("Org unit created")
	return unit, nil
}

func (s *OrgService) Rename(ctx context.Context, kind model.OrgKind, id int, name string) (*model.OrgUnit, error) {
	unit := &model.OrgUnit{ID: id, Kind: kind, Name: name}
	if err := s.repo.Rename(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// Delete removes the unit together with its scoped courses, allocations,
// timetable entries and attendance.
func (s *OrgService) Delete(ctx context.Context, kind model.OrgKind, id int) error {
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Int("id", id).Msg("Org unit delete rolled back")
		return err
	}
	s.log.Info().Str("kind", string(kind)).Int("id", id).Msg("Org unit deleted with dependents")
	return nil
}
