package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
	"github.com/stemsi/presensi-backend/internal/response"
)

// singleAdminConstraint is the partial unique index allowing one admin.
const singleAdminConstraint = "uq_users_single_admin"

// UserService handles accounts for every role.
type UserService struct {
	userRepo repository.UserRepository
	sections *SectionService
	auth     *AuthService
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, sections *SectionService, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		sections: sections,
		auth:     auth,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

// GetByID retrieves a user by id.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email, case-insensitively.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

// RegisterAdmin creates the one admin account. It fails with ErrAdminExists
// once any admin exists, including when two registrations race.
func (s *UserService) RegisterAdmin(ctx context.Context, req model.RegisterAdminRequest) (*model.User, error) {
	exists, err := s.userRepo.AdminExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return nil, ErrAdminExists
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           req.ID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) && repository.ConstraintName(err) == singleAdminConstraint {
			return nil, ErrAdminExists
		}
		return nil, err
	}

	s.log.Info().Str("user_id", u.ID).Msg("Admin registered")
	return u, nil
}

// buildUser validates a create request and turns it into an unsaved user
// with a hashed password.
func (s *UserService) buildUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	u := &model.User{
		ID:    strings.TrimSpace(req.ID),
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}

	if req.Role == model.RoleStudent {
		if req.BatchStatus == model.BatchStatusNew && req.AdmissionDate == "" {
			return nil, ErrAdmissionDateRequired
		}
		sc, err := s.sections.ResolveScope(ctx, model.Scope{
			BatchID:      req.BatchID,
			DepartmentID: req.DepartmentID,
			Section:      model.SectionFromPtr(req.SectionID),
		})
		if err != nil {
			return nil, err
		}
		p := &model.StudentProfile{
			BatchID:      sc.BatchID,
			DepartmentID: sc.DepartmentID,
			Section:      sc.Section,
			BatchStatus:  req.BatchStatus,
			Code:         model.ParseStudentCode(u.ID),
		}
		if req.AdmissionDate != "" {
			d := req.AdmissionDate
			p.AdmissionDate = &d
		}
		u.Student = p
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	return u, nil
}

// Create adds a teacher or student.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	u, err := s.buildUser(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("User created")
	return u, nil
}

// Import creates every user of the parsed sheet in one transaction. Any
// invalid row aborts the import.
func (s *UserService) Import(ctx context.Context, rows []ImportRow) (*model.ImportResult, error) {
	users := make([]*model.User, 0, len(rows))
	result := &model.ImportResult{}
	for _, row := range rows {
		u, err := s.buildUser(ctx, row.Request)
		if err != nil {
			return nil, &ImportRowError{Row: row.Line, Err: err}
		}
		users = append(users, u)
		switch u.Role {
		case model.RoleStudent:
			result.Students++
		case model.RoleTeacher:
			result.Teachers++
		}
	}

	if err := s.userRepo.CreateMany(ctx, users); err != nil {
		s.log.Warn().Err(err).Int("rows", len(users)).Msg("User import rolled back")
		return nil, err
	}

	result.Imported = len(users)
	s.log.Info().Int("imported", result.Imported).Msg("Users imported")
	return result, nil
}

// ListStudents retrieves a page of students of a (batch, department) pair,
// optionally narrowed to one section, ordered by student sequence.
func (s *UserService) ListStudents(ctx context.Context, f repository.StudentFilter, page, perPage int) ([]model.User, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 200 {
		perPage = 200
	}

	students, total, err := s.userRepo.ListStudents(ctx, f, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}

	return students, response.NewPagination(page, perPage, total), nil
}

// ListTeachers retrieves every teacher ordered by name.
func (s *UserService) ListTeachers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListTeachers(ctx)
}

// UpdateStudent edits a student's identity and scope.
func (s *UserService) UpdateStudent(ctx context.Context, id string, req model.UpdateStudentRequest) (*model.User, error) {
	sc, err := s.sections.ResolveScope(ctx, model.Scope{
		BatchID:      req.BatchID,
		DepartmentID: req.DepartmentID,
		Section:      model.SectionFromPtr(req.SectionID),
	})
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Role:  model.RoleStudent,
		Student: &model.StudentProfile{
			BatchID:      sc.BatchID,
			DepartmentID: sc.DepartmentID,
			Section:      sc.Section,
		},
	}
	if err := s.userRepo.UpdateStudent(ctx, u); err != nil {
		return nil, err
	}
	// Scope claims in live tokens are now stale.
	s.revokeSessions(ctx, id)
	return s.userRepo.GetByID(ctx, id)
}

// UpdateTeacher edits a teacher. An empty password keeps the current one.
func (s *UserService) UpdateTeacher(ctx context.Context, id string, req model.UpdateTeacherRequest) (*model.User, error) {
	u := &model.User{ID: id, Name: req.Name, Email: req.Email, Role: model.RoleTeacher}
	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.userRepo.UpdateTeacher(ctx, u); err != nil {
		return nil, err
	}
	if req.Password != "" {
		s.revokeSessions(ctx, id)
	}
	return s.userRepo.GetByID(ctx, id)
}

// Delete removes a teacher or student and revokes their sessions.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, id)
	s.log.Info().Str("user_id", id).Msg("User deleted")
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, id string) {
	if err := s.auth.RevokeUser(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("Failed to revoke sessions")
	}
}
