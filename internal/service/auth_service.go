package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/presensi-backend/internal/config"
	"github.com/stemsi/presensi-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Role         model.Role `json:"role"`
	UserID       string     `json:"user_id"`
	BatchID      int        `json:"batch_id,omitempty"`      // Student only
	DepartmentID int        `json:"department_id,omitempty"` // Student only
	SectionID    *int       `json:"section_id,omitempty"`    // Student only
}

// StudentScope returns the student's own scope for a semester.
func (c *Claims) StudentScope(semesterID int) model.Scope {
	return model.Scope{
		BatchID:      c.BatchID,
		DepartmentID: c.DepartmentID,
		SemesterID:   semesterID,
		Section:      model.SectionFromPtr(c.SectionID),
	}
}

// AuthService handles password hashing, JWT, and session management.
type AuthService struct {
	cfg      *config.Config
	sessions SessionStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, sessions SessionStore) *AuthService {
	return &AuthService{cfg: cfg, sessions: sessions}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateToken creates a JWT for the user and registers its id so it can
// be revoked on logout.
func (s *AuthService) GenerateToken(ctx context.Context, u *model.User) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Role:   u.Role,
		UserID: u.ID,
	}
	if p := u.Student; p != nil {
		claims.BatchID = p.BatchID
		claims.DepartmentID = p.DepartmentID
		claims.SectionID = p.Section.Ptr()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.sessions.Register(ctx, u.ID, jti, s.cfg.JWTExpiry); err != nil {
		return "", err
	}

	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateSession checks that the token id is still registered to its user.
func (s *AuthService) ValidateSession(ctx context.Context, claims *Claims) error {
	owner, err := s.sessions.Owner(ctx, claims.ID)
	if err != nil {
		return err
	}
	if owner != claims.UserID {
		return ErrSessionRevoked
	}
	return nil
}

// Logout revokes the token the request was made with.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	return s.sessions.Revoke(ctx, claims.ID)
}

// RevokeUser revokes every token issued to a user.
func (s *AuthService) RevokeUser(ctx context.Context, userID string) error {
	return s.sessions.RevokeUser(ctx, userID)
}
