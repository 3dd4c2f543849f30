package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/presensi-backend/internal/model"
)

// SectionRepository handles section data access.
type SectionRepository interface {
	ListByPair(ctx context.Context, batchID, departmentID int) ([]model.Section, error)
	GetByID(ctx context.Context, id int) (*model.Section, error)
	ExistsForPair(ctx context.Context, batchID, departmentID int) (bool, error)
	Create(ctx context.Context, s *model.Section) error
	Rename(ctx context.Context, id int, name string) error
	Delete(ctx context.Context, id int) ([]string, error)
}

type sectionRepository struct {
	pool *pgxpool.Pool
}

// NewSectionRepository creates a new SectionRepository.
func NewSectionRepository(pool *pgxpool.Pool) SectionRepository {
	return &sectionRepository{pool: pool}
}

func (r *sectionRepository) ListByPair(ctx context.Context, batchID, departmentID int) ([]model.Section, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, batch_id, department_id, created_at, updated_at
		 FROM sections WHERE batch_id = $1 AND department_id = $2
		 ORDER BY name`, batchID, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := []model.Section{}
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.Name, &s.BatchID, &s.DepartmentID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *sectionRepository) GetByID(ctx context.Context, id int) (*model.Section, error) {
	s := &model.Section{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, batch_id, department_id, created_at, updated_at
		 FROM sections WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.BatchID, &s.DepartmentID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

// ExistsForPair reports whether the (batch, department) pair is subdivided.
// The sections table is the only source consulted.
func (r *sectionRepository) ExistsForPair(ctx context.Context, batchID, departmentID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sections WHERE batch_id = $1 AND department_id = $2)`,
		batchID, departmentID,
	).Scan(&exists)
	return exists, err
}

func (r *sectionRepository) Create(ctx context.Context, s *model.Section) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sections (name, batch_id, department_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.BatchID, s.DepartmentID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return mapError(err)
}

func (r *sectionRepository) Rename(ctx context.Context, id int, name string) error {
	return execAffected(ctx, r.pool,
		`UPDATE sections SET name = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, name, id)
}

// Delete removes a section and returns the ids of the students it held.
// Dependent rows have their section reference nulled by the foreign keys;
// if that collides with an unsectioned row's natural key the delete fails
// with ErrDuplicate.
func (r *sectionRepository) Delete(ctx context.Context, id int) ([]string, error) {
	var students []string
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id FROM users WHERE section_id = $1 AND role = 'student' FOR UPDATE`, id)
		if err != nil {
			return err
		}
		students, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		return execAffected(ctx, tx, `DELETE FROM sections WHERE id = $1`, id)
	})
	if err != nil {
		return nil, err
	}
	return students, nil
}
