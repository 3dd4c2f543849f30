package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/presensi-backend/internal/model"
)

// OrgUnitRepository handles batches, departments and semesters. The three
// tables share one shape so a single implementation parameterized by kind
// serves all of them.
type OrgUnitRepository interface {
	List(ctx context.Context, kind model.OrgKind) ([]model.OrgUnit, error)
	GetByID(ctx context.Context, kind model.OrgKind, id int) (*model.OrgUnit, error)
	Create(ctx context.Context, unit *model.OrgUnit) error
	Rename(ctx context.Context, unit *model.OrgUnit) error
	Delete(ctx context.Context, kind model.OrgKind, id int) error
}

type orgUnitRepository struct {
	pool *pgxpool.Pool
}

// NewOrgUnitRepository creates a new OrgUnitRepository.
func NewOrgUnitRepository(pool *pgxpool.Pool) OrgUnitRepository {
	return &orgUnitRepository{pool: pool}
}

func (r *orgUnitRepository) List(ctx context.Context, kind model.OrgKind) ([]model.OrgUnit, error) {
	order := "name ASC"
	if kind == model.OrgSemester {
		order = "id ASC"
	}
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s ORDER BY %s`, kind.Table(), order))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := []model.OrgUnit{}
	for rows.Next() {
		u := model.OrgUnit{Kind: kind}
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (r *orgUnitRepository) GetByID(ctx context.Context, kind model.OrgKind, id int) (*model.OrgUnit, error) {
	u := &model.OrgUnit{Kind: kind}
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s WHERE id = $1`, kind.Table()), id,
	).Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *orgUnitRepository) Create(ctx context.Context, unit *model.OrgUnit) error {
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id, created_at, updated_at`, unit.Kind.Table()),
		unit.Name,
	).Scan(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt)
	return mapError(err)
}

func (r *orgUnitRepository) Rename(ctx context.Context, unit *model.OrgUnit) error {
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE %s SET name = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 RETURNING created_at, updated_at`, unit.Kind.Table()),
		unit.Name, unit.ID,
	).Scan(&unit.CreatedAt, &unit.UpdatedAt)
	return mapError(err)
}

// Delete removes the unit and every scoped row beneath it in one
// transaction, in the order attendance, timetable, allocations, courses,
// sections, then the unit itself. Students still referencing a batch or
// department abort the transaction with ErrForeignKey.
func (r *orgUnitRepository) Delete(ctx context.Context, kind model.OrgKind, id int) error {
	col := kind.ScopeColumn()
	steps := []string{
		fmt.Sprintf(`DELETE FROM attendance_records WHERE %s = $1`, col),
		fmt.Sprintf(`DELETE FROM timetable_entries WHERE %s = $1`, col),
		fmt.Sprintf(`DELETE FROM course_allocations WHERE %s = $1`, col),
		fmt.Sprintf(`DELETE FROM courses WHERE %s = $1`, col),
	}
	if kind != model.OrgSemester {
		steps = append(steps, fmt.Sprintf(`DELETE FROM sections WHERE %s = $1`, col))
	}

	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, stmt := range steps {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return err
			}
		}
		return execAffected(ctx, tx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, kind.Table()), id)
	})
}
