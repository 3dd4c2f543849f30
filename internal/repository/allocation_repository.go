package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/presensi-backend/internal/model"
)

// AllocationRepository handles course allocation data access.
type AllocationRepository interface {
	FindByScope(ctx context.Context, courseID int, sc model.Scope) (*model.Allocation, error)
	Exists(ctx context.Context, teacherID string, courseID int, sc model.Scope) (bool, error)
	Create(ctx context.Context, a *model.Allocation) error
	Reassign(ctx context.Context, a *model.Allocation) error
	ListByScope(ctx context.Context, sc model.Scope) ([]model.Allocation, error)
}

type allocationRepository struct {
	pool *pgxpool.Pool
}

// NewAllocationRepository creates a new AllocationRepository.
func NewAllocationRepository(pool *pgxpool.Pool) AllocationRepository {
	return &allocationRepository{pool: pool}
}

const allocationColumns = `ca.id, ca.course_id, c.name, ca.teacher_id, u.name,
	ca.batch_id, ca.department_id, ca.semester_id, ca.section_id,
	to_char(ca.start_date, 'YYYY-MM-DD'), to_char(ca.end_date, 'YYYY-MM-DD'), ca.created_at, ca.updated_at`

const allocationJoins = `FROM course_allocations ca
	JOIN courses c ON c.id = ca.course_id
	JOIN users u ON u.id = ca.teacher_id`

func scanAllocation(row pgx.Row) (*model.Allocation, error) {
	a := &model.Allocation{}
	var batchID, departmentID, semesterID int
	var sectionID *int
	if err := row.Scan(&a.ID, &a.CourseID, &a.CourseName, &a.TeacherID, &a.TeacherName,
		&batchID, &departmentID, &semesterID, &sectionID,
		&a.StartDate, &a.EndDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Scope = scopeFromColumns(batchID, departmentID, semesterID, sectionID)
	return a, nil
}

// FindByScope returns the single allocation of a course in a scope.
func (r *allocationRepository) FindByScope(ctx context.Context, courseID int, sc model.Scope) (*model.Allocation, error) {
	pred := BuildScopePredicate("ca", sc, 2)
	a, err := scanAllocation(r.pool.QueryRow(ctx,
		`SELECT `+allocationColumns+` `+allocationJoins+`
		 WHERE ca.course_id = $1 AND `+pred.SQL,
		append([]any{courseID}, pred.Args...)...))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *allocationRepository) Exists(ctx context.Context, teacherID string, courseID int, sc model.Scope) (bool, error) {
	pred := BuildScopePredicate("ca", sc, 3)
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM course_allocations ca
		 WHERE ca.teacher_id = $1 AND ca.course_id = $2 AND `+pred.SQL+`)`,
		append([]any{teacherID, courseID}, pred.Args...)...,
	).Scan(&exists)
	return exists, err
}

// Create inserts an allocation. A second allocation for the same course and
// scope violates the natural key and returns ErrDuplicate.
func (r *allocationRepository) Create(ctx context.Context, a *model.Allocation) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO course_allocations (course_id, teacher_id, `+scopeColumns+`, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8::date)
		 RETURNING id, created_at, updated_at`,
		a.CourseID, a.TeacherID, a.Scope.BatchID, a.Scope.DepartmentID, a.Scope.SemesterID,
		a.Scope.Section.Ptr(), a.StartDate, a.EndDate,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapError(err)
}

// Reassign replaces the teacher and date range of an existing allocation.
func (r *allocationRepository) Reassign(ctx context.Context, a *model.Allocation) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE course_allocations
		 SET teacher_id = $1, start_date = $2::date, end_date = $3::date, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4
		 RETURNING created_at, updated_at`,
		a.TeacherID, a.StartDate, a.EndDate, a.ID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return mapError(err)
}

func (r *allocationRepository) ListByScope(ctx context.Context, sc model.Scope) ([]model.Allocation, error) {
	pred := BuildScopePredicate("ca", sc, 1)
	rows, err := r.pool.Query(ctx,
		`SELECT `+allocationColumns+` `+allocationJoins+`
		 WHERE `+pred.SQL+` ORDER BY c.name, ca.id`,
		pred.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allocations := []model.Allocation{}
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, *a)
	}
	return allocations, rows.Err()
}
