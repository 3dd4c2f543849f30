package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/presensi-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id int) (*model.Course, error)
	ListByScope(ctx context.Context, sc model.Scope) ([]model.Course, error)
	ListForTeacher(ctx context.Context, teacherID string, sc model.Scope) ([]model.Course, error)
	Delete(ctx context.Context, id int) error
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

const courseColumns = `c.id, c.name, c.batch_id, c.department_id, c.semester_id, c.section_id, c.created_at, c.updated_at`

func scanCourse(row pgx.Row) (*model.Course, error) {
	c := &model.Course{}
	var batchID, departmentID, semesterID int
	var sectionID *int
	if err := row.Scan(&c.ID, &c.Name, &batchID, &departmentID, &semesterID, &sectionID,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Scope = scopeFromColumns(batchID, departmentID, semesterID, sectionID)
	return c, nil
}

func collectCourses(rows pgx.Rows) ([]model.Course, error) {
	defer rows.Close()
	courses := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *courseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (name, `+scopeColumns+`)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Scope.BatchID, c.Scope.DepartmentID, c.Scope.SemesterID, c.Scope.Section.Ptr(),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapError(err)
}

func (r *courseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c, err := scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// ListByScope returns the courses of exactly this scope ordered by name.
func (r *courseRepository) ListByScope(ctx context.Context, sc model.Scope) ([]model.Course, error) {
	pred := BuildScopePredicate("c", sc, 1)
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses c WHERE `+pred.SQL+` ORDER BY c.name, c.id`,
		pred.Args...)
	if err != nil {
		return nil, err
	}
	return collectCourses(rows)
}

// ListForTeacher returns courses with an allocation binding the teacher in
// exactly this scope.
func (r *courseRepository) ListForTeacher(ctx context.Context, teacherID string, sc model.Scope) ([]model.Course, error) {
	pred := BuildScopePredicate("ca", sc, 2)
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+`
		 FROM courses c
		 JOIN course_allocations ca ON ca.course_id = c.id
		 WHERE ca.teacher_id = $1 AND `+pred.SQL+`
		 ORDER BY c.name, c.id`,
		append([]any{teacherID}, pred.Args...)...)
	if err != nil {
		return nil, err
	}
	return collectCourses(rows)
}

// Delete removes a course with its attendance, timetable entries and
// allocations in one transaction.
func (r *courseRepository) Delete(ctx context.Context, id int) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM attendance_records WHERE course_id = $1`,
			`DELETE FROM timetable_entries WHERE course_id = $1`,
			`DELETE FROM course_allocations WHERE course_id = $1`,
		} {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return err
			}
		}
		return execAffected(ctx, tx, `DELETE FROM courses WHERE id = $1`, id)
	})
}
