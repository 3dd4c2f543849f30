package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/presensi-backend/internal/model"
)

// TimetableRepository handles timetable entry data access.
type TimetableRepository interface {
	Create(ctx context.Context, e *model.TimetableEntry) error
	Update(ctx context.Context, e *model.TimetableEntry) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*model.TimetableEntry, error)
	FindCell(ctx context.Context, sc model.Scope, day string, slot model.TimeSlot, excludeID int) ([]model.TimetableEntry, error)
	ListSlots(ctx context.Context, sc model.Scope) ([]model.TimeSlot, error)
	ListEntries(ctx context.Context, sc model.Scope) ([]model.TimetableListing, error)
	ListPracticalSlots(ctx context.Context, sc model.Scope, courseID int, day, classType string) ([]model.TimeSlot, error)
}

type timetableRepository struct {
	pool *pgxpool.Pool
}

// NewTimetableRepository creates a new TimetableRepository.
func NewTimetableRepository(pool *pgxpool.Pool) TimetableRepository {
	return &timetableRepository{pool: pool}
}

const timetableColumns = `t.id, t.course_id, t.batch_id, t.department_id, t.semester_id, t.section_id,
	t.day, t.start_time, t.end_time, t.class_type, t.created_at, t.updated_at`

func scanTimetableEntry(row pgx.Row) (*model.TimetableEntry, error) {
	e := &model.TimetableEntry{}
	var batchID, departmentID, semesterID int
	var sectionID *int
	if err := row.Scan(&e.ID, &e.CourseID, &batchID, &departmentID, &semesterID, &sectionID,
		&e.Day, &e.StartTime, &e.EndTime, &e.ClassType, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Scope = scopeFromColumns(batchID, departmentID, semesterID, sectionID)
	return e, nil
}

func (r *timetableRepository) Create(ctx context.Context, e *model.TimetableEntry) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO timetable_entries (course_id, `+scopeColumns+`, day, start_time, end_time, class_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		e.CourseID, e.Scope.BatchID, e.Scope.DepartmentID, e.Scope.SemesterID, e.Scope.Section.Ptr(),
		e.Day, e.StartTime, e.EndTime, e.ClassType,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return mapError(err)
}

func (r *timetableRepository) Update(ctx context.Context, e *model.TimetableEntry) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE timetable_entries
		 SET course_id = $1, batch_id = $2, department_id = $3, semester_id = $4, section_id = $5,
			day = $6, start_time = $7, end_time = $8, class_type = $9, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $10
		 RETURNING created_at, updated_at`,
		e.CourseID, e.Scope.BatchID, e.Scope.DepartmentID, e.Scope.SemesterID, e.Scope.Section.Ptr(),
		e.Day, e.StartTime, e.EndTime, e.ClassType, e.ID,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return mapError(err)
}

func (r *timetableRepository) Delete(ctx context.Context, id int) error {
	return execAffected(ctx, r.pool, `DELETE FROM timetable_entries WHERE id = $1`, id)
}

func (r *timetableRepository) GetByID(ctx context.Context, id int) (*model.TimetableEntry, error) {
	e, err := scanTimetableEntry(r.pool.QueryRow(ctx,
		`SELECT `+timetableColumns+` FROM timetable_entries t WHERE t.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// FindCell returns entries occupying (scope, day, slot), ignoring excludeID.
func (r *timetableRepository) FindCell(ctx context.Context, sc model.Scope, day string, slot model.TimeSlot, excludeID int) ([]model.TimetableEntry, error) {
	pred := BuildScopePredicate("t", sc, 5)
	rows, err := r.pool.Query(ctx,
		`SELECT `+timetableColumns+` FROM timetable_entries t
		 WHERE t.day = $1 AND t.start_time = $2 AND t.end_time = $3 AND t.id <> $4 AND `+pred.SQL,
		append([]any{day, slot.StartTime, slot.EndTime, excludeID}, pred.Args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.TimetableEntry{}
	for rows.Next() {
		e, err := scanTimetableEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ListSlots returns the distinct time slots of a scope ordered by start time.
func (r *timetableRepository) ListSlots(ctx context.Context, sc model.Scope) ([]model.TimeSlot, error) {
	pred := BuildScopePredicate("t", sc, 1)
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT t.start_time, t.end_time FROM timetable_entries t
		 WHERE `+pred.SQL+` ORDER BY t.start_time, t.end_time`,
		pred.Args...)
	if err != nil {
		return nil, err
	}
	return collectSlots(rows)
}

// ListEntries returns every entry of a scope with its course name and the
// teacher of the matching allocation, if one exists.
func (r *timetableRepository) ListEntries(ctx context.Context, sc model.Scope) ([]model.TimetableListing, error) {
	pred := BuildScopePredicate("t", sc, 1)
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.course_id, c.name, u.name, t.day, t.start_time, t.end_time, t.class_type
		 FROM timetable_entries t
		 JOIN courses c ON c.id = t.course_id
		 LEFT JOIN course_allocations ca
			ON ca.course_id = t.course_id
			AND ca.batch_id = t.batch_id
			AND ca.department_id = t.department_id
			AND ca.semester_id = t.semester_id
			AND ca.section_id IS NOT DISTINCT FROM t.section_id
		 LEFT JOIN users u ON u.id = ca.teacher_id
		 WHERE `+pred.SQL+`
		 ORDER BY t.start_time, t.day`,
		pred.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []model.TimetableListing{}
	for rows.Next() {
		var l model.TimetableListing
		if err := rows.Scan(&l.EntryID, &l.CourseID, &l.CourseName, &l.TeacherName,
			&l.Day, &l.StartTime, &l.EndTime, &l.ClassType); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// ListPracticalSlots returns the course's slots of the given class type on
// a weekday, ordered by start time. Class type matching is case-insensitive.
func (r *timetableRepository) ListPracticalSlots(ctx context.Context, sc model.Scope, courseID int, day, classType string) ([]model.TimeSlot, error) {
	pred := BuildScopePredicate("t", sc, 4)
	rows, err := r.pool.Query(ctx,
		`SELECT t.start_time, t.end_time FROM timetable_entries t
		 WHERE t.course_id = $1 AND t.day = $2 AND lower(t.class_type) = lower($3) AND `+pred.SQL+`
		 ORDER BY t.start_time, t.end_time`,
		append([]any{courseID, day, classType}, pred.Args...)...)
	if err != nil {
		return nil, err
	}
	return collectSlots(rows)
}

func collectSlots(rows pgx.Rows) ([]model.TimeSlot, error) {
	defer rows.Close()
	slots := []model.TimeSlot{}
	for rows.Next() {
		var s model.TimeSlot
		if err := rows.Scan(&s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
