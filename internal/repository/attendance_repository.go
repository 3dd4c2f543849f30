package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/presensi-backend/internal/model"
)

// AttendanceRepository handles attendance record data access.
type AttendanceRepository interface {
	ExistsForSession(ctx context.Context, sc model.Scope, courseID int, date string, slots []model.TimeSlot) (bool, error)
	InsertAll(ctx context.Context, records []model.AttendanceRecord) error
	ListForStudent(ctx context.Context, studentID string, courseID int) ([]model.AttendanceRecord, error)
	Search(ctx context.Context, q model.AttendanceSearch) ([]model.AttendanceRecord, error)
	UpdateStatus(ctx context.Context, id int, status model.AttendanceStatus) error
	Delete(ctx context.Context, id int) error
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

const attendanceColumns = `ar.id, ar.student_id, u.name, ar.course_id, c.name,
	ar.batch_id, ar.department_id, ar.semester_id, ar.section_id,
	to_char(ar.date, 'YYYY-MM-DD'), ar.start_time, ar.end_time, ar.class_type, ar.status,
	COALESCE(ar.marked_by, ''), ar.created_at`

const attendanceJoins = `FROM attendance_records ar
	JOIN users u ON u.id = ar.student_id
	JOIN courses c ON c.id = ar.course_id`

// ExistsForSession reports whether any record of the course in the scope
// already covers the date at one of the given slots.
func (r *attendanceRepository) ExistsForSession(ctx context.Context, sc model.Scope, courseID int, date string, slots []model.TimeSlot) (bool, error) {
	if len(slots) == 0 {
		return false, nil
	}
	pred := BuildScopePredicate("ar", sc, 3)
	args := append([]any{courseID, date}, pred.Args...)
	n := pred.NextArg(3)

	pairs := make([]string, 0, len(slots))
	for _, s := range slots {
		pairs = append(pairs, fmt.Sprintf("($%d, $%d)", n, n+1))
		args = append(args, s.StartTime, s.EndTime)
		n += 2
	}

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM attendance_records ar
		 WHERE ar.course_id = $1 AND ar.date = $2::date AND `+pred.SQL+`
		 AND (ar.start_time, ar.end_time) IN (`+strings.Join(pairs, ", ")+`))`,
		args...,
	).Scan(&exists)
	return exists, err
}

// InsertAll writes every record in one transaction. A record colliding with
// an existing (course, student, date, start, end) aborts the whole batch
// with ErrDuplicate.
func (r *attendanceRepository) InsertAll(ctx context.Context, records []model.AttendanceRecord) error {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rec := rec
		date, err := time.Parse(time.DateOnly, rec.Date)
		if err != nil {
			return fmt.Errorf("parse date %q: %w", rec.Date, err)
		}
		var markedBy *string
		if rec.MarkedBy != "" {
			markedBy = &rec.MarkedBy
		}
		rows = append(rows, []any{
			rec.StudentID, rec.CourseID,
			rec.Scope.BatchID, rec.Scope.DepartmentID, rec.Scope.SemesterID, rec.Scope.Section.Ptr(),
			date, rec.StartTime, rec.EndTime, rec.ClassType, string(rec.Status), markedBy,
		})
	}

	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"attendance_records"},
			[]string{"student_id", "course_id", "batch_id", "department_id", "semester_id", "section_id",
				"date", "start_time", "end_time", "class_type", "status", "marked_by"},
			pgx.CopyFromRows(rows),
		)
		return err
	})
}

func collectAttendance(rows pgx.Rows) ([]model.AttendanceRecord, error) {
	defer rows.Close()
	records := []model.AttendanceRecord{}
	for rows.Next() {
		var a model.AttendanceRecord
		var batchID, departmentID, semesterID int
		var sectionID *int
		if err := rows.Scan(&a.ID, &a.StudentID, &a.StudentName, &a.CourseID, &a.CourseName,
			&batchID, &departmentID, &semesterID, &sectionID,
			&a.Date, &a.StartTime, &a.EndTime, &a.ClassType, &a.Status, &a.MarkedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Scope = scopeFromColumns(batchID, departmentID, semesterID, sectionID)
		records = append(records, a)
	}
	return records, rows.Err()
}

// ListForStudent returns a student's records for one course, newest first.
func (r *attendanceRepository) ListForStudent(ctx context.Context, studentID string, courseID int) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` `+attendanceJoins+`
		 WHERE ar.student_id = $1 AND ar.course_id = $2
		 ORDER BY ar.date DESC, ar.start_time ASC`,
		studentID, courseID)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}

// Search lists records of a course in a scope, optionally narrowed by a
// student id substring and a date.
func (r *attendanceRepository) Search(ctx context.Context, q model.AttendanceSearch) ([]model.AttendanceRecord, error) {
	pred := BuildScopePredicate("ar", q.Scope(), 2)
	args := append([]any{q.CourseID}, pred.Args...)
	n := pred.NextArg(2)

	where := `ar.course_id = $1 AND ` + pred.SQL
	if q.StudentID != "" {
		where += fmt.Sprintf(` AND ar.student_id ILIKE '%%' || $%d || '%%'`, n)
		args = append(args, q.StudentID)
		n++
	}
	if q.Date != "" {
		where += fmt.Sprintf(` AND ar.date = $%d::date`, n)
		args = append(args, q.Date)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` `+attendanceJoins+`
		 WHERE `+where+`
		 ORDER BY u.student_seq ASC NULLS LAST, ar.student_id, ar.date DESC, ar.start_time`,
		args...)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}

func (r *attendanceRepository) UpdateStatus(ctx context.Context, id int, status model.AttendanceStatus) error {
	return execAffected(ctx, r.pool,
		`UPDATE attendance_records SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		string(status), id)
}

func (r *attendanceRepository) Delete(ctx context.Context, id int) error {
	return execAffected(ctx, r.pool, `DELETE FROM attendance_records WHERE id = $1`, id)
}
