package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/presensi-backend/internal/model"
)

// ReportCounts is a student's raw session tally before percentages.
type ReportCounts struct {
	StudentID   string
	StudentName string
	Total       int
	Present     int
}

// ReportRepository aggregates attendance per student.
type ReportRepository interface {
	StudentCounts(ctx context.Context, sc model.Scope, courseID int) ([]ReportCounts, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

// StudentCounts tallies every student of the scope's (batch, department,
// section) over the scope's semester, optionally for a single course.
// Students without records appear with zero sessions.
func (r *reportRepository) StudentCounts(ctx context.Context, sc model.Scope, courseID int) ([]ReportCounts, error) {
	students := sc
	students.SemesterID = 0
	pred := BuildScopePredicate("u", students, 2)
	args := append([]any{sc.SemesterID}, pred.Args...)

	join := `ar.student_id = u.id AND ar.semester_id = $1`
	if courseID > 0 {
		join += fmt.Sprintf(` AND ar.course_id = $%d`, pred.NextArg(2))
		args = append(args, courseID)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name,
			COUNT(ar.id),
			COUNT(ar.id) FILTER (WHERE ar.status = 'present')
		 FROM users u
		 LEFT JOIN attendance_records ar ON `+join+`
		 WHERE u.role = 'student' AND `+pred.SQL+`
		 GROUP BY u.id, u.name, u.student_seq
		 ORDER BY u.student_seq ASC NULLS LAST, u.id ASC`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []ReportCounts{}
	for rows.Next() {
		var c ReportCounts
		if err := rows.Scan(&c.StudentID, &c.StudentName, &c.Total, &c.Present); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
