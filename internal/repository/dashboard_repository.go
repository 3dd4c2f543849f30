package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/presensi-backend/internal/model"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (model.DashboardSummary, error) {
	var s model.DashboardSummary
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM batches),
			(SELECT COUNT(*) FROM departments),
			(SELECT COUNT(*) FROM semesters),
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM users WHERE role = 'teacher'),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM attendance_records WHERE date = CURRENT_DATE)`,
	).Scan(&s.Batches, &s.Departments, &s.Semesters, &s.Students, &s.Teachers, &s.Courses, &s.MarkedToday)
	return s, err
}

// GetTodayStatusCounts retrieves today's attendance distribution by status.
func (r *DashboardRepository) GetTodayStatusCounts(ctx context.Context) (map[model.AttendanceStatus]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM attendance_records WHERE date = CURRENT_DATE GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[model.AttendanceStatus]int{model.StatusPresent: 0, model.StatusAbsent: 0}
	for rows.Next() {
		var status model.AttendanceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// DashboardRecentSession is one marked class session.
type DashboardRecentSession struct {
	CourseID   int    `json:"course_id"`
	CourseName string `json:"course_name"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	ClassType  string `json:"class_type"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
}

// GetRecentSessions retrieves the last N marked sessions with their tallies.
func (r *DashboardRepository) GetRecentSessions(ctx context.Context, limit int) ([]DashboardRecentSession, error) {
	query := `
		SELECT
			ar.course_id,
			c.name,
			to_char(ar.date, 'YYYY-MM-DD'),
			ar.start_time,
			ar.end_time,
			ar.class_type,
			COUNT(*) FILTER (WHERE ar.status = 'present'),
			COUNT(*) FILTER (WHERE ar.status = 'absent')
		FROM attendance_records ar
		JOIN courses c ON c.id = ar.course_id
		GROUP BY ar.course_id, c.name, ar.date, ar.start_time, ar.end_time, ar.class_type
		ORDER BY ar.date DESC, ar.start_time DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []DashboardRecentSession{}
	for rows.Next() {
		var s DashboardRecentSession
		if err := rows.Scan(&s.CourseID, &s.CourseName, &s.Date, &s.StartTime, &s.EndTime,
			&s.ClassType, &s.Present, &s.Absent); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
