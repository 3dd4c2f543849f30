package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/presensi-backend/internal/model"
)

// StudentFilter narrows a student listing. A nil Section lists every
// student of the (batch, department) pair regardless of section.
type StudentFilter struct {
	BatchID      int
	DepartmentID int
	Section      *model.SectionRef
}

// UserRepository handles user data access for all roles.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	AdminExists(ctx context.Context) (bool, error)
	Create(ctx context.Context, u *model.User) error
	CreateMany(ctx context.Context, users []*model.User) error
	ListStudents(ctx context.Context, f StudentFilter, limit, offset int) ([]model.User, int, error)
	Roster(ctx context.Context, sc model.Scope) ([]model.RosterEntry, error)
	ListTeachers(ctx context.Context) ([]model.User, error)
	UpdateStudent(ctx context.Context, u *model.User) error
	UpdateTeacher(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, batch_id, department_id, section_id,
	batch_status, to_char(admission_date, 'YYYY-MM-DD'), student_prefix, student_seq, created_at, updated_at`

// studentOrder sorts by the structured sequence, unnumbered ids last.
const studentOrder = `student_seq ASC NULLS LAST, id ASC`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var (
		batchID, departmentID, sectionID, seq *int
		batchStatus, prefix, admission        *string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&batchID, &departmentID, &sectionID, &batchStatus, &admission, &prefix, &seq,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if u.Role == model.RoleStudent && batchID != nil && departmentID != nil {
		p := &model.StudentProfile{
			BatchID:       *batchID,
			DepartmentID:  *departmentID,
			Section:       model.SectionFromPtr(sectionID),
			AdmissionDate: admission,
			Code:          model.StudentCode{Seq: seq},
		}
		if batchStatus != nil {
			p.BatchStatus = model.BatchStatus(*batchStatus)
		}
		if prefix != nil {
			p.Code.Prefix = *prefix
		}
		u.Student = p
	}
	return u, nil
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	defer rows.Close()
	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE role = 'admin')`).Scan(&exists)
	return exists, err
}

func insertUser(ctx context.Context, db DBTX, u *model.User) error {
	var batchID, departmentID, sectionID, seq *int
	var batchStatus, prefix, admission *string
	if p := u.Student; p != nil {
		batchID, departmentID = &p.BatchID, &p.DepartmentID
		sectionID = p.Section.Ptr()
		if p.BatchStatus != "" {
			s := string(p.BatchStatus)
			batchStatus = &s
		}
		admission = p.AdmissionDate
		prefix, seq = &p.Code.Prefix, p.Code.Seq
	}
	return db.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, batch_id, department_id, section_id,
			batch_status, admission_date, student_prefix, student_seq)
		 VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8, $9, $10::date, $11, $12)
		 RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, batchID, departmentID, sectionID,
		batchStatus, admission, prefix, seq,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(u.Email)
	return mapError(insertUser(ctx, r.pool, u))
}

// CreateMany inserts every user or none.
func (r *userRepository) CreateMany(ctx context.Context, users []*model.User) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, u := range users {
			u.Email = strings.ToLower(u.Email)
			if err := insertUser(ctx, tx, u); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListStudents returns one page of students ordered by their sequence and
// the total number of matching students.
func (r *userRepository) ListStudents(ctx context.Context, f StudentFilter, limit, offset int) ([]model.User, int, error) {
	where := `role = 'student' AND batch_id = $1 AND department_id = $2`
	args := []any{f.BatchID, f.DepartmentID}
	if f.Section != nil {
		if f.Section.IsSectioned() {
			where += ` AND section_id = $3`
			args = append(args, f.Section.ID())
		} else {
			where += ` AND section_id IS NULL`
		}
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
			userColumns, where, studentOrder, n+1, n+2),
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	students, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// Roster lists the students a session in the scope is marked for.
func (r *userRepository) Roster(ctx context.Context, sc model.Scope) ([]model.RosterEntry, error) {
	sc.SemesterID = 0
	pred := BuildScopePredicate("", sc, 1)
	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM users WHERE role = 'student' AND `+pred.SQL+` ORDER BY `+studentOrder,
		pred.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := []model.RosterEntry{}
	for rows.Next() {
		var e model.RosterEntry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, err
		}
		roster = append(roster, e)
	}
	return roster, rows.Err()
}

func (r *userRepository) ListTeachers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = 'teacher' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *userRepository) UpdateStudent(ctx context.Context, u *model.User) error {
	p := u.Student
	return execAffected(ctx, r.pool,
		`UPDATE users SET name = $1, email = lower($2), batch_id = $3, department_id = $4,
			section_id = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6 AND role = 'student'`,
		u.Name, u.Email, p.BatchID, p.DepartmentID, p.Section.Ptr(), u.ID)
}

// UpdateTeacher updates name and email, and the password hash when non-empty.
func (r *userRepository) UpdateTeacher(ctx context.Context, u *model.User) error {
	return execAffected(ctx, r.pool,
		`UPDATE users SET name = $1, email = lower($2),
			password_hash = COALESCE(NULLIF($3, ''), password_hash), updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4 AND role = 'teacher'`,
		u.Name, u.Email, u.PasswordHash, u.ID)
}

// Delete removes a user. Foreign keys cascade a student's attendance and a
// teacher's allocations.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	return execAffected(ctx, r.pool, `DELETE FROM users WHERE id = $1 AND role <> 'admin'`, id)
}
