package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/config"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
)

var testLog = zerolog.Nop()

func sectionPtr(id int) *int { return &id }

// ─── Sections ──────────────────────────────────────────────────────

type fakeSectionRepo struct {
	sections map[int]model.Section
	users    *fakeUserRepo
}

func newFakeSectionRepo(sections ...model.Section) *fakeSectionRepo {
	r := &fakeSectionRepo{sections: map[int]model.Section{}}
	for _, s := range sections {
		r.sections[s.ID] = s
	}
	return r
}

func (r *fakeSectionRepo) ListByPair(_ context.Context, b, d int) ([]model.Section, error) {
	var out []model.Section
	for _, s := range r.sections {
		if s.BatchID == b && s.DepartmentID == d {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeSectionRepo) GetByID(_ context.Context, id int) (*model.Section, error) {
	s, ok := r.sections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSectionRepo) ExistsForPair(ctx context.Context, b, d int) (bool, error) {
	list, _ := r.ListByPair(ctx, b, d)
	return len(list) > 0, nil
}

func (r *fakeSectionRepo) Create(_ context.Context, s *model.Section) error {
	for _, existing := range r.sections {
		if existing.BatchID == s.BatchID && existing.DepartmentID == s.DepartmentID &&
			strings.EqualFold(existing.Name, s.Name) {
			return repository.ErrDuplicate
		}
	}
	s.ID = len(r.sections) + 1
	r.sections[s.ID] = *s
	return nil
}

func (r *fakeSectionRepo) Rename(_ context.Context, id int, name string) error {
	s, ok := r.sections[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Name = name
	r.sections[id] = s
	return nil
}

func (r *fakeSectionRepo) Delete(_ context.Context, id int) ([]string, error) {
	if _, ok := r.sections[id]; !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.sections, id)

	var detached []string
	if r.users != nil {
		for _, u := range r.users.users {
			if u.Student != nil && u.Student.Section == model.Sectioned(id) {
				u.Student.Section = model.Unsectioned()
				detached = append(detached, u.ID)
			}
		}
	}
	sort.Strings(detached)
	return detached, nil
}

// ─── Users ─────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func student(id string, batchID, deptID int, section model.SectionRef) *model.User {
	return &model.User{
		ID:   id,
		Name: "Student " + id,
		Role: model.RoleStudent,
		Student: &model.StudentProfile{
			BatchID:      batchID,
			DepartmentID: deptID,
			Section:      section,
			BatchStatus:  model.BatchStatusOld,
			Code:         model.ParseStudentCode(id),
		},
	}
}

func teacher(id string) *model.User {
	return &model.User{ID: id, Name: "Teacher " + id, Role: model.RoleTeacher}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) AdminExists(context.Context) (bool, error) {
	for _, u := range r.users {
		if u.Role == model.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; ok {
		return repository.ErrDuplicate
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) CreateMany(ctx context.Context, users []*model.User) error {
	for _, u := range users {
		if _, ok := r.users[u.ID]; ok {
			return repository.ErrDuplicate
		}
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return nil
}

func (r *fakeUserRepo) students(match func(*model.StudentProfile) bool) []model.User {
	var out []model.User
	for _, u := range r.users {
		if u.Role == model.RoleStudent && match(u.Student) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Student.Code, out[j].Student.Code
		if a.Less(b) != b.Less(a) {
			return a.Less(b)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeUserRepo) ListStudents(_ context.Context, f repository.StudentFilter, limit, offset int) ([]model.User, int, error) {
	all := r.students(func(p *model.StudentProfile) bool {
		return p.BatchID == f.BatchID && p.DepartmentID == f.DepartmentID &&
			(f.Section == nil || p.Section.Equal(*f.Section))
	})
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *fakeUserRepo) Roster(_ context.Context, sc model.Scope) ([]model.RosterEntry, error) {
	var out []model.RosterEntry
	for _, u := range r.students(func(p *model.StudentProfile) bool {
		return p.BatchID == sc.BatchID && p.DepartmentID == sc.DepartmentID && p.Section.Equal(sc.Section)
	}) {
		out = append(out, model.RosterEntry{ID: u.ID, Name: u.Name})
	}
	return out, nil
}

func (r *fakeUserRepo) ListTeachers(context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Role == model.RoleTeacher {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateStudent(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateTeacher(ctx context.Context, u *model.User) error {
	existing, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.PasswordHash == "" {
		u.PasswordHash = existing.PasswordHash
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok || u.Role == model.RoleAdmin {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// ─── Courses & allocations ─────────────────────────────────────────

type fakeCourseRepo struct {
	courses map[int]*model.Course
	allocs  *fakeAllocationRepo
}

func newFakeCourseRepo(allocs *fakeAllocationRepo, courses ...*model.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: map[int]*model.Course{}, allocs: allocs}
	for _, c := range courses {
		r.courses[c.ID] = c
	}
	return r
}

func (r *fakeCourseRepo) Create(_ context.Context, c *model.Course) error {
	for _, existing := range r.courses {
		if existing.Scope == c.Scope && strings.EqualFold(existing.Name, c.Name) {
			return repository.ErrDuplicate
		}
	}
	c.ID = len(r.courses) + 1
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int) (*model.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeCourseRepo) ListByScope(_ context.Context, sc model.Scope) ([]model.Course, error) {
	var out []model.Course
	for _, c := range r.courses {
		if c.Scope == sc {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCourseRepo) ListForTeacher(ctx context.Context, teacherID string, sc model.Scope) ([]model.Course, error) {
	var out []model.Course
	for _, a := range r.allocs.allocs {
		if a.TeacherID == teacherID && a.Scope == sc {
			if c, ok := r.courses[a.CourseID]; ok {
				out = append(out, *c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

type fakeAllocationRepo struct {
	allocs    []*model.Allocation
	existsErr error
}

func (r *fakeAllocationRepo) FindByScope(_ context.Context, courseID int, sc model.Scope) (*model.Allocation, error) {
	for _, a := range r.allocs {
		if a.CourseID == courseID && a.Scope == sc {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAllocationRepo) Exists(_ context.Context, teacherID string, courseID int, sc model.Scope) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, a := range r.allocs {
		if a.TeacherID == teacherID && a.CourseID == courseID && a.Scope == sc {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAllocationRepo) Create(ctx context.Context, a *model.Allocation) error {
	if _, err := r.FindByScope(ctx, a.CourseID, a.Scope); err == nil {
		return repository.ErrDuplicate
	}
	a.ID = len(r.allocs) + 1
	cp := *a
	r.allocs = append(r.allocs, &cp)
	return nil
}

func (r *fakeAllocationRepo) Reassign(_ context.Context, a *model.Allocation) error {
	for i, existing := range r.allocs {
		if existing.ID == a.ID {
			cp := *a
			r.allocs[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeAllocationRepo) ListByScope(_ context.Context, sc model.Scope) ([]model.Allocation, error) {
	var out []model.Allocation
	for _, a := range r.allocs {
		if a.Scope == sc {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ─── Timetable ─────────────────────────────────────────────────────

type fakeTimetableRepo struct {
	entries []*model.TimetableEntry
	nextID  int
}

func (r *fakeTimetableRepo) add(e model.TimetableEntry) {
	r.nextID++
	e.ID = r.nextID
	r.entries = append(r.entries, &e)
}

func (r *fakeTimetableRepo) Create(_ context.Context, e *model.TimetableEntry) error {
	r.nextID++
	e.ID = r.nextID
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeTimetableRepo) Update(_ context.Context, e *model.TimetableEntry) error {
	for i, existing := range r.entries {
		if existing.ID == e.ID {
			cp := *e
			r.entries[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeTimetableRepo) Delete(_ context.Context, id int) error {
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeTimetableRepo) GetByID(_ context.Context, id int) (*model.TimetableEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTimetableRepo) FindCell(_ context.Context, sc model.Scope, day string, slot model.TimeSlot, excludeID int) ([]model.TimetableEntry, error) {
	var out []model.TimetableEntry
	for _, e := range r.entries {
		if e.ID != excludeID && e.Scope == sc && e.Day == day &&
			e.StartTime == slot.StartTime && e.EndTime == slot.EndTime {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeTimetableRepo) ListSlots(_ context.Context, sc model.Scope) ([]model.TimeSlot, error) {
	seen := map[string]model.TimeSlot{}
	for _, e := range r.entries {
		if e.Scope == sc {
			s := model.TimeSlot{StartTime: e.StartTime, EndTime: e.EndTime}
			seen[s.Key()] = s
		}
	}
	out := make([]model.TimeSlot, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeTimetableRepo) ListEntries(_ context.Context, sc model.Scope) ([]model.TimetableListing, error) {
	var out []model.TimetableListing
	for _, e := range r.entries {
		if e.Scope == sc {
			out = append(out, model.TimetableListing{
				EntryID: e.ID, CourseID: e.CourseID, Day: e.Day,
				StartTime: e.StartTime, EndTime: e.EndTime, ClassType: e.ClassType,
			})
		}
	}
	return out, nil
}

func (r *fakeTimetableRepo) ListPracticalSlots(_ context.Context, sc model.Scope, courseID int, day, classType string) ([]model.TimeSlot, error) {
	var out []model.TimeSlot
	for _, e := range r.entries {
		if e.Scope == sc && e.CourseID == courseID && e.Day == day && strings.EqualFold(e.ClassType, classType) {
			out = append(out, model.TimeSlot{StartTime: e.StartTime, EndTime: e.EndTime})
		}
	}
	sortSlots(out)
	return out, nil
}

func sortSlots(s []model.TimeSlot) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].StartTime != s[j].StartTime {
			return s[i].StartTime < s[j].StartTime
		}
		return s[i].EndTime < s[j].EndTime
	})
}

// ─── Attendance ────────────────────────────────────────────────────

type fakeAttendanceRepo struct {
	records []model.AttendanceRecord
}

func (r *fakeAttendanceRepo) ExistsForSession(_ context.Context, sc model.Scope, courseID int, date string, slots []model.TimeSlot) (bool, error) {
	for _, rec := range r.records {
		if rec.CourseID != courseID || rec.Date != date || rec.Scope != sc {
			continue
		}
		for _, s := range slots {
			if rec.StartTime == s.StartTime && rec.EndTime == s.EndTime {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeAttendanceRepo) InsertAll(_ context.Context, records []model.AttendanceRecord) error {
	type key struct {
		course        int
		student, date string
		start, end    string
	}
	seen := map[key]bool{}
	for _, rec := range r.records {
		seen[key{rec.CourseID, rec.StudentID, rec.Date, rec.StartTime, rec.EndTime}] = true
	}
	for _, rec := range records {
		k := key{rec.CourseID, rec.StudentID, rec.Date, rec.StartTime, rec.EndTime}
		if seen[k] {
			return repository.ErrDuplicate
		}
		seen[k] = true
	}
	for _, rec := range records {
		rec.ID = len(r.records) + 1
		r.records = append(r.records, rec)
	}
	return nil
}

func (r *fakeAttendanceRepo) ListForStudent(_ context.Context, studentID string, courseID int) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, rec := range r.records {
		if rec.StudentID == studentID && rec.CourseID == courseID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) Search(_ context.Context, q model.AttendanceSearch) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	sc := q.Scope()
	for _, rec := range r.records {
		if rec.CourseID == q.CourseID && rec.Scope.BatchID == sc.BatchID && rec.Scope.DepartmentID == sc.DepartmentID &&
			strings.Contains(strings.ToLower(rec.StudentID), strings.ToLower(q.StudentID)) &&
			(q.Date == "" || rec.Date == q.Date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) UpdateStatus(_ context.Context, id int, status model.AttendanceStatus) error {
	for i := range r.records {
		if r.records[i].ID == id {
			r.records[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeAttendanceRepo) Delete(_ context.Context, id int) error {
	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ─── Feed & sessions ───────────────────────────────────────────────

type fakeFeed struct {
	events []model.AttendanceEvent
	err    error
}

func (f *fakeFeed) PublishAttendance(_ context.Context, ev model.AttendanceEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeSessionStore struct {
	mu       sync.Mutex
	owners   map[string]string
	revokedU []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{owners: map[string]string{}}
}

func (s *fakeSessionStore) Register(_ context.Context, userID, jti string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[jti] = userID
	return nil
}

func (s *fakeSessionStore) Owner(_ context.Context, jti string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.owners[jti]
	if !ok {
		return "", ErrSessionRevoked
	}
	return owner, nil
}

func (s *fakeSessionStore) Revoke(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.owners, jti)
	return nil
}

func (s *fakeSessionStore) RevokeUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for jti, owner := range s.owners {
		if owner == userID {
			delete(s.owners, jti)
		}
	}
	s.revokedU = append(s.revokedU, userID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		BcryptCost:      4,
		PracticalMarker: "Practical",
	}
}

// fixture wires every service over in-memory repositories. Batch 1 and
// department 2 own section 10; section 11 belongs to another department.
type fixture struct {
	sections   *fakeSectionRepo
	users      *fakeUserRepo
	allocs     *fakeAllocationRepo
	courses    *fakeCourseRepo
	timetable  *fakeTimetableRepo
	attendance *fakeAttendanceRepo
	feed       *fakeFeed
	store      *fakeSessionStore

	sectionSvc    *SectionService
	courseSvc     *CourseService
	timetableSvc  *TimetableService
	attendanceSvc *AttendanceService
	authSvc       *AuthService
	userSvc       *UserService
}

func newFixture() *fixture {
	f := &fixture{
		sections: newFakeSectionRepo(
			model.Section{ID: 10, Name: "A", BatchID: 1, DepartmentID: 2},
			model.Section{ID: 11, Name: "B", BatchID: 1, DepartmentID: 9},
		),
		users: newFakeUserRepo(
			teacher("T-1"),
			teacher("T-2"),
			student("CS24-001", 1, 2, model.Unsectioned()),
			student("CS24-002", 1, 2, model.Unsectioned()),
			student("CS24-010", 1, 2, model.Sectioned(10)),
		),
		allocs:     &fakeAllocationRepo{},
		timetable:  &fakeTimetableRepo{},
		attendance: &fakeAttendanceRepo{},
		feed:       &fakeFeed{},
		store:      newFakeSessionStore(),
	}
	f.courses = newFakeCourseRepo(f.allocs,
		&model.Course{ID: 1, Name: "Chemistry", Scope: unsectionedScope()},
		&model.Course{ID: 2, Name: "Physics", Scope: sectionedScope()},
	)

	f.authSvc = NewAuthService(testConfig(), f.store)
	f.sections.users = f.users
	f.sectionSvc = NewSectionService(f.sections, f.authSvc, testLog)
	f.courseSvc = NewCourseService(f.courses, f.allocs, f.users, f.sectionSvc, testLog)
	f.timetableSvc = NewTimetableService(f.timetable, f.courses, f.sectionSvc, testLog)
	f.attendanceSvc = NewAttendanceService(f.attendance, f.timetable, f.users,
		f.courseSvc, f.sectionSvc, f.feed, "Practical", testLog)
	f.attendanceSvc.now = func() time.Time { return time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC) }
	f.userSvc = NewUserService(f.users, f.sectionSvc, f.authSvc, testLog)
	return f
}

func unsectionedScope() model.Scope {
	return model.Scope{BatchID: 1, DepartmentID: 2, SemesterID: 3}
}

func sectionedScope() model.Scope {
	return model.Scope{BatchID: 1, DepartmentID: 2, SemesterID: 3, Section: model.Sectioned(10)}
}
