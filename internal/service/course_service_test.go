package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allocateRequest(courseID int, teacherID string, section *int) model.AllocateRequest {
	return model.AllocateRequest{
		CourseID:     courseID,
		TeacherID:    teacherID,
		BatchID:      1,
		DepartmentID: 2,
		SemesterID:   3,
		SectionID:    section,
		StartDate:    "2030-01-01",
		EndDate:      "2030-06-30",
	}
}

func TestAllocateCreatesThenConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.courseSvc.Allocate(ctx, allocateRequest(1, "T-1", nil))
	require.NoError(t, err)
	assert.False(t, res.Replaced)
	assert.Equal(t, "T-1", res.Allocation.TeacherID)
	assert.Equal(t, "Chemistry", res.Allocation.CourseName)

	_, err = f.courseSvc.Allocate(ctx, allocateRequest(1, "T-2", nil))
	assert.ErrorIs(t, err, ErrAllocationExists)
	require.Len(t, f.allocs.allocs, 1)
	assert.Equal(t, "T-1", f.allocs.allocs[0].TeacherID)
}

func TestAllocateForceReplacesHolder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.courseSvc.Allocate(ctx, allocateRequest(1, "T-1", nil))
	require.NoError(t, err)

	req := allocateRequest(1, "T-2", nil)
	req.Force = true
	res, err := f.courseSvc.Allocate(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assert.Equal(t, "T-1", res.PreviousTeacherID)

	require.Len(t, f.allocs.allocs, 1)
	assert.Equal(t, "T-2", f.allocs.allocs[0].TeacherID)
	assert.NoError(t, f.courseSvc.VerifyAllocation(ctx, "T-2", 1, unsectionedScope()))
	assert.ErrorIs(t, f.courseSvc.VerifyAllocation(ctx, "T-1", 1, unsectionedScope()), ErrNotAllocated)
}

func TestAllocateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.AllocateRequest)
		wantErr error
	}{
		{"start after end", func(r *model.AllocateRequest) { r.StartDate = "2030-07-01" }, ErrInvalidDateRange},
		{"missing semester", func(r *model.AllocateRequest) { r.SemesterID = 0 }, ErrSemesterRequired},
		{"section of another department", func(r *model.AllocateRequest) { r.SectionID = sectionPtr(11) }, ErrSectionScopeMismatch},
		{"course lives in the unsectioned scope", func(r *model.AllocateRequest) { r.SectionID = sectionPtr(10) }, ErrCourseScopeMismatch},
		{"student as teacher", func(r *model.AllocateRequest) { r.TeacherID = "CS24-001" }, ErrNotATeacher},
		{"unknown teacher", func(r *model.AllocateRequest) { r.TeacherID = "nobody" }, repository.ErrNotFound},
		{"unknown course", func(r *model.AllocateRequest) { r.CourseID = 99 }, repository.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := allocateRequest(1, "T-1", nil)
			tt.mutate(&req)
			_, err := f.courseSvc.Allocate(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.allocs.allocs)
		})
	}
}

func TestAllocateSectionedAndUnsectionedAreDistinct(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.courseSvc.Allocate(ctx, allocateRequest(2, "T-1", sectionPtr(10)))
	require.NoError(t, err)

	assert.NoError(t, f.courseSvc.VerifyAllocation(ctx, "T-1", 2, sectionedScope()))
	assert.ErrorIs(t, f.courseSvc.VerifyAllocation(ctx, "T-1", 2, unsectionedScope()), ErrNotAllocated)

	courses, err := f.courseSvc.ListTeacherCourses(ctx, "T-1", unsectionedScope())
	require.NoError(t, err)
	assert.Empty(t, courses)

	courses, err = f.courseSvc.ListTeacherCourses(ctx, "T-1", sectionedScope())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Physics", courses[0].Name)
}

func TestVerifyAllocationFailsClosed(t *testing.T) {
	f := newFixture()
	f.allocs.existsErr = errors.New("connection reset")

	err := f.courseSvc.VerifyAllocation(context.Background(), "T-1", 1, unsectionedScope())
	assert.ErrorIs(t, err, ErrNotAllocated)
	assert.ErrorContains(t, err, "connection reset")
}

func TestCreateCourseUniquePerScope(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.courseSvc.CreateCourse(ctx, &model.Course{Name: "Biology", Scope: unsectionedScope()}))
	require.NoError(t, f.courseSvc.CreateCourse(ctx, &model.Course{Name: "Biology", Scope: sectionedScope()}))

	err := f.courseSvc.CreateCourse(ctx, &model.Course{Name: "biology", Scope: unsectionedScope()})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	courses, err := f.courseSvc.ListCourses(ctx, unsectionedScope())
	require.NoError(t, err)
	names := make([]string, 0, len(courses))
	for _, c := range courses {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Biology", "Chemistry"}, names)

	_, err = f.courseSvc.ListCourses(ctx, model.Scope{BatchID: 1, DepartmentID: 2})
	assert.ErrorIs(t, err, ErrSemesterRequired)
}
