package service

import (
	"context"
	"testing"

	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(day, start, end, classType string) *model.TimetableEntry {
	return &model.TimetableEntry{
		CourseID:  1,
		Scope:     unsectionedScope(),
		Day:       day,
		StartTime: start,
		EndTime:   end,
		ClassType: classType,
	}
}

func TestTimetableCreateCellRules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.timetableSvc.Create(ctx, entry("Monday", "09:00", "10:00", "Theory")))

	assert.ErrorIs(t, f.timetableSvc.Create(ctx, entry("Monday", "09:00", "10:00", "theory")), ErrDuplicateTimetableEntry)
	assert.ErrorIs(t, f.timetableSvc.Create(ctx, entry("Monday", "09:00", "10:00", "Practical")), ErrSlotOccupied)
	assert.NoError(t, f.timetableSvc.Create(ctx, entry("Tuesday", "09:00", "10:00", "Theory")))
	assert.Len(t, f.timetable.entries, 2)
}

func TestTimetableCreateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.TimetableEntry)
		wantErr error
	}{
		{"reversed times", func(e *model.TimetableEntry) { e.StartTime = "11:00" }, ErrInvalidTimeRange},
		{"missing semester", func(e *model.TimetableEntry) { e.Scope.SemesterID = 0 }, ErrSemesterRequired},
		{"foreign section", func(e *model.TimetableEntry) { e.Scope.Section = model.Sectioned(11) }, ErrSectionScopeMismatch},
		{"course of another scope", func(e *model.TimetableEntry) { e.CourseID = 2 }, ErrCourseScopeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			e := entry("Monday", "09:00", "10:00", "Theory")
			tt.mutate(e)
			assert.ErrorIs(t, f.timetableSvc.Create(context.Background(), e), tt.wantErr)
			assert.Empty(t, f.timetable.entries)
		})
	}
}

func TestTimetableUpdateExcludesItself(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	e := entry("Monday", "09:00", "10:00", "Theory")
	require.NoError(t, f.timetableSvc.Create(ctx, e))
	require.NoError(t, f.timetableSvc.Create(ctx, entry("Monday", "10:00", "11:00", "Theory")))

	moved := entry("Monday", "09:00", "10:00", "Practical")
	require.NoError(t, f.timetableSvc.Update(ctx, e.ID, moved))

	clash := entry("Monday", "10:00", "11:00", "Theory")
	assert.ErrorIs(t, f.timetableSvc.Update(ctx, e.ID, clash), ErrDuplicateTimetableEntry)
}

func TestBuildGrid(t *testing.T) {
	alice := "Alice"
	slots := []model.TimeSlot{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "10:00", EndTime: "11:00"},
	}
	entries := []model.TimetableListing{
		{EntryID: 1, CourseName: "Chemistry", TeacherName: &alice, Day: "Monday", StartTime: "09:00", EndTime: "10:00", ClassType: "Theory"},
		{EntryID: 2, CourseName: "Physics", Day: "Monday", StartTime: "09:00", EndTime: "10:00", ClassType: "Theory"},
		{EntryID: 3, CourseName: "Physics", Day: "Friday", StartTime: "10:00", EndTime: "11:00", ClassType: "Practical"},
		{EntryID: 4, CourseName: "Ignored", Day: "Saturday", StartTime: "10:00", EndTime: "11:00", ClassType: "Theory"},
	}

	rows := BuildGrid(slots, entries)
	require.Len(t, rows, 2)

	for _, row := range rows {
		assert.Len(t, row.Days, len(model.Weekdays))
		for _, d := range model.Weekdays {
			assert.Contains(t, row.Days, d)
		}
	}

	first := rows[0].Days["Monday"]
	require.NotNil(t, first)
	assert.Equal(t, 1, first.EntryID)
	assert.Equal(t, "Alice", *first.TeacherName)
	assert.Nil(t, rows[0].Days["Tuesday"])

	assert.Equal(t, "10:00", rows[1].StartTime)
	require.NotNil(t, rows[1].Days["Friday"])
	assert.Equal(t, 3, rows[1].Days["Friday"].EntryID)
	assert.Nil(t, rows[1].Days["Friday"].TeacherName)
}

func TestGridForScope(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.timetableSvc.Create(ctx, entry("Wednesday", "08:00", "09:00", "Theory")))

	grid, err := f.timetableSvc.Grid(ctx, unsectionedScope())
	require.NoError(t, err)
	assert.Equal(t, model.Weekdays, grid.Days)
	require.Len(t, grid.Rows, 1)
	assert.NotNil(t, grid.Rows[0].Days["Wednesday"])

	grid, err = f.timetableSvc.Grid(ctx, sectionedScope())
	require.NoError(t, err)
	assert.Empty(t, grid.Rows)
}
