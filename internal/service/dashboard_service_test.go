package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardSource struct {
	calls     atomic.Int32
	recentErr error
}

func (f *fakeDashboardSource) GetSummaryCounts(context.Context) (model.DashboardSummary, error) {
	f.calls.Add(1)
	return model.DashboardSummary{Students: 40, Teachers: 3, MarkedToday: 12}, nil
}

func (f *fakeDashboardSource) GetTodayStatusCounts(context.Context) (map[model.AttendanceStatus]int, error) {
	return map[model.AttendanceStatus]int{model.StatusPresent: 10, model.StatusAbsent: 2}, nil
}

func (f *fakeDashboardSource) GetRecentSessions(_ context.Context, limit int) ([]repository.DashboardRecentSession, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return make([]repository.DashboardRecentSession, 0, limit), nil
}

func TestDashboardCollectsEveryPanel(t *testing.T) {
	src := &fakeDashboardSource{}
	svc := NewDashboardService(src, nil, time.Minute, testLog)
	svc.now = func() time.Time { return time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC) }

	data, err := svc.GetDashboardData(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 40, data.Summary.Students)
	assert.Equal(t, 2, data.TodayStatusCount[model.StatusAbsent])
	assert.NotNil(t, data.RecentSessions)
	assert.Equal(t, time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC), data.GeneratedAt)

	// Without Redis every call reaches the source.
	_, err = svc.GetDashboardData(context.Background(), false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestDashboardFailsWhenAnyQueryFails(t *testing.T) {
	src := &fakeDashboardSource{recentErr: errors.New("statement timeout")}
	svc := NewDashboardService(src, nil, 0, testLog)

	_, err := svc.GetDashboardData(context.Background(), false)
	assert.EqualError(t, err, "statement timeout")
}
