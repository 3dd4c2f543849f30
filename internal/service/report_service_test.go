package service

import (
	"testing"

	"github.com/stemsi/presensi-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 100.0, Percentage(3, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 0.0, Percentage(0, 7))
}

func TestToReportRows(t *testing.T) {
	rows := toReportRows([]repository.ReportCounts{
		{StudentID: "S1", StudentName: "One", Total: 4, Present: 3},
		{StudentID: "S2", StudentName: "Two"},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, 75.0, rows[0].Percentage)
	assert.Equal(t, 0.0, rows[1].Percentage)
	assert.Equal(t, "Two", rows[1].StudentName)
}
