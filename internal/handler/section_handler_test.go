package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
	"github.com/stemsi/presensi-backend/internal/service"
	"github.com/stemsi/presensi-backend/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairSections answers ExistsForPair independently of ListByPair so the
// handler's flag can be traced to its source.
type pairSections struct {
	repository.SectionRepository
	listed []model.Section
	exists bool
}

func (p *pairSections) ListByPair(context.Context, int, int) ([]model.Section, error) {
	return p.listed, nil
}

func (p *pairSections) ExistsForPair(context.Context, int, int) (bool, error) {
	return p.exists, nil
}

func TestListSectionsReportsEnabledFromSectionsTable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator.Setup()

	tests := []struct {
		name   string
		repo   *pairSections
		want   bool
		listed int
	}{
		{"no sections", &pairSections{listed: []model.Section{}}, false, 0},
		{"sectioned pair", &pairSections{
			listed: []model.Section{{ID: 10, Name: "A", BatchID: 1, DepartmentID: 2}},
			exists: true,
		}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSectionHandler(service.NewSectionService(tt.repo, nil, zerolog.Nop()))
			r := gin.New()
			r.GET("/sections", h.ListSections)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sections?batch_id=1&department_id=2", nil))
			require.Equal(t, http.StatusOK, w.Code)

			data, ok := decodeEnvelope(t, w).Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.want, data["sections_enabled"])
			assert.Len(t, data["sections"], tt.listed)
		})
	}
}
