package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ok", func(c *gin.Context) { Success(c, http.StatusOK, gin.H{"n": 1}) })
	r.GET("/bad", func(c *gin.Context) {
		FailWithDetail(c, http.StatusConflict, ErrAlreadyMarked, "2024-03-04 09:00")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	var ok Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.Equal(t, "req-1", ok.Metadata.RequestID)
	assert.Nil(t, ok.Error)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))

	var bad Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bad))
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, bad.Error)
	assert.Equal(t, ErrAlreadyMarked, bad.Error.Code)
	assert.Equal(t, GetMessage(ErrAlreadyMarked), bad.Error.Message)
	assert.Equal(t, "2024-03-04 09:00", bad.Error.Fields["detail"])
	assert.NotEmpty(t, bad.Metadata.RequestID)
}

func TestRequestIDRejectsUnsafeHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	for header, keep := range map[string]bool{
		"abc-123_x.y":           true,
		"has space":             false,
		"line\tbreak":           false,
		strings.Repeat("a", 65): false,
		strings.Repeat("a", 64): true,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header["X-Request-Id"] = []string{header}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if keep {
			assert.Equal(t, header, w.Body.String())
		} else {
			assert.NotEqual(t, header, w.Body.String())
			assert.Len(t, w.Body.String(), 36)
		}
		assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
	}
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, &Pagination{Page: 2, PerPage: 50, TotalItems: 101, TotalPages: 3}, NewPagination(2, 50, 101))
	assert.Equal(t, 0, NewPagination(1, 50, 0).TotalPages)
}
