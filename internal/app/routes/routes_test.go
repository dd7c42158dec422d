package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/curriculum/internal/app/controllers"
	"github.com/yigit/curriculum/internal/app/models"
	"github.com/yigit/curriculum/internal/app/services"
	"github.com/yigit/curriculum/internal/middleware"
	"github.com/yigit/curriculum/internal/seed"
)

type fakeStore struct {
	program *models.Program
	saveErr error
}

func (f *fakeStore) Exists(context.Context) (bool, error) { return f.program != nil, nil }

func (f *fakeStore) Load(context.Context) (*models.Program, error) { return f.program.Clone(), nil }

func (f *fakeStore) Save(_ context.Context, p *models.Program) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.program = p.Clone()
	return nil
}

func setupTestRouter(t *testing.T) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	program, err := seed.DefaultFactory().Build()
	require.NoError(t, err)
	store := &fakeStore{program: program}

	svc, err := services.NewCurriculumService(context.Background(), store, services.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	tmpl, err := controllers.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.SetHTMLTemplate(tmpl)
	SetupRouter(router, controllers.NewCourseController(svc), controllers.NewDashboardController(svc))
	return router, store
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetCourse(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := perform(router, http.MethodGet, "/api/course/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Course 1.1", body["title"])
	assert.Equal(t, float64(5), body["credits"])
	assert.Equal(t, float64(1), body["semesterNumber"])
	assert.Equal(t, false, body["enrolled"])
	grade, present := body["grade"]
	assert.True(t, present)
	assert.Nil(t, grade)
}

func TestGetCourse_Errors(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := perform(router, http.MethodGet, "/api/course/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())

	w = perform(router, http.MethodGet, "/api/course/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid course id", decode(t, w)["error"])
}

func TestUpdateCourse(t *testing.T) {
	router, store := setupTestRouter(t)

	w := perform(router, http.MethodPost, "/api/course/1", `{"enrolled":true,"grade":"2,3"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"id": 1,
		"status": "passed",
		"label": "2.3",
		"title": "Course 1.1",
		"metrics": {"earned": 5, "average": 2.3, "required": 180}
	}`, w.Body.String())

	persisted, _ := store.program.Course(1)
	require.NotNil(t, persisted.Grade())
	assert.Equal(t, 2.3, *persisted.Grade())
}

func TestUpdateCourse_LegacyAlias(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := perform(router, http.MethodPost, "/api/module/2", `{"belegt":true,"note":null,"titel":"ignored"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "?", body["label"])
	assert.Equal(t, "Course 1.2", body["title"])

	w = perform(router, http.MethodGet, "/api/module/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["enrolled"])
}

func TestUpdateCourse_EnglishKeyWins(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := perform(router, http.MethodPost, "/api/course/3", `{"enrolled":false,"belegt":true,"grade":null,"note":"1.0"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "unregistered", body["status"])
	assert.Equal(t, "", body["label"])
}

func TestUpdateCourse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "not a number", path: "/api/course/1", body: `{"grade":"abc"}`, wantStatus: http.StatusBadRequest, wantError: "not a number"},
		{name: "out of range", path: "/api/course/1", body: `{"grade":7.5}`, wantStatus: http.StatusBadRequest, wantError: "out of range"},
		{name: "empty title", path: "/api/course/1", body: `{"title":" "}`, wantStatus: http.StatusBadRequest, wantError: "empty title"},
		{name: "overflowing number", path: "/api/course/4", body: `{"grade":1e400}`, wantStatus: http.StatusBadRequest, wantError: "out of range"},
		{name: "hex grade", path: "/api/course/1", body: `{"grade":"0x1p1"}`, wantStatus: http.StatusBadRequest, wantError: "not a number"},
		{name: "numeric title", path: "/api/course/1", body: `{"title":42}`, wantStatus: http.StatusBadRequest, wantError: "empty title"},
		{name: "malformed json", path: "/api/course/1", body: `{"grade":`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "array body", path: "/api/course/1", body: `[1,2]`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "unknown id", path: "/api/course/999", body: `{"grade":"abc"}`, wantStatus: http.StatusNotFound, wantError: "not found"},
		{name: "bad id", path: "/api/course/x", body: `{}`, wantStatus: http.StatusBadRequest, wantError: "invalid course id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupTestRouter(t)

			w := perform(router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decode(t, w)["error"])

			w = perform(router, http.MethodGet, "/api/course/1", "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Nil(t, decode(t, w)["grade"])
		})
	}
}

func TestUpdateCourse_NumericEnrolment(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := perform(router, http.MethodPost, "/api/course/5", `{"enrolled":1,"grade":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3.0", decode(t, w)["label"])

	w = perform(router, http.MethodGet, "/api/course/5", "")
	body := decode(t, w)
	assert.Equal(t, true, body["enrolled"])
	assert.Equal(t, float64(3), body["grade"])

	w = perform(router, http.MethodPost, "/api/course/5", `{"enrolled":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = perform(router, http.MethodGet, "/api/course/5", "")
	assert.Equal(t, false, decode(t, w)["enrolled"])
}

func TestUpdateCourse_StoreFailure(t *testing.T) {
	router, store := setupTestRouter(t)
	store.saveErr = errors.New("read-only file system")

	w := perform(router, http.MethodPost, "/api/course/1", `{"grade":1.0}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to save catalog", decode(t, w)["error"])
	assert.NotContains(t, w.Body.String(), "read-only file system")

	w = perform(router, http.MethodGet, "/api/course/1", "")
	assert.Nil(t, decode(t, w)["grade"])
}

func TestDashboard(t *testing.T) {
	router, _ := setupTestRouter(t)
	perform(router, http.MethodPost, "/api/course/1", `{"grade":2.0}`)

	w := perform(router, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Grid []struct {
			Semester int `json:"semester"`
			Courses  []struct {
				ID     int64  `json:"id"`
				Status string `json:"status"`
				Label  string `json:"label"`
			} `json:"courses"`
		} `json:"grid"`
		Metrics struct {
			Earned   int      `json:"earned"`
			Average  *float64 `json:"average"`
			Required int      `json:"required"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Grid, 6)
	assert.Equal(t, "passed", body.Grid[0].Courses[0].Status)
	assert.Equal(t, "2.0", body.Grid[0].Courses[0].Label)
	assert.Equal(t, 5, body.Metrics.Earned)
	assert.Equal(t, 180, body.Metrics.Required)
}

func TestIndexPage(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := perform(router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Credits: 0 / 180")
	assert.Contains(t, w.Body.String(), "Average grade: n/a")
	assert.Contains(t, w.Body.String(), "Course 6.6")
}

func TestHealthAndRequestID(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := perform(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}
