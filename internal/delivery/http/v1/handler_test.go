package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"planboard/internal/services"
	"planboard/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	logger := zerolog.Nop()
	plannerStore := store.NewPlanner(filepath.Join(dir, "planner.json"))
	benchStore := store.NewTestbench(filepath.Join(dir, "testbench.json"))

	planner := services.NewPlannerService(logger, plannerStore)
	suites := services.NewSuiteService(logger, benchStore)
	runs := services.NewRunService(logger, benchStore, nil)
	auth := services.NewAuthService(logger, benchStore, "planboard-test", []byte("test-signing-key"), 15*time.Minute)

	h := New(logger, planner, suites, runs, auth)

	router := gin.New()
	api := router.Group("/api/v1")
	api.GET("/timeline", h.HandleTimeline)
	api.GET("/database", h.HandleDatabaseStats)
	api.POST("/database", h.HandleDatabaseAction)
	api.POST("/projects", h.HandleCreateProject)
	api.GET("/projects/:id", h.HandleGetProject)
	api.POST("/tasks", h.HandleCreateTask)

	tokens := api.Group("/testbench/tokens", h.HandleAuthMiddleware)
	tokens.GET("", h.HandleListTokens)
	api.POST("/testbench/auth/register", h.HandleRegister)
	api.POST("/testbench/auth/login", h.HandleLogin)

	return router, auth
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleTimeline_WeekWindow(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/timeline?date=2024-03-13&zoom=week", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Zoom      string `json:"zoom"`
		Start     string `json:"start"`
		End       string `json:"end"`
		TotalDays int    `json:"totalDays"`
		Columns   []struct {
			Date  string `json:"date"`
			Label string `json:"label"`
		} `json:"columns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Start != "2024-02-25" || resp.End != "2024-04-07" {
		t.Fatalf("window = %s..%s", resp.Start, resp.End)
	}
	if len(resp.Columns) == 0 || resp.Columns[0].Date != "2024-02-25" {
		t.Fatalf("columns = %+v", resp.Columns)
	}
}

func TestHandleTimeline_RejectsBadZoom(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/timeline?zoom=hour", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestHandleCreateTask_UnknownProjectIs400(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"name":"Orphan","startDate":"2024-01-01","endDate":"2024-01-10","projectId":"nope"}`
	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestHandleGetProject_UnknownIdIs404(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/projects/missing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestHandleDatabaseAction_SeedThenStats(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/database", `{"action":"seed"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/database", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var stats struct {
		Projects    int `json:"projects"`
		TeamMembers int `json:"teamMembers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.Projects != 3 || stats.TeamMembers != 5 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestHandleDatabaseAction_RejectsUnknownAction(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/database", `{"action":"drop"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware_MissingHeaderIs401(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/testbench/tokens", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware_AcceptsJWTAndAPIToken(t *testing.T) {
	router, auth := newTestRouter(t)
	ctx := context.Background()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/testbench/auth/register",
		`{"email":"demo@example.com","password":"demo1234"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", rec.Code, rec.Body.String())
	}

	login, err := auth.Login(ctx, "demo@example.com", "demo1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+login.AccessToken)
	rec = doRequest(t, router, http.MethodGet, "/api/v1/testbench/tokens", "", header)
	if rec.Code != http.StatusOK {
		t.Fatalf("jwt status=%d body=%s", rec.Code, rec.Body.String())
	}

	created, err := auth.CreateToken(ctx, login.UserID, "ci token")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	header.Set("Authorization", "Bearer "+created.Secret)
	rec = doRequest(t, router, http.MethodGet, "/api/v1/testbench/tokens", "", header)
	if rec.Code != http.StatusOK {
		t.Fatalf("api token status=%d body=%s", rec.Code, rec.Body.String())
	}

	header.Set("Authorization", "Bearer nope.nope")
	rec = doRequest(t, router, http.MethodGet, "/api/v1/testbench/tokens", "", header)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status=%d body=%s", rec.Code, rec.Body.String())
	}
}
