package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/jobboard/pkg/config"
	"github.com/masteryyh/jobboard/pkg/conn"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
)

type envelope struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Meta    *pagination.Meta    `json:"meta"`
	Errors  map[string][]string `json:"errors"`
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()
	db, err := conn.OpenDB(ctx, &config.DatabaseConfig{Driver: config.DBDriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	data, err := conn.LoadFixtures("")
	if err != nil {
		t.Fatalf("LoadFixtures failed: %v", err)
	}
	if _, err := conn.Seed(ctx, db, data); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", HealthHandler(db))
	if err := NewV1Routes(db).RegisterRoutes(r.Group("/api/v1")); err != nil {
		t.Fatalf("RegisterRoutes failed: %v", err)
	}
	return r
}

func do(t *testing.T, r http.Handler, method, target, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid body %q: %v", method, target, w.Body.String(), err)
	}
	return w.Code, env
}

func TestListJobListingsEnvelope(t *testing.T) {
	r := newTestServer(t)

	status, env := do(t, r, http.MethodGet, "/api/v1/job-listings?filter[status]=published&pageSize=3&page=2&sort=title", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, env.Message)
	}
	if env.Meta == nil || env.Meta.Total != 4 || env.Meta.LastPage != 2 || env.Meta.CurrentPage != 2 || env.Meta.PerPage != 3 {
		t.Fatalf("unexpected meta %+v", env.Meta)
	}

	var rows []map[string]any
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if len(rows) != 1 || rows[0]["title"] != "Frontend Engineer (React)" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestEmptyPageIsAnArray(t *testing.T) {
	r := newTestServer(t)

	status, env := do(t, r, http.MethodGet, "/api/v1/companies?search=nothing-matches", "")
	if status != http.StatusOK || string(env.Data) != "[]" {
		t.Fatalf("expected an empty array, got %d %s", status, env.Data)
	}
	if env.Meta.Total != 0 || env.Meta.LastPage != 0 {
		t.Fatalf("unexpected meta %+v", env.Meta)
	}
}

func TestListRejectsBadQueries(t *testing.T) {
	r := newTestServer(t)

	for _, target := range []string{
		"/api/v1/users?page=0",
		"/api/v1/users?pageSize=-1",
		"/api/v1/users?sort=password",
		"/api/v1/users?filter[password]=x",
		"/api/v1/users?sort=name&direction=up",
	} {
		if status, env := do(t, r, http.MethodGet, target, ""); status != http.StatusBadRequest || env.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, status)
		}
	}
}

func TestCreateValidationErrors(t *testing.T) {
	r := newTestServer(t)

	status, env := do(t, r, http.MethodPost, "/api/v1/companies", `{"name":"","size":"huge"}`)
	if status != http.StatusUnprocessableEntity || env.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if len(env.Errors["name"]) != 1 || len(env.Errors["size"]) != 1 {
		t.Fatalf("expected name and size errors, got %v", env.Errors)
	}

	_, env = do(t, r, http.MethodGet, "/api/v1/companies?search=northwind", "")
	var companies []map[string]any
	if err := json.Unmarshal(env.Data, &companies); err != nil || len(companies) != 1 {
		t.Fatalf("expected Northwind Labs, got %s", env.Data)
	}

	body := `{"companyId":"` + companies[0]["id"].(string) + `","title":"SRE","type":"full-time","experienceLevel":"mid","salaryMin":200,"salaryMax":100,"salaryCurrency":"usd"}`
	status, env = do(t, r, http.MethodPost, "/api/v1/job-listings", body)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if len(env.Errors["salaryMax"]) != 1 || len(env.Errors["salaryCurrency"]) != 1 {
		t.Fatalf("expected salary errors, got %v", env.Errors)
	}
}

func TestCreateUpdateDeleteCandidate(t *testing.T) {
	r := newTestServer(t)

	status, env := do(t, r, http.MethodPost, "/api/v1/candidates",
		`{"name":"Mei Chen","email":"mei@example.com","experienceLevel":"junior","skills":["vue"]}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s %v)", status, env.Message, env.Errors)
	}
	var created map[string]any
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	id := created["id"].(string)
	if created["resumeAccessPoints"] != float64(4) {
		t.Fatalf("expected junior price 4 with a 1.1 skill rounded down, got %v", created["resumeAccessPoints"])
	}

	status, env = do(t, r, http.MethodPut, "/api/v1/candidates/"+id, `{"headline":"Vue developer"}`)
	if status != http.StatusOK || !strings.Contains(string(env.Data), "Vue developer") {
		t.Fatalf("update failed: %d %s", status, env.Data)
	}

	if status, _ := do(t, r, http.MethodPost, "/api/v1/candidates",
		`{"name":"Mei","email":"MEI@example.com","experienceLevel":"junior"}`); status != http.StatusConflict {
		t.Fatalf("expected 409 for a duplicate email, got %d", status)
	}

	status, env = do(t, r, http.MethodPost, "/api/v1/candidates",
		`{"name":"Ravi Patel","email":"ravi@example.com","yearsOfExperience":7}`)
	if status != http.StatusCreated || !strings.Contains(string(env.Data), `"experienceLevel":"senior"`) {
		t.Fatalf("expected a senior level derived from 7 years, got %d %s", status, env.Data)
	}
	if status, env := do(t, r, http.MethodPost, "/api/v1/candidates",
		`{"name":"Nobody","email":"nobody@example.com"}`); status != http.StatusUnprocessableEntity || len(env.Errors["experienceLevel"]) != 1 {
		t.Fatalf("expected 422 without level or years, got %d %v", status, env.Errors)
	}

	if status, _ := do(t, r, http.MethodDelete, "/api/v1/candidates/"+id, ""); status != http.StatusOK {
		t.Fatalf("delete failed: %d", status)
	}
	if status, _ := do(t, r, http.MethodGet, "/api/v1/candidates/"+id, ""); status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
	if status, _ := do(t, r, http.MethodGet, "/api/v1/candidates/not-a-uuid", ""); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad id, got %d", status)
	}
}

func TestDeleteCompanyInUse(t *testing.T) {
	r := newTestServer(t)

	_, env := do(t, r, http.MethodGet, "/api/v1/companies?search=contoso", "")
	var companies []map[string]any
	if err := json.Unmarshal(env.Data, &companies); err != nil || len(companies) != 1 {
		t.Fatalf("expected Contoso Health, got %s", env.Data)
	}
	target := "/api/v1/companies/" + companies[0]["id"].(string)

	if status, _ := do(t, r, http.MethodDelete, target, ""); status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if status, _ := do(t, r, http.MethodDelete, target+"?force=true", ""); status != http.StatusOK {
		t.Fatalf("expected forced delete to succeed, got %d", status)
	}
}

func TestWalletSummary(t *testing.T) {
	r := newTestServer(t)

	if status, env := do(t, r, http.MethodGet, "/api/v1/wallet/summary", ""); status != http.StatusUnprocessableEntity || len(env.Errors["userId"]) != 1 {
		t.Fatalf("expected 422 without userId, got %d", status)
	}

	_, env := do(t, r, http.MethodGet, "/api/v1/users?search=hiring", "")
	var users []map[string]any
	if err := json.Unmarshal(env.Data, &users); err != nil || len(users) != 1 {
		t.Fatalf("expected the hiring manager, got %s", env.Data)
	}

	status, env := do(t, r, http.MethodGet, "/api/v1/wallet/summary?userId="+users[0]["id"].(string), "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var summary map[string]any
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if summary["balance"] != float64(56) || summary["transactionCount"] != float64(3) {
		t.Fatalf("unexpected summary %v", summary)
	}
}

func TestHealthz(t *testing.T) {
	r := newTestServer(t)
	status, env := do(t, r, http.MethodGet, "/healthz", "")
	if status != http.StatusOK || !strings.Contains(string(env.Data), `"status":"ok"`) {
		t.Fatalf("expected healthy, got %d %s", status, env.Data)
	}
}

func TestHandlersUseRequestContext(t *testing.T) {
	r := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code == http.StatusOK {
		t.Fatalf("expected the cancelled request to abort its query, got %d %s", w.Code, w.Body.String())
	}
}
