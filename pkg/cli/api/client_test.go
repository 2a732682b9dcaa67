package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/masteryyh/jobboard/pkg/listing"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/sony/gobreaker/v2"
)

func TestListSendsQueryAndReadsMeta(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"ok","data":[{"id":"0190c2d8-7b8e-7c4f-8d8a-2f8e3c0e4b11","name":"Northwind Labs","size":"startup"}],"meta":{"current_page":2,"last_page":5,"per_page":10,"total":47}}`))
	}))
	defer srv.Close()

	q := listing.NewListQuery(10)
	q.PageIndex = 1
	q.SearchText = "north"
	q.Filters["size"] = "startup"
	q.SortKey = "name"
	q.SortDirection = listing.SortDescending

	page, err := NewClient(srv.URL, WithAuth("admin", "secret")).Companies().List(context.Background(), q)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.TotalItems != 47 || page.TotalPages != 5 || page.Len() != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Items[0].Name != "Northwind Labs" || page.Items[0].Size != models.CompanySizeStartup {
		t.Fatalf("unexpected item %+v", page.Items[0])
	}

	params := got.URL.Query()
	if got.URL.Path != "/api/v1/companies" || params.Get("page") != "2" || params.Get("search") != "north" ||
		params.Get("filter[size]") != "startup" || params.Get("direction") != "desc" {
		t.Fatalf("unexpected request %s", got.URL)
	}
	if user, pass, ok := got.BasicAuth(); !ok || user != "admin" || pass != "secret" {
		t.Fatal("expected basic auth credentials")
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":422,"message":"the given data was invalid","errors":{"name":["is required"],"email":["must be a valid email address"]}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Candidates().Create(context.Background(), &models.CreateCandidateDto{})
	apiErr, ok := AsError(err)
	if !ok || !apiErr.IsValidation() {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if names := apiErr.FieldNames(); len(names) != 2 || names[0] != "email" || names[1] != "name" {
		t.Fatalf("unexpected fields %v", names)
	}
}

func TestDeleteWithForce(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		query = r.URL.RawQuery
		w.Write([]byte(`{"code":200,"message":"ok"}`))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).Companies().Delete(context.Background(), "abc", true); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if query != "force=true" {
		t.Fatalf("expected force flag, got %q", query)
	}
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	status := http.StatusInternalServerError
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		w.Write([]byte(`{"code":500,"message":"internal server error"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithBreaker(BreakerSettings{Failures: 2, Cooldown: time.Minute}))
	ctx := context.Background()
	for range 2 {
		if _, err := client.Users().Get(ctx, "x"); err == nil {
			t.Fatal("expected server error")
		}
	}

	_, err := client.Users().Get(ctx, "x")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected an open circuit, got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("open circuit must not reach the server, got %d hits", hits.Load())
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":404,"message":"user not found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithBreaker(BreakerSettings{Failures: 1, Cooldown: time.Minute}))
	for range 3 {
		_, err := client.Users().Get(context.Background(), "x")
		if apiErr, ok := AsError(err); !ok || !apiErr.IsNotFound() {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if hits.Load() != 3 {
		t.Fatalf("expected every request to reach the server, got %d", hits.Load())
	}
}

func TestFetchFuncDrivesView(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"message":"ok","data":[{"id":"0190c2d8-7b8e-7c4f-8d8a-2f8e3c0e4b11","name":"Ada","email":"ada@example.com","role":"admin","status":"active"}],"meta":{"current_page":1,"last_page":1,"per_page":10,"total":1}}`))
	}))
	defer srv.Close()

	view := listing.NewView(NewClient(srv.URL).Users().FetchFunc(), listing.NewListQuery(10))
	state := view.Load(context.Background())
	if state.Error != "" || !state.HasData || state.Data.Items[0].RecordID() != "0190c2d8-7b8e-7c4f-8d8a-2f8e3c0e4b11" {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestAllWalksEveryPage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("page") {
		case "1":
			w.Write([]byte(`{"code":200,"message":"ok","data":[{"id":"0190c2d8-7b8e-7c4f-8d8a-2f8e3c0e4b11","points":5},{"id":"0190c2d8-7b8e-7c4f-8d8a-2f8e3c0e4b12","points":7}],"meta":{"current_page":1,"last_page":2,"per_page":2,"total":3}}`))
		default:
			w.Write([]byte(`{"code":200,"message":"ok","data":[{"id":"0190c2d8-7b8e-7c4f-8d8a-2f8e3c0e4b13","points":9}],"meta":{"current_page":2,"last_page":2,"per_page":2,"total":3}}`))
		}
	}))
	defer srv.Close()

	all, err := NewClient(srv.URL).Transactions().All(context.Background(), listing.NewListQuery(2))
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 3 || all[2].Points != 9 {
		t.Fatalf("unexpected transactions %+v", all)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", calls.Load())
	}
}

func TestListKeepsRequestedPageSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"message":"ok","data":[` +
			`{"id":"0190c2d8-7b8e-7c4f-8d8a-2f8e3c0e4b11","points":1},` +
			`{"id":"0190c2d8-7b8e-7c4f-8d8a-2f8e3c0e4b12","points":2},` +
			`{"id":"0190c2d8-7b8e-7c4f-8d8a-2f8e3c0e4b13","points":3}],` +
			`"meta":{"current_page":1,"last_page":4,"per_page":3,"total":10}}`))
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL).Transactions().List(context.Background(), listing.NewListQuery(2))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Len() != 2 || page.TotalPages != 5 || page.TotalItems != 10 {
		t.Fatalf("expected 2 items over 5 pages, got %d over %d", page.Len(), page.TotalPages)
	}
}

func TestListRejectsOversizedPages(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Companies().List(context.Background(), listing.NewListQuery(250)); err == nil {
		t.Fatal("expected oversized page size to be rejected")
	}
	if calls.Load() != 0 {
		t.Fatal("expected no request to reach the server")
	}
}
