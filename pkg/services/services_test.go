package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/masteryyh/jobboard/pkg/config"
	"github.com/masteryyh/jobboard/pkg/conn"
	"github.com/masteryyh/jobboard/pkg/customerrors"
	"github.com/masteryyh/jobboard/pkg/listing"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
	"gorm.io/gorm"
)

func newSeededDB(t *testing.T) *gorm.DB {
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
	return db
}

func pageRequest(pageSize int, filters map[string]string) *pagination.PageRequest {
	q := listing.NewListQuery(pageSize)
	for k, v := range filters {
		q.Filters[k] = v
	}
	return &pagination.PageRequest{ListQuery: q}
}

func userID(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()
	user, err := gorm.G[models.User](db).Where("email = ?", email).First(context.Background())
	if err != nil {
		t.Fatalf("user %s not found: %v", email, err)
	}
	return user.ID
}

func TestListJobsPagesFilteredResults(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(newSeededDB(t))

	req := pageRequest(3, map[string]string{"status": "published"})
	page, err := svc.ListJobs(ctx, req)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if page.Meta.Total != 4 || page.Meta.LastPage != 2 || page.Meta.CurrentPage != 1 {
		t.Fatalf("unexpected meta %+v", page.Meta)
	}
	if len(page.Data) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(page.Data))
	}

	req.PageIndex = 1
	page, err = svc.ListJobs(ctx, req)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(page.Data) != 1 || page.Meta.CurrentPage != 2 {
		t.Fatalf("expected 1 row on page 2, got %d (%+v)", len(page.Data), page.Meta)
	}
}

func TestListJobsFilters(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(newSeededDB(t))

	cases := []struct {
		filters map[string]string
		want    int64
	}{
		{map[string]string{"remote": "true"}, 3},
		{map[string]string{"skill": "go"}, 2},
		{map[string]string{"salaryMin": "1000000"}, 2},
		{map[string]string{"type": "internship"}, 1},
		{map[string]string{"location": "boston", "experienceLevel": "senior"}, 1},
	}
	for _, c := range cases {
		page, err := svc.ListJobs(ctx, pageRequest(10, c.filters))
		if err != nil {
			t.Fatalf("ListJobs(%v) failed: %v", c.filters, err)
		}
		if page.Meta.Total != c.want {
			t.Fatalf("ListJobs(%v) total = %d, want %d", c.filters, page.Meta.Total, c.want)
		}
	}
}

func TestListJobsSearchIsCaseInsensitive(t *testing.T) {
	svc := NewJobService(newSeededDB(t))

	req := pageRequest(10, nil)
	req.SearchText = "ENGINEER"
	page, err := svc.ListJobs(context.Background(), req)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if page.Meta.Total != 2 {
		t.Fatalf("expected 2 engineering roles, got %d", page.Meta.Total)
	}
}

func TestListJobsSortsAndPricesRows(t *testing.T) {
	svc := NewJobService(newSeededDB(t))

	req := pageRequest(10, nil)
	req.SortKey = "title"
	req.SortDirection = listing.SortAscending
	page, err := svc.ListJobs(context.Background(), req)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(page.Data) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(page.Data))
	}
	if page.Data[0].Title != "Backend Engineer (Go)" || page.Data[5].Title != "QA Intern" {
		t.Fatalf("unexpected order: first %q last %q", page.Data[0].Title, page.Data[5].Title)
	}
	if page.Data[0].CompanyName != "Northwind Labs" || page.Data[0].ApplyPoints != 2 {
		t.Fatalf("unexpected company fields %q/%d", page.Data[0].CompanyName, page.Data[0].ApplyPoints)
	}
	if page.Data[2].Title != "Data Scientist" || page.Data[2].ApplyPoints != 16 {
		t.Fatalf("expected premium enterprise price 16, got %s/%d", page.Data[2].Title, page.Data[2].ApplyPoints)
	}
}

func TestListRejectsUnknownKeys(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(newSeededDB(t))

	if _, err := svc.ListJobs(ctx, pageRequest(10, map[string]string{"salary": "1"})); !errors.Is(err, customerrors.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
	if _, err := svc.ListJobs(ctx, pageRequest(10, map[string]string{"status": "archived"})); !errors.Is(err, customerrors.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter for bad enum, got %v", err)
	}

	req := pageRequest(10, nil)
	req.SortKey = "password"
	if _, err := svc.ListJobs(ctx, req); !errors.Is(err, customerrors.ErrInvalidSortKey) {
		t.Fatalf("expected ErrInvalidSortKey, got %v", err)
	}
}

func TestSearchEscapesWildcards(t *testing.T) {
	svc := NewCompanyService(newSeededDB(t))

	req := pageRequest(10, nil)
	req.SearchText = "%"
	page, err := svc.ListCompanies(context.Background(), req)
	if err != nil {
		t.Fatalf("ListCompanies failed: %v", err)
	}
	if page.Meta.Total != 0 {
		t.Fatalf("expected a literal %% search to match nothing, got %d", page.Meta.Total)
	}
}

func TestCompanyNameIsUnique(t *testing.T) {
	ctx := context.Background()
	svc := NewCompanyService(newSeededDB(t))

	_, err := svc.CreateCompany(ctx, &models.CreateCompanyDto{Name: "Northwind Labs", Size: models.CompanySizeStartup})
	if !errors.Is(err, customerrors.ErrCompanyAlreadyExists) {
		t.Fatalf("expected ErrCompanyAlreadyExists, got %v", err)
	}

	created, err := svc.CreateCompany(ctx, &models.CreateCompanyDto{Name: "Tailspin Toys", Size: models.CompanySizeStartup})
	if err != nil {
		t.Fatalf("CreateCompany failed: %v", err)
	}
	if _, err := svc.UpdateCompany(ctx, created.ID, &models.UpdateCompanyDto{Name: "Contoso Health"}); !errors.Is(err, customerrors.ErrCompanyAlreadyExists) {
		t.Fatalf("expected rename clash, got %v", err)
	}

	updated, err := svc.UpdateCompany(ctx, created.ID, &models.UpdateCompanyDto{Industry: "Toys"})
	if err != nil {
		t.Fatalf("UpdateCompany failed: %v", err)
	}
	if updated.Name != "Tailspin Toys" || updated.Industry != "Toys" {
		t.Fatalf("unexpected company %+v", updated)
	}
}

func TestDeleteCompanyWithListingsNeedsForce(t *testing.T) {
	ctx := context.Background()
	db := newSeededDB(t)
	companies := NewCompanyService(db)
	jobs := NewJobService(db)

	req := pageRequest(10, nil)
	req.SearchText = "northwind"
	page, err := companies.ListCompanies(ctx, req)
	if err != nil || len(page.Data) != 1 {
		t.Fatalf("expected to find Northwind Labs, got %v %v", page, err)
	}
	id := page.Data[0].ID

	if err := companies.DeleteCompany(ctx, id, false); !errors.Is(err, customerrors.ErrCompanyInUse) {
		t.Fatalf("expected ErrCompanyInUse, got %v", err)
	}
	if err := companies.DeleteCompany(ctx, id, true); err != nil {
		t.Fatalf("forced delete failed: %v", err)
	}
	if _, err := companies.GetCompany(ctx, id); !errors.Is(err, customerrors.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound after delete, got %v", err)
	}

	remaining, err := jobs.ListJobs(ctx, pageRequest(10, nil))
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if remaining.Meta.Total != 4 {
		t.Fatalf("expected the company's 2 listings to be deleted, %d left", remaining.Meta.Total)
	}
}

func TestCreateJobChecksCompanyAndSalary(t *testing.T) {
	ctx := context.Background()
	db := newSeededDB(t)
	svc := NewJobService(db)

	_, err := svc.CreateJob(ctx, &models.CreateJobListingDto{
		CompanyID:       uuid.New(),
		Title:           "Ghost",
		Type:            models.JobTypeFullTime,
		ExperienceLevel: models.JobLevelMid,
	})
	if !errors.Is(err, customerrors.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	company, err := NewCompanyService(db).CreateCompany(ctx, &models.CreateCompanyDto{Name: "Adatum", Size: models.CompanySizeMidCompany})
	if err != nil {
		t.Fatalf("CreateCompany failed: %v", err)
	}
	job, err := svc.CreateJob(ctx, &models.CreateJobListingDto{
		CompanyID:       company.ID,
		Title:           "SRE",
		Type:            models.JobTypeFullTime,
		ExperienceLevel: models.JobLevelMid,
		SalaryMin:       100,
		SalaryMax:       200,
		Status:          models.JobStatusPublished,
		Skills:          []string{"go", "go", "linux"},
	})
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	if job.PostedAt == nil || job.SalaryCurrency != "USD" || len(job.Skills) != 2 {
		t.Fatalf("unexpected job %+v", job)
	}
	if job.CompanyName != "Adatum" || job.ApplyPoints != 6 {
		t.Fatalf("unexpected company fields %q/%d", job.CompanyName, job.ApplyPoints)
	}

	low := int64(300)
	_, err = svc.UpdateJob(ctx, job.ID, &models.UpdateJobListingDto{SalaryMin: &low})
	verr := customerrors.GetValidationError(err)
	if verr == nil || len(verr.Fields["salaryMax"]) != 1 {
		t.Fatalf("expected salary validation error, got %v", err)
	}
}

func TestUpdateJobPublishesDraft(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(newSeededDB(t))

	page, err := svc.ListJobs(ctx, pageRequest(10, map[string]string{"status": "draft"}))
	if err != nil || len(page.Data) != 1 {
		t.Fatalf("expected one draft, got %v %v", page, err)
	}
	draft := page.Data[0]
	if draft.PostedAt != nil {
		t.Fatal("draft must not have a posted date")
	}

	updated, err := svc.UpdateJob(ctx, draft.ID, &models.UpdateJobListingDto{Status: models.JobStatusPublished})
	if err != nil {
		t.Fatalf("UpdateJob failed: %v", err)
	}
	if updated.PostedAt == nil || updated.Title != draft.Title || len(updated.Skills) != 3 {
		t.Fatalf("unexpected update result %+v", updated)
	}

	reloaded, err := svc.GetJob(ctx, draft.ID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if reloaded.Status != models.JobStatusPublished || reloaded.SalaryMax != draft.SalaryMax {
		t.Fatalf("update not persisted: %+v", reloaded)
	}

	if err := svc.DeleteJob(ctx, draft.ID); err != nil {
		t.Fatalf("DeleteJob failed: %v", err)
	}
	if err := svc.DeleteJob(ctx, draft.ID); !errors.Is(err, customerrors.ErrJobListingNotFound) {
		t.Fatalf("expected ErrJobListingNotFound on second delete, got %v", err)
	}
}

func TestCandidatesArePriced(t *testing.T) {
	ctx := context.Background()
	svc := NewCandidateService(newSeededDB(t))

	req := pageRequest(10, map[string]string{"hasPortfolio": "true"})
	req.SortKey = "name"
	req.SortDirection = listing.SortDescending
	page, err := svc.ListCandidates(ctx, req)
	if err != nil {
		t.Fatalf("ListCandidates failed: %v", err)
	}
	if len(page.Data) != 2 || page.Data[0].Name != "Priya Raman" {
		t.Fatalf("unexpected candidates %+v", page.Data)
	}
	if page.Data[0].ResumeAccessPoints != 35 {
		t.Fatalf("expected capped price 35, got %d", page.Data[0].ResumeAccessPoints)
	}

	req = pageRequest(10, map[string]string{"experienceLevel": "mid"})
	page, err = svc.ListCandidates(ctx, req)
	if err != nil || len(page.Data) != 1 {
		t.Fatalf("expected one mid candidate, got %v %v", page, err)
	}
	if page.Data[0].ResumeAccessPoints != 10 {
		t.Fatalf("expected base price 10, got %d", page.Data[0].ResumeAccessPoints)
	}
}

func TestCandidateEmailIsUniqueIgnoringCase(t *testing.T) {
	svc := NewCandidateService(newSeededDB(t))

	_, err := svc.CreateCandidate(context.Background(), &models.CreateCandidateDto{
		Name:            "Priya R",
		Email:           "PRIYA.RAMAN@example.com",
		ExperienceLevel: models.CandidateLevelSenior,
	})
	if !errors.Is(err, customerrors.ErrCandidateAlreadyExists) {
		t.Fatalf("expected ErrCandidateAlreadyExists, got %v", err)
	}
}

func TestUserFiltersAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	db := newSeededDB(t)
	svc := NewUserService(db)

	page, err := svc.ListUsers(ctx, pageRequest(10, map[string]string{"role": "candidate"}))
	if err != nil || page.Meta.Total != 2 {
		t.Fatalf("expected 2 candidates, got %v %v", page, err)
	}

	suspended := userID(t, db, "spam@example.com")
	if err := svc.DeleteUser(ctx, suspended); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	page, err = svc.ListUsers(ctx, pageRequest(10, map[string]string{"status": "suspended"}))
	if err != nil || page.Meta.Total != 0 {
		t.Fatalf("deleted user still listed: %v %v", page, err)
	}

	updated, err := svc.UpdateUser(ctx, userID(t, db, "hiring@northwind.example.com"), &models.UpdateUserDto{Status: models.UserStatusSuspended})
	if err != nil || updated.Status != models.UserStatusSuspended || updated.Role != models.UserRoleEmployer {
		t.Fatalf("unexpected update %+v %v", updated, err)
	}
}

func TestSpendingIsLimitedByBalance(t *testing.T) {
	ctx := context.Background()
	db := newSeededDB(t)
	svc := NewWalletService(db)
	employer := userID(t, db, "hiring@northwind.example.com")

	_, err := svc.CreateTransaction(ctx, &models.CreateTransactionDto{
		UserID: employer, Type: models.TransactionSpent, Category: "resume_access", Points: 57,
	})
	if verr := customerrors.GetValidationError(err); verr == nil || len(verr.Fields["points"]) != 1 {
		t.Fatalf("expected balance validation error, got %v", err)
	}

	tx, err := svc.CreateTransaction(ctx, &models.CreateTransactionDto{
		UserID: employer, Type: models.TransactionSpent, Category: "resume_access", Points: 56,
	})
	if err != nil {
		t.Fatalf("spending the whole balance failed: %v", err)
	}

	summary, err := svc.Summary(ctx, employer)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Balance != 0 || summary.TotalSpent != 100 || summary.TransactionCount != 4 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if _, err := svc.CreateTransaction(ctx, &models.CreateTransactionDto{
		UserID: uuid.New(), Type: models.TransactionEarned, Points: 1,
	}); !errors.Is(err, customerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	updated, err := svc.UpdateTransaction(ctx, tx.ID, &models.UpdateTransactionDto{Description: "Bulk unlock"})
	if err != nil || updated.Description != "Bulk unlock" || updated.Points != 56 {
		t.Fatalf("unexpected update %+v %v", updated, err)
	}
}

func TestWalletSummaryAndListing(t *testing.T) {
	ctx := context.Background()
	db := newSeededDB(t)
	svc := NewWalletService(db)
	employer := userID(t, db, "hiring@northwind.example.com")

	summary, err := svc.Summary(ctx, employer)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalEarned != 100 || summary.TotalSpent != 44 || summary.ROI != 127.27 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	req := pageRequest(10, map[string]string{"userId": employer.String()})
	req.SortKey = "points"
	req.SortDirection = listing.SortDescending
	page, err := svc.ListTransactions(ctx, req)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if page.Meta.Total != 3 || page.Data[0].Points != 100 || page.Data[2].Points != 11 {
		t.Fatalf("unexpected transactions %+v", page.Data)
	}

	if err := svc.DeleteTransaction(ctx, page.Data[2].ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if _, err := svc.GetTransaction(ctx, page.Data[2].ID); !errors.Is(err, customerrors.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}
