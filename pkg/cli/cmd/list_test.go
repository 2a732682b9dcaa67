package cmd

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/masteryyh/jobboard/pkg/cli/api"
	"github.com/masteryyh/jobboard/pkg/listing"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/spf13/cobra"
)

func listCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "list"}
	addListFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return cmd
}

func TestListQueryFromFlags(t *testing.T) {
	cmd := listCommand(t, "--search", " golang ", "--filter", "status=published", "--filter", "remote=true",
		"--sort", "title", "--desc", "--page", "3", "--page-size", "25")

	q, err := listQueryFromFlags(cmd, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.SearchText != "golang" || q.PageIndex != 2 || q.PageSize != 25 {
		t.Fatalf("unexpected query %+v", q)
	}
	if q.Filters["status"] != "published" || q.Filters["remote"] != "true" {
		t.Fatalf("unexpected filters %v", q.Filters)
	}
	if q.SortKey != "title" || q.SortDirection != listing.SortDescending {
		t.Fatalf("unexpected sort %s %s", q.SortKey, q.SortDirection)
	}
}

func TestListQueryFromFlagsDefaults(t *testing.T) {
	q, err := listQueryFromFlags(listCommand(t), 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.PageIndex != 0 || q.PageSize != 15 || q.SortKey != "" || q.SortDirection != "" {
		t.Fatalf("unexpected defaults %+v", q)
	}
}

func TestListQueryFromFlagsRejectsBadInput(t *testing.T) {
	if _, err := listQueryFromFlags(listCommand(t, "--filter", "status"), 10); err == nil {
		t.Fatal("expected error for a filter without value")
	}
	if _, err := listQueryFromFlags(listCommand(t, "--page", "0"), 10); err == nil {
		t.Fatal("expected error for page 0")
	}
	if _, err := listQueryFromFlags(listCommand(t, "--page-size", "250"), 10); err == nil {
		t.Fatal("expected error for a page size above the server maximum")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" go, sql ,,go, kubernetes ")
	if len(got) != 3 || got[0] != "go" || got[1] != "sql" || got[2] != "kubernetes" {
		t.Fatalf("unexpected skills %v", got)
	}
}

func TestSignedPoints(t *testing.T) {
	if got := signedPoints(models.TransactionDto{Type: models.TransactionSpent, Points: 12}); got != "-12" {
		t.Fatalf("expected -12, got %s", got)
	}
	if got := signedPoints(models.TransactionDto{Type: models.TransactionEarned, Points: 5}); got != "+5" {
		t.Fatalf("expected +5, got %s", got)
	}
}

func TestCLIConfigValidate(t *testing.T) {
	cfg := defaultCLIConfig()
	cfg.BaseURL = ""
	cfg.PageSize = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != defaultBaseURL || cfg.PageSize != listing.DefaultPageSize {
		t.Fatalf("expected defaults to be restored, got %+v", cfg)
	}

	cfg.Debounce = 100 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected debounce below the minimum to be rejected")
	}
	cfg.Debounce = time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected debounce above the maximum to be rejected")
	}

	cfg = defaultCLIConfig()
	cfg.PageSize = 250
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected page size above the server maximum to be rejected")
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := &api.Error{Status: http.StatusNotFound, Code: http.StatusNotFound, Message: "candidate not found"}
	msg := notFoundMessage(err)
	if !strings.HasPrefix(msg, "candidate not found") || !strings.Contains(msg, "deleted") {
		t.Fatalf("unexpected message %q", msg)
	}
}
