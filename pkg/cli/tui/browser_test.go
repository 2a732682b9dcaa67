package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/masteryyh/jobboard/pkg/listing"
)

type item struct {
	id   string
	name string
}

func (i item) RecordID() string { return i.id }

type store struct {
	mu    sync.Mutex
	items []item
	fail  bool
}

func newStore(n int) *store {
	s := &store{}
	for i := range n {
		s.items = append(s.items, item{id: fmt.Sprintf("i%02d", i), name: fmt.Sprintf("item %02d", i)})
	}
	return s
}

func (s *store) fetch(_ context.Context, q listing.ListQuery) (listing.PagedResult[item], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return listing.PagedResult[item]{}, errors.New("server unavailable")
	}
	var matched []item
	for _, it := range s.items {
		if strings.Contains(it.name, q.SearchText) {
			matched = append(matched, it)
		}
	}
	if q.SortDirection == listing.SortDescending {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}
	start := min(q.PageIndex*q.PageSize, len(matched))
	end := min(start+q.PageSize, len(matched))
	return listing.NewPagedResult(matched[start:end], int64(len(matched)), q.PageSize), nil
}

func (s *store) delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.id == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (s *store) setFail(v bool) {
	s.mu.Lock()
	s.fail = v
	s.mu.Unlock()
}

func newModel(s *store) *Model[item] {
	m := New(context.Background(), Config[item]{
		Title: "Items",
		Columns: []Column[item]{
			{Title: "ID", Width: 6, Value: func(i item) string { return i.id }},
			{Title: "Name", Width: 20, Value: func(i item) string { return i.name }},
		},
		SortKeys: []string{"name", "createdAt"},
		Query:    listing.NewListQuery(5),
		Fetch:    s.fetch,
		Delete:   s.delete,
		Details:  func(i item) [][2]string { return [][2]string{{"Name", i.name}} },
	})
	m.Update(m.load()())
	return m
}

func press(m *Model[item], keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

// settle waits for background fetches and hands the final state to the model
// the way the program subscription would.
func settle(m *Model[item]) {
	m.view.Wait()
	m.Update(stateMsg[item]{state: m.view.State()})
}

func TestInitialLoad(t *testing.T) {
	m := newModel(newStore(12))
	if !m.state.HasData || m.state.Data.TotalPages != 3 {
		t.Fatalf("unexpected state %+v", m.state)
	}
	view := m.View()
	if !strings.Contains(view, "item 00") || !strings.Contains(view, "Page 1/3") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestPagingKeys(t *testing.T) {
	m := newModel(newStore(12))

	press(m, "right", "right", "right")
	settle(m)
	if m.state.Query.PageIndex != 2 {
		t.Fatalf("expected last page, got %d", m.state.Query.PageIndex)
	}
	if !strings.Contains(m.View(), "item 10") {
		t.Fatal("expected last page rows")
	}

	press(m, "left")
	settle(m)
	if m.state.Query.PageIndex != 1 {
		t.Fatalf("expected page index 1, got %d", m.state.Query.PageIndex)
	}
}

func TestSortKeysCycle(t *testing.T) {
	m := newModel(newStore(3))

	press(m, "s")
	settle(m)
	if q := m.state.Query; q.SortKey != "name" || q.SortDirection != listing.SortAscending {
		t.Fatalf("expected name asc, got %s %s", q.SortKey, q.SortDirection)
	}

	press(m, "S")
	settle(m)
	if m.state.Query.SortDirection != listing.SortDescending {
		t.Fatal("expected reversed order")
	}
	if m.state.Data.Items[0].id != "i02" {
		t.Fatalf("expected i02 first, got %s", m.state.Data.Items[0].id)
	}

	press(m, "s")
	settle(m)
	if m.state.Query.SortKey != "createdAt" {
		t.Fatalf("expected createdAt, got %s", m.state.Query.SortKey)
	}
}

func TestStaleStateIgnored(t *testing.T) {
	m := newModel(newStore(12))
	old := m.state

	press(m, "right")
	settle(m)
	m.Update(stateMsg[item]{state: old})
	if m.state.Query.PageIndex != 1 {
		t.Fatal("an older snapshot must not replace a newer one")
	}
}

func TestSearchResetsPage(t *testing.T) {
	m := newModel(newStore(12))
	press(m, "right")
	settle(m)

	press(m, "/", "1", "1")
	press(m, "enter")
	settle(m)
	if m.state.Query.SearchText != "11" || m.state.Query.PageIndex != 0 {
		t.Fatalf("unexpected query %+v", m.state.Query)
	}
	if m.state.Data.TotalItems != 1 {
		t.Fatalf("expected 1 match, got %d", m.state.Data.TotalItems)
	}
	if m.searching {
		t.Fatal("enter should leave search mode")
	}
}

func TestErrorKeepsRows(t *testing.T) {
	s := newStore(3)
	m := newModel(s)

	s.setFail(true)
	press(m, "r")
	settle(m)
	view := m.View()
	if !strings.Contains(view, "server unavailable") || !strings.Contains(view, "item 01") {
		t.Fatalf("expected error line above stale rows:\n%s", view)
	}

	s.setFail(false)
	press(m, "r")
	settle(m)
	if strings.Contains(m.View(), "server unavailable") {
		t.Fatal("expected error to clear after a successful retry")
	}
}

func TestDeleteWithConfirmation(t *testing.T) {
	s := newStore(6)
	m := newModel(s)

	if cmd := press(m, "d", "n"); cmd != nil {
		t.Fatal("declined delete must not run")
	}

	cmd := press(m, "d", "y")
	if cmd == nil {
		t.Fatal("expected a delete command")
	}
	m.Update(cmd())
	settle(m)
	if m.state.Data.TotalItems != 5 || m.state.Data.Items[0].id != "i01" {
		t.Fatalf("expected refetched page without i00, got %+v", m.state.Data)
	}
}

func TestDeletingLastRowOfPageStepsBack(t *testing.T) {
	s := newStore(6)
	m := newModel(s)
	press(m, "right")
	settle(m)
	if m.state.Query.PageIndex != 1 || m.state.Data.Len() != 1 {
		t.Fatalf("expected a single row on page 2, got %+v", m.state)
	}

	cmd := press(m, "d", "y")
	if cmd == nil {
		t.Fatal("expected a delete command")
	}
	m.Update(cmd())
	settle(m)
	settle(m)
	if m.state.Query.PageIndex != 0 || m.state.Data.Len() != 5 {
		t.Fatalf("expected to land on the last remaining page, got %+v", m.state)
	}
}

func TestDetailsToggle(t *testing.T) {
	m := newModel(newStore(2))
	press(m, "enter")
	if !m.showDetails || !strings.Contains(m.View(), "Name") {
		t.Fatal("expected details panel")
	}
	press(m, "esc")
	if m.showDetails {
		t.Fatal("esc should close the details panel first")
	}
}
