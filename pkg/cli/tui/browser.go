/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package tui is the interactive list browser of the CLI. It renders a
// listing.View and turns key presses into query changes; fetch results reach
// the bubbletea program as messages and are applied in Version order.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/masteryyh/jobboard/pkg/listing"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
)

// Column is one table column of a browser.
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// Config describes what a browser shows and how it talks to the server.
type Config[T listing.Record] struct {
	Title    string
	Columns  []Column[T]
	SortKeys []string
	Query    listing.ListQuery
	Debounce time.Duration

	Fetch listing.FetchFunc[T]
	// Delete removes a record by id. Deletion is disabled when nil.
	Delete func(ctx context.Context, id string) error
	// Details lists the label and value pairs shown for the selected record.
	Details func(T) [][2]string
}

type stateMsg[T any] struct {
	state listing.State[T]
}

type deletedMsg struct {
	id  string
	err error
}

type Model[T listing.Record] struct {
	cfg  Config[T]
	ctx  context.Context
	view *listing.View[T]

	state   listing.State[T]
	table   table.Model
	search  textinput.Model
	spinner spinner.Model
	help    help.Model

	searching     bool
	pendingDelete string
	showDetails   bool
	status        string
	width         int
}

func New[T listing.Record](ctx context.Context, cfg Config[T]) *Model[T] {
	applyColorProfile()

	opts := []listing.FetcherOption{}
	if cfg.Debounce > 0 {
		opts = append(opts, listing.WithDebounce(cfg.Debounce))
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.SetValue(cfg.Query.SearchText)

	t := table.New(
		table.WithColumns(lo.Map(cfg.Columns, func(c Column[T], _ int) table.Column {
			return table.Column{Title: c.Title, Width: c.Width}
		})),
		table.WithFocused(true),
		table.WithHeight(max(cfg.Query.PageSize, 1)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	t.SetStyles(styles)

	return &Model[T]{
		cfg:     cfg,
		ctx:     ctx,
		view:    listing.NewView(cfg.Fetch, cfg.Query, opts...),
		table:   t,
		search:  search,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
	}
}

// Run shows the browser until the user quits or ctx is done.
func Run[T listing.Record](ctx context.Context, cfg Config[T]) error {
	m := New(ctx, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the event loop reads the message, and Update may be
	// the goroutine that triggered the notification.
	m.view.Fetcher().Subscribe(func(s listing.State[T]) {
		go p.Send(stateMsg[T]{state: s})
	})

	_, err := p.Run()
	m.view.Wait()
	return err
}

func (m *Model[T]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *Model[T]) load() tea.Cmd {
	return func() tea.Msg {
		return stateMsg[T]{state: m.view.Load(m.ctx)}
	}
}

func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg[T]:
		m.applyState(msg.state)
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Delete failed: " + msg.err.Error())
			return m, nil
		}
		m.status = infoStyle.Render("Deleted " + msg.id)
		m.view.Apply(m.ctx, listing.Deleted[T](msg.id))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// applyState takes a fetcher snapshot unless a newer one was already shown.
func (m *Model[T]) applyState(s listing.State[T]) {
	if s.Version != 0 && s.Version <= m.state.Version {
		return
	}
	m.state = s

	rows := make([]table.Row, 0, s.Data.Len())
	for _, item := range s.Data.Items {
		rows = append(rows, lo.Map(m.cfg.Columns, func(c Column[T], _ int) string {
			return truncate.StringWithTail(c.Value(item), uint(max(c.Width, 1)), "…")
		}))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
	if len(rows) == 0 {
		m.showDetails = false
	}

	// A delete or a shrinking result can leave the current page past the end.
	controller := m.view.Controller()
	if s.HasData && !s.Loading && s.Error == "" && s.Data.Empty() &&
		s.Query.PageIndex > 0 && s.Query.Equal(controller.Query()) {
		controller.SetPage(max(s.Data.TotalPages-1, 0), s.Data.TotalPages)
	}
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	if m.pendingDelete != "" {
		id := m.pendingDelete
		m.pendingDelete = ""
		if msg.String() != "y" {
			m.status = mutedStyle.Render("Delete cancelled")
			return m, nil
		}
		return m, m.deleteCmd(id)
	}

	controller := m.view.Controller()
	switch {
	case key.Matches(msg, keys.Quit):
		if m.showDetails && msg.String() == "esc" {
			m.showDetails = false
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Prev):
		m.showDetails = false
		controller.PrevPage()

	case key.Matches(msg, keys.Next):
		m.showDetails = false
		controller.NextPage(m.state.Data.TotalPages)

	case key.Matches(msg, keys.Sort):
		if len(m.cfg.SortKeys) > 0 {
			controller.SetSort(m.nextSortKey(), listing.SortAscending)
		}

	case key.Matches(msg, keys.Reverse):
		if q := controller.Query(); q.SortKey != "" {
			controller.ToggleSort(q.SortKey)
		}

	case key.Matches(msg, keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, keys.Refetch):
		m.status = ""
		if !m.view.Retry(m.ctx) {
			return m, m.load()
		}

	case key.Matches(msg, keys.Delete):
		if item, ok := m.selected(); ok && m.cfg.Delete != nil {
			m.pendingDelete = item.RecordID()
			m.status = warnStyle.Render("Delete " + item.RecordID() + "? (y/n)")
		}

	case key.Matches(msg, keys.Details):
		if _, ok := m.selected(); ok && m.cfg.Details != nil {
			m.showDetails = !m.showDetails
		}

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model[T]) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.view.Controller().SetSearch(m.search.Value())
	return m, cmd
}

func (m *Model[T]) deleteCmd(id string) tea.Cmd {
	m.status = mutedStyle.Render("Deleting " + id + "…")
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.cfg.Delete(m.ctx, id)}
	}
}

func (m *Model[T]) nextSortKey() string {
	current := m.view.Controller().Query().SortKey
	_, idx, found := lo.FindIndexOf(m.cfg.SortKeys, func(k string) bool { return k == current })
	if !found {
		return m.cfg.SortKeys[0]
	}
	return m.cfg.SortKeys[(idx+1)%len(m.cfg.SortKeys)]
}

func (m *Model[T]) selected() (T, bool) {
	var zero T
	idx := m.table.Cursor()
	if idx < 0 || idx >= m.state.Data.Len() {
		return zero, false
	}
	return m.state.Data.Items[idx], true
}

func (m *Model[T]) View() string {
	var b strings.Builder

	q := m.state.Query
	header := titleStyle.Render(m.cfg.Title)
	if q.SortKey != "" {
		header += mutedStyle.Render(fmt.Sprintf("  sorted by %s %s", q.SortKey, q.SortDirection))
	}
	if len(q.Filters) > 0 {
		header += mutedStyle.Render("  " + formatFilters(q.Filters))
	}
	b.WriteString(header + "\n")
	b.WriteString(m.search.View() + "\n\n")

	switch {
	case !m.state.HasData && m.state.Loading:
		b.WriteString(m.spinner.View() + " Loading…\n")
	case m.state.HasData && m.state.Data.Empty():
		b.WriteString(mutedStyle.Render("No results") + "\n")
	case m.state.HasData:
		b.WriteString(m.table.View() + "\n")
	}

	if m.showDetails {
		if item, ok := m.selected(); ok {
			b.WriteString(m.renderDetails(item) + "\n")
		}
	}

	footer := fmt.Sprintf("Page %d/%d  %d total", q.PageIndex+1, max(m.state.Data.TotalPages, 1), m.state.Data.TotalItems)
	if m.state.Loading && m.state.HasData {
		footer += "  " + m.spinner.View()
	}
	b.WriteString(mutedStyle.Render(footer) + "\n")

	// A failed request keeps the last page on screen.
	if m.state.Error != "" {
		b.WriteString(m.fit(errorStyle.Render("Error: "+m.state.Error+" (r to retry)")) + "\n")
	}
	if m.status != "" {
		b.WriteString(m.fit(m.status) + "\n")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m *Model[T]) renderDetails(item T) string {
	lines := lo.Map(m.cfg.Details(item), func(kv [2]string, _ int) string {
		return detailKey.Render(kv[0]) + kv[1]
	})
	box := detailBox
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (m *Model[T]) fit(line string) string {
	if m.width <= 0 {
		return line
	}
	return ansi.Truncate(line, m.width, "…")
}

func formatFilters(filters map[string]string) string {
	parts := lo.MapToSlice(filters, func(k, v string) string { return k + "=" + v })
	slices.Sort(parts)
	return strings.Join(parts, " ")
}
