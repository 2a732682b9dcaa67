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

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

	detailBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
	detailKey = lipgloss.NewStyle().Bold(true).Width(16)
)

// applyColorProfile honours NO_COLOR for every style above.
func applyColorProfile() {
	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

type keyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Sort    key.Binding
	Reverse key.Binding
	Search  key.Binding
	Refetch key.Binding
	Delete  key.Binding
	Details key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev page")),
	Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next page")),
	Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Reverse: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "reverse")),
	Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Refetch: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Details: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Quit:    key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Sort, k.Reverse, k.Search, k.Refetch, k.Delete, k.Details, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
