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

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/masteryyh/jobboard/pkg/cli/api"
	"github.com/masteryyh/jobboard/pkg/listing"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
	"github.com/masteryyh/jobboard/pkg/utils/typeutil"
	"github.com/muesli/reflow/truncate"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const maxCellWidth = 40

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "Free text search")
	cmd.Flags().StringArray("filter", nil, "Filter as key=value, repeatable")
	cmd.Flags().String("sort", "", "Sort key")
	cmd.Flags().Bool("desc", false, "Sort descending")
	cmd.Flags().Int("page", 1, "Page number, starting at 1")
	cmd.Flags().Int("page-size", 0, "Rows per page (default from config)")
}

// listQueryFromFlags builds the query of a list command. Pages are one based
// on the command line.
func listQueryFromFlags(cmd *cobra.Command, defaultPageSize int) (listing.ListQuery, error) {
	flags := cmd.Flags()
	pageSize, _ := flags.GetInt("page-size")
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	q := listing.NewListQuery(pageSize)

	q.SearchText, _ = flags.GetString("search")
	q.SearchText = strings.TrimSpace(q.SearchText)

	filters, _ := flags.GetStringArray("filter")
	for _, raw := range filters {
		key, value, ok := typeutil.ParseKeyValue(raw)
		if !ok {
			return q, fmt.Errorf("invalid filter %q, expected key=value", raw)
		}
		q.Filters[key] = value
	}

	q.SortKey, _ = flags.GetString("sort")
	if q.SortKey != "" {
		q.SortDirection = listing.SortAscending
		if desc, _ := flags.GetBool("desc"); desc {
			q.SortDirection = listing.SortDescending
		}
	}

	page, _ := flags.GetInt("page")
	q.PageIndex = page - 1
	if err := pagination.CheckPageSize(q.PageSize); err != nil {
		return q, err
	}
	return q, q.Validate()
}

type column[T any] struct {
	title string
	value func(T) string
}

func runList[T any](cmd *cobra.Command, res *api.Resource[T], noun string, columns []column[T]) error {
	q, err := listQueryFromFlags(cmd, GetCLIConfig().PageSize)
	if err != nil {
		return err
	}

	page, err := res.List(cmd.Context(), q)
	if err != nil {
		return err
	}
	if page.Empty() {
		pterm.Warning.Printf("No %s found\n", noun)
		return nil
	}

	if err := renderTable(columns, page.Items); err != nil {
		return err
	}
	printPageFooter(page, q)
	return nil
}

func renderTable[T any](columns []column[T], items []T) error {
	tableData := pterm.TableData{
		lo.Map(columns, func(c column[T], _ int) string { return c.title }),
	}
	for _, item := range items {
		tableData = append(tableData, lo.Map(columns, func(c column[T], _ int) string {
			return truncate.StringWithTail(c.value(item), maxCellWidth, "…")
		}))
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func printPageFooter[T any](page listing.PagedResult[T], q listing.ListQuery) {
	pterm.Info.Printf("Total: %d, Page: %d/%d\n", page.TotalItems, q.PageIndex+1, max(page.TotalPages, 1))
}

// pickID returns the id given on the command line, or lets the user pick one
// from the first page of the collection.
func pickID[T listing.Record](cmd *cobra.Command, args []string, res *api.Resource[T], title string, label func(T) string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if err := requireTerminal(); err != nil {
		return "", fmt.Errorf("an id argument is required: %w", err)
	}

	page, err := res.List(cmd.Context(), listing.NewListQuery(100))
	if err != nil {
		return "", err
	}
	if page.Empty() {
		return "", fmt.Errorf("nothing to select")
	}

	var id string
	options := lo.Map(page.Items, func(item T, _ int) huh.Option[string] {
		return huh.NewOption(label(item), item.RecordID())
	})
	if err := huh.NewSelect[string]().Title(title).Options(options...).Value(&id).Run(); err != nil {
		return "", err
	}
	return id, nil
}

func confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok).Run()
	return ok, err
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func optionalNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func stringOptions[E ~string](values []E) []huh.Option[string] {
	return lo.Map(values, func(v E, _ int) huh.Option[string] {
		return huh.NewOption(string(v), string(v))
	})
}

func splitList(raw string) []string {
	return lo.Uniq(lo.FilterMap(strings.Split(raw, ","), func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	}))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func companyPickerQuery() listing.ListQuery {
	q := listing.NewListQuery(100)
	q.SortKey = "name"
	q.SortDirection = listing.SortAscending
	return q
}

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	return id, nil
}

// confirmDelete asks before a delete unless --yes was given. It prints a
// notice and returns false when the user declines.
func confirmDelete(cmd *cobra.Command, title string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	if err := requireTerminal(); err != nil {
		return false, fmt.Errorf("pass --yes to delete without a prompt: %w", err)
	}
	ok, err := confirm(title)
	if err != nil {
		return false, err
	}
	if !ok {
		pterm.Info.Println("Cancelled")
	}
	return ok, nil
}
