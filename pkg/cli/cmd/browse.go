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
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/masteryyh/jobboard/pkg/cli/api"
	"github.com/masteryyh/jobboard/pkg/cli/tui"
	"github.com/masteryyh/jobboard/pkg/listing"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/spf13/cobra"
)

func browse[T listing.Record](cmd *cobra.Command, title string, res *api.Resource[T], columns []tui.Column[T], sortKeys []string, details func(T) [][2]string) error {
	cfg := GetCLIConfig()
	q, err := listQueryFromFlags(cmd, cfg.PageSize)
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), tui.Config[T]{
		Title:    title,
		Columns:  columns,
		SortKeys: sortKeys,
		Query:    q,
		Debounce: cfg.Debounce,
		Fetch:    res.FetchFunc(),
		Delete: func(ctx context.Context, id string) error {
			return res.Delete(ctx, id, false)
		},
		Details: details,
	})
}

var browseTargets = map[string]func(cmd *cobra.Command) error{
	"companies": func(cmd *cobra.Command) error {
		return browse(cmd, "Companies", GetClient().Companies(), []tui.Column[models.CompanyDto]{
			{Title: "Name", Width: 28, Value: func(c models.CompanyDto) string { return c.Name }},
			{Title: "Industry", Width: 18, Value: func(c models.CompanyDto) string { return c.Industry }},
			{Title: "Size", Width: 12, Value: func(c models.CompanyDto) string { return string(c.Size) }},
			{Title: "Location", Width: 20, Value: func(c models.CompanyDto) string { return c.Location }},
		}, []string{"name", "industry", "size", "createdAt"}, func(c models.CompanyDto) [][2]string {
			return [][2]string{
				{"ID", c.ID.String()}, {"Website", c.Website}, {"Description", c.Description},
			}
		})
	},
	"jobs": func(cmd *cobra.Command) error {
		return browse(cmd, "Job listings", GetClient().JobListings(), []tui.Column[models.JobListingDto]{
			{Title: "Title", Width: 28, Value: func(j models.JobListingDto) string { return j.Title }},
			{Title: "Company", Width: 18, Value: func(j models.JobListingDto) string { return j.CompanyName }},
			{Title: "Type", Width: 11, Value: func(j models.JobListingDto) string { return string(j.Type) }},
			{Title: "Level", Width: 10, Value: func(j models.JobListingDto) string { return string(j.ExperienceLevel) }},
			{Title: "Salary", Width: 20, Value: formatSalary},
			{Title: "Apply", Width: 7, Value: func(j models.JobListingDto) string { return strconv.Itoa(j.ApplyPoints) + " pts" }},
		}, []string{"title", "createdAt", "salaryMin", "salaryMax", "postedAt", "applicants"}, func(j models.JobListingDto) [][2]string {
			return [][2]string{
				{"ID", j.ID.String()}, {"Location", j.Location}, {"Remote", yesNo(j.IsRemote)},
				{"Status", string(j.Status)}, {"Skills", strings.Join(j.Skills, ", ")},
				{"Applicants", strconv.Itoa(j.ApplicantsCount)}, {"Link", jobLink(j.ID.String())},
			}
		})
	},
	"candidates": func(cmd *cobra.Command) error {
		return browse(cmd, "Candidates", GetClient().Candidates(), []tui.Column[models.CandidateDto]{
			{Title: "Name", Width: 22, Value: func(c models.CandidateDto) string { return c.Name }},
			{Title: "Headline", Width: 28, Value: func(c models.CandidateDto) string { return c.Headline }},
			{Title: "Level", Width: 8, Value: func(c models.CandidateDto) string { return string(c.ExperienceLevel) }},
			{Title: "Score", Width: 6, Value: func(c models.CandidateDto) string { return strconv.FormatFloat(c.ResumeQualityScore, 'f', 1, 64) }},
			{Title: "Resume", Width: 7, Value: func(c models.CandidateDto) string { return strconv.Itoa(c.ResumeAccessPoints) + " pts" }},
		}, []string{"name", "createdAt", "score"}, func(c models.CandidateDto) [][2]string {
			return [][2]string{
				{"ID", c.ID.String()}, {"Email", c.Email}, {"Location", c.Location},
				{"Skills", strings.Join(c.Skills, ", ")}, {"Portfolio", yesNo(c.HasPortfolio)},
			}
		})
	},
	"users": func(cmd *cobra.Command) error {
		return browse(cmd, "Users", GetClient().Users(), []tui.Column[models.UserDto]{
			{Title: "Name", Width: 22, Value: func(u models.UserDto) string { return u.Name }},
			{Title: "Email", Width: 28, Value: func(u models.UserDto) string { return u.Email }},
			{Title: "Role", Width: 10, Value: func(u models.UserDto) string { return string(u.Role) }},
			{Title: "Status", Width: 10, Value: func(u models.UserDto) string { return string(u.Status) }},
		}, []string{"name", "email", "role", "createdAt"}, func(u models.UserDto) [][2]string {
			return [][2]string{{"ID", u.ID.String()}, {"Joined", u.CreatedAt.Format("2006-01-02")}}
		})
	},
	"transactions": func(cmd *cobra.Command) error {
		return browse(cmd, "Transactions", GetClient().Transactions(), []tui.Column[models.TransactionDto]{
			{Title: "Date", Width: 16, Value: func(t models.TransactionDto) string { return t.CreatedAt.Format("2006-01-02 15:04") }},
			{Title: "Type", Width: 10, Value: func(t models.TransactionDto) string { return string(t.Type) }},
			{Title: "Category", Width: 18, Value: func(t models.TransactionDto) string { return t.Category }},
			{Title: "Points", Width: 8, Value: signedPoints},
			{Title: "Description", Width: 30, Value: func(t models.TransactionDto) string { return t.Description }},
		}, []string{"createdAt", "points", "category"}, func(t models.TransactionDto) [][2]string {
			return [][2]string{{"ID", t.ID.String()}, {"User", t.UserID.String()}}
		})
	},
}

var browseCmd = &cobra.Command{
	Use:       "browse <companies|jobs|candidates|users|transactions>",
	Short:     "Browse a collection interactively",
	Long:      "Open a paged table of a collection. The list flags set the initial search, filters, sort and page.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"companies", "jobs", "candidates", "users", "transactions"},
	RunE: func(cmd *cobra.Command, args []string) error {
		run, ok := browseTargets[args[0]]
		if !ok {
			return fmt.Errorf("unknown collection %q", args[0])
		}
		if err := requireTerminal(); err != nil {
			return err
		}
		return run(cmd)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the API server is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := GetClient()
		health, err := client.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s is not healthy: %w", client.BaseURL(), err)
		}
		fmt.Printf("%s: %s (database %s)\n", client.BaseURL(), health.Status, health.Database)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	addListFlags(browseCmd)

	rootCmd.AddCommand(statusCmd)
}
