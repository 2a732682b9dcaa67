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

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var jobColumns = []column[models.JobListingDto]{
	{"ID", func(j models.JobListingDto) string { return j.ID.String() }},
	{"Title", func(j models.JobListingDto) string { return j.Title }},
	{"Company", func(j models.JobListingDto) string { return j.CompanyName }},
	{"Type", func(j models.JobListingDto) string { return string(j.Type) }},
	{"Level", func(j models.JobListingDto) string { return string(j.ExperienceLevel) }},
	{"Salary", formatSalary},
	{"Status", func(j models.JobListingDto) string { return string(j.Status) }},
	{"Apply", func(j models.JobListingDto) string { return strconv.Itoa(j.ApplyPoints) + " pts" }},
}

func formatSalary(j models.JobListingDto) string {
	if j.SalaryMin == 0 && j.SalaryMax == 0 {
		return "-"
	}
	return fmt.Sprintf("%d-%d %s", j.SalaryMin, j.SalaryMax, j.SalaryCurrency)
}

func jobLabel(j models.JobListingDto) string {
	return fmt.Sprintf("%s at %s (%s)", j.Title, j.CompanyName, j.Status)
}

func jobLink(id string) string {
	return strings.TrimRight(GetCLIConfig().BaseURL, "/") + "/api/v1/job-listings/" + id
}

// renderMarkdown renders markdown text with glamour for terminal display
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

var jobCmd = &cobra.Command{
	Use:     "jobs",
	Aliases: []string{"job", "job-listings"},
	Short:   "Manage job listings",
	Long:    `Create, list, view, update and delete job listings`,
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job listings",
	Long: "List job listings. Filters: status, type, experienceLevel, companyId, remote, location, salaryMin, skill. " +
		"Sort keys: title, createdAt, salaryMin, salaryMax, postedAt, applicants.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, GetClient().JobListings(), "job listings", jobColumns)
	},
}

var jobViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a job listing with its description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := GetClient().JobListings().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		pterm.DefaultSection.Println(job.Title)
		rows := pterm.TableData{
			{"Company", job.CompanyName},
			{"Location", job.Location},
			{"Remote", yesNo(job.IsRemote)},
			{"Type", string(job.Type)},
			{"Level", string(job.ExperienceLevel)},
			{"Salary", formatSalary(*job)},
			{"Status", string(job.Status)},
			{"Skills", strings.Join(job.Skills, ", ")},
			{"Applicants", strconv.Itoa(job.ApplicantsCount)},
			{"Apply cost", fmt.Sprintf("%d points", job.ApplyPoints)},
		}
		if job.PostedAt != nil {
			rows = append(rows, []string{"Posted", job.PostedAt.Format("2006-01-02")})
		}
		if err := pterm.DefaultTable.WithData(rows).Render(); err != nil {
			return err
		}
		if job.Description != "" {
			fmt.Print(renderMarkdown(job.Description))
		}

		if copyLink, _ := cmd.Flags().GetBool("copy-link"); copyLink {
			if err := clipboard.WriteAll(jobLink(job.ID.String())); err != nil {
				return fmt.Errorf("failed to copy link: %w", err)
			}
			pterm.Success.Println("Link copied to clipboard")
		}
		return nil
	},
}

type jobForm struct {
	companyID   string
	title       string
	description string
	location    string
	remote      bool
	jobType     string
	level       string
	salaryMin   string
	salaryMax   string
	currency    string
	status      string
	skills      string
}

func (f *jobForm) run(title string, companies []huh.Option[string]) error {
	var companyField huh.Field
	if companies != nil {
		companyField = huh.NewSelect[string]().Title("Company").Options(companies...).Value(&f.companyID)
	} else {
		companyField = huh.NewNote().Title(title)
	}

	return huh.NewForm(
		huh.NewGroup(
			companyField,
			huh.NewInput().Title("Title").Value(&f.title).Validate(notEmpty("title")),
			huh.NewInput().Title("Location").Value(&f.location),
			huh.NewConfirm().Title("Remote?").Value(&f.remote),
			huh.NewSelect[string]().Title("Type").Options(stringOptions(models.JobTypes)...).Value(&f.jobType),
			huh.NewSelect[string]().Title("Experience level").Options(stringOptions(models.JobExperienceLevels)...).Value(&f.level),
		),
		huh.NewGroup(
			huh.NewInput().Title("Minimum salary").Value(&f.salaryMin).Validate(optionalNumber),
			huh.NewInput().Title("Maximum salary").Value(&f.salaryMax).Validate(optionalNumber),
			huh.NewInput().Title("Currency").Value(&f.currency).CharLimit(3),
			huh.NewSelect[string]().Title("Status").Options(stringOptions(models.JobStatuses)...).Value(&f.status),
			huh.NewInput().Title("Skills (comma separated)").Value(&f.skills),
			huh.NewText().Title("Description (markdown)").Value(&f.description),
		),
	).Run()
}

func parseAmount(raw string) int64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return int64(v)
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Post a job listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(); err != nil {
			return err
		}

		client := GetClient()
		companies, err := client.Companies().List(cmd.Context(), companyPickerQuery())
		if err != nil {
			return err
		}
		if companies.Empty() {
			return fmt.Errorf("create a company first")
		}

		form := &jobForm{
			jobType:  string(models.JobTypeFullTime),
			level:    string(models.JobLevelMid),
			currency: "USD",
			status:   string(models.JobStatusDraft),
		}
		options := lo.Map(companies.Items, func(c models.CompanyDto, _ int) huh.Option[string] {
			return huh.NewOption(c.Name, c.ID.String())
		})
		if err := form.run("New job listing", options); err != nil {
			return err
		}

		companyID, err := parseUUID(form.companyID)
		if err != nil {
			return err
		}
		job, err := client.JobListings().Create(cmd.Context(), &models.CreateJobListingDto{
			CompanyID:       companyID,
			Title:           strings.TrimSpace(form.title),
			Description:     form.description,
			Location:        strings.TrimSpace(form.location),
			IsRemote:        form.remote,
			Type:            models.JobType(form.jobType),
			ExperienceLevel: models.JobExperienceLevel(form.level),
			SalaryMin:       parseAmount(form.salaryMin),
			SalaryMax:       parseAmount(form.salaryMax),
			SalaryCurrency:  strings.ToUpper(strings.TrimSpace(form.currency)),
			Status:          models.JobStatus(form.status),
			Skills:          splitList(form.skills),
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Job listing created: %s (%s)\n", job.Title, job.ID)
		return nil
	},
}

var jobUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a job listing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(); err != nil {
			return err
		}

		jobs := GetClient().JobListings()
		id, err := pickID(cmd, args, jobs, "Select job listing to update", jobLabel)
		if err != nil {
			return err
		}
		target, err := jobs.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		form := &jobForm{
			title:       target.Title,
			description: target.Description,
			location:    target.Location,
			remote:      target.IsRemote,
			jobType:     string(target.Type),
			level:       string(target.ExperienceLevel),
			salaryMin:   strconv.FormatInt(target.SalaryMin, 10),
			salaryMax:   strconv.FormatInt(target.SalaryMax, 10),
			currency:    target.SalaryCurrency,
			status:      string(target.Status),
			skills:      strings.Join(target.Skills, ", "),
		}
		if err := form.run("Edit "+target.Title, nil); err != nil {
			return err
		}

		salaryMin, salaryMax := parseAmount(form.salaryMin), parseAmount(form.salaryMax)
		updated, err := jobs.Update(cmd.Context(), id, &models.UpdateJobListingDto{
			Title:           strings.TrimSpace(form.title),
			Description:     &form.description,
			Location:        lo.ToPtr(strings.TrimSpace(form.location)),
			IsRemote:        &form.remote,
			Type:            models.JobType(form.jobType),
			ExperienceLevel: models.JobExperienceLevel(form.level),
			SalaryMin:       &salaryMin,
			SalaryMax:       &salaryMax,
			SalaryCurrency:  strings.ToUpper(strings.TrimSpace(form.currency)),
			Status:          models.JobStatus(form.status),
			Skills:          splitList(form.skills),
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Job listing updated: %s\n", updated.Title)
		return nil
	},
}

var jobDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a job listing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs := GetClient().JobListings()
		id, err := pickID(cmd, args, jobs, "Select job listing to delete", jobLabel)
		if err != nil {
			return err
		}

		if ok, err := confirmDelete(cmd, "Delete this job listing?"); err != nil || !ok {
			return err
		}

		if err := jobs.Delete(cmd.Context(), id, false); err != nil {
			return err
		}
		pterm.Success.Printf("Job listing deleted: %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)

	jobCmd.AddCommand(jobListCmd)
	addListFlags(jobListCmd)

	jobCmd.AddCommand(jobViewCmd)
	jobViewCmd.Flags().Bool("copy-link", false, "Copy the listing's API link to the clipboard")

	jobCmd.AddCommand(jobCreateCmd)
	jobCmd.AddCommand(jobUpdateCmd)

	jobCmd.AddCommand(jobDeleteCmd)
	jobDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
