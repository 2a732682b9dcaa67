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
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var candidateColumns = []column[models.CandidateDto]{
	{"ID", func(c models.CandidateDto) string { return c.ID.String() }},
	{"Name", func(c models.CandidateDto) string { return c.Name }},
	{"Headline", func(c models.CandidateDto) string { return c.Headline }},
	{"Level", func(c models.CandidateDto) string { return string(c.ExperienceLevel) }},
	{"Location", func(c models.CandidateDto) string { return c.Location }},
	{"Score", func(c models.CandidateDto) string { return strconv.FormatFloat(c.ResumeQualityScore, 'f', 1, 64) }},
	{"Resume", func(c models.CandidateDto) string { return strconv.Itoa(c.ResumeAccessPoints) + " pts" }},
}

func candidateLabel(c models.CandidateDto) string {
	return fmt.Sprintf("%s <%s>", c.Name, c.Email)
}

var candidateCmd = &cobra.Command{
	Use:     "candidates",
	Aliases: []string{"candidate"},
	Short:   "Manage candidates",
	Long:    `Create, list, update and delete candidate profiles`,
}

var candidateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates",
	Long: "List candidates. Filters: experienceLevel, hasPortfolio, location, skill, minScore. " +
		"Sort keys: name, createdAt, score.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, GetClient().Candidates(), "candidates", candidateColumns)
	},
}

var candidateGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetClient().Candidates().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return pterm.DefaultTable.WithData(pterm.TableData{
			{"ID", c.ID.String()},
			{"Name", c.Name},
			{"Email", c.Email},
			{"Headline", c.Headline},
			{"Location", c.Location},
			{"Level", string(c.ExperienceLevel)},
			{"Skills", strings.Join(c.Skills, ", ")},
			{"Portfolio", yesNo(c.HasPortfolio)},
			{"Certifications", strconv.Itoa(c.CertificationsCount)},
			{"Resume score", strconv.FormatFloat(c.ResumeQualityScore, 'f', 1, 64)},
			{"Resume access", fmt.Sprintf("%d points", c.ResumeAccessPoints)},
		}).Render()
	},
}

type candidateForm struct {
	name           string
	email          string
	headline       string
	location       string
	level          string
	skills         string
	portfolio      bool
	certifications string
	score          string
}

func (f *candidateForm) run(title string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().Title("Name").Value(&f.name).Validate(notEmpty("name")),
			huh.NewInput().Title("Email").Value(&f.email).Validate(notEmpty("email")),
			huh.NewInput().Title("Headline").Value(&f.headline),
			huh.NewInput().Title("Location").Value(&f.location),
			huh.NewSelect[string]().Title("Experience level").Options(stringOptions(models.CandidateLevels)...).Value(&f.level),
		),
		huh.NewGroup(
			huh.NewInput().Title("Skills (comma separated)").Value(&f.skills),
			huh.NewConfirm().Title("Has portfolio?").Value(&f.portfolio),
			huh.NewInput().Title("Certifications").Value(&f.certifications).Validate(optionalNumber),
			huh.NewInput().Title("Resume quality score (0-10)").Value(&f.score).Validate(optionalNumber),
		),
	).Run()
}

func (f *candidateForm) certificationCount() int {
	n, _ := strconv.Atoi(strings.TrimSpace(f.certifications))
	return n
}

func (f *candidateForm) resumeScore() float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(f.score), 64)
	return v
}

var candidateCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a candidate",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(); err != nil {
			return err
		}

		form := &candidateForm{level: string(models.CandidateLevelJunior)}
		if err := form.run("New candidate"); err != nil {
			return err
		}

		c, err := GetClient().Candidates().Create(cmd.Context(), &models.CreateCandidateDto{
			Name:                strings.TrimSpace(form.name),
			Email:               strings.TrimSpace(form.email),
			Headline:            strings.TrimSpace(form.headline),
			Location:            strings.TrimSpace(form.location),
			ExperienceLevel:     models.CandidateLevel(form.level),
			Skills:              splitList(form.skills),
			HasPortfolio:        form.portfolio,
			CertificationsCount: form.certificationCount(),
			ResumeQualityScore:  form.resumeScore(),
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Candidate created: %s (%s), resume access %d points\n", c.Name, c.ID, c.ResumeAccessPoints)
		return nil
	},
}

var candidateUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a candidate",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(); err != nil {
			return err
		}

		candidates := GetClient().Candidates()
		id, err := pickID(cmd, args, candidates, "Select candidate to update", candidateLabel)
		if err != nil {
			return err
		}
		target, err := candidates.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		form := &candidateForm{
			name:           target.Name,
			email:          target.Email,
			headline:       target.Headline,
			location:       target.Location,
			level:          string(target.ExperienceLevel),
			skills:         strings.Join(target.Skills, ", "),
			portfolio:      target.HasPortfolio,
			certifications: strconv.Itoa(target.CertificationsCount),
			score:          strconv.FormatFloat(target.ResumeQualityScore, 'f', -1, 64),
		}
		if err := form.run("Edit " + target.Name); err != nil {
			return err
		}

		dto := &models.UpdateCandidateDto{
			Headline:            lo.ToPtr(strings.TrimSpace(form.headline)),
			Location:            lo.ToPtr(strings.TrimSpace(form.location)),
			ExperienceLevel:     models.CandidateLevel(form.level),
			Skills:              splitList(form.skills),
			HasPortfolio:        &form.portfolio,
			CertificationsCount: lo.ToPtr(form.certificationCount()),
			ResumeQualityScore:  lo.ToPtr(form.resumeScore()),
		}
		if v := strings.TrimSpace(form.name); v != target.Name {
			dto.Name = v
		}
		if v := strings.TrimSpace(form.email); !strings.EqualFold(v, target.Email) {
			dto.Email = v
		}

		updated, err := candidates.Update(cmd.Context(), id, dto)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Candidate updated: %s, resume access %d points\n", updated.Name, updated.ResumeAccessPoints)
		return nil
	},
}

var candidateDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a candidate",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates := GetClient().Candidates()
		id, err := pickID(cmd, args, candidates, "Select candidate to delete", candidateLabel)
		if err != nil {
			return err
		}
		if ok, err := confirmDelete(cmd, "Delete this candidate?"); err != nil || !ok {
			return err
		}
		if err := candidates.Delete(cmd.Context(), id, false); err != nil {
			return err
		}
		pterm.Success.Printf("Candidate deleted: %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(candidateCmd)

	candidateCmd.AddCommand(candidateListCmd)
	addListFlags(candidateListCmd)

	candidateCmd.AddCommand(candidateGetCmd)
	candidateCmd.AddCommand(candidateCreateCmd)
	candidateCmd.AddCommand(candidateUpdateCmd)

	candidateCmd.AddCommand(candidateDeleteCmd)
	candidateDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
