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
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var companyColumns = []column[models.CompanyDto]{
	{"ID", func(c models.CompanyDto) string { return c.ID.String() }},
	{"Name", func(c models.CompanyDto) string { return c.Name }},
	{"Industry", func(c models.CompanyDto) string { return c.Industry }},
	{"Size", func(c models.CompanyDto) string { return string(c.Size) }},
	{"Location", func(c models.CompanyDto) string { return c.Location }},
}

func companyLabel(c models.CompanyDto) string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Size)
}

var companyCmd = &cobra.Command{
	Use:     "companies",
	Aliases: []string{"company"},
	Short:   "Manage companies",
	Long:    `Create, list, update and delete employer companies`,
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies",
	Long:  "List companies. Filters: size, industry, location. Sort keys: name, industry, size, createdAt.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, GetClient().Companies(), "companies", companyColumns)
	},
}

var companyGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		company, err := GetClient().Companies().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return pterm.DefaultTable.WithData(pterm.TableData{
			{"ID", company.ID.String()},
			{"Name", company.Name},
			{"Industry", company.Industry},
			{"Size", string(company.Size)},
			{"Location", company.Location},
			{"Website", company.Website},
			{"Description", company.Description},
		}).Render()
	},
}

type companyForm struct {
	name        string
	industry    string
	size        string
	location    string
	website     string
	description string
}

func (f *companyForm) run(title string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().Title("Name").Value(&f.name).Validate(notEmpty("name")),
			huh.NewInput().Title("Industry").Value(&f.industry),
			huh.NewSelect[string]().Title("Size").Options(stringOptions(models.CompanySizes)...).Value(&f.size),
			huh.NewInput().Title("Location").Value(&f.location),
			huh.NewInput().Title("Website").Value(&f.website),
			huh.NewText().Title("Description").Value(&f.description),
		),
	).Run()
}

var companyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(); err != nil {
			return err
		}

		form := &companyForm{size: string(models.CompanySizeStartup)}
		if err := form.run("New company"); err != nil {
			return err
		}

		company, err := GetClient().Companies().Create(cmd.Context(), &models.CreateCompanyDto{
			Name:        strings.TrimSpace(form.name),
			Industry:    strings.TrimSpace(form.industry),
			Size:        models.CompanySize(form.size),
			Location:    strings.TrimSpace(form.location),
			Website:     strings.TrimSpace(form.website),
			Description: form.description,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Company created: %s (%s)\n", company.Name, company.ID)
		return nil
	},
}

var companyUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a company",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(); err != nil {
			return err
		}

		companies := GetClient().Companies()
		id, err := pickID(cmd, args, companies, "Select company to update", companyLabel)
		if err != nil {
			return err
		}
		target, err := companies.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		form := &companyForm{
			name:        target.Name,
			industry:    target.Industry,
			size:        string(target.Size),
			location:    target.Location,
			website:     target.Website,
			description: target.Description,
		}
		if err := form.run("Edit " + target.Name); err != nil {
			return err
		}

		dto := &models.UpdateCompanyDto{}
		changed := false
		if v := strings.TrimSpace(form.name); v != target.Name {
			dto.Name, changed = v, true
		}
		if v := strings.TrimSpace(form.industry); v != target.Industry {
			dto.Industry, changed = v, true
		}
		if v := models.CompanySize(form.size); v != target.Size {
			dto.Size, changed = v, true
		}
		if v := strings.TrimSpace(form.location); v != target.Location {
			dto.Location, changed = v, true
		}
		if v := strings.TrimSpace(form.website); v != target.Website {
			dto.Website, changed = v, true
		}
		if form.description != target.Description {
			dto.Description, changed = form.description, true
		}
		if !changed {
			pterm.Info.Println("No changes detected, skipping update")
			return nil
		}

		updated, err := companies.Update(cmd.Context(), id, dto)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Company updated: %s\n", updated.Name)
		return nil
	},
}

var companyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a company",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		companies := GetClient().Companies()
		id, err := pickID(cmd, args, companies, "Select company to delete", companyLabel)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			if err := requireTerminal(); err != nil {
				return fmt.Errorf("pass --yes to delete without a prompt: %w", err)
			}
			title := "Delete this company?"
			if force {
				title = "Delete this company and all of its job listings?"
			}
			ok, err := confirm(title)
			if err != nil {
				return err
			}
			if !ok {
				pterm.Info.Println("Cancelled")
				return nil
			}
		}

		if err := companies.Delete(cmd.Context(), id, force); err != nil {
			return err
		}
		pterm.Success.Printf("Company deleted: %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(companyCmd)

	companyCmd.AddCommand(companyListCmd)
	addListFlags(companyListCmd)

	companyCmd.AddCommand(companyGetCmd)
	companyCmd.AddCommand(companyCreateCmd)
	companyCmd.AddCommand(companyUpdateCmd)

	companyCmd.AddCommand(companyDeleteCmd)
	companyDeleteCmd.Flags().Bool("force", false, "Also delete the company's job listings")
	companyDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
