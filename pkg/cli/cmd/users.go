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

var userColumns = []column[models.UserDto]{
	{"ID", func(u models.UserDto) string { return u.ID.String() }},
	{"Name", func(u models.UserDto) string { return u.Name }},
	{"Email", func(u models.UserDto) string { return u.Email }},
	{"Role", func(u models.UserDto) string { return string(u.Role) }},
	{"Status", func(u models.UserDto) string { return string(u.Status) }},
	{"Joined", func(u models.UserDto) string { return u.CreatedAt.Format("2006-01-02") }},
}

func userLabel(u models.UserDto) string {
	return fmt.Sprintf("%s <%s> (%s)", u.Name, u.Email, u.Role)
}

var userCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage platform users",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Long:  "List users. Filters: role, status. Sort keys: name, email, role, createdAt.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, GetClient().Users(), "users", userColumns)
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := GetClient().Users().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return pterm.DefaultTable.WithData(pterm.TableData{
			{"ID", u.ID.String()},
			{"Name", u.Name},
			{"Email", u.Email},
			{"Role", string(u.Role)},
			{"Status", string(u.Status)},
			{"Joined", u.CreatedAt.Format("2006-01-02 15:04")},
		}).Render()
	},
}

type userForm struct {
	name   string
	email  string
	role   string
	status string
}

func (f *userForm) run(title string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().Title("Name").Value(&f.name).Validate(notEmpty("name")),
			huh.NewInput().Title("Email").Value(&f.email).Validate(notEmpty("email")),
			huh.NewSelect[string]().Title("Role").Options(stringOptions(models.UserRoles)...).Value(&f.role),
			huh.NewSelect[string]().Title("Status").Options(stringOptions(models.UserStatuses)...).Value(&f.status),
		),
	).Run()
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(); err != nil {
			return err
		}

		form := &userForm{role: string(models.UserRoleCandidate), status: string(models.UserStatusActive)}
		if err := form.run("New user"); err != nil {
			return err
		}

		u, err := GetClient().Users().Create(cmd.Context(), &models.CreateUserDto{
			Name:   strings.TrimSpace(form.name),
			Email:  strings.TrimSpace(form.email),
			Role:   models.UserRole(form.role),
			Status: models.UserStatus(form.status),
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("User created: %s (%s)\n", u.Name, u.ID)
		return nil
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a user",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(); err != nil {
			return err
		}

		users := GetClient().Users()
		id, err := pickID(cmd, args, users, "Select user to update", userLabel)
		if err != nil {
			return err
		}
		target, err := users.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		form := &userForm{name: target.Name, email: target.Email, role: string(target.Role), status: string(target.Status)}
		if err := form.run("Edit " + target.Name); err != nil {
			return err
		}

		dto := &models.UpdateUserDto{}
		changed := false
		if v := strings.TrimSpace(form.name); v != target.Name {
			dto.Name, changed = v, true
		}
		if v := strings.TrimSpace(form.email); !strings.EqualFold(v, target.Email) {
			dto.Email, changed = v, true
		}
		if v := models.UserRole(form.role); v != target.Role {
			dto.Role, changed = v, true
		}
		if v := models.UserStatus(form.status); v != target.Status {
			dto.Status, changed = v, true
		}
		if !changed {
			pterm.Info.Println("No changes detected, skipping update")
			return nil
		}

		updated, err := users.Update(cmd.Context(), id, dto)
		if err != nil {
			return err
		}
		pterm.Success.Printf("User updated: %s\n", updated.Name)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a user",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users := GetClient().Users()
		id, err := pickID(cmd, args, users, "Select user to delete", userLabel)
		if err != nil {
			return err
		}
		if ok, err := confirmDelete(cmd, "Delete this user?"); err != nil || !ok {
			return err
		}
		if err := users.Delete(cmd.Context(), id, false); err != nil {
			return err
		}
		pterm.Success.Printf("User deleted: %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)

	userCmd.AddCommand(userListCmd)
	addListFlags(userListCmd)

	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userUpdateCmd)

	userCmd.AddCommand(userDeleteCmd)
	userDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
