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
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/masteryyh/jobboard/pkg/listing"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/masteryyh/jobboard/pkg/wallet"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var transactionColumns = []column[models.TransactionDto]{
	{"ID", func(t models.TransactionDto) string { return t.ID.String() }},
	{"Date", func(t models.TransactionDto) string { return t.CreatedAt.Format("2006-01-02 15:04") }},
	{"Type", func(t models.TransactionDto) string { return string(t.Type) }},
	{"Category", func(t models.TransactionDto) string { return t.Category }},
	{"Points", signedPoints},
	{"Description", func(t models.TransactionDto) string { return t.Description }},
}

func signedPoints(t models.TransactionDto) string {
	if t.Type == models.TransactionSpent {
		return "-" + strconv.Itoa(t.Points)
	}
	return "+" + strconv.Itoa(t.Points)
}

func transactionLabel(t models.TransactionDto) string {
	return fmt.Sprintf("%s %s %s", t.CreatedAt.Format("2006-01-02"), signedPoints(t), t.Category)
}

func requireUser(cmd *cobra.Command) (string, error) {
	user, _ := cmd.Flags().GetString("user")
	if strings.TrimSpace(user) == "" {
		return "", fmt.Errorf("--user is required")
	}
	if _, err := parseUUID(user); err != nil {
		return "", err
	}
	return strings.TrimSpace(user), nil
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Inspect and manage point wallets",
}

var walletSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the wallet summary of a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		summary, err := GetClient().WalletSummary(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return renderSummary(summary)
	},
}

func renderSummary(s *wallet.Summary) error {
	pterm.DefaultSection.Println("Wallet")
	if err := pterm.DefaultTable.WithData(pterm.TableData{
		{"Balance", fmt.Sprintf("%d points", s.Balance)},
		{"Earned", strconv.Itoa(s.TotalEarned)},
		{"Spent", strconv.Itoa(s.TotalSpent)},
		{"ROI", fmt.Sprintf("%.2f%%", s.ROI)},
		{"Efficiency", fmt.Sprintf("%.2f", s.Efficiency)},
		{"Trend", string(s.Trend)},
		{"Transactions", strconv.Itoa(s.TransactionCount)},
	}).Render(); err != nil {
		return err
	}

	if len(s.Months) > 0 {
		pterm.DefaultSection.Println("By month")
		data := pterm.TableData{{"Month", "Earned", "Spent", "Net"}}
		for _, m := range s.Months {
			data = append(data, []string{m.Month, strconv.Itoa(m.Earned), strconv.Itoa(m.Spent), strconv.Itoa(m.Net)})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}

	if len(s.Categories) > 0 {
		pterm.DefaultSection.Println("By category")
		data := pterm.TableData{{"Category", "Earned", "Spent"}}
		for _, c := range s.Categories {
			data = append(data, []string{c.Category, strconv.Itoa(c.Earned), strconv.Itoa(c.Spent)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	return nil
}

var walletStatementCmd = &cobra.Command{
	Use:   "statement",
	Short: "Write a PDF statement of a user's wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")

		client := GetClient()
		user, err := client.Users().Get(cmd.Context(), userID)
		if err != nil {
			return err
		}
		summary, err := client.WalletSummary(cmd.Context(), userID)
		if err != nil {
			return err
		}

		q := listing.NewListQuery(100)
		q.Filters["userId"] = userID
		q.SortKey = "createdAt"
		q.SortDirection = listing.SortDescending
		txs, err := client.Transactions().All(cmd.Context(), q)
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		info := wallet.StatementInfo{UserName: user.Name, UserEmail: user.Email, GeneratedAt: time.Now()}
		if err := wallet.WriteStatement(f, info, *summary, txs); err != nil {
			f.Close()
			return fmt.Errorf("failed to write statement: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		pterm.Success.Printf("Statement with %d transactions written to %s\n", len(txs), out)
		return nil
	},
}

var walletPriceCmd = &cobra.Command{
	Use:   "price",
	Short: "Quote the points for applying to a job or unlocking a resume several times",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, _ := cmd.Flags().GetString("job")
		candidateID, _ := cmd.Flags().GetString("candidate")
		quantity, _ := cmd.Flags().GetInt("quantity")
		if quantity < 1 {
			return fmt.Errorf("--quantity must be at least 1")
		}

		client := GetClient()
		var label string
		var unit int
		switch {
		case jobID != "" && candidateID == "":
			job, err := client.JobListings().Get(cmd.Context(), jobID)
			if err != nil {
				return err
			}
			label, unit = "Apply to "+job.Title, job.ApplyPoints
		case candidateID != "" && jobID == "":
			c, err := client.Candidates().Get(cmd.Context(), candidateID)
			if err != nil {
				return err
			}
			label, unit = "Resume of "+c.Name, c.ResumeAccessPoints
		default:
			return fmt.Errorf("exactly one of --job or --candidate is required")
		}

		discount := wallet.BulkDiscount(quantity)
		pterm.Info.Printf("%s: %d x %d points, %d%% off, total %d points\n",
			label, quantity, unit, int(discount*100), wallet.BulkPrice(unit, quantity))
		return nil
	},
}

var transactionCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "Manage wallet transactions",
}

var transactionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	Long:  "List transactions. Filters: userId, type, category. Sort keys: createdAt, points, category.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if user, _ := cmd.Flags().GetString("user"); user != "" {
			if err := cmd.Flags().Set("filter", "userId="+user); err != nil {
				return err
			}
		}
		return runList(cmd, GetClient().Transactions(), "transactions", transactionColumns)
	},
}

type transactionForm struct {
	txType      string
	category    string
	points      string
	description string
}

var transactionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser(cmd)
		if err != nil {
			return err
		}
		if err := requireTerminal(); err != nil {
			return err
		}

		form := &transactionForm{txType: string(models.TransactionSpent)}
		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().Title("Type").Options(stringOptions(models.TransactionTypes)...).Value(&form.txType),
				huh.NewInput().Title("Category").Value(&form.category),
				huh.NewInput().Title("Points").Value(&form.points).Validate(positiveInt),
				huh.NewInput().Title("Description").Value(&form.description),
			),
		).Run(); err != nil {
			return err
		}

		points, _ := strconv.Atoi(strings.TrimSpace(form.points))
		uid, _ := parseUUID(userID)
		tx, err := GetClient().Transactions().Create(cmd.Context(), &models.CreateTransactionDto{
			UserID:      uid,
			Type:        models.TransactionType(form.txType),
			Category:    strings.TrimSpace(form.category),
			Points:      points,
			Description: strings.TrimSpace(form.description),
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Transaction recorded: %s (%s)\n", signedPoints(*tx), tx.ID)
		return nil
	},
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive whole number")
	}
	return nil
}

var transactionUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change the category or description of a transaction",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(); err != nil {
			return err
		}

		txs := GetClient().Transactions()
		id, err := pickID(cmd, args, txs, "Select transaction to update", transactionLabel)
		if err != nil {
			return err
		}
		target, err := txs.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		form := &transactionForm{category: target.Category, description: target.Description}
		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewNote().Title(transactionLabel(*target)),
				huh.NewInput().Title("Category").Value(&form.category),
				huh.NewInput().Title("Description").Value(&form.description),
			),
		).Run(); err != nil {
			return err
		}

		updated, err := txs.Update(cmd.Context(), id, &models.UpdateTransactionDto{
			Category:    strings.TrimSpace(form.category),
			Description: strings.TrimSpace(form.description),
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Transaction updated: %s\n", lo.CoalesceOrEmpty(updated.Category, updated.ID.String()))
		return nil
	},
}

var transactionDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a transaction",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txs := GetClient().Transactions()
		id, err := pickID(cmd, args, txs, "Select transaction to delete", transactionLabel)
		if err != nil {
			return err
		}
		if ok, err := confirmDelete(cmd, "Delete this transaction? The balance will change."); err != nil || !ok {
			return err
		}
		if err := txs.Delete(cmd.Context(), id, false); err != nil {
			return err
		}
		pterm.Success.Printf("Transaction deleted: %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(walletCmd)

	walletCmd.AddCommand(walletSummaryCmd)
	walletSummaryCmd.Flags().String("user", "", "User id")

	walletCmd.AddCommand(walletStatementCmd)
	walletStatementCmd.Flags().String("user", "", "User id")
	walletStatementCmd.Flags().StringP("out", "o", "statement.pdf", "Output file")

	walletCmd.AddCommand(walletPriceCmd)
	walletPriceCmd.Flags().String("job", "", "Job listing id")
	walletPriceCmd.Flags().String("candidate", "", "Candidate id")
	walletPriceCmd.Flags().IntP("quantity", "n", 1, "Number of actions")

	walletCmd.AddCommand(transactionCmd)

	transactionCmd.AddCommand(transactionListCmd)
	addListFlags(transactionListCmd)
	transactionListCmd.Flags().String("user", "", "Only transactions of this user id")

	transactionCmd.AddCommand(transactionCreateCmd)
	transactionCreateCmd.Flags().String("user", "", "User id")

	transactionCmd.AddCommand(transactionUpdateCmd)

	transactionCmd.AddCommand(transactionDeleteCmd)
	transactionDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
