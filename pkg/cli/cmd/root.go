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
	"os"
	"strings"

	"github.com/masteryyh/jobboard/pkg/cli/api"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile     string
	baseURLFlag string
)

var rootCmd = &cobra.Command{
	Use:           "jobboard",
	Short:         "Browse and manage the job marketplace from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadCLIConfig(); err != nil {
			return err
		}
		if baseURLFlag != "" {
			cliConfig.BaseURL = baseURLFlag
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "CLI config file (default ~/.jobboard/cli-config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "API server base URL")
}

// Execute runs the root command and reports its error. Rejected fields are
// printed one per line.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		return 1
	}
	return 0
}

func printError(err error) {
	apiErr, ok := api.AsError(err)
	switch {
	case ok && apiErr.IsNotFound():
		pterm.Warning.Println(notFoundMessage(apiErr))
	case ok && apiErr.IsValidation():
		pterm.Error.Println(apiErr.Message)
		for _, name := range apiErr.FieldNames() {
			pterm.Printfln("  %s: %s", pterm.Bold.Sprint(name), strings.Join(apiErr.Fields[name], ", "))
		}
	default:
		pterm.Error.Println(err)
	}
}

// notFoundMessage points at stale ids, the usual cause of a 404 from get,
// update or delete.
func notFoundMessage(e *api.Error) string {
	return e.Message + ", it may have been deleted; list again to see current ids"
}

func GetClient() *api.Client {
	cfg := GetCLIConfig()
	opts := []api.Option{
		api.WithAuth(cfg.Username, cfg.Password),
		api.WithTimeout(cfg.Timeout),
	}
	if cfg.Breaker.Enabled {
		opts = append(opts, api.WithBreaker(api.BreakerSettings{
			Failures: cfg.Breaker.Failures,
			Cooldown: cfg.Breaker.Cooldown,
		}))
	}
	return api.NewClient(cfg.BaseURL, opts...)
}

func requireTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("must be run in an interactive terminal")
	}
	return nil
}
