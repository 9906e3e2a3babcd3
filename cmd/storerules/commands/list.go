package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vkoshelev/storerules/internal/cli"
	"github.com/vkoshelev/storerules/internal/client"
	"github.com/vkoshelev/storerules/internal/store"
)

var (
	listEnabledOnly bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all rules",
	Long: `List all condition rules in the specified environment.

Examples:
  storerules list --env prod
  storerules list --env prod --format json
  storerules list --env prod --enabled-only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		envCfg, _, err := cli.ResolveEnv(cli.Overrides{Env: env, BaseURL: baseURL, APIKey: apiKey})
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// Create API client
		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		ctx := context.Background()
		rules, err := c.ListRules(ctx)
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}

		// Filter enabled only if requested
		if listEnabledOnly {
			var enabled []store.Rule
			for _, r := range rules {
				if r.Enabled {
					enabled = append(enabled, r)
				}
			}
			rules = enabled
		}

		if !quiet {
			if len(rules) == 0 {
				fmt.Println("No rules found")
				return nil
			}
			return cli.PrintRules(rules, cli.EffectiveFormat(format, cmd.Flags().Changed("format"), envCfg))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listEnabledOnly, "enabled-only", false, "Show only enabled rules")
}
