package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vkoshelev/storerules/internal/cli"
	"github.com/vkoshelev/storerules/internal/client"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single rule",
	Long: `Get a single condition rule by id.

Examples:
  storerules get 2f4c9f0e --env prod
  storerules get 2f4c9f0e --env prod --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		envCfg, _, err := cli.ResolveEnv(cli.Overrides{Env: env, BaseURL: baseURL, APIKey: apiKey})
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// Create API client
		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		ctx := context.Background()
		rule, err := c.GetRule(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get rule: %w", err)
		}

		if !quiet {
			return cli.PrintRule(rule, cli.EffectiveFormat(format, cmd.Flags().Changed("format"), envCfg))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
