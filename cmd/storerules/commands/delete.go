package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vkoshelev/storerules/internal/cli"
	"github.com/vkoshelev/storerules/internal/client"
)

var (
	deleteForce bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a rule",
	Long: `Delete a condition rule from the specified environment.

Examples:
  storerules delete 2f4c9f0e --env prod
  storerules delete 2f4c9f0e --env prod --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		envCfg, effectiveEnv, err := cli.ResolveEnv(cli.Overrides{Env: env, BaseURL: baseURL, APIKey: apiKey})
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// Confirm deletion unless --force
		if !deleteForce && !quiet {
			fmt.Printf("Are you sure you want to delete rule '%s' from environment '%s'? (y/N): ", id, effectiveEnv)
			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				fmt.Println("Deletion cancelled")
				return nil
			}
		}

		// Create API client
		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		ctx := context.Background()
		if err := c.DeleteRule(ctx, id); err != nil {
			return fmt.Errorf("failed to delete rule: %w", err)
		}

		if !quiet {
			fmt.Printf("Successfully deleted rule '%s' from environment '%s'\n", id, effectiveEnv)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip confirmation prompt")
}
