package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	baseURL string
	apiKey  string
	env     string
	format  string
	quiet   bool
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storerules",
	Short: "CLI tool for managing store condition rules",
	Long: `Storerules is a command-line tool for managing condition rules in the storerules service.

It provides commands for creating, reading, updating, and deleting rules,
and for test-evaluating rules against a hand-written context.

Examples:
  storerules list --env prod
  storerules create "vip discount" --conditions 'user_role = 2' --enabled --env prod
  storerules get 2f4c9f0e --env prod
  storerules test --rule 2f4c9f0e --context ctx.json --env staging`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the storerules API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for authentication")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "Environment (defaults to the config's current_env)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml; defaults to the environment's format)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}
