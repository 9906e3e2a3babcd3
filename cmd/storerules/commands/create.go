package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vkoshelev/storerules/internal/cli"
	"github.com/vkoshelev/storerules/internal/client"
	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/ruleparse"
	"github.com/vkoshelev/storerules/internal/store"
)

var (
	createEnabled        bool
	createID             string
	createConditions     []string
	createConditionsFile string
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new rule",
	Long: `Create a new condition rule with the specified name.

Conditions use the textual "identifier operator value[,value...]" form,
either inline via repeated --condition flags or from a file with one
condition per line.

Examples:
  storerules create "vip discount" --condition 'user_role = 2' --enabled --env prod
  storerules create "big carts" --condition 'cart_total >= 10000' --condition 'country = US,CA'
  storerules create "campaign" --conditions-file rules.txt --env staging`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		envCfg, effectiveEnv, err := cli.ResolveEnv(cli.Overrides{Env: env, BaseURL: baseURL, APIKey: apiKey})
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		text := strings.Join(createConditions, "\n")
		if createConditionsFile != "" {
			data, err := os.ReadFile(createConditionsFile)
			if err != nil {
				return fmt.Errorf("failed to read conditions file: %w", err)
			}
			text = strings.TrimSpace(text + "\n" + string(data))
		}

		var conditions []condition.Condition
		if text != "" {
			parserLog := zerolog.Nop()
			if verbose {
				parserLog = zerolog.New(os.Stderr).With().Timestamp().Logger()
			}
			conditions, err = ruleparse.New(parserLog).Parse(text)
			if err != nil {
				return fmt.Errorf("invalid conditions: %w", err)
			}
		}

		// Create API client
		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		params := store.UpsertParams{
			ID:         createID,
			Name:       name,
			Enabled:    createEnabled,
			Conditions: conditions,
		}

		ctx := context.Background()
		result, err := c.CreateRule(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to create rule: %w", err)
		}

		if !quiet {
			fmt.Printf("Successfully created rule '%s' (id %s) in environment '%s'\n", name, result.ID, effectiveEnv)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().BoolVar(&createEnabled, "enabled", false, "Enable the rule")
	createCmd.Flags().StringVar(&createID, "id", "", "Rule id (updates an existing rule when set)")
	createCmd.Flags().StringArrayVar(&createConditions, "condition", nil, "Condition in textual form (repeatable)")
	createCmd.Flags().StringVar(&createConditionsFile, "conditions-file", "", "File with one condition per line")
}
