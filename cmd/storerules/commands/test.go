package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vkoshelev/storerules/internal/cli"
	"github.com/vkoshelev/storerules/internal/client"
	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/ruleparse"
)

var (
	testRuleID      string
	testConditions  []string
	testContextFile string
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test-evaluate a rule against a context",
	Long: `Evaluate a stored rule or ad-hoc conditions against a context read
from a JSON file, and print the per-condition trace.

The context file uses the same shape as the /v1/evaluate API, e.g.:
  {"cart": {"total": 7500, "currency": "USD"}, "session": {"userId": 42, "roleId": 2}}

Examples:
  storerules test --rule 2f4c9f0e --context ctx.json --env staging
  storerules test --condition 'cart_total >= 5000' --context ctx.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if testRuleID == "" && len(testConditions) == 0 {
			return fmt.Errorf("either --rule or at least one --condition is required")
		}
		if testRuleID != "" && len(testConditions) > 0 {
			return fmt.Errorf("--rule and --condition are mutually exclusive")
		}

		envCfg, _, err := cli.ResolveEnv(cli.Overrides{Env: env, BaseURL: baseURL, APIKey: apiKey})
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// Without --context, fall back to the environment's configured
		// context file.
		contextFile := testContextFile
		if contextFile == "" {
			contextFile = envCfg.ContextFile
		}

		evalCtx := map[string]any{}
		if contextFile != "" {
			data, err := os.ReadFile(contextFile)
			if err != nil {
				return fmt.Errorf("failed to read context file: %w", err)
			}
			if err := json.Unmarshal(data, &evalCtx); err != nil {
				return fmt.Errorf("invalid context JSON: %w", err)
			}
		}

		var conditions []condition.Condition
		if len(testConditions) > 0 {
			conditions, err = ruleparse.New(zerolog.Nop()).Parse(strings.Join(testConditions, "\n"))
			if err != nil {
				return fmt.Errorf("invalid conditions: %w", err)
			}
		}

		// Create API client
		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		ctx := context.Background()
		result, err := c.Evaluate(ctx, client.EvaluateParams{
			RuleID:     testRuleID,
			Conditions: conditions,
			Context:    evalCtx,
		})
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}

		if quiet {
			if !result.Matched {
				os.Exit(1)
			}
			return nil
		}

		if cli.EffectiveFormat(format, cmd.Flags().Changed("format"), envCfg) == cli.FormatJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		}
		return cli.PrintTrace(result.Matched, result.Trace)
	},
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVar(&testRuleID, "rule", "", "Stored rule id to evaluate")
	testCmd.Flags().StringArrayVar(&testConditions, "condition", nil, "Ad-hoc condition in textual form (repeatable)")
	testCmd.Flags().StringVar(&testContextFile, "context", "", "Path to a JSON context file (defaults to the environment's context_file)")
}
