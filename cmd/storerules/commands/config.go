package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vkoshelev/storerules/internal/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage the storerules CLI configuration file.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long: `Write a starter configuration at ~/.storerules/config.yaml pointing
at a local server.

Example:
  storerules config init`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.WriteStarter(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		configPath, _ := cli.Path()
		fmt.Printf("Configuration file created at: %s\n", configPath)
		fmt.Println("\nAdd real targets with 'storerules config set' and switch")
		fmt.Println("between them with 'storerules config use <env>'.")

		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long: `Display the current configuration.

Example:
  storerules config list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Printf("Current Environment: %s\n\n", cfg.CurrentEnv)
		fmt.Println("Environments:")
		for name, envCfg := range cfg.Envs {
			fmt.Printf("  %s:\n", name)
			fmt.Printf("    base_url: %s\n", envCfg.BaseURL)
			// Mask API key for security
			maskedKey := "***"
			if len(envCfg.APIKey) > 4 {
				maskedKey = envCfg.APIKey[:4] + "***"
			}
			fmt.Printf("    api_key: %s\n", maskedKey)
			if envCfg.Format != "" {
				fmt.Printf("    format: %s\n", envCfg.Format)
			}
			if envCfg.ContextFile != "" {
				fmt.Printf("    context_file: %s\n", envCfg.ContextFile)
			}
		}

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <env.key> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value.

Examples:
  storerules config set dev.base_url http://localhost:8080
  storerules config set prod.api_key my-secret-key
  storerules config set prod.format json
  storerules config set staging.context_file ~/contexts/staging.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		parts := strings.Split(args[0], ".")
		if len(parts) != 2 {
			return fmt.Errorf("invalid key format, expected 'env.key' (e.g., 'dev.base_url')")
		}

		envName := parts[0]
		key := parts[1]
		value := args[1]

		envCfg := cfg.Envs[envName]

		switch key {
		case "base_url":
			envCfg.BaseURL = value
		case "api_key":
			envCfg.APIKey = value
		case "format":
			switch cli.OutputFormat(value) {
			case cli.FormatTable, cli.FormatJSON, cli.FormatYAML:
			default:
				return fmt.Errorf("invalid format '%s', valid formats: table, json, yaml", value)
			}
			envCfg.Format = value
		case "context_file":
			envCfg.ContextFile = value
		default:
			return fmt.Errorf("unknown key '%s', valid keys: base_url, api_key, format, context_file", key)
		}

		cfg.Envs[envName] = envCfg

		if err := cli.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Successfully set %s.%s\n", envName, key)

		return nil
	},
}

var configUseCmd = &cobra.Command{
	Use:   "use <env>",
	Short: "Switch the current environment",
	Long: `Set the environment commands talk to when --env is not given.

Example:
  storerules config use prod`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		envName := args[0]
		if _, ok := cfg.Envs[envName]; !ok {
			return fmt.Errorf("unknown environment '%s', add it first with 'storerules config set %s.base_url ...'", envName, envName)
		}

		cfg.CurrentEnv = envName
		if err := cli.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Current environment is now '%s'\n", envName)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUseCmd)
}
