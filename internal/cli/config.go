package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Env is one named API target the CLI can talk to. Beyond the connection
// values it carries per-environment command defaults: Format overrides the
// built-in table output, and ContextFile is the context JSON that
// `storerules test` falls back to when --context is not given.
type Env struct {
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	Format      string `yaml:"format,omitempty"`
	ContextFile string `yaml:"context_file,omitempty"`
}

// Config is the on-disk CLI configuration at ~/.storerules/config.yaml.
type Config struct {
	CurrentEnv string         `yaml:"current_env"`
	Envs       map[string]Env `yaml:"envs"`
}

// Path returns the CLI config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".storerules", "config.yaml"), nil
}

// LoadConfig reads the config file. A missing file is not an error: the
// CLI then runs purely on flags and STORERULES_* variables.
func LoadConfig() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Envs: map[string]Env{}}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Envs == nil {
		cfg.Envs = map[string]Env{}
	}
	return &cfg, nil
}

// SaveConfig writes the config file, creating ~/.storerules if needed.
// The file holds API keys, so both are written user-only.
func SaveConfig(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Overrides are the connection values a command may supply ahead of the
// config file: the --env, --base-url and --api-key flags.
type Overrides struct {
	Env     string
	BaseURL string
	APIKey  string
}

// ResolveEnv decides which environment a command talks to and with what
// credentials. The environment name comes from --env or the config's
// current_env; the base URL and API key are then resolved per field from
// the flag, the STORERULES_BASE_URL / STORERULES_API_KEY variable, and
// the named environment, in that order. Returns the resolved environment
// and its effective name.
func ResolveEnv(o Overrides) (Env, string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return Env{}, "", err
	}

	name := o.Env
	if name == "" {
		name = cfg.CurrentEnv
	}

	// An unknown name yields a zero Env; flags or variables may still
	// complete it, so that is not an error by itself.
	env := cfg.Envs[name]

	if o.BaseURL != "" {
		env.BaseURL = o.BaseURL
	} else if v := os.Getenv("STORERULES_BASE_URL"); v != "" {
		env.BaseURL = v
	}
	if o.APIKey != "" {
		env.APIKey = o.APIKey
	} else if v := os.Getenv("STORERULES_API_KEY"); v != "" {
		env.APIKey = v
	}

	if env.BaseURL == "" {
		return Env{}, "", fmt.Errorf("no base URL for environment %q: set envs.%s.base_url in the config, STORERULES_BASE_URL, or --base-url", name, name)
	}
	if env.APIKey == "" {
		return Env{}, "", fmt.Errorf("no API key for environment %q: set envs.%s.api_key in the config, STORERULES_API_KEY, or --api-key", name, name)
	}
	if name == "" {
		name = "default"
	}
	return env, name, nil
}

// EffectiveFormat picks the output format for a command: an explicit
// --format wins, then the environment's configured default, then the
// table view.
func EffectiveFormat(flagValue string, flagChanged bool, env Env) OutputFormat {
	if flagChanged {
		return OutputFormat(flagValue)
	}
	if env.Format != "" {
		return OutputFormat(env.Format)
	}
	return FormatTable
}

// WriteStarter writes a first config pointing at a local server, ready
// for `storerules config set` to add real targets.
func WriteStarter() error {
	return SaveConfig(&Config{
		CurrentEnv: "local",
		Envs: map[string]Env{
			"local": {
				BaseURL: "http://localhost:8080",
				APIKey:  "admin-123",
				Format:  string(FormatTable),
			},
		},
	})
}
