package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Supabase  SupabaseConfig  `yaml:"supabase"`
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Import    ImportConfig    `yaml:"import"`
}

type SupabaseConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
	// Email/password sign-in for the CLI shells. Alternatively a pre-issued
	// user JWT plus the user id it belongs to.
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	AccessToken string `yaml:"access_token"`
	UserID      string `yaml:"user_id"`
}

type ServerConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type ImportConfig struct {
	// SourceUnit is the unit weights in Strong exports are expressed in.
	SourceUnit string `yaml:"source_unit"`
	// StateDir holds the SQLite database tracking already-imported files.
	StateDir string `yaml:"state_dir"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix IRONLOG_ and underscore-separated paths:
//
//	IRONLOG_SUPABASE_URL, IRONLOG_SUPABASE_ANON_KEY,
//	IRONLOG_SUPABASE_EMAIL, IRONLOG_SUPABASE_PASSWORD,
//	IRONLOG_SUPABASE_ACCESS_TOKEN, IRONLOG_SUPABASE_USER_ID,
//	IRONLOG_SERVER_HOST, IRONLOG_SERVER_PORT, IRONLOG_SERVER_API_KEY,
//	IRONLOG_IMPORT_SOURCE_UNIT, IRONLOG_IMPORT_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IRONLOG_SUPABASE_URL"); v != "" {
		cfg.Supabase.URL = v
	}
	if v := os.Getenv("IRONLOG_SUPABASE_ANON_KEY"); v != "" {
		cfg.Supabase.AnonKey = v
	}
	if v := os.Getenv("IRONLOG_SUPABASE_EMAIL"); v != "" {
		cfg.Supabase.Email = v
	}
	if v := os.Getenv("IRONLOG_SUPABASE_PASSWORD"); v != "" {
		cfg.Supabase.Password = v
	}
	if v := os.Getenv("IRONLOG_SUPABASE_ACCESS_TOKEN"); v != "" {
		cfg.Supabase.AccessToken = v
	}
	if v := os.Getenv("IRONLOG_SUPABASE_USER_ID"); v != "" {
		cfg.Supabase.UserID = v
	}
	if v := os.Getenv("IRONLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("IRONLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("IRONLOG_SERVER_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("IRONLOG_IMPORT_SOURCE_UNIT"); v != "" {
		cfg.Import.SourceUnit = v
	}
	if v := os.Getenv("IRONLOG_IMPORT_STATE_DIR"); v != "" {
		cfg.Import.StateDir = v
	}
}

func (c *Config) applyDefaults() {
	if c.Import.SourceUnit == "" {
		// Strong's stock export is in pounds.
		c.Import.SourceUnit = "lbs"
	}
}

func (c *Config) validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("supabase.url is required")
	}
	if c.Supabase.AnonKey == "" {
		return fmt.Errorf("supabase.anon_key is required")
	}
	haveLogin := c.Supabase.Email != "" && c.Supabase.Password != ""
	haveToken := c.Supabase.AccessToken != "" && c.Supabase.UserID != ""
	if !haveLogin && !haveToken {
		return fmt.Errorf("supabase credentials required: email+password or access_token+user_id")
	}
	return nil
}
