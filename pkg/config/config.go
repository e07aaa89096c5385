package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration. Secrets (the Joplin token, bot
// tokens, AI keys) are read from the environment, not the file.
type Config struct {
	JoplinURL       string `yaml:"joplin_url"`
	Port            string `yaml:"port"`
	DBPath          string `yaml:"db_path"`
	DebounceSeconds int    `yaml:"debounce_seconds"`
	PollSeconds     int    `yaml:"poll_seconds"`
	MirrorDir       string `yaml:"mirror_dir"`
	MirrorPush      bool   `yaml:"mirror_push"`
	Schedule        string `yaml:"schedule"`
	AIProvider      string `yaml:"ai_provider"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		JoplinURL:       "http://localhost:41184",
		Port:            "8080",
		DBPath:          "review-pilot.db",
		DebounceSeconds: 5,
		PollSeconds:     10,
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JoplinURL == "" {
		return fmt.Errorf("joplin_url must not be empty")
	}
	if c.DebounceSeconds < 0 {
		return fmt.Errorf("debounce_seconds must not be negative")
	}
	if c.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive")
	}
	return nil
}
