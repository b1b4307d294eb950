package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"killport-go/internal/log"
	"killport-go/internal/owner"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Silent      bool   `yaml:"silent"`
	Interactive bool   `yaml:"interactive"`
	DebugLog    string `yaml:"debug_log"`
	LogLevel    string `yaml:"log_level"`
	Tools       Tools  `yaml:"tools"`
}

// Tools overrides the executables used to list sockets.
type Tools struct {
	Lsof    string `yaml:"lsof"`
	Netstat string `yaml:"netstat"`
}

// Defaults is the configuration used when no file or environment override
// applies. Tool names come from owner.DefaultTools.
func Defaults() Config {
	tools := owner.DefaultTools()
	return Config{
		Tools: Tools{Lsof: tools.Lsof, Netstat: tools.Netstat},
	}
}

// LoadConfig reads the config file and applies environment overrides. An
// explicitly named file must exist; the default location may be absent.
func LoadConfig(configPath string) (*Config, string, error) {
	cfg := Defaults()

	resolved, explicit := resolveConfigPath(configPath)
	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse YAML: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		resolved = ""
	default:
		return nil, "", fmt.Errorf("configuration file not found: %s", resolved)
	}

	cfg.applyEnv()
	defaults := Defaults()
	if cfg.Tools.Lsof == "" {
		cfg.Tools.Lsof = defaults.Tools.Lsof
	}
	if cfg.Tools.Netstat == "" {
		cfg.Tools.Netstat = defaults.Tools.Netstat
	}
	if _, ok := log.ParseLevel(cfg.LogLevel); !ok {
		return nil, "", fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return &cfg, resolved, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("KILLPORT_SILENT")); v != "" {
		c.Silent = v == "1" || strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("KILLPORT_DEBUG")); v != "" {
		c.DebugLog = v
	}
	if v := strings.TrimSpace(os.Getenv("KILLPORT_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("KILLPORT_LSOF")); v != "" {
		c.Tools.Lsof = v
	}
	if v := strings.TrimSpace(os.Getenv("KILLPORT_NETSTAT")); v != "" {
		c.Tools.Netstat = v
	}
}

// resolveConfigPath returns the file to read and whether the caller asked
// for it explicitly (flag or KILLPORT_CONFIG).
func resolveConfigPath(configPath string) (string, bool) {
	if configPath != "" {
		return configPath, true
	}
	if env := strings.TrimSpace(os.Getenv("KILLPORT_CONFIG")); env != "" {
		return env, true
	}
	return DefaultPath(), false
}

// DefaultPath is $XDG_CONFIG_HOME/killport/config.yaml, falling back to
// ~/.config/killport/config.yaml.
func DefaultPath() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "killport", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "killport", "config.yaml")
}
