package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/TobiSchelling/dendro/internal/linkage"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Criterion string  `yaml:"criterion"`
	Cut       Cut     `yaml:"cut"`
	Output    Output  `yaml:"output"`
	Server    Server  `yaml:"server"`
	Logging   Logging `yaml:"logging"`
}

// Cut controls how the dendrogram is pruned into groups after
// clustering. Threshold collapses all merges at or below the given
// distance; MaxGroups caps the number of bottom groups. Zero disables
// either.
type Cut struct {
	Threshold float64 `yaml:"threshold"`
	MaxGroups int     `yaml:"max_groups"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
	JSON    string `yaml:"json"`
	Index   string `yaml:"index"`
	Newick  string `yaml:"newick"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for dendro.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "dendro")
}

// DataDir returns the XDG data directory for dendro.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "dendro")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/dendro/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'dendro init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults and
// validating the criterion.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Criterion: "ward",
		Server:    Server{Port: 8000},
		Logging:   Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if _, err := linkage.Parse(cfg.Criterion); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Cut.Threshold < 0 {
		return nil, fmt.Errorf("parsing config: negative cut threshold %g", cfg.Cut.Threshold)
	}
	if cfg.Cut.MaxGroups < 0 {
		return nil, fmt.Errorf("parsing config: negative max_groups %d", cfg.Cut.MaxGroups)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// GetCriterion returns the configured linkage criterion. The value was
// validated at parse time.
func (c *Config) GetCriterion() linkage.Criterion {
	criterion, err := linkage.Parse(c.Criterion)
	if err != nil {
		return linkage.Ward
	}
	return criterion
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
