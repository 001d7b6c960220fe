// config.go: optional host configuration loaded from a YAML file.
package sentience

import (
	"fmt"
	"os"

	"github.com/oarkflow/log"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file the CLI looks for in the working directory.
const DefaultConfigFile = "sentience.yaml"

// Config is the host-side configuration surface. All fields are optional;
// the zero Config yields the default offline interpreter.
type Config struct {
	// Gateway, when set, routes EMBED and AI through an HTTP model gateway
	// instead of the in-process defaults.
	Gateway struct {
		URL string `yaml:"url"`
	} `yaml:"gateway"`

	// MaxCallDepth overrides the recursion limit when positive.
	MaxCallDepth int `yaml:"max_call_depth"`

	// HistoryFile is where the REPL persists input history.
	HistoryFile string `yaml:"history_file"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadConfigIfPresent returns the parsed config, or the zero config when the
// file does not exist.
func LoadConfigIfPresent(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	return cfg, err
}

// Options translates the config into interpreter options.
func (c *Config) Options(logger *log.Logger) []Option {
	var opts []Option
	if c.Gateway.URL != "" {
		gw := NewHTTPGateway(c.Gateway.URL, logger)
		opts = append(opts, WithEmbedder(gw), WithModels(gw))
	}
	if c.MaxCallDepth > 0 {
		opts = append(opts, WithMaxCallDepth(c.MaxCallDepth))
	}
	return opts
}
