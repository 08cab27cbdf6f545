package lib

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInputDir   = "test_vids"
	DefaultOutputFile = "scenes.json"
)

// Config holds the paths of one extraction run.
type Config struct {
	InputDir   string `yaml:"input_dir"`
	OutputFile string `yaml:"output_file"`
	ImageDir   string `yaml:"image_dir"`
	HTMLFile   string `yaml:"html_file"`
}

func DefaultConfig() *Config {
	return &Config{
		InputDir:   DefaultInputDir,
		OutputFile: DefaultOutputFile,
		ImageDir:   DefaultImageDir,
	}
}

// LoadConfig reads a YAML config file. Keys that are absent keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	slog.Debug("Loaded config", "path", path, "config", fmt.Sprintf("%+v", *config))
	return config, nil
}

func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input_dir must not be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file must not be empty")
	}
	if c.ImageDir == "" {
		return fmt.Errorf("image_dir must not be empty")
	}
	return nil
}
