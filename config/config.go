package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the imgsim tool.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Model   ModelConfig   `yaml:"model"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig holds vector store configuration.
type StoreConfig struct {
	Path      string `yaml:"path"`
	Dimension int    `yaml:"dimension"`
}

// ModelConfig holds feature-extraction model configuration.
type ModelConfig struct {
	Path   string `yaml:"path"`
	Input  string `yaml:"input"`  // model graph input name
	Output string `yaml:"output"` // model graph output name
	// Library optionally points at the onnxruntime shared library.
	Library string `yaml:"library"`
}

// IndexConfig holds bulk indexing configuration.
type IndexConfig struct {
	Includes []string `yaml:"includes"`
}

// SearchConfig holds query configuration.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:      "image_database.bin",
			Dimension: 1000, // MobileNetV2 output feature size
		},
		Model: ModelConfig{
			Path:   filepath.Join("models", "mobilenetv2-7.onnx"),
			Input:  "input",
			Output: "output",
		},
		Index: IndexConfig{
			Includes: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp"},
		},
		Search: SearchConfig{
			TopK: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for imgsim.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "imgsim.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
