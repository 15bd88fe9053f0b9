package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInboxSize      = 16
	DefaultMaxObjects     = 10000
	DefaultRoundTripFile  = "parsed-file-written-back.pdf"
	DefaultConfigFileName = "pdfexplorer.yaml"
)

type Config struct {
	Worker struct {
		InboxSize int `yaml:"inbox_size"`
	} `yaml:"worker"`
	Explore struct {
		Validate    *bool `yaml:"validate"`
		ExtractText bool  `yaml:"extract_text"`
		MaxObjects  int   `yaml:"max_objects"`
	} `yaml:"explore"`
	RoundTrip struct {
		OutputFile string `yaml:"output_file"`
	} `yaml:"roundtrip"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) ShouldValidate() bool {
	return c.Explore.Validate == nil || *c.Explore.Validate
}

func (c *Config) applyDefaults() {
	if c.Worker.InboxSize <= 0 {
		c.Worker.InboxSize = DefaultInboxSize
	}
	if c.Explore.MaxObjects <= 0 {
		c.Explore.MaxObjects = DefaultMaxObjects
	}
	if c.RoundTrip.OutputFile == "" {
		c.RoundTrip.OutputFile = DefaultRoundTripFile
	}
}
