package config

//go:generate go run ../tools/schema-generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfig names an alternate config file
const EnvConfig = "AZA_CONFIG"

// TranscriptConfig holds defaults for conversation transcripts.
type TranscriptConfig struct {
	ShowIDs       bool `yaml:"show_ids,omitempty" jsonschema:"description=Show item ids in transcript headers"`
	ShowCitations bool `yaml:"show_citations,omitempty" jsonschema:"description=List every citation under its item"`
	NoWrap        bool `yaml:"no_wrap,omitempty" jsonschema:"description=Disable wrapping bodies at 100 columns"`

	// MaxBody truncates item bodies to this many characters.
	// Unset or -1 disables truncation.
	MaxBody *int `yaml:"max_body,omitempty" jsonschema:"minimum=-1,description=Maximum body length in characters (-1 disables truncation)"`
}

// UIConfig holds settings for the local web explorer.
type UIConfig struct {
	Port      int    `yaml:"port,omitempty" jsonschema:"minimum=0,maximum=65535,description=Port the explorer listens on (default 4173)"`
	PrefsPath string `yaml:"prefs_path,omitempty" jsonschema:"description=SQLite file holding the explorer preferences (default ~/.aza/ui.db)"`
}

// Config is the top-level structure of ~/.aza/config.yaml.
type Config struct {
	Project    string           `yaml:"project,omitempty" jsonschema:"description=Project endpoint used when --project and AZA_PROJECT are unset"`
	APIVersion string           `yaml:"api_version,omitempty" jsonschema:"description=api-version sent to every endpoint"`
	Debug      bool             `yaml:"debug,omitempty" jsonschema:"description=Log every upstream request and response"`
	Output     string           `yaml:"output,omitempty" jsonschema:"enum=table,enum=json,enum=raw,enum=yaml,description=Output mode used when no output flag is given"`
	Transcript TranscriptConfig `yaml:"transcript,omitempty"`
	UI         UIConfig         `yaml:"ui,omitempty"`
}

// DefaultPath returns $AZA_CONFIG, or ~/.aza/config.yaml
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".aza", "config.yaml")
}

// Load reads the config file at path. A missing file yields an empty
// config; a file that cannot be parsed is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Transcript.MaxBody != nil && *c.Transcript.MaxBody < -1 {
		return fmt.Errorf("transcript.max_body must be -1 or greater, got %d", *c.Transcript.MaxBody)
	}
	switch strings.ToLower(c.Output) {
	case "", "table", "json", "raw", "yaml":
	default:
		return fmt.Errorf("output must be table, json, raw or yaml, got %q", c.Output)
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui.port out of range: %d", c.UI.Port)
	}
	return nil
}
