// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/born/lib/born"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "BORN_CONFIG"

// Config is the configuration of the born tool.
type Config struct {
	// Codec configures encode and decode limits.
	Codec CodecConfig `yaml:"codec"`

	// Output configures how decoded values are rendered.
	Output OutputConfig `yaml:"output"`

	// Types declares extension types the tool decodes generically.
	Types []TypeConfig `yaml:"types"`

	// TypesFile is an optional YAML file holding a further list of
	// type declarations, appended to Types. ${HOME}, ${BORN_CONFIG_DIR}
	// and ${VAR:-default} are expanded; relative paths are resolved
	// against the directory of the config file.
	TypesFile string `yaml:"types_file"`
}

// CodecConfig configures the codec.
type CodecConfig struct {
	// MaxDepth bounds nesting on encode and decode.
	// Default: 1000
	MaxDepth int `yaml:"max_depth"`

	// StrictTags fails decoding on unknown tag bytes instead of
	// yielding null.
	// Default: false
	StrictTags bool `yaml:"strict_tags"`
}

// OutputConfig configures JSON output.
type OutputConfig struct {
	// Compact disables indentation.
	// Default: false
	Compact bool `yaml:"compact"`

	// Indent is the indentation unit when Compact is false.
	// Default: two spaces
	Indent string `yaml:"indent"`
}

// TypeConfig declares one extension type.
type TypeConfig struct {
	// Name is the wire name (at most 16 bytes are significant).
	Name string `yaml:"name"`

	// Identity is attached to decoded values and shown as $type in
	// JSON. Defaults to Name.
	Identity string `yaml:"identity,omitempty"`
}

// Default returns the default configuration. Commands run with it when
// no config file is given.
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			MaxDepth: 1000,
		},
		Output: OutputConfig{
			Indent: "  ",
		},
	}
}

// Load loads configuration from the file named by BORN_CONFIG.
//
// There is no discovery: if BORN_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your born.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, on top of
// [Default].
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if cfg.TypesFile != "" {
		typesPath := expandVars(cfg.TypesFile, map[string]string{
			"BORN_CONFIG_DIR": filepath.Dir(path),
			"HOME":            os.Getenv("HOME"),
		})
		if !filepath.IsAbs(typesPath) {
			typesPath = filepath.Join(filepath.Dir(path), typesPath)
		}
		cfg.TypesFile = typesPath
		if err := cfg.loadTypesFile(typesPath); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadFile merges a single configuration file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// loadTypesFile appends the type list stored in path.
func (c *Config) loadTypesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading types file: %w", err)
	}

	var types []TypeConfig
	if err := yaml.Unmarshal(data, &types); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	c.Types = append(c.Types, types...)
	return nil
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Codec.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("codec.max_depth must be at least 1, got %d", c.Codec.MaxDepth))
	}

	if strings.Trim(c.Output.Indent, " \t") != "" {
		errs = append(errs, fmt.Errorf("output.indent may contain only spaces and tabs, got %q", c.Output.Indent))
	}

	identities := make(map[string]int, len(c.Types))
	codes := make(map[born.TypeCode]int, len(c.Types))
	for index, declared := range c.Types {
		if declared.Name == "" {
			errs = append(errs, fmt.Errorf("types[%d].name is required", index))
			continue
		}
		identity := declared.IdentityOrName()
		if previous, ok := identities[identity]; ok {
			errs = append(errs, fmt.Errorf("types[%d]: identity %q already declared by types[%d]", index, identity, previous))
		} else {
			identities[identity] = index
		}
		code := born.MakeTypeCode(declared.Name)
		if previous, ok := codes[code]; ok {
			errs = append(errs, fmt.Errorf("types[%d]: name %q has the same %d-byte wire name as types[%d]",
				index, declared.Name, born.TypeCodeSize, previous))
		} else {
			codes[code] = index
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// IdentityOrName returns the declared identity, or the name when none
// is set.
func (t TypeConfig) IdentityOrName() string {
	if t.Identity != "" {
		return t.Identity
	}
	return t.Name
}

// IndentString returns the indentation unit for JSON output: empty
// when Compact is set.
func (c *Config) IndentString() string {
	if c.Output.Compact {
		return ""
	}
	return c.Output.Indent
}
