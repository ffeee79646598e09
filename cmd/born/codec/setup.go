// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"log/slog"
	"os"

	"github.com/bureau-foundation/born/cmd/born/cli"
	"github.com/bureau-foundation/born/lib/born"
	"github.com/bureau-foundation/born/lib/config"
)

// commonParams are the flags every subcommand accepts.
type commonParams struct {
	cli.Verbosity
	ConfigPath string `json:"config" flag:"config" desc:"path to born.yaml (default: $BORN_CONFIG)"`
}

// loadConfig resolves the configuration: --config wins, then
// BORN_CONFIG, then the built-in defaults.
func (p *commonParams) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case p.ConfigPath != "":
		cfg, err = config.LoadFile(p.ConfigPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, cli.Validation("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid config: %w", err)
	}
	return cfg, nil
}

// setup loads the configuration and builds the codec it describes.
func (p *commonParams) setup(logger *slog.Logger) (*config.Config, *born.Codec, error) {
	cfg, err := p.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	codec, err := newCodec(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("codec ready",
		"types", codec.Registry().Names(),
		"max_depth", cfg.Codec.MaxDepth,
		"strict_tags", cfg.Codec.StrictTags,
	)
	return cfg, codec, nil
}

// newCodec registers every declared type as a generic descriptor.
func newCodec(cfg *config.Config, logger *slog.Logger) (*born.Codec, error) {
	descriptors := make([]born.TypeDescriptor, 0, len(cfg.Types))
	for _, declared := range cfg.Types {
		descriptor := born.GenericDescriptor(declared.Name)
		descriptor.Identity = declared.IdentityOrName()
		descriptors = append(descriptors, descriptor)
	}
	codec, err := born.New(born.Options{
		Types:      descriptors,
		MaxDepth:   cfg.Codec.MaxDepth,
		StrictTags: cfg.Codec.StrictTags,
		Logger:     logger,
	})
	if err != nil {
		return nil, cli.Validation("build codec: %w", err)
	}
	return codec, nil
}
