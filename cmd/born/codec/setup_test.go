// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/bureau-foundation/born/lib/born"
	"github.com/bureau-foundation/born/lib/config"
)

var discardLogger = slog.New(slog.DiscardHandler)

// testCodec builds a codec from config YAML the way the commands do.
func testCodec(t *testing.T, yaml string) *born.Codec {
	t.Helper()
	params := commonParams{}
	if yaml != "" {
		params.ConfigPath = writeTempFile(t, "born.yaml", []byte(yaml))
	}
	t.Setenv(config.EnvironmentVariable, "")
	_, codec, err := params.setup(discardLogger)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return codec
}

func TestSetup_Defaults(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")
	params := commonParams{}
	cfg, codec, err := params.setup(discardLogger)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if cfg.Codec.MaxDepth != born.DefaultMaxDepth {
		t.Errorf("max depth = %d, want %d", cfg.Codec.MaxDepth, born.DefaultMaxDepth)
	}
	if codec.Registry().Len() != 0 {
		t.Errorf("default codec has %d types, want 0", codec.Registry().Len())
	}
}

func TestSetup_EnvironmentVariable(t *testing.T) {
	path := writeTempFile(t, "born.yaml", []byte("types:\n  - name: point\n"))
	t.Setenv(config.EnvironmentVariable, path)

	params := commonParams{}
	_, codec, err := params.setup(discardLogger)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if names := codec.Registry().Names(); len(names) != 1 || names[0] != "point" {
		t.Errorf("registered names = %v, want [point]", names)
	}
}

func TestSetup_ConfigFlagWins(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, writeTempFile(t, "env.yaml", []byte("types:\n  - name: fromenv\n")))
	params := commonParams{ConfigPath: writeTempFile(t, "flag.yaml", []byte("types:\n  - name: fromflag\n"))}

	_, codec, err := params.setup(discardLogger)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, _, ok := codec.Registry().Lookup("fromflag"); !ok {
		t.Error("type from --config not registered")
	}
	if _, _, ok := codec.Registry().Lookup("fromenv"); ok {
		t.Error("type from BORN_CONFIG registered although --config was given")
	}
}

func TestSetup_Identity(t *testing.T) {
	codec := testCodec(t, "types:\n  - name: point\n    identity: example.com/geometry.point\n")

	descriptor, code, ok := codec.Registry().Lookup("example.com/geometry.point")
	if !ok {
		t.Fatal("identity not registered")
	}
	if descriptor.Name != "point" || code != born.MakeTypeCode("point") {
		t.Errorf("descriptor = %q (code %q), want point", descriptor.Name, code)
	}
}

func TestSetup_InvalidConfig(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "codec: [",
		"bad depth":    "codec:\n  max_depth: -1\n",
		"missing name": "types:\n  - identity: x\n",
	}
	for name, yaml := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(config.EnvironmentVariable, "")
			params := commonParams{ConfigPath: writeTempFile(t, "born.yaml", []byte(yaml))}
			_, _, err := params.setup(discardLogger)
			if err == nil {
				t.Fatal("setup succeeded, want error")
			}
			if !strings.Contains(err.Error(), "config") {
				t.Errorf("error = %q, want it to mention the config", err)
			}
		})
	}
}

func TestSetup_StrictTags(t *testing.T) {
	codec := testCodec(t, "codec:\n  strict_tags: true\n")
	if _, err := codec.Decode([]byte{0x7f}); !errors.Is(err, born.ErrUnknownTag) {
		t.Errorf("error = %v, want ErrUnknownTag", err)
	}
}
