// Package configio loads a sim.Config from YAML or TOML files, with
// strict unknown-key rejection and optional named-preset layering.
package configio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/infersim/sim"
)

// DefaultSeed is the seed the core uses when a config omits one, per
// spec.md §6.
const DefaultSeed = "stripy zebra"

// Format names the on-disk encoding a config file is written in.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat sniffs the format from path's extension. Unrecognized
// extensions default to YAML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// Load reads path, strictly decodes it into a sim.Config per its detected
// Format, applies preset (if non-empty), and validates the result.
// Unknown top-level keys are rejected.
func Load(path string, preset string) (sim.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := decode(data, DetectFormat(path))
	if err != nil {
		return sim.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Seed == "" {
		cfg.Seed = DefaultSeed
	}

	if preset != "" {
		frag, ok := Presets[preset]
		if !ok {
			return sim.Config{}, fmt.Errorf("unknown preset %q", preset)
		}
		cfg = frag.layer(cfg)
		logrus.Infof("applied preset %q over %s", preset, path)
	}

	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, format Format) (sim.Config, error) {
	var cfg sim.Config
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return sim.Config{}, err
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return sim.Config{}, fmt.Errorf("unknown keys: %v", undec)
		}
		return cfg, nil
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return sim.Config{}, err
		}
		return cfg, nil
	}
}

// Dump marshals cfg back to YAML, the canonical on-disk form `cmd config`
// prints to stdout.
func Dump(cfg sim.Config) (string, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(out), nil
}
