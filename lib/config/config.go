// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the Spindle
// binaries.
//
// Configuration is loaded from a single YAML file specified by:
//   - SPINDLE_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
// Flags always win over the file; the file always wins over the
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "5s" or "1m30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the master configuration for Spindle binaries.
type Config struct {
	// Sandbox configures the sandbox supervisor defaults.
	Sandbox SandboxConfig `yaml:"sandbox"`

	// Pipeline configures the pipeline runner defaults.
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// SandboxConfig holds sandbox supervisor defaults.
type SandboxConfig struct {
	// Timeout is the default wall-clock budget for supervised work.
	// Zero means no timeout.
	Timeout Duration `yaml:"timeout"`

	// Verbose enables one-line verdict diagnostics by default.
	Verbose bool `yaml:"verbose"`
}

// PipelineConfig holds pipeline runner defaults.
type PipelineConfig struct {
	// Capture is a path to write a zstd-compressed transcript of
	// the pipeline's final output. Empty disables capture.
	Capture string `yaml:"capture"`

	// ResultFile is a path to write a CBOR result record after each
	// run. Empty disables the record.
	ResultFile string `yaml:"result_file"`
}

// Default returns the built-in configuration: a 30 second sandbox
// timeout, no capture, no result record.
func Default() *Config {
	return &Config{
		Sandbox: SandboxConfig{Timeout: Duration(30 * time.Second)},
	}
}

// Load reads the configuration file at path. When path is empty, the
// SPINDLE_CONFIG environment variable is consulted; when that is also
// empty, the built-in defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SPINDLE_CONFIG")
	}
	config := Default()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if config.Sandbox.Timeout < 0 {
		return nil, fmt.Errorf("config %s: sandbox timeout must not be negative", path)
	}
	return config, nil
}
