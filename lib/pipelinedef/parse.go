// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipelinedef provides parsing for pipeline definitions: JSONC
// definition files (JSON extended with comments and trailing commas)
// and shell-style "cmd1 args | cmd2 args" argument vectors. The core
// packages never parse text; this package is the collaborator that
// turns caller input into []command.Spec at the CLI boundary.
package pipelinedef

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/spindle-works/spindle/lib/command"
)

// Definition is a parsed pipeline definition file.
type Definition struct {
	// Name identifies the pipeline in logs and result records.
	Name string `json:"name"`

	// Stages are the argv vectors to connect, first element being
	// the program of each stage.
	Stages [][]string `json:"stages"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals and validates the result.
func Parse(data []byte) (*Definition, error) {
	stripped := jsonc.ToJSON(data)

	var def Definition
	if err := json.Unmarshal(stripped, &def); err != nil {
		return nil, fmt.Errorf("parsing pipeline definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// ReadFile loads and parses the definition at path.
func ReadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Validate checks that every stage has a program to run. An empty
// stage list is allowed: an empty pipeline is trivially successful.
func (d *Definition) Validate() error {
	for i, stage := range d.Stages {
		if len(stage) == 0 || stage[0] == "" {
			return fmt.Errorf("stage %d: empty command", i)
		}
	}
	return nil
}

// Specs converts the definition's stages into command specs.
func (d *Definition) Specs() []command.Spec {
	specs := make([]command.Spec, len(d.Stages))
	for i, stage := range d.Stages {
		specs[i] = command.New(stage...)
	}
	return specs
}

// SplitArgv splits an argument vector on "|" tokens into per-stage
// argv vectors: ["echo", "hi", "|", "tr", "a-z", "A-Z"] becomes
// [["echo","hi"], ["tr","a-z","A-Z"]]. An empty segment (leading,
// trailing, or doubled separator) is a usage error. An empty input is
// an empty pipeline, not an error.
func SplitArgv(args []string) ([]command.Spec, error) {
	if len(args) == 0 {
		return nil, nil
	}
	var specs []command.Spec
	start := 0
	for i := 0; i <= len(args); i++ {
		if i < len(args) && args[i] != "|" {
			continue
		}
		if i == start {
			return nil, fmt.Errorf("empty command at position %d", len(specs))
		}
		specs = append(specs, command.New(args[start:i]...))
		start = i + 1
	}
	return specs, nil
}
