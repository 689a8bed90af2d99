// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spindle-works/spindle/lib/codec"
	"github.com/spindle-works/spindle/lib/command"
	"github.com/spindle-works/spindle/pipeline"
)

// runRecord is the CBOR result record written after a pipeline run.
type runRecord struct {
	// Name is the pipeline name from the definition file, empty for
	// argv-built pipelines.
	Name string `cbor:"name,omitempty"`

	// Success mirrors the process exit convention: true only when
	// the topology formed and every stage exited 0.
	Success bool `cbor:"success"`

	// Error is the orchestration error, when the topology could not
	// be formed.
	Error string `cbor:"error,omitempty"`

	// DurationMS is the wall-clock time of the whole run.
	DurationMS int64 `cbor:"duration_ms"`

	// Stages are the per-stage outcomes, in pipeline order, covering
	// only the stages that were actually spawned.
	Stages []stageRecord `cbor:"stages"`
}

// stageRecord is one stage's collected outcome.
type stageRecord struct {
	Command []string `cbor:"command"`
	Outcome string   `cbor:"outcome"`
	OK      bool     `cbor:"ok"`
}

// buildRecord assembles the result record for one run.
func buildRecord(name string, specs []command.Spec, result pipeline.Result, runErr error, duration time.Duration) runRecord {
	record := runRecord{
		Name:       name,
		Success:    runErr == nil && result.OK(),
		DurationMS: duration.Milliseconds(),
		Stages:     make([]stageRecord, 0, len(result.Stages)),
	}
	if runErr != nil {
		record.Error = runErr.Error()
	}
	for _, stage := range result.Stages {
		outcome := stage.Outcome.String()
		if stage.WaitErr != nil {
			outcome = "wait error: " + stage.WaitErr.Error()
		}
		record.Stages = append(record.Stages, stageRecord{
			Command: stage.Command.Args,
			Outcome: outcome,
			OK:      stage.OK(),
		})
	}
	return record
}

// writeRecord writes the record atomically (temp file + rename) so
// readers never see a partial record.
func writeRecord(path string, record runRecord) error {
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling result record: %w", err)
	}
	temporaryPath := path + ".tmp"
	if err := os.WriteFile(temporaryPath, data, 0600); err != nil {
		return fmt.Errorf("writing result record: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming result record: %w", err)
	}
	return nil
}
