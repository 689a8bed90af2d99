// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spindle-works/spindle/lib/codec"
	"github.com/spindle-works/spindle/lib/command"
	"github.com/spindle-works/spindle/sandbox"
)

// verdictRecord is the CBOR record written after a supervised run.
type verdictRecord struct {
	Command    []string `cbor:"command"`
	Verdict    string   `cbor:"verdict"`
	Code       int      `cbor:"code"`
	TimeoutMS  int64    `cbor:"timeout_ms"`
	DurationMS int64    `cbor:"duration_ms"`
}

// writeVerdictRecord writes the record atomically (temp file + rename).
func writeVerdictRecord(path string, spec command.Spec, verdict sandbox.Verdict, timeout, duration time.Duration) error {
	record := verdictRecord{
		Command:    spec.Args,
		Verdict:    verdict.String(),
		Code:       verdict.Code(),
		TimeoutMS:  timeout.Milliseconds(),
		DurationMS: duration.Milliseconds(),
	}
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling verdict record: %w", err)
	}
	temporaryPath := path + ".tmp"
	if err := os.WriteFile(temporaryPath, data, 0600); err != nil {
		return fmt.Errorf("writing verdict record: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming verdict record: %w", err)
	}
	return nil
}
