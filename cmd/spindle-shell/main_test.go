// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spindle-works/spindle/lib/codec"
	"github.com/spindle-works/spindle/lib/command"
	"github.com/spindle-works/spindle/lib/process"
	"github.com/spindle-works/spindle/pipeline"
)

func TestBuildRecord(t *testing.T) {
	specs := []command.Spec{command.New("echo", "hi"), command.New("false")}
	result := pipeline.Result{Stages: []pipeline.StageResult{
		{Command: specs[0], Outcome: process.ExitOutcome{Kind: process.Exited, Code: 0}},
		{Command: specs[1], Outcome: process.ExitOutcome{Kind: process.Exited, Code: 1}},
	}}
	record := buildRecord("demo", specs, result, nil, 1500*time.Millisecond)
	if record.Success {
		t.Error("record.Success = true with a failing stage")
	}
	if record.Name != "demo" {
		t.Errorf("name = %q", record.Name)
	}
	if record.DurationMS != 1500 {
		t.Errorf("duration = %d, want 1500", record.DurationMS)
	}
	if len(record.Stages) != 2 {
		t.Fatalf("stages = %d, want 2", len(record.Stages))
	}
	if !record.Stages[0].OK || record.Stages[1].OK {
		t.Errorf("stage OK flags = %v/%v, want true/false", record.Stages[0].OK, record.Stages[1].OK)
	}
	if record.Stages[1].Outcome != "exit 1" {
		t.Errorf("stage 1 outcome = %q, want %q", record.Stages[1].Outcome, "exit 1")
	}
}

func TestBuildRecordOrchestrationError(t *testing.T) {
	record := buildRecord("", nil, pipeline.Result{}, errors.New("starting stage 1: no such file"), time.Millisecond)
	if record.Success {
		t.Error("record.Success = true with orchestration error")
	}
	if record.Error == "" {
		t.Error("record.Error empty")
	}
}

func TestWriteRecordRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.cbor")
	in := buildRecord("rt", nil, pipeline.Result{}, nil, 0)
	if err := writeRecord(path, in); err != nil {
		t.Fatalf("writeRecord: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading record: %v", err)
	}
	var out runRecord
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("decoding record: %v", err)
	}
	if out.Name != "rt" || !out.Success {
		t.Errorf("decoded record = %+v", out)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary record file left behind")
	}
}

func TestRunVersionFlag(t *testing.T) {
	ok, err := run([]string{"--version"})
	if err != nil || !ok {
		t.Errorf("run(--version) = %v, %v", ok, err)
	}
}

func TestRunUsageErrorOnBadSeparator(t *testing.T) {
	if _, err := run([]string{"--", "|", "cat"}); err == nil {
		t.Error("leading separator accepted")
	}
}
