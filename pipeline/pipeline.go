// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/spindle-works/spindle/lib/command"
	"github.com/spindle-works/spindle/lib/process"
	"github.com/spindle-works/spindle/spawn"
)

// Options configures one pipeline run. The zero value wires the
// pipeline to the calling process's own standard streams, like a
// shell.
type Options struct {
	// Stdin feeds the first stage. Defaults to os.Stdin.
	Stdin io.Reader

	// Stdout receives the last stage's output. Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr is shared by every stage. Defaults to os.Stderr.
	Stderr io.Writer

	// Logger for orchestration events. Defaults to slog.Default().
	Logger *slog.Logger
}

// StageResult is the collected outcome of a single stage.
type StageResult struct {
	// Command is the spec this stage ran.
	Command command.Spec

	// Outcome is the classified termination status. Only meaningful
	// when WaitErr is nil.
	Outcome process.ExitOutcome

	// WaitErr is set when collecting the stage failed — a fault in
	// the orchestration, not a nonzero exit of the stage.
	WaitErr error
}

// OK reports whether the stage was collected cleanly and exited 0.
func (s StageResult) OK() bool {
	return s.WaitErr == nil && s.Outcome.Success()
}

// Result aggregates all stages of one pipeline run. There is no
// partial success: one bad stage fails the whole pipeline.
type Result struct {
	Stages []StageResult
}

// OK reports whether every stage exited 0. An empty pipeline is
// trivially successful.
func (r Result) OK() bool {
	for _, stage := range r.Stages {
		if !stage.OK() {
			return false
		}
	}
	return true
}

// Run executes specs as a connected pipeline and returns after every
// spawned child has been collected. A non-nil error means the pipeline
// topology could not be formed (pipe or spawn failure); children
// started before the failure are killed and collected before Run
// returns, and the partial Result covers exactly those stages. When
// the error is nil, Result.OK distinguishes success from stage
// failure.
//
// Run holds no state between invocations: every pipe and child it
// creates is disposed of before it returns.
func Run(ctx context.Context, specs []command.Spec, opts Options) (Result, error) {
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return Result{}, fmt.Errorf("stage %d: %w", i, err)
		}
	}
	if len(specs) == 0 {
		return Result{}, nil
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	children := make([]*spawn.Child, 0, len(specs))
	var prevRead *os.File

	// abort tears down a half-built pipeline: close the live read
	// end, kill whatever already started, and still collect every
	// child so none is left unreaped.
	abort := func(cause error) (Result, error) {
		if prevRead != nil {
			prevRead.Close()
		}
		for _, child := range children {
			_ = child.Kill()
		}
		return collect(children, specs, logger), cause
	}

	for i, spec := range specs {
		last := i == len(specs)-1

		// The pipe connecting stage i to stage i+1 is created
		// before stage i's child, never for the last stage.
		var pipeRead, pipeWrite *os.File
		if !last {
			var err error
			pipeRead, pipeWrite, err = spawn.Pipe()
			if err != nil {
				return abort(fmt.Errorf("stage %d (%s): %w", i, spec, err))
			}
		}

		cmd := spec.CmdContext(ctx)
		if i == 0 {
			cmd.Stdin = stdin
		} else {
			cmd.Stdin = prevRead
		}
		if last {
			cmd.Stdout = stdout
		} else {
			cmd.Stdout = pipeWrite
		}
		cmd.Stderr = stderr

		child, err := spawn.Start(cmd)

		// Parent-side bookkeeping runs whether or not the start
		// succeeded: neither end is the orchestrator's to keep.
		// The previous read end now lives on in the new child (or
		// died with the failed start); the write end belongs to
		// stage i alone.
		if prevRead != nil {
			prevRead.Close()
			prevRead = nil
		}
		if pipeWrite != nil {
			pipeWrite.Close()
		}

		if err != nil {
			if pipeRead != nil {
				pipeRead.Close()
			}
			return abort(fmt.Errorf("starting stage %d (%s): %w", i, spec, err))
		}

		logger.Debug("pipeline stage started",
			"stage", i,
			"pid", child.PID(),
			"command", spec.String())

		children = append(children, child)
		prevRead = pipeRead
	}

	return collect(children, specs, logger), nil
}

// collect waits for every child exactly once, in no particular order,
// and assembles the aggregate result.
func collect(children []*spawn.Child, specs []command.Spec, logger *slog.Logger) Result {
	results := make([]StageResult, len(children))
	group := new(errgroup.Group)
	for i, child := range children {
		i, child := i, child
		group.Go(func() error {
			outcome, err := child.Wait()
			results[i] = StageResult{Command: specs[i], Outcome: outcome, WaitErr: err}
			if err != nil {
				logger.Error("collecting pipeline stage", "stage", i, "error", err)
			} else {
				logger.Debug("pipeline stage collected", "stage", i, "outcome", outcome.String())
			}
			return nil
		})
	}
	// The group never carries an error: collection failures are per
	// stage results, and every stage must be collected regardless.
	_ = group.Wait()
	return Result{Stages: results}
}
