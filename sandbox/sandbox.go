// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/spindle-works/spindle/lib/command"
	"github.com/spindle-works/spindle/lib/process"
)

// Config holds configuration for creating a Supervisor.
type Config struct {
	// Timeout is the wall-clock budget for the supervised work.
	// Zero or negative means no timeout: the supervisor waits
	// indefinitely. (The classic alarm(0) cancels the alarm, so
	// this matches the observable behavior of the original popen
	// -era supervisors this package descends from.)
	Timeout time.Duration

	// Verbose emits a one-line classification of every verdict to
	// the logger. It never affects the verdict itself.
	Verbose bool

	// Logger for supervision events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Supervisor runs units of work in isolated children. It holds no
// per-run state; a single Supervisor may be reused across runs.
type Supervisor struct {
	timeout time.Duration
	verbose bool
	logger  *slog.Logger
}

// New creates a Supervisor.
func New(config Config) *Supervisor {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		timeout: config.Timeout,
		verbose: config.Verbose,
		logger:  logger,
	}
}

// Run executes spec in an isolated child under the supervisor's
// timeout and classifies the result. The child inherits the calling
// process's standard streams.
func (s *Supervisor) Run(ctx context.Context, spec command.Spec) Verdict {
	if err := spec.Validate(); err != nil {
		return s.report(Verdict{Kind: SupervisorError, Err: err})
	}
	cmd := spec.Cmd()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return s.supervise(ctx, cmd)
}

// waitResult carries a completed wait from the collection goroutine
// back to the supervising goroutine.
type waitResult struct {
	state *os.ProcessState
	err   error
}

// supervise starts cmd and blocks until it terminates or the timeout
// fires, whichever comes first. The child runs in its own process
// group so that a timeout kill reaches the whole tree, not just the
// direct child (a work unit that spawned its own children would
// otherwise survive and keep the inherited streams open).
func (s *Supervisor) supervise(ctx context.Context, cmd *exec.Cmd) Verdict {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return s.report(Verdict{Kind: SupervisorError, Err: fmt.Errorf("spawning child: %w", err)})
	}
	pid := cmd.Process.Pid
	s.logger.Debug("supervised child started", "pid", pid, "timeout", s.timeout)

	// The wait blocks in its own goroutine; the select below is the
	// interruption point. Buffer of one so the waiter never leaks
	// when the timer wins the race.
	done := make(chan waitResult, 1)
	go func() {
		err := cmd.Wait()
		done <- waitResult{state: cmd.ProcessState, err: err}
	}()

	var expired <-chan time.Time
	if s.timeout > 0 {
		timer := time.NewTimer(s.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-expired:
		// The wait was interrupted, not the child: kill the whole
		// process group unconditionally, then perform the second,
		// non-interruptible collection to clear the process table.
		s.killGroup(pid)
		<-done
		return s.report(Verdict{Kind: Bad, Reason: TimedOut})

	case <-ctx.Done():
		s.killGroup(pid)
		<-done
		return s.report(Verdict{Kind: SupervisorError, Err: ctx.Err()})

	case result := <-done:
		outcome, err := process.FromWait(result.state, result.err)
		if err != nil {
			return s.report(Verdict{Kind: SupervisorError, Err: err})
		}
		switch {
		case outcome.Success():
			return s.report(Verdict{Kind: Good, Outcome: outcome})
		case outcome.Kind == process.Exited:
			return s.report(Verdict{Kind: Bad, Reason: NonZeroExit, Outcome: outcome})
		default:
			return s.report(Verdict{Kind: Bad, Reason: Signaled, Outcome: outcome})
		}
	}
}

// killGroup SIGKILLs the child's process group. ESRCH means the group
// is already gone, which is fine: the collection that follows still
// reaps the child.
func (s *Supervisor) killGroup(pid int) {
	if err := unix.Kill(-pid, unix.SIGKILL); err != nil && err != unix.ESRCH {
		s.logger.Error("killing process group", "pid", pid, "error", err)
	}
}

// report optionally logs the one-line classification. The verdict is
// returned unchanged; verbosity has no effect on classification.
func (s *Supervisor) report(v Verdict) Verdict {
	if s.verbose {
		s.logger.Info("sandbox verdict", "verdict", v.String(), "code", v.Code())
	}
	return v
}
