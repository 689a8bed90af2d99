// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// OutcomeKind discriminates the ExitOutcome union. The set is closed:
// a collected child either exited with a code or was terminated by a
// signal. Statuses that are neither (stopped, continued) are not
// outcomes and are reported as errors by Classify.
type OutcomeKind int

const (
	// Exited means the child terminated voluntarily; Code carries
	// its exit status.
	Exited OutcomeKind = iota

	// Signaled means the child was terminated by a signal; Signal
	// carries which one.
	Signaled
)

// ExitOutcome is the classified termination status of a collected
// child. Exactly one of Code and Signal is meaningful, selected by
// Kind.
type ExitOutcome struct {
	Kind   OutcomeKind
	Code   int
	Signal syscall.Signal
}

// Success reports whether the child exited voluntarily with status 0.
func (o ExitOutcome) Success() bool {
	return o.Kind == Exited && o.Code == 0
}

// String renders the outcome for diagnostics: "exit 0", "exit 42",
// "signal: killed".
func (o ExitOutcome) String() string {
	switch o.Kind {
	case Exited:
		return fmt.Sprintf("exit %d", o.Code)
	case Signaled:
		return fmt.Sprintf("signal: %v", o.Signal)
	default:
		return fmt.Sprintf("unknown outcome kind %d", int(o.Kind))
	}
}

// Classify converts a ProcessState into an ExitOutcome. An error means
// the status is outside the closed union (not exited and not signaled)
// or the platform wait status is not available; callers treat that as
// a supervisor-level failure, not as a child outcome.
func Classify(state *os.ProcessState) (ExitOutcome, error) {
	if state == nil {
		return ExitOutcome{}, errors.New("no process state: child was not collected")
	}
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return ExitOutcome{}, fmt.Errorf("unsupported wait status type %T", state.Sys())
	}
	switch {
	case status.Exited():
		return ExitOutcome{Kind: Exited, Code: status.ExitStatus()}, nil
	case status.Signaled():
		return ExitOutcome{Kind: Signaled, Signal: status.Signal()}, nil
	default:
		return ExitOutcome{}, fmt.Errorf("uninterpretable wait status %#x", uint32(status))
	}
}

// FromWait classifies the result of an (*exec.Cmd).Wait call. A nil
// error is a normal zero exit; an *exec.ExitError carries the state of
// a nonzero or signaled termination; anything else is a wait failure
// and is returned unchanged for the caller to escalate.
func FromWait(state *os.ProcessState, err error) (ExitOutcome, error) {
	if err == nil {
		return Classify(state)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Classify(exitErr.ProcessState)
	}
	return ExitOutcome{}, err
}
