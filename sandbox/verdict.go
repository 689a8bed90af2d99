// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"fmt"

	"github.com/spindle-works/spindle/lib/process"
)

// VerdictKind is the top-level classification of a supervised run.
type VerdictKind int

const (
	// Good means the work exited voluntarily with status 0.
	Good VerdictKind = iota

	// Bad means the work misbehaved: nonzero exit, terminated by a
	// signal, or overran its timeout. Reason says which.
	Bad

	// SupervisorError means the supervision itself failed — the
	// child could not be created, the wait failed for a reason
	// other than the timeout, or the termination status was outside
	// the closed outcome union. It says nothing about the work.
	SupervisorError
)

// Reason refines a Bad verdict.
type Reason int

const (
	// NoReason is the Reason of non-Bad verdicts.
	NoReason Reason = iota

	// NonZeroExit means the work exited voluntarily with a nonzero
	// status; Verdict.Outcome carries the code.
	NonZeroExit

	// Signaled means the work was terminated by a signal (segfault,
	// abort, ...); Verdict.Outcome carries which.
	Signaled

	// TimedOut means the work outlived its allotted wall-clock time
	// and was forcibly terminated by the supervisor.
	TimedOut
)

// Verdict is the classified result of one supervised run.
type Verdict struct {
	Kind VerdictKind

	// Reason is meaningful only when Kind is Bad.
	Reason Reason

	// Outcome is the child's termination status, set for the
	// NonZeroExit and Signaled reasons.
	Outcome process.ExitOutcome

	// Err is set only when Kind is SupervisorError.
	Err error
}

// Code maps the verdict onto the classification convention used at
// process boundaries: 1 for Good, 0 for Bad, -1 for SupervisorError.
func (v Verdict) Code() int {
	switch v.Kind {
	case Good:
		return 1
	case Bad:
		return 0
	default:
		return -1
	}
}

// String renders the one-line human-readable classification used for
// verbose diagnostics.
func (v Verdict) String() string {
	switch v.Kind {
	case Good:
		return "good: exit 0"
	case Bad:
		switch v.Reason {
		case NonZeroExit:
			return fmt.Sprintf("bad: exited with code %d", v.Outcome.Code)
		case Signaled:
			return fmt.Sprintf("bad: terminated by %v", v.Outcome.Signal)
		case TimedOut:
			return "bad: timed out"
		default:
			return "bad"
		}
	default:
		if v.Err != nil {
			return fmt.Sprintf("supervisor error: %v", v.Err)
		}
		return "supervisor error"
	}
}
