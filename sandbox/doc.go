// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// Package sandbox supervises the execution of one unit of work in an
// isolated child process under a wall-clock timeout and classifies the
// outcome as a Verdict: Good, Bad (nonzero exit, signal, or timeout),
// or SupervisorError for conditions the supervisor itself cannot
// interpret.
//
// The unit of work is either a command (Run) or a registered work
// function (RunFunc). Go cannot fork-and-call a closure, so work
// functions execute in a re-executed copy of the current binary: the
// embedding program registers functions with Register and calls Main
// at the top of its main() (or TestMain), and the supervisor re-execs
// the binary with the work name in the environment.
//
// The timeout cancels the supervisor's wait, not the child's
// execution; an expired timer is always followed by a SIGKILL to the
// child's process group and a second, unconditional collection of the
// child, so no supervised child is ever left running or zombied.
package sandbox
