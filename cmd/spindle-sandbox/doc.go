// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// spindle-sandbox runs a command in a supervised child process under a
// wall-clock timeout and classifies the outcome.
//
// Usage:
//
//	spindle-sandbox run [flags] -- <command> [args...]
//	spindle-sandbox version
//
// The exit status reports the verdict: 0 when the command exited 0
// within its budget, 1 when it misbehaved (nonzero exit, killed by a
// signal, or timed out), 2 when supervision itself failed. With
// --classify the raw classification value (1 good, 0 bad, -1
// supervisor error) is printed to stdout as well.
package main
