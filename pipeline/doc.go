// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline executes an ordered sequence of commands as a
// connected pipeline: each stage's stdout feeds the next stage's
// stdin, mirroring shell pipe composition.
//
// The orchestrator owns the full descriptor and collection protocol.
// A pipeline of n commands creates exactly n children and at most n−1
// pipes. Each pipe end is closed exactly once in the orchestrating
// process: the write end immediately after the stage that writes to it
// starts, the read end immediately after the stage that reads from it
// starts. Retaining a write end past that point would starve the
// downstream reader of EOF and hang the pipeline. Collection is scoped
// strictly to the children this call created — never a process-wide
// wait — and every child is collected exactly once before Run returns,
// on success and on error paths alike.
package pipeline
