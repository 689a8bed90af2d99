// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// Package spawn launches a single program with one standard stream
// redirected through a fresh pipe, returning the parent-side end of
// the pipe and a handle to the child.
//
// Descriptor ownership follows a strict protocol: the pipe end handed
// to the child is closed in the parent immediately after the child
// starts (the child holds its own duplicate), and the other end is
// returned to the caller, who must close it when done. The child
// handle must be collected with Wait exactly once — a second Wait
// returns ErrCollected instead of silently succeeding, so double
// collection is always visible to the caller.
package spawn
