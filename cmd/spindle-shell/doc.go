// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// spindle-shell runs a pipeline of commands, connecting each stage's
// stdout to the next stage's stdin, and exits 0 only when every stage
// exits 0.
//
// Usage:
//
//	spindle-shell [flags] -- cmd1 [args...] '|' cmd2 [args...] ...
//	spindle-shell [flags] --file pipeline.jsonc
//
// The '|' separators are ordinary arguments (quote them so the calling
// shell does not interpret them). A pipeline can also be defined in a
// JSONC file with a "stages" array of argv vectors.
package main
