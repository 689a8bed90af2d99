// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the shared child-process vocabulary for
// Spindle components: classification of raw termination statuses into
// the closed ExitOutcome union, and the binary entrypoint error
// handler.
//
// Everything that waits on a child — the spawner, the pipeline
// orchestrator, the sandbox supervisor — funnels the result of that
// wait through FromWait so that "how did it die" is decided in exactly
// one place.
package process
