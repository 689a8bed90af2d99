// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the build version of Spindle binaries.
package version

// version is overridden at build time via
// -ldflags "-X github.com/spindle-works/spindle/lib/version.version=v1.2.3".
var version = "dev"

// Info returns the version string for --version output.
func Info() string {
	return version
}
