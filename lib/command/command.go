// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// Package command defines the caller-supplied command specification
// consumed by the spawn, pipeline, and sandbox packages. A Spec is
// immutable from the component's point of view: components read it,
// build an exec.Cmd from it, and never modify it.
package command

import (
	"context"
	"errors"
	"os/exec"
)

// Spec identifies a program to run: an executable (resolved via PATH
// when not an absolute or relative path) and the full argument vector,
// argv[0] included. The environment is inherited from the calling
// process.
type Spec struct {
	// Path is the executable to run. When empty, Args[0] is used.
	Path string

	// Args is the argument vector passed to the program. Args[0] is
	// conventionally the program name.
	Args []string
}

// New builds a Spec from an argv-style slice: argv[0] is both the
// executable and the program name.
func New(argv ...string) Spec {
	if len(argv) == 0 {
		return Spec{}
	}
	return Spec{Path: argv[0], Args: argv}
}

// Validate reports a usage error for a Spec with nothing to run. It
// touches no resources: callers check it before allocating anything.
func (s Spec) Validate() error {
	if s.Path == "" && len(s.Args) == 0 {
		return errors.New("empty command")
	}
	return nil
}

// executable returns the program to exec, preferring Path.
func (s Spec) executable() string {
	if s.Path != "" {
		return s.Path
	}
	return s.Args[0]
}

// Cmd builds an exec.Cmd for the Spec. The returned command has no
// stdio configured; callers wire stdin/stdout/stderr according to
// their redirection discipline before starting it.
func (s Spec) Cmd() *exec.Cmd {
	cmd := exec.Command(s.executable())
	if len(s.Args) > 0 {
		cmd.Args = append([]string(nil), s.Args...)
	}
	return cmd
}

// CmdContext is Cmd with the command bound to ctx: if ctx is canceled
// while the command runs, its Cancel function is invoked.
func (s Spec) CmdContext(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, s.executable())
	if len(s.Args) > 0 {
		cmd.Args = append([]string(nil), s.Args...)
	}
	return cmd
}

// String renders the spec for logs and error messages.
func (s Spec) String() string {
	if len(s.Args) > 0 {
		out := s.Args[0]
		for _, arg := range s.Args[1:] {
			out += " " + arg
		}
		return out
	}
	return s.Path
}
