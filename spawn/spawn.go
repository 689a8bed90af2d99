// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/spindle-works/spindle/lib/command"
	"github.com/spindle-works/spindle/lib/process"
)

// Direction selects which of the child's standard streams is
// redirected through the pipe.
type Direction int

const (
	// ReadFromChild redirects the child's stdout into the pipe; the
	// caller reads the child's output from the returned file.
	ReadFromChild Direction = iota

	// WriteToChild redirects the child's stdin from the pipe; the
	// caller writes the child's input to the returned file.
	WriteToChild
)

// String renders the direction for logs and error messages.
func (d Direction) String() string {
	switch d {
	case ReadFromChild:
		return "read-from-child"
	case WriteToChild:
		return "write-to-child"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ErrCollected is returned by Wait when the child has already been
// collected. Exactly one Wait per child may succeed.
var ErrCollected = errors.New("child already collected")

// Child is a handle to a spawned process. It is owned by the caller
// that created it and is not safe for concurrent use: one goroutine
// collects it, exactly once.
type Child struct {
	cmd       *exec.Cmd
	collected bool
}

// Start runs cmd and wraps it in a Child. The caller has configured
// the command's stdio before calling; Start only begins execution and
// takes over the collection discipline.
func Start(cmd *exec.Cmd) (*Child, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &Child{cmd: cmd}, nil
}

// PID returns the operating-system process ID of the child.
func (c *Child) PID() int {
	return c.cmd.Process.Pid
}

// Wait collects the child and classifies its termination status. The
// first call consumes the handle; subsequent calls return ErrCollected.
// A non-nil error other than ErrCollected means the wait itself failed
// or the status could not be classified — not that the child failed.
func (c *Child) Wait() (process.ExitOutcome, error) {
	if c.collected {
		return process.ExitOutcome{}, ErrCollected
	}
	c.collected = true
	err := c.cmd.Wait()
	return process.FromWait(c.cmd.ProcessState, err)
}

// Kill forcibly terminates the child with SIGKILL. The child still
// must be collected with Wait afterward.
func (c *Child) Kill() error {
	return c.cmd.Process.Kill()
}

// Pipe creates a unidirectional byte-stream pair. Both descriptors are
// close-on-exec; os/exec clears the flag on the duplicate it installs
// in the child, so a pipe end never leaks into a child that was not
// explicitly given it.
func Pipe() (r, w *os.File, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return nil, nil, fmt.Errorf("creating pipe: %w", err)
	}
	return os.NewFile(uintptr(fds[0]), "|0"), os.NewFile(uintptr(fds[1]), "|1"), nil
}

// Open spawns spec with one standard stream redirected through a fresh
// pipe and returns the parent-side pipe end plus the child handle.
//
// For ReadFromChild the child's stdout is the pipe's write end and the
// caller receives the read end; for WriteToChild the child's stdin is
// the pipe's read end and the caller receives the write end. The other
// standard streams are inherited. The caller owns both returned
// values: it must close the file and Wait the child exactly once.
//
// On any failure both pipe ends are closed before returning; nothing
// leaks. Note one deliberate difference from classic popen over
// fork/exec: a missing or non-executable program is reported here,
// synchronously, rather than as a nonzero exit at collection time.
func Open(spec command.Spec, dir Direction, logger *slog.Logger) (*os.File, *Child, error) {
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}
	if dir != ReadFromChild && dir != WriteToChild {
		return nil, nil, fmt.Errorf("invalid direction %v", dir)
	}
	if logger == nil {
		logger = slog.Default()
	}

	r, w, err := Pipe()
	if err != nil {
		return nil, nil, err
	}

	cmd := spec.Cmd()
	cmd.Stderr = os.Stderr
	var parentEnd, childEnd *os.File
	if dir == ReadFromChild {
		cmd.Stdout = w
		cmd.Stdin = os.Stdin
		parentEnd, childEnd = r, w
	} else {
		cmd.Stdin = r
		cmd.Stdout = os.Stdout
		parentEnd, childEnd = w, r
	}

	child, err := Start(cmd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, nil, fmt.Errorf("starting %s: %w", spec, err)
	}

	// The child holds its own duplicate of this end; the parent's
	// copy must go away or a reader downstream never sees EOF.
	childEnd.Close()

	logger.Debug("spawned child",
		"pid", child.PID(),
		"command", spec.String(),
		"direction", dir.String())
	return parentEnd, child, nil
}
