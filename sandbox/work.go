// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// workEnv names the registered work function a re-executed child
// should run. Its presence turns Main into the child entrypoint.
const workEnv = "SPINDLE_SANDBOX_WORK"

// workExitUnknown is the status a re-executed child exits with when
// the requested work function is not registered in this binary. 125
// stays clear of conventional exec-failure codes (126/127).
const workExitUnknown = 125

var (
	workMu  sync.RWMutex
	workFns = make(map[string]func())
)

// Register makes a work function available to RunFunc under name.
// Registration typically happens in init or at the top of main, before
// Main is called, so parent and re-executed child agree on the
// registry. Registering the same name twice panics: a silent overwrite
// would make RunFunc run the wrong work.
func Register(name string, fn func()) {
	if name == "" || fn == nil {
		panic("sandbox: Register requires a name and a function")
	}
	workMu.Lock()
	defer workMu.Unlock()
	if _, exists := workFns[name]; exists {
		panic(fmt.Sprintf("sandbox: work %q registered twice", name))
	}
	workFns[name] = fn
}

// registered looks up a work function.
func registered(name string) (func(), bool) {
	workMu.RLock()
	defer workMu.RUnlock()
	fn, ok := workFns[name]
	return fn, ok
}

// Main is the re-exec hook. Call it at the top of main() (or
// TestMain) in any binary that uses RunFunc. In the parent it returns
// immediately; in a re-executed child it runs the requested work
// function and exits 0 when the function returns normally, so Main
// never returns in the child.
func Main() {
	name := os.Getenv(workEnv)
	if name == "" {
		return
	}
	fn, ok := registered(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "sandbox: unknown work %q\n", name)
		os.Exit(workExitUnknown)
	}
	fn()
	os.Exit(0)
}

// RunFunc executes the work function registered under name in an
// isolated child (a re-executed copy of the current binary) under the
// supervisor's timeout, and classifies the result exactly like Run. A
// name with no registration is a usage error reported as a
// SupervisorError without creating any child.
func (s *Supervisor) RunFunc(ctx context.Context, name string) Verdict {
	if _, ok := registered(name); !ok {
		return s.report(Verdict{Kind: SupervisorError, Err: fmt.Errorf("no work registered as %q", name)})
	}
	executable, err := os.Executable()
	if err != nil {
		return s.report(Verdict{Kind: SupervisorError, Err: fmt.Errorf("resolving own binary: %w", err)})
	}

	cmd := exec.Command(executable)
	cmd.Env = append(os.Environ(), workEnv+"="+name)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return s.supervise(ctx, cmd)
}
