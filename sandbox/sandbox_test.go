// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/spindle-works/spindle/lib/command"
)

func TestMain(m *testing.M) {
	// In a re-executed child this runs the work function and never
	// returns; in the parent it is a no-op.
	Main()
	goleak.VerifyTestMain(m)
}

func init() {
	Register("nice", func() {})
	Register("exit-3", func() { os.Exit(3) })
	// A sleep loop rather than select {}: the re-executed child has no
	// other goroutines, so a bare select would trip the runtime's
	// deadlock detector and exit 2 instead of hanging.
	Register("loop", func() {
		for {
			time.Sleep(time.Hour)
		}
	})
	// SIGKILL rather than SIGSEGV: the Go runtime intercepts an
	// asynchronous SIGSEGV and turns it into a crash report before
	// dying, while SIGKILL terminates the child exactly as sent.
	// Signal classification for a real fault is covered by the
	// command-based test above.
	Register("self-kill", func() {
		syscall.Kill(syscall.Getpid(), syscall.SIGKILL)
		select {}
	})
}

func newTestSupervisor(t *testing.T, timeout time.Duration) *Supervisor {
	t.Helper()
	return New(Config{Timeout: timeout, Verbose: testing.Verbose()})
}

func TestRunGood(t *testing.T) {
	verdict := newTestSupervisor(t, 5*time.Second).Run(context.Background(), command.New("true"))
	if verdict.Kind != Good {
		t.Fatalf("verdict = %v, want Good", verdict)
	}
	if verdict.Code() != 1 {
		t.Errorf("Code() = %d, want 1", verdict.Code())
	}
}

func TestRunNonZeroExit(t *testing.T) {
	verdict := newTestSupervisor(t, 5*time.Second).Run(context.Background(), command.New("sh", "-c", "exit 7"))
	if verdict.Kind != Bad || verdict.Reason != NonZeroExit {
		t.Fatalf("verdict = %v, want Bad/NonZeroExit", verdict)
	}
	if verdict.Outcome.Code != 7 {
		t.Errorf("exit code = %d, want 7", verdict.Outcome.Code)
	}
	if verdict.Code() != 0 {
		t.Errorf("Code() = %d, want 0", verdict.Code())
	}
}

func TestRunSignaled(t *testing.T) {
	verdict := newTestSupervisor(t, 5*time.Second).Run(context.Background(), command.New("sh", "-c", "kill -SEGV $$"))
	if verdict.Kind != Bad || verdict.Reason != Signaled {
		t.Fatalf("verdict = %v, want Bad/Signaled", verdict)
	}
	if verdict.Outcome.Signal != syscall.SIGSEGV {
		t.Errorf("signal = %v, want SIGSEGV", verdict.Outcome.Signal)
	}
}

func TestRunTimeout(t *testing.T) {
	start := time.Now()
	verdict := newTestSupervisor(t, 100*time.Millisecond).Run(context.Background(), command.New("sleep", "30"))
	elapsed := time.Since(start)
	if verdict.Kind != Bad || verdict.Reason != TimedOut {
		t.Fatalf("verdict = %v, want Bad/TimedOut", verdict)
	}
	// Timeout plus bounded overhead, not "whenever sleep finishes".
	if elapsed > 3*time.Second {
		t.Errorf("supervision took %v, want roughly the 100ms timeout", elapsed)
	}
	if verdict.Code() != 0 {
		t.Errorf("Code() = %d, want 0", verdict.Code())
	}
}

func TestZeroTimeoutMeansNoTimeout(t *testing.T) {
	verdict := newTestSupervisor(t, 0).Run(context.Background(), command.New("true"))
	if verdict.Kind != Good {
		t.Fatalf("verdict = %v, want Good", verdict)
	}
}

func TestRunUsageError(t *testing.T) {
	verdict := newTestSupervisor(t, time.Second).Run(context.Background(), command.Spec{})
	if verdict.Kind != SupervisorError {
		t.Fatalf("verdict = %v, want SupervisorError", verdict)
	}
	if verdict.Code() != -1 {
		t.Errorf("Code() = %d, want -1", verdict.Code())
	}
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	verdict := newTestSupervisor(t, 0).Run(ctx, command.New("sleep", "30"))
	if verdict.Kind != SupervisorError {
		t.Fatalf("verdict = %v, want SupervisorError on canceled context", verdict)
	}
}

func TestRunFuncGood(t *testing.T) {
	verdict := newTestSupervisor(t, 5*time.Second).RunFunc(context.Background(), "nice")
	if verdict.Kind != Good {
		t.Fatalf("verdict = %v, want Good", verdict)
	}
}

func TestRunFuncNonZeroExit(t *testing.T) {
	verdict := newTestSupervisor(t, 5*time.Second).RunFunc(context.Background(), "exit-3")
	if verdict.Kind != Bad || verdict.Reason != NonZeroExit {
		t.Fatalf("verdict = %v, want Bad/NonZeroExit", verdict)
	}
	if verdict.Outcome.Code != 3 {
		t.Errorf("exit code = %d, want 3", verdict.Outcome.Code)
	}
}

func TestRunFuncSignaled(t *testing.T) {
	verdict := newTestSupervisor(t, 5*time.Second).RunFunc(context.Background(), "self-kill")
	if verdict.Kind != Bad || verdict.Reason != Signaled {
		t.Fatalf("verdict = %v, want Bad/Signaled", verdict)
	}
	if verdict.Outcome.Signal != syscall.SIGKILL {
		t.Errorf("signal = %v, want SIGKILL", verdict.Outcome.Signal)
	}
}

func TestRunFuncTimeout(t *testing.T) {
	start := time.Now()
	verdict := newTestSupervisor(t, 200*time.Millisecond).RunFunc(context.Background(), "loop")
	if verdict.Kind != Bad || verdict.Reason != TimedOut {
		t.Fatalf("verdict = %v, want Bad/TimedOut", verdict)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("supervision took %v, want roughly the 200ms timeout", elapsed)
	}
}

func TestRunFuncUnknownName(t *testing.T) {
	verdict := newTestSupervisor(t, time.Second).RunFunc(context.Background(), "never-registered")
	if verdict.Kind != SupervisorError {
		t.Fatalf("verdict = %v, want SupervisorError", verdict)
	}
}

func TestVerdictStrings(t *testing.T) {
	tests := []struct {
		verdict Verdict
		want    string
	}{
		{Verdict{Kind: Good}, "good: exit 0"},
		{Verdict{Kind: Bad, Reason: TimedOut}, "bad: timed out"},
	}
	for _, test := range tests {
		if got := test.verdict.String(); got != test.want {
			t.Errorf("String() = %q, want %q", got, test.want)
		}
	}
}
