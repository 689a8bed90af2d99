// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/spindle-works/spindle/lib/cli"
	"github.com/spindle-works/spindle/lib/command"
	"github.com/spindle-works/spindle/lib/config"
	"github.com/spindle-works/spindle/lib/process"
	"github.com/spindle-works/spindle/lib/version"
	"github.com/spindle-works/spindle/sandbox"
)

func main() {
	// Re-exec hook for registered work functions; a no-op in the
	// parent. Must run before anything else.
	sandbox.Main()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		code, err := runCmd(os.Args[2:])
		if err != nil {
			process.Fatal(err)
		}
		os.Exit(code)
	case "version", "--version", "-v":
		fmt.Printf("spindle-sandbox %s\n", version.Info())
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Print(`spindle-sandbox - supervise a command under a wall-clock timeout

USAGE
    spindle-sandbox run [flags] -- <command> [args...]
    spindle-sandbox version

FLAGS (run)
    --timeout duration   wall-clock budget (0 = no timeout; default from config, 30s)
    --verbose            log a one-line classification of the verdict
    --classify           print the classification value (1/0/-1) to stdout
    --config path        spindle config file
    --result-file path   write a CBOR verdict record to this path

EXIT STATUS
    0  command exited 0 within its budget
    1  command exited nonzero, was killed by a signal, or timed out
    2  supervision failed (unstartable command, usage error, ...)
`)
}

// runCmd executes the run subcommand and returns the process exit
// code. Errors are reserved for flag/usage problems detected before
// supervision begins; once the supervisor runs, its verdict is always
// expressed as an exit code.
func runCmd(args []string) (int, error) {
	flags := pflag.NewFlagSet("spindle-sandbox run", pflag.ContinueOnError)
	timeout := flags.Duration("timeout", 0, "wall-clock budget for the command (0 = no timeout)")
	verbose := flags.Bool("verbose", false, "log a one-line classification of the verdict")
	classify := flags.Bool("classify", false, "print the classification value (1/0/-1) to stdout")
	configPath := flags.String("config", "", "path to the spindle config file")
	resultPath := flags.String("result-file", "", "write a CBOR verdict record to this path")
	if err := flags.Parse(args); err != nil {
		return 0, err
	}
	if flags.NArg() == 0 {
		return 0, fmt.Errorf("no command given\n\nusage: spindle-sandbox run [flags] -- <command> [args...]")
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		return 0, err
	}
	if !flags.Changed("timeout") {
		*timeout = conf.Sandbox.Timeout.Std()
	}
	if !flags.Changed("verbose") {
		*verbose = conf.Sandbox.Verbose
	}

	logger := cli.NewCommandLogger()
	supervisor := sandbox.New(sandbox.Config{
		Timeout: *timeout,
		Verbose: *verbose,
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spec := command.New(flags.Args()...)
	start := time.Now()
	verdict := supervisor.Run(ctx, spec)
	duration := time.Since(start)

	if *resultPath != "" {
		if err := writeVerdictRecord(*resultPath, spec, verdict, *timeout, duration); err != nil {
			logger.Error("writing verdict record", "path", *resultPath, "error", err)
		}
	}
	if *classify {
		fmt.Println(verdict.Code())
	}

	switch verdict.Kind {
	case sandbox.Good:
		return 0, nil
	case sandbox.Bad:
		return 1, nil
	default:
		logger.Error("supervision failed", "error", verdict.Err)
		return 2, nil
	}
}
