// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/spindle-works/spindle/lib/cli"
	"github.com/spindle-works/spindle/lib/command"
	"github.com/spindle-works/spindle/lib/config"
	"github.com/spindle-works/spindle/lib/pipelinedef"
	"github.com/spindle-works/spindle/lib/transcript"
	"github.com/spindle-works/spindle/lib/version"
	"github.com/spindle-works/spindle/pipeline"
)

func main() {
	ok, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

// run executes one pipeline invocation. The bool is the pipeline
// verdict (true iff every stage exited 0); the error covers usage and
// orchestration failures, which the exit-code convention folds into
// failure as well.
func run(args []string) (bool, error) {
	flags := pflag.NewFlagSet("spindle-shell", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to the spindle config file")
	filePath := flags.String("file", "", "run the pipeline defined in this JSONC file")
	capturePath := flags.String("capture", "", "write a zstd-compressed transcript of the final output to this path")
	resultPath := flags.String("result-file", "", "write a CBOR result record to this path")
	showVersion := flags.BoolP("version", "v", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: spindle-shell [flags] -- cmd1 [args...] '|' cmd2 ...\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return false, err
	}
	if *showVersion {
		fmt.Printf("spindle-shell %s\n", version.Info())
		return true, nil
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		return false, err
	}
	if *capturePath == "" {
		*capturePath = conf.Pipeline.Capture
	}
	if *resultPath == "" {
		*resultPath = conf.Pipeline.ResultFile
	}

	var name string
	var specs []command.Spec
	if *filePath != "" {
		if flags.NArg() > 0 {
			return false, fmt.Errorf("--file and positional commands are mutually exclusive")
		}
		def, err := pipelinedef.ReadFile(*filePath)
		if err != nil {
			return false, err
		}
		name = def.Name
		specs = def.Specs()
	} else {
		specs, err = pipelinedef.SplitArgv(flags.Args())
		if err != nil {
			return false, err
		}
	}

	logger := cli.NewCommandLogger()

	// Ctrl-C or a TERM from the outside cancels the whole pipeline;
	// each stage's context cancellation kills that stage.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := pipeline.Options{Logger: logger}
	var capture *transcript.Writer
	if *capturePath != "" {
		capture, err = transcript.Create(*capturePath)
		if err != nil {
			return false, err
		}
		opts.Stdout = io.MultiWriter(os.Stdout, capture)
	}

	start := time.Now()
	result, runErr := pipeline.Run(ctx, specs, opts)
	duration := time.Since(start)

	if capture != nil {
		if err := capture.Close(); err != nil {
			logger.Error("closing transcript", "path", *capturePath, "error", err)
		}
	}

	if *resultPath != "" {
		record := buildRecord(name, specs, result, runErr, duration)
		if err := writeRecord(*resultPath, record); err != nil {
			logger.Error("writing result record", "path", *resultPath, "error", err)
		}
	}

	if runErr != nil {
		return false, runErr
	}
	return result.OK(), nil
}
