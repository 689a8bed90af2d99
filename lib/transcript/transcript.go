// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcript captures a pipeline's final output stream to a
// zstd-compressed file. Transcripts are text-like (program output and
// logs), which is the case zstd handles well; the writer is meant to
// sit behind an io.MultiWriter so the stream still reaches its normal
// destination while being captured.
package transcript

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Writer streams bytes into a zstd-compressed transcript file. It is
// not safe for concurrent use; a pipeline's output stream is already
// serialized by the time it reaches the writer.
type Writer struct {
	file    *os.File
	encoder *zstd.Encoder
}

// Create opens a transcript file at path, truncating any previous
// transcript.
func Create(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("creating transcript: %w", err)
	}
	encoder, err := zstd.NewWriter(file)
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("initializing transcript compression: %w", err)
	}
	return &Writer{file: file, encoder: encoder}, nil
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.encoder.Write(p)
}

// Close flushes the compressed stream and closes the file. The
// transcript is incomplete until Close returns nil.
func (w *Writer) Close() error {
	if err := w.encoder.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("finishing transcript compression: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("closing transcript: %w", err)
	}
	return nil
}
