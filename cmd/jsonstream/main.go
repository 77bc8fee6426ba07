// Copyright 2026 streamparse
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main provides the CLI entry point for jsonstream, a tool that
// parses a file or stdin as JSON one chunk at a time and prints each
// increasingly complete value as it is produced.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamparse/jsonstream"
	"github.com/streamparse/jsonstream/version"
)

func main() {
	cfg := NewConfig()

	rootCmd := &cobra.Command{
		Use:   "jsonstream",
		Short: "Parse JSON incrementally from chunked input",
		Long: `jsonstream parses a file or stdin as a lazy sequence of chunks and prints
each increasingly complete top-level value as it becomes available, instead
of waiting for the whole document to arrive.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	parseCmd := &cobra.Command{
		Use:   "parse [flags] [file]",
		Short: "Stream-parse a file (or stdin) and print each intermediate value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return run(cfg, path)
		},
	}
	cfg.RegisterFlags(parseCmd.Flags())

	if err := cfg.RegisterCompletions(parseCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(version.String())
			return nil
		},
	}

	rootCmd.AddCommand(parseCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *Config, path string) error {
	logHandler, err := cfg.Log.NewHandler(os.Stderr)
	if err != nil {
		return err
	}
	logger := slog.New(logHandler)

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		defer f.Close()
		r = f
	}

	source := delayedReaderSource(r, cfg.ChunkSize, cfg.ChunkDelay)

	var opts []jsonstream.Option
	if cfg.MaxDepth > 0 {
		opts = append(opts, jsonstream.WithMaxDepth(cfg.MaxDepth))
	}

	stream := jsonstream.Parse(source, opts...)

	ctx := context.Background()
	n := 0
	for {
		v, err := stream.Next(ctx)
		if err == io.EOF {
			logger.Debug("parse complete", slog.Int("emissions", n))
			return nil
		}
		if err != nil {
			logger.Error("parse failed", slog.Any("error", err), slog.Int("emissions", n))
			return err
		}
		n++
		fmt.Println(v.String())
	}
}

// delayedReaderSource wraps r in a [jsonstream.ChunkSource] that reads up
// to chunkSize runes at a time and, if delay > 0, sleeps between chunks so
// a human watching the output can see values grow incrementally.
func delayedReaderSource(r io.Reader, chunkSize int, delay time.Duration) jsonstream.ChunkSource {
	base := jsonstream.FromReader(r, chunkSize)
	if delay <= 0 {
		return base
	}
	return jsonstream.ChunkSourceFunc(func(ctx context.Context) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		return base.NextChunk(ctx)
	})
}
