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

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	jlog "github.com/streamparse/jsonstream/log"
)

// ErrReadInput wraps any failure reading the configured input file.
var ErrReadInput = errors.New("read input")

// Flags holds CLI flag names for the parse command, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	ChunkSize  string
	ChunkDelay string
	MaxDepth   string
}

// Config holds CLI flag values for the parse command.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags      Flags
	Log        *jlog.Config
	ChunkSize  int
	ChunkDelay time.Duration
	MaxDepth   int
}

// NewConfig returns a new [Config] with default flag names and a nested
// logging [jlog.Config].
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			ChunkSize:  "chunk-size",
			ChunkDelay: "chunk-delay",
			MaxDepth:   "max-depth",
		},
		Log: jlog.NewConfig(),
	}
}

// RegisterFlags adds parse-command flags to the given [*pflag.FlagSet],
// including the nested logging flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntVar(&c.ChunkSize, c.Flags.ChunkSize, 4096,
		"number of runes read from the input per chunk")
	flags.DurationVar(&c.ChunkDelay, c.Flags.ChunkDelay, 0,
		"artificial delay between chunks, for observing incremental output")
	flags.IntVar(&c.MaxDepth, c.Flags.MaxDepth, 0,
		"maximum array/object nesting depth (0 = unlimited)")
	c.Log.RegisterFlags(flags)
}

// RegisterCompletions registers shell completions for parse-command flags
// on cmd, including the nested logging completions.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	if err := c.Log.RegisterCompletions(cmd); err != nil {
		return err
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.ChunkSize, c.Flags.ChunkDelay, c.Flags.MaxDepth} {
		if err := cmd.RegisterFlagCompletionFunc(flag, noFileComp); err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}
