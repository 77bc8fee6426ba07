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

package log_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamparse/jsonstream/log"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
}

func TestRegisterFlagsBindsValues(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	err := cmd.Flags().Parse([]string{"--log-level", "debug", "--log-format", "json"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		flag string
		want []string
	}{
		"log-level completions": {
			flag: "log-level",
			want: log.AllLevelStrings(),
		},
		"log-format completions": {
			flag: "log-format",
			want: log.AllFormatStrings(),
		},
	}

	cfg := log.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	err := cfg.RegisterCompletions(cmd)
	require.NoError(t, err)

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			completionFn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := completionFn(cmd, nil, "")
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Equal(t, tc.want, values)
		})
	}
}

func TestConfigNewHandler(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	cfg.Level = "warn"
	cfg.Format = "json"

	handler, err := cfg.NewHandler(nil)
	require.NoError(t, err)
	require.NotNil(t, handler)
}

func TestConfigNewHandlerInvalidLevel(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	cfg.Level = "bogus"

	_, err := cfg.NewHandler(nil)
	require.Error(t, err)
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}

func TestFlagsNewConfigCustomNames(t *testing.T) {
	t.Parallel()

	f := log.Flags{Level: "verbosity", Format: "output-format"}
	cfg := f.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	assert.NotNil(t, cmd.Flags().Lookup("verbosity"))
	assert.NotNil(t, cmd.Flags().Lookup("output-format"))
}
