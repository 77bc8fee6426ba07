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

package jsonstream_test

import (
	"context"
	"io"
	"testing"

	"github.com/streamparse/jsonstream"
)

// collectTop parses doc as a single chunk and returns the final top-level
// value once the document is fully parsed.
func collectTop(t *testing.T, doc string) (jsonstream.Value, error) {
	t.Helper()

	stream := jsonstream.Parse(jsonstream.FromStrings([]string{doc}))
	ctx := context.Background()

	var last jsonstream.Value
	for {
		v, err := stream.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return last, nil
			}
			return last, err
		}
		last = v
	}
}
