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

package jsonstream

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// ChunkSource is the lazy, single-use sequence of text chunks a [Parse]
// consumes. NextChunk returns io.EOF once the source is exhausted; any
// other error is treated as a terminal failure of the value stream.
// Chunks may be of any size, including empty.
type ChunkSource interface {
	NextChunk(ctx context.Context) (string, error)
}

// ChunkSourceFunc adapts a function to a [ChunkSource].
type ChunkSourceFunc func(ctx context.Context) (string, error)

func (f ChunkSourceFunc) NextChunk(ctx context.Context) (string, error) { return f(ctx) }

// FromStrings returns a [ChunkSource] that yields each string in chunks in
// order, then io.EOF. Useful for tests and for replaying pre-split input.
func FromStrings(chunks []string) ChunkSource {
	i := 0
	return ChunkSourceFunc(func(_ context.Context) (string, error) {
		if i >= len(chunks) {
			return "", io.EOF
		}
		c := chunks[i]
		i++
		return c, nil
	})
}

// FromReader returns a [ChunkSource] that reads up to size runes at a time
// from r. A size <= 0 defaults to 4096. This is the adapter a CLI or an
// HTTP handler would use; the network/file read itself is outside this
// package's scope.
func FromReader(r io.Reader, size int) ChunkSource {
	if size <= 0 {
		size = 4096
	}
	br := bufio.NewReaderSize(r, size)
	return ChunkSourceFunc(func(_ context.Context) (string, error) {
		// Whole runes only, so a multi-byte character is never split
		// across two chunks; stop early once nothing more is buffered.
		var sb strings.Builder
		for n := 0; n < size && (n == 0 || br.Buffered() > 0); n++ {
			c, _, err := br.ReadRune()
			if err != nil {
				return sb.String(), err
			}
			sb.WriteRune(c)
		}
		return sb.String(), nil
	})
}
