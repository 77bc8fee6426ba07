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
	"context"
	"errors"
	"io"
)

// buffer is the Input Buffer: it owns the unconsumed tail of all chunks
// received so far and the primitives the tokenizer scans with. It never
// blocks except in expandBuffer, which pulls exactly one chunk from the
// upstream source.
type buffer struct {
	data []rune
	pos  int

	source            ChunkSource
	upstreamExhausted bool
	// moreContentExpected is true by default; the tokenizer clears it
	// while it waits for text that may legitimately never come (the rest
	// of a number, which has no explicit terminator, or the lookahead after
	// a literal or a surrogate escape), so a legitimate end-of-stream ends
	// that token instead of erroring. expectEndOfContent also clears it.
	moreContentExpected bool

	// consumedTotal counts runes permanently discarded by commit, so
	// error positions remain meaningful across commits.
	consumedTotal int
}

func newBuffer(source ChunkSource) *buffer {
	return &buffer{
		source:              source,
		moreContentExpected: true,
	}
}

// length returns the number of unread runes currently buffered.
func (b *buffer) length() int { return len(b.data) - b.pos }

// offset returns the absolute rune position for error reporting.
func (b *buffer) offset() int { return b.consumedTotal + b.pos }

func (b *buffer) peekChar(offset int) (rune, bool) {
	i := b.pos + offset
	if i < 0 || i >= len(b.data) {
		return 0, false
	}
	return b.data[i], true
}

func (b *buffer) advance(n int) {
	b.pos += n
	if b.pos > len(b.data) {
		b.pos = len(b.data)
	}
}

func (b *buffer) tryTakeCharCode() (rune, bool) {
	r, ok := b.peekChar(0)
	if !ok {
		return 0, false
	}
	b.advance(1)
	return r, true
}

// peekString returns the next n buffered runes as a string without
// consuming them. The caller must have already checked length() >= n.
func (b *buffer) peekString(n int) string {
	return string(b.data[b.pos : b.pos+n])
}

func (b *buffer) tryTakePrefix(s string) bool {
	rs := []rune(s)
	if b.length() < len(rs) {
		return false
	}
	for i, r := range rs {
		if b.data[b.pos+i] != r {
			return false
		}
	}
	b.advance(len(rs))
	return true
}

func isJSONWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func (b *buffer) skipWhitespace() {
	for {
		r, ok := b.peekChar(0)
		if !ok || !isJSONWhitespace(r) {
			return
		}
		b.advance(1)
	}
}

// scanStringBody returns the maximal prefix of the buffer containing
// neither '"' nor '\\', and whether scanning stopped because it hit one of
// those characters (as opposed to running out of buffered text). It fails
// if it encounters a raw control character (< 0x20), which is never legal
// unescaped inside a JSON string.
func (b *buffer) scanStringBody() (text string, stoppedOnSpecial bool, err error) {
	start := b.pos
	for b.pos < len(b.data) {
		r := b.data[b.pos]
		if r == '"' || r == '\\' {
			return string(b.data[start:b.pos]), true, nil
		}
		if r < 0x20 {
			return string(b.data[start:b.pos]), false, newError(LexicalError, b.consumedTotal+b.pos,
				"unescaped control character in string")
		}
		b.pos++
	}
	return string(b.data[start:b.pos]), false, nil
}

// commit discards the consumed prefix, bounding retained memory to what is
// needed to finish the token currently in progress.
func (b *buffer) commit() {
	if b.pos == 0 {
		return
	}
	b.consumedTotal += b.pos
	b.data = append([]rune(nil), b.data[b.pos:]...)
	b.pos = 0
}

// expandBuffer pulls one chunk from the upstream source, appending it to
// the buffer. It reports whether a chunk was delivered. If the stream ends
// while moreContentExpected is true, it fails with UnexpectedEndOfInput.
func (b *buffer) expandBuffer(ctx context.Context) (bool, error) {
	if b.upstreamExhausted {
		if b.moreContentExpected {
			return false, newError(UnexpectedEndOfInput, b.offset(), "unexpected end of content")
		}
		return false, nil
	}
	chunk, err := b.source.NextChunk(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			b.upstreamExhausted = true
			if b.moreContentExpected {
				return false, newError(UnexpectedEndOfInput, b.offset(), "unexpected end of content")
			}
			return false, nil
		}
		return false, wrapError(UnexpectedEndOfInput, b.offset(), "reading next chunk", err)
	}
	if chunk == "" {
		return false, nil
	}
	b.data = append(b.data, []rune(chunk)...)
	return true, nil
}

// expectEndOfContent requires that the buffer and all remaining upstream
// chunks contain only whitespace. It clears moreContentExpected first, so
// a genuine end-of-stream here is success, not UnexpectedEndOfInput.
func (b *buffer) expectEndOfContent(ctx context.Context) error {
	b.moreContentExpected = false
	for {
		b.skipWhitespace()
		if b.length() > 0 {
			r, _ := b.peekChar(0)
			return newError(TrailingContentError, b.offset(),
				"unexpected trailing content: "+string(r))
		}
		if b.upstreamExhausted {
			return nil
		}
		_, err := b.expandBuffer(ctx)
		if err != nil {
			return err
		}
		if b.upstreamExhausted {
			return nil
		}
		// a chunk (possibly empty) was delivered; loop and check it
	}
}
