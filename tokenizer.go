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
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf16"
)

// lexState is one frame of the Tokenizer's own state stack, tracking
// structural nesting independently of the builder's stack. It is emptied
// when the top-level value closes.
type lexState int

const (
	stateExpectingValue lexState = iota
	stateInString
	stateStartArray
	stateAfterArrayValue
	stateStartObject
	stateAfterObjectKey
	stateAfterObjectValue
	stateBeforeObjectKey
)

// Tokenizer is the resumable lexer half of the pipeline. Partial tokens
// survive across pump calls: an unfinished string as its lexer state (its
// body is emitted as it arrives), a pending surrogate half in the
// tokenizer's own fields, and a number that might still grow, a partially
// seen literal or an incomplete escape as unconsumed text in the buffer.
type Tokenizer struct {
	buf   *buffer
	stack []lexState

	hasPendingSurrogate bool
	pendingSurrogate    rune
}

func newTokenizer(buf *buffer) *Tokenizer {
	return &Tokenizer{buf: buf, stack: []lexState{stateExpectingValue}}
}

func (t *Tokenizer) isDone() bool { return len(t.stack) == 0 }

func (t *Tokenizer) pushState(s lexState) { t.stack = append(t.stack, s) }
func (t *Tokenizer) popState()            { t.stack = t.stack[:len(t.stack)-1] }
func (t *Tokenizer) replaceTop(s lexState) { t.stack[len(t.stack)-1] = s }
func (t *Tokenizer) top() lexState        { return t.stack[len(t.stack)-1] }

// pump advances the tokenizer as far as the currently buffered input
// allows. It returns once at least one token has been emitted during this
// call, or once the stream is confirmed complete (done), or on error. A
// step that makes only structural progress (a whitespace skip, a frame
// swap on ':' or ',') emits no token but is not a stall, so pump keeps
// going through those without returning.
func (t *Tokenizer) pump(ctx context.Context, h Handler) (emitted int, done bool, err error) {
	for {
		if len(t.stack) == 0 {
			if err := t.buf.expectEndOfContent(ctx); err != nil {
				return emitted, false, err
			}
			return emitted, true, nil
		}
		n, stalled, serr := t.step(h)
		emitted += n
		if serr != nil {
			return emitted, false, serr
		}
		if n > 0 {
			return emitted, false, nil
		}
		if stalled {
			if _, derr := t.buf.expandBuffer(ctx); derr != nil {
				return emitted, false, derr
			}
			continue
		}
		// structural-only progress: loop and try the next step locally
	}
}

func (t *Tokenizer) step(h Handler) (int, bool, error) {
	switch t.top() {
	case stateExpectingValue:
		return t.stepExpectingValue(h)
	case stateInString:
		return t.stepInString(h)
	case stateStartArray:
		return t.stepStartArray(h)
	case stateAfterArrayValue:
		return t.stepAfterArrayValue(h)
	case stateStartObject:
		return t.stepStartObject(h)
	case stateAfterObjectKey:
		return t.stepAfterObjectKey(h)
	case stateAfterObjectValue:
		return t.stepAfterObjectValue(h)
	case stateBeforeObjectKey:
		return t.stepBeforeObjectKey(h)
	default:
		return 0, false, newError(InternalInvariantError, t.buf.offset(), "unknown lexer state")
	}
}

func (t *Tokenizer) stepExpectingValue(h Handler) (int, bool, error) {
	t.buf.skipWhitespace()
	r, ok := t.buf.peekChar(0)
	if !ok {
		return 0, true, nil
	}
	switch {
	case r == '"':
		t.buf.advance(1)
		h.OnStringStart()
		t.replaceTop(stateInString)
		return 1, false, nil
	case r == '[':
		t.buf.advance(1)
		h.OnArrayStart()
		t.replaceTop(stateStartArray)
		return 1, false, nil
	case r == '{':
		t.buf.advance(1)
		h.OnObjectStart()
		t.replaceTop(stateStartObject)
		return 1, false, nil
	case r == 'n':
		return t.matchLiteral("null", func() { h.OnNull() })
	case r == 't':
		return t.matchLiteral("true", func() { h.OnBool(true) })
	case r == 'f':
		return t.matchLiteral("false", func() { h.OnBool(false) })
	case r == '-' || (r >= '0' && r <= '9'):
		return t.scanNumber(h)
	default:
		return 0, false, newError(LexicalError, t.buf.offset(), "unexpected character "+strconv.QuoteRune(r))
	}
}

func isIdentContinue(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// matchLiteral matches null/true/false. It only consumes once it can also
// confirm the literal isn't the prefix of a longer identifier (so "truefoo"
// is rejected rather than silently accepted as "true" followed by garbage),
// which means it must sometimes stall waiting for one more lookahead rune.
func (t *Tokenizer) matchLiteral(lit string, emit func()) (int, bool, error) {
	n := len(lit)
	if t.buf.length() < n {
		for i := 0; i < t.buf.length(); i++ {
			c, _ := t.buf.peekChar(i)
			if c != rune(lit[i]) {
				return 0, false, newError(LexicalError, t.buf.offset(), "invalid literal")
			}
		}
		if t.buf.upstreamExhausted {
			return 0, false, newError(LexicalError, t.buf.offset(), "truncated literal")
		}
		return 0, true, nil
	}
	for i := 0; i < n; i++ {
		c, _ := t.buf.peekChar(i)
		if c != rune(lit[i]) {
			return 0, false, newError(LexicalError, t.buf.offset(), "invalid literal")
		}
	}
	if t.buf.length() == n && !t.buf.upstreamExhausted {
		// The whole literal is buffered; only the lookahead rune is
		// missing, so a genuine end-of-stream here ends the literal.
		t.buf.moreContentExpected = false
		return 0, true, nil
	}
	if nr, ok := t.buf.peekChar(n); ok && isIdentContinue(nr) {
		return 0, false, newError(LexicalError, t.buf.offset(), "invalid literal")
	}
	t.buf.advance(n)
	t.buf.moreContentExpected = true
	emit()
	t.popState()
	return 1, false, nil
}

func isNumberChar(r rune) bool {
	return (r >= '0' && r <= '9') || r == '-' || r == '+' || r == '.' || r == 'e' || r == 'E'
}

var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// scanNumber scans the maximal run of number-shaped characters, then
// validates and parses it only once it is known to be terminated: either by
// a following non-number character, or by upstream exhaustion, since a
// number is the one JSON production with no closing delimiter of its own.
func (t *Tokenizer) scanNumber(h Handler) (int, bool, error) {
	i := 0
	for {
		c, ok := t.buf.peekChar(i)
		if !ok || !isNumberChar(c) {
			break
		}
		i++
	}
	_, more := t.buf.peekChar(i)
	if !more && !t.buf.upstreamExhausted {
		t.buf.moreContentExpected = false
		return 0, true, nil
	}
	text := t.buf.peekString(i)
	if !numberPattern.MatchString(text) {
		return 0, false, newError(LexicalError, t.buf.offset(), "malformed number: "+text)
	}
	val, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, wrapError(LexicalError, t.buf.offset(), "malformed number: "+text, err)
	}
	t.buf.advance(i)
	t.buf.moreContentExpected = true
	h.OnNumber(val)
	t.popState()
	return 1, false, nil
}

func decodeHex4(h [4]rune) (uint16, bool) {
	var v uint16
	for _, r := range h {
		v <<= 4
		switch {
		case r >= '0' && r <= '9':
			v |= uint16(r - '0')
		case r >= 'a' && r <= 'f':
			v |= uint16(r-'a') + 10
		case r >= 'A' && r <= 'F':
			v |= uint16(r-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}

func (t *Tokenizer) stepInString(h Handler) (int, bool, error) {
	if t.hasPendingSurrogate {
		return t.resolvePendingSurrogate(h)
	}
	text, stoppedOnSpecial, err := t.buf.scanStringBody()
	if err != nil {
		return 0, false, err
	}
	if text != "" {
		h.OnStringMiddle(text)
		return 1, !stoppedOnSpecial, nil
	}
	if !stoppedOnSpecial {
		return 0, true, nil
	}
	r, _ := t.buf.peekChar(0)
	switch r {
	case '"':
		t.buf.advance(1)
		h.OnStringEnd()
		t.popState()
		return 1, false, nil
	case '\\':
		return t.stepStringEscape(h)
	default:
		return 0, false, newError(InternalInvariantError, t.buf.offset(), "unreachable string state")
	}
}

func (t *Tokenizer) stepStringEscape(h Handler) (int, bool, error) {
	if t.buf.length() < 2 {
		return 0, true, nil
	}
	esc, _ := t.buf.peekChar(1)
	switch esc {
	case '"', '\\', '/':
		t.buf.advance(2)
		h.OnStringMiddle(string(esc))
		return 1, false, nil
	case 'b':
		t.buf.advance(2)
		h.OnStringMiddle("\b")
		return 1, false, nil
	case 'f':
		t.buf.advance(2)
		h.OnStringMiddle("\f")
		return 1, false, nil
	case 'n':
		t.buf.advance(2)
		h.OnStringMiddle("\n")
		return 1, false, nil
	case 'r':
		t.buf.advance(2)
		h.OnStringMiddle("\r")
		return 1, false, nil
	case 't':
		t.buf.advance(2)
		h.OnStringMiddle("\t")
		return 1, false, nil
	case 'u':
		if t.buf.length() < 6 {
			return 0, true, nil
		}
		var hex [4]rune
		for i := 0; i < 4; i++ {
			hex[i], _ = t.buf.peekChar(2 + i)
		}
		val, ok := decodeHex4(hex)
		if !ok {
			return 0, false, newError(LexicalError, t.buf.offset(), `invalid \u escape`)
		}
		t.buf.advance(6)
		r1 := rune(val)
		if utf16.IsSurrogate(r1) {
			t.hasPendingSurrogate = true
			t.pendingSurrogate = r1
			return t.resolvePendingSurrogate(h)
		}
		h.OnStringMiddle(string(r1))
		return 1, false, nil
	default:
		return 0, false, newError(LexicalError, t.buf.offset(), "invalid escape character")
	}
}

// resolvePendingSurrogate tries to combine a just-decoded UTF-16 surrogate
// half with a following \u escape. This mirrors encoding/json's own
// behavior: a valid high/low pair combines into one rune; anything else
// (an unpaired half, two highs in a row, ordinary text) falls back to
// U+FFFD for the unpaired half and lets the next escape decode fresh.
func (t *Tokenizer) resolvePendingSurrogate(h Handler) (int, bool, error) {
	if t.buf.length() < 6 {
		if !t.buf.upstreamExhausted {
			// The lookahead needed to tell a following \u escape from
			// ordinary text isn't buffered yet. This isn't a number, so
			// nothing else clears moreContentExpected on our behalf;
			// clear it ourselves so a genuine end-of-stream resolves the
			// lone surrogate below instead of failing the whole parse.
			t.buf.moreContentExpected = false
			return 0, true, nil
		}
		t.buf.moreContentExpected = true
		h.OnStringMiddle(string(unicode.ReplacementChar))
		t.hasPendingSurrogate = false
		return 1, false, nil
	}
	t.buf.moreContentExpected = true
	c0, _ := t.buf.peekChar(0)
	c1, _ := t.buf.peekChar(1)
	if c0 == '\\' && c1 == 'u' {
		var hex [4]rune
		for i := 0; i < 4; i++ {
			hex[i], _ = t.buf.peekChar(2 + i)
		}
		if val, ok := decodeHex4(hex); ok {
			dec := utf16.DecodeRune(t.pendingSurrogate, rune(val))
			if dec != unicode.ReplacementChar {
				t.buf.advance(6)
				h.OnStringMiddle(string(dec))
				t.hasPendingSurrogate = false
				return 1, false, nil
			}
		}
	}
	h.OnStringMiddle(string(unicode.ReplacementChar))
	t.hasPendingSurrogate = false
	return 1, false, nil
}

func (t *Tokenizer) stepStartArray(h Handler) (int, bool, error) {
	t.buf.skipWhitespace()
	r, ok := t.buf.peekChar(0)
	if !ok {
		return 0, true, nil
	}
	if r == ']' {
		t.buf.advance(1)
		h.OnArrayEnd()
		t.popState()
		return 1, false, nil
	}
	t.replaceTop(stateAfterArrayValue)
	t.pushState(stateExpectingValue)
	return 0, false, nil
}

func (t *Tokenizer) stepAfterArrayValue(h Handler) (int, bool, error) {
	t.buf.skipWhitespace()
	r, ok := t.buf.peekChar(0)
	if !ok {
		return 0, true, nil
	}
	switch r {
	case ']':
		t.buf.advance(1)
		h.OnArrayEnd()
		t.popState()
		return 1, false, nil
	case ',':
		t.buf.advance(1)
		t.pushState(stateExpectingValue)
		return 0, false, nil
	default:
		return 0, false, newError(StructuralError, t.buf.offset(), "expected ',' or ']'")
	}
}

func (t *Tokenizer) stepStartObject(h Handler) (int, bool, error) {
	t.buf.skipWhitespace()
	r, ok := t.buf.peekChar(0)
	if !ok {
		return 0, true, nil
	}
	switch r {
	case '}':
		t.buf.advance(1)
		h.OnObjectEnd()
		t.popState()
		return 1, false, nil
	case '"':
		t.buf.advance(1)
		h.OnStringStart()
		t.replaceTop(stateAfterObjectKey)
		t.pushState(stateInString)
		return 1, false, nil
	default:
		return 0, false, newError(StructuralError, t.buf.offset(), `expected '"' or '}'`)
	}
}

func (t *Tokenizer) stepAfterObjectKey(h Handler) (int, bool, error) {
	t.buf.skipWhitespace()
	r, ok := t.buf.peekChar(0)
	if !ok {
		return 0, true, nil
	}
	if r != ':' {
		return 0, false, newError(StructuralError, t.buf.offset(), "expected ':'")
	}
	t.buf.advance(1)
	t.replaceTop(stateAfterObjectValue)
	t.pushState(stateExpectingValue)
	return 0, false, nil
}

func (t *Tokenizer) stepAfterObjectValue(h Handler) (int, bool, error) {
	t.buf.skipWhitespace()
	r, ok := t.buf.peekChar(0)
	if !ok {
		return 0, true, nil
	}
	switch r {
	case '}':
		t.buf.advance(1)
		h.OnObjectEnd()
		t.popState()
		return 1, false, nil
	case ',':
		t.buf.advance(1)
		t.replaceTop(stateBeforeObjectKey)
		return 0, false, nil
	default:
		return 0, false, newError(StructuralError, t.buf.offset(), "expected ',' or '}'")
	}
}

func (t *Tokenizer) stepBeforeObjectKey(h Handler) (int, bool, error) {
	t.buf.skipWhitespace()
	r, ok := t.buf.peekChar(0)
	if !ok {
		return 0, true, nil
	}
	if r != '"' {
		return 0, false, newError(StructuralError, t.buf.offset(), `expected '"'`)
	}
	t.buf.advance(1)
	h.OnStringStart()
	t.replaceTop(stateAfterObjectKey)
	t.pushState(stateInString)
	return 1, false, nil
}
