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
	"errors"
	"fmt"
)

// ErrorKind tags the terminal-failure categories a parse can end in.
type ErrorKind int

const (
	// LexicalError: invalid character, bad escape, unescaped control
	// code, malformed \u escape, or malformed number.
	LexicalError ErrorKind = iota
	// StructuralError: wrong closing container, missing colon or
	// comma, unexpected token for the current state.
	StructuralError
	// UnexpectedEndOfInput: upstream exhausted while more content was
	// still expected and the builder stack is non-empty.
	UnexpectedEndOfInput
	// TrailingContentError: non-whitespace content after the top-level
	// value closed.
	TrailingContentError
	// InternalInvariantError: an internal check failed; treat as a
	// crash-only bug, not a recoverable condition.
	InternalInvariantError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "LexicalError"
	case StructuralError:
		return "StructuralError"
	case UnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	case TrailingContentError:
		return "TrailingContentError"
	case InternalInvariantError:
		return "InternalInvariantError"
	default:
		return "UnknownError"
	}
}

// Error is the terminal failure surfaced on the value stream's next pull.
// It carries human-readable context; the message text is not part of the
// contract and may change between versions.
type Error struct {
	Kind ErrorKind
	// Pos is the rune offset into the whole input (across chunk
	// boundaries) at which the error was detected, or -1 if not
	// applicable.
	Pos int
	// Context is the offending character, partial token, or state name.
	Context string
	cause   error
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("jsonstream: %s at offset %d: %s", e.Kind, e.Pos, e.Context)
	}
	return fmt.Sprintf("jsonstream: %s: %s", e.Kind, e.Context)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, jsonstream.ErrLexical) style checks with the
// sentinel values below instead of type-asserting on *Error directly.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

func newError(kind ErrorKind, pos int, context string) *Error {
	return &Error{Kind: kind, Pos: pos, Context: context}
}

func wrapError(kind ErrorKind, pos int, context string, cause error) *Error {
	return &Error{Kind: kind, Pos: pos, Context: context, cause: cause}
}

// Sentinel values usable with errors.Is(err, jsonstream.ErrLexical), etc.
// Each carries only its Kind; *Error.Is compares kinds so these match any
// concrete *Error of the same category regardless of position/context.
var (
	ErrLexical    = &Error{Kind: LexicalError, Pos: -1}
	ErrStructural = &Error{Kind: StructuralError, Pos: -1}
	ErrEndOfInput = &Error{Kind: UnexpectedEndOfInput, Pos: -1}
	ErrTrailing   = &Error{Kind: TrailingContentError, Pos: -1}
	ErrInternal   = &Error{Kind: InternalInvariantError, Pos: -1}
)
