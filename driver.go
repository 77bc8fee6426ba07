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
	"io"
)

// Option configures a Stream created by Parse.
type Option func(*options)

type options struct {
	onComplete func(Value, Path)
	maxDepth   int
}

// WithCompleteCallback registers fn to be called once for every value in
// the tree — scalars, strings, arrays, and objects alike. The top-level
// value and array elements are reported the moment they become final. A
// value held by an object property is reported only when its enclosing
// object closes: the object's property values are then reported in key
// insertion order, after every descendant of the object, and the object
// itself is then reported by these same rules. Children therefore fire
// before their parents, but an object's properties are not reported in the
// order their values appear in the input, nor as soon as each is final. A
// value that loses a duplicate-key race (an object key repeated before the
// object closes) is never reported; only the value that survives is.
// Elements and properties nested inside such a replaced container value
// are still reported as they are read.
//
// fn must not retain the Path it's given past the call.
func WithCompleteCallback(fn func(Value, Path)) Option {
	return func(o *options) { o.onComplete = fn }
}

// WithMaxDepth caps array/object nesting at n levels; exceeding it fails
// the stream with a [StructuralError] instead of growing the builder
// stack without bound. n <= 0 (the default) means unlimited.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// Stream is an in-progress parse of a single JSON document pulled lazily
// from a ChunkSource. Call Next repeatedly; each call either returns a
// more-complete view of the top-level value, or io.EOF once the value has
// finished and the remainder of the input (if any) is confirmed to be
// whitespace, or a non-nil *Error on malformed input.
type Stream struct {
	buf      *buffer
	tok      *Tokenizer
	b        *builder
	finished bool
}

// Parse begins a streaming parse of the content produced by source.
func Parse(source ChunkSource, opts ...Option) *Stream {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	buf := newBuffer(source)
	return &Stream{
		buf: buf,
		tok: newTokenizer(buf),
		b:   newBuilder(o.onComplete, o.maxDepth),
	}
}

// Next pulls the tokenizer and builder forward until the top-level value
// has visibly changed, the value is fully parsed (io.EOF), or a terminal
// *Error occurs. The Value returned is the same mutable tree on every
// call: arrays and objects grow in place, so holding a reference across
// calls is safe and is how a consumer observes partial structure.
func (s *Stream) Next(ctx context.Context) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			s.finished = true
			v, err = nil, e
		}
	}()

	for {
		if s.finished {
			return nil, io.EOF
		}
		s.b.clearProgressed()
		_, done, perr := s.tok.pump(ctx, s.b)
		s.buf.commit()
		if perr != nil {
			s.finished = true
			return nil, perr
		}
		if s.b.Progressed() {
			return s.b.Top(), nil
		}
		if done {
			s.finished = true
			return nil, io.EOF
		}
	}
}
