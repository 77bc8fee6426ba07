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

// Package jsonstream parses JSON from a lazy sequence of text chunks,
// yielding a lazy sequence of increasingly complete values. Each yielded
// value, once fully assembled, is identical to the result of parsing the
// concatenated input as a single document — a consumer may begin rendering
// or inspecting the tree before the chunk source has finished producing it.
//
// The core is a pull-driven pipeline of two interlocked state machines: a
// [Tokenizer] that turns chunked text into lexical tokens without blocking
// on unfinished strings or numbers, and a [builder] that consumes those
// tokens and mutates a growing [Value] tree in place. [Parse] wires the two
// together and exposes the pull-driven iterator a consumer actually uses.
package jsonstream
