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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a [Handler] that appends a string describing each call it
// receives, used to assert the exact token sequence a tokenizer emits.
type recorder struct{ events []string }

func (r *recorder) OnNull()                    { r.events = append(r.events, "Null") }
func (r *recorder) OnBool(v bool)              { r.events = append(r.events, "Bool("+boolStr(v)+")") }
func (r *recorder) OnNumber(v float64)         { r.events = append(r.events, "Number("+floatStr(v)+")") }
func (r *recorder) OnStringStart()             { r.events = append(r.events, "StringStart") }
func (r *recorder) OnStringMiddle(s string)    { r.events = append(r.events, "StringMiddle("+s+")") }
func (r *recorder) OnStringEnd()               { r.events = append(r.events, "StringEnd") }
func (r *recorder) OnArrayStart()              { r.events = append(r.events, "ArrayStart") }
func (r *recorder) OnArrayEnd()                { r.events = append(r.events, "ArrayEnd") }
func (r *recorder) OnObjectStart()             { r.events = append(r.events, "ObjectStart") }
func (r *recorder) OnObjectEnd()               { r.events = append(r.events, "ObjectEnd") }

func boolStr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func floatStr(v float64) string {
	n := Number(v)
	return n.String()
}

// runTokenizer pumps a tokenizer over chunks until done or error, returning
// every recorded event.
func runTokenizer(t *testing.T, chunks []string) ([]string, error) {
	t.Helper()

	buf := newBuffer(FromStrings(chunks))
	tok := newTokenizer(buf)
	rec := &recorder{}
	ctx := context.Background()

	for {
		_, done, err := tok.pump(ctx, rec)
		buf.commit()
		if err != nil {
			return rec.events, err
		}
		if done {
			return rec.events, nil
		}
	}
}

func TestTokenizerLiterals(t *testing.T) {
	t.Parallel()

	events, err := runTokenizer(t, []string{"null"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Null"}, events)

	events, err = runTokenizer(t, []string{"tr", "ue"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bool(true)"}, events)

	events, err = runTokenizer(t, []string{"fal", "se"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bool(false)"}, events)
}

func TestTokenizerStringEscapes(t *testing.T) {
	t.Parallel()

	events, err := runTokenizer(t, []string{`"a\tb\nc\"d\\e\/f"`})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"StringStart",
		"StringMiddle(a)", "StringMiddle(\t)",
		"StringMiddle(b)", "StringMiddle(\n)",
		"StringMiddle(c)", "StringMiddle(\")",
		"StringMiddle(d)", "StringMiddle(\\)",
		"StringMiddle(e)", "StringMiddle(/)",
		"StringMiddle(f)",
		"StringEnd",
	}, events)
}

func TestTokenizerUnicodeEscape(t *testing.T) {
	t.Parallel()

	// "\x5c" is a backslash: the input is a JSON string of two \u escapes,
	// for U+0041 and U+00E9.
	events, err := runTokenizer(t, []string{"\"\x5cu0041\x5cu00e9\""})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"StringStart",
		"StringMiddle(A)",
		"StringMiddle(é)",
		"StringEnd",
	}, events)
}

func TestTokenizerSurrogatePairEscape(t *testing.T) {
	t.Parallel()

	// U+1F600 GRINNING FACE, written as a \u-escaped UTF-16 surrogate pair.
	events, err := runTokenizer(t, []string{"\"\\uD83D\\uDE00\""})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"StringStart",
		"StringMiddle(\U0001F600)",
		"StringEnd",
	}, events)
}

func TestTokenizerLoneSurrogateToleratedAsReplacementChar(t *testing.T) {
	t.Parallel()

	events, err := runTokenizer(t, []string{`"\uD83Dx"`})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"StringStart",
		"StringMiddle(�)",
		"StringMiddle(x)",
		"StringEnd",
	}, events)
}

func TestTokenizerUnicodeEscapeSplitAcrossChunks(t *testing.T) {
	t.Parallel()

	events, err := runTokenizer(t, []string{`"\u00`, `41"`})
	require.NoError(t, err)
	assert.Equal(t, []string{"StringStart", "StringMiddle(A)", "StringEnd"}, events)
}

func TestTokenizerNumberSplitAcrossChunks(t *testing.T) {
	t.Parallel()

	events, err := runTokenizer(t, []string{"-1", "2.", "5e", "-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Number(-1.25)"}, events)
}

func TestTokenizerMalformedNumberIsLexicalError(t *testing.T) {
	t.Parallel()

	_, err := runTokenizer(t, []string{"01"})
	require.Error(t, err)

	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, LexicalError, jerr.Kind)
}

func TestTokenizerUnescapedControlCharIsLexicalError(t *testing.T) {
	t.Parallel()

	_, err := runTokenizer(t, []string{"\"a\nb\""})
	require.Error(t, err)

	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, LexicalError, jerr.Kind)
}

func TestTokenizerNestedContainers(t *testing.T) {
	t.Parallel()

	events, err := runTokenizer(t, []string{`{"a":[1,{"b":2}]}`})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ObjectStart",
		"StringStart", "StringMiddle(a)", "StringEnd",
		"ArrayStart",
		"Number(1)",
		"ObjectStart",
		"StringStart", "StringMiddle(b)", "StringEnd",
		"Number(2)",
		"ObjectEnd",
		"ArrayEnd",
		"ObjectEnd",
	}, events)
}

func TestTokenizerStructuralErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"missing colon":          `{"a" 1}`,
		"missing comma in array": `[1 2]`,
		"bad key":                `{1:2}`,
		"trailing comma object":  `{"a":1,}`,
	}

	for name, doc := range tcs {
		doc := doc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := runTokenizer(t, []string{doc})
			require.Error(t, err)
		})
	}
}
