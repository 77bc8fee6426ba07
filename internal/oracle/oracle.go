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

// Package oracle wraps encoding/json as the non-streaming ground truth
// referenced by spec §1 and §8 (P1, P7, P8): tests compare a streamed
// jsonstream.Value against what this package reports for the same
// concatenated input, and use it to decide whether a malformed input
// should also be rejected by the streaming parser.
package oracle

import (
	"encoding/json"

	"github.com/streamparse/jsonstream"
)

// Valid reports whether data is accepted by the standard library's JSON
// parser, used to check streaming rejection parity (spec §8, P8).
func Valid(data []byte) bool { return json.Valid(data) }

// Parse decodes data with encoding/json into the generic any
// representation (map[string]any / []any / float64 / string / bool / nil)
// used as the comparison baseline in tests.
func Parse(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Equal reports whether a streamed jsonstream.Value matches the
// encoding/json decoding of the same document (spec §8, P1/P7).
func Equal(v jsonstream.Value, want any) bool {
	got := toAny(v)
	return deepEqual(got, want)
}

func toAny(v jsonstream.Value) any {
	switch tv := v.(type) {
	case nil:
		return nil
	case jsonstream.Null:
		return nil
	case jsonstream.Bool:
		return bool(tv)
	case jsonstream.Number:
		return float64(tv)
	case jsonstream.String:
		return string(tv)
	case *jsonstream.Array:
		out := make([]any, tv.Len())
		for i := range out {
			out[i] = toAny(tv.At(i))
		}
		return out
	case *jsonstream.Object:
		out := make(map[string]any, len(tv.Keys()))
		for _, k := range tv.Keys() {
			val, _ := tv.Get(k)
			out[k] = toAny(val)
		}
		return out
	default:
		return nil
	}
}

func deepEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, vv := range av {
			bvv, ok := bv[k]
			if !ok || !deepEqual(vv, bvv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
