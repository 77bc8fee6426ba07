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

// PathSegment is one step of a Path: either an object key or an array
// index. IsIndex discriminates which field is meaningful.
type PathSegment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path locates a value within the tree at the moment its completion
// callback fires. Implementations are only valid for the duration of that
// call; a caller that needs the route later must copy Segments() itself.
type Path interface {
	Segments() []PathSegment
}

type segmentsPath struct{ segs []PathSegment }

func (p *segmentsPath) Segments() []PathSegment { return p.segs }

// At walks path from v, following object keys and array indices in order.
// It reports false if any step names a key the current object doesn't
// have, an index out of range, or tries to step into a scalar.
func At(v Value, path ...PathSegment) (Value, bool) {
	cur := v
	for _, seg := range path {
		switch c := cur.(type) {
		case *Object:
			if seg.IsIndex {
				return nil, false
			}
			nv, ok := c.Get(seg.Key)
			if !ok {
				return nil, false
			}
			cur = nv
		case *Array:
			if !seg.IsIndex {
				return nil, false
			}
			nv := c.At(seg.Index)
			if nv == nil {
				return nil, false
			}
			cur = nv
		default:
			return nil, false
		}
	}
	return cur, true
}
