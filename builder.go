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

import "strings"

// bframeKind is one of the builder's five frame shapes.
type bframeKind int

const (
	bfInitial bframeKind = iota
	bfInString
	bfInArray
	bfObjKey   // expecting a key (or '}') for octx.obj
	bfObjValue // expecting a value for key on octx.obj
)

// objCtx is shared by an object's bfObjKey/bfObjValue frames (the same
// object occupies that stack slot across its whole lifetime, flipping
// between the two kinds as keys and values alternate).
type objCtx struct {
	obj *Object
	// pending holds, per key, the most recently finished value assigned
	// to that property, held back from the completion callback until
	// the object closes. A later duplicate-key assignment overwrites its
	// own entry here before it ever fires, which is what makes the
	// earlier value for that key go unreported regardless of how many
	// other keys were read in between.
	pending map[string]Value
}

type bframe struct {
	kind bframeKind

	arr *Array // bfInArray

	octx *objCtx // bfObjKey, bfObjValue
	key  string  // current/most recent key, for path reporting and property assignment

	acc   strings.Builder // bfInString
	isKey bool            // bfInString: building an object key, not a value
}

// builder is the Value Builder: it consumes tokenizer events and mutates a
// growing Value tree in place, tracking whether the tree changed in a way
// the driver should surface to its caller (progressed), and firing the
// completion callback for each value exactly once, in children-before-
// parents order.
type builder struct {
	stack      []*bframe
	top        Value
	progressed bool
	onComplete func(Value, Path)
	// maxDepth caps array/object nesting; 0 means unlimited. Guards a
	// parse against unbounded stack growth from adversarial or runaway
	// input, per [WithMaxDepth].
	maxDepth int
}

func newBuilder(onComplete func(Value, Path), maxDepth int) *builder {
	return &builder{
		stack:      []*bframe{{kind: bfInitial}},
		onComplete: onComplete,
		maxDepth:   maxDepth,
	}
}

func (b *builder) Empty() bool      { return len(b.stack) == 0 }
func (b *builder) Top() Value       { return b.top }
func (b *builder) Progressed() bool { return b.progressed }
func (b *builder) clearProgressed() { b.progressed = false }
func (b *builder) fail(msg string)  { panic(newError(InternalInvariantError, -1, msg)) }
func (b *builder) top2() *bframe    { return b.stack[len(b.stack)-1] }

// checkDepth panics with a StructuralError if pushing one more container
// frame would exceed maxDepth.
func (b *builder) checkDepth() {
	if b.maxDepth > 0 && len(b.stack) >= b.maxDepth {
		panic(newError(StructuralError, -1, "maximum nesting depth exceeded"))
	}
}

func (b *builder) segmentsUpTo(n int) []PathSegment {
	segs := make([]PathSegment, 0, n)
	for _, f := range b.stack[:n] {
		switch f.kind {
		case bfInArray:
			if len(f.arr.Items) > 0 {
				segs = append(segs, PathSegment{Index: len(f.arr.Items) - 1, IsIndex: true})
			}
		case bfObjKey, bfObjValue:
			if f.key != "" {
				segs = append(segs, PathSegment{Key: f.key})
			}
		}
	}
	return segs
}

func (b *builder) liveSegments() []PathSegment { return b.segmentsUpTo(len(b.stack)) }

func (b *builder) fireComplete(v Value, p Path) {
	if b.onComplete == nil {
		return
	}
	b.onComplete(v, p)
}

func (b *builder) livePath() Path { return &segmentsPath{segs: b.liveSegments()} }

// completeObjectProperty registers v as the current value of the property
// named on frame. It never fires the callback itself: a property's value
// can still be replaced by a later occurrence of the same key at any point
// before the object closes, no matter how many other keys are read in
// between, so the only moment any property value is known safe to report
// is when the object itself closes (see OnObjectEnd). Overwriting the map
// entry here is exactly what makes an overridden value go unreported.
func (b *builder) completeObjectProperty(frame *bframe, v Value) {
	octx := frame.octx
	if octx.pending == nil {
		octx.pending = make(map[string]Value, 4)
	}
	octx.pending[frame.key] = v
}

func (b *builder) OnNull() { b.handleAtomic(Null{}) }
func (b *builder) OnBool(v bool) { b.handleAtomic(Bool(v)) }
func (b *builder) OnNumber(v float64) { b.handleAtomic(Number(v)) }

func (b *builder) handleAtomic(v Value) {
	top := b.top2()
	switch top.kind {
	case bfInitial:
		b.top = v
		b.stack = b.stack[:0]
		b.progressed = true
		b.fireComplete(v, b.livePath())
	case bfInArray:
		top.arr.append(v)
		b.progressed = true
		b.fireComplete(v, b.livePath())
	case bfObjValue:
		top.octx.obj.set(top.key, v)
		b.completeObjectProperty(top, v)
		top.kind = bfObjKey
		b.progressed = true
	default:
		b.fail("unexpected atomic value in state")
	}
}

func (b *builder) OnStringStart() {
	top := b.top2()
	frame := &bframe{kind: bfInString}
	switch top.kind {
	case bfInitial:
		b.stack = b.stack[:len(b.stack)-1]
		b.top = String("")
		b.stack = append(b.stack, frame)
		b.progressed = true
	case bfInArray:
		top.arr.append(String(""))
		b.stack = append(b.stack, frame)
		b.progressed = true
	case bfObjKey:
		frame.isKey = true
		b.stack = append(b.stack, frame)
	case bfObjValue:
		top.octx.obj.set(top.key, String(""))
		b.stack = append(b.stack, frame)
		b.progressed = true
	default:
		b.fail("unexpected string start in state")
	}
}

func (b *builder) OnStringMiddle(s string) {
	top := b.top2()
	top.acc.WriteString(s)
	if top.isKey {
		return
	}
	b.progressed = true
	cur := String(top.acc.String())
	if len(b.stack) == 1 {
		b.top = cur
		return
	}
	parent := b.stack[len(b.stack)-2]
	switch parent.kind {
	case bfInArray:
		parent.arr.replaceLast(cur)
	case bfObjValue:
		parent.octx.obj.set(parent.key, cur)
	}
}

func (b *builder) OnStringEnd() {
	top := b.top2()
	final := top.acc.String()
	isKey := top.isKey
	b.stack = b.stack[:len(b.stack)-1]
	if isKey {
		parent := b.top2()
		parent.kind = bfObjValue
		parent.key = final
		return
	}
	strVal := String(final)
	if len(b.stack) == 0 {
		b.top = strVal
		b.fireComplete(strVal, b.livePath())
		return
	}
	parent := b.top2()
	switch parent.kind {
	case bfInArray:
		parent.arr.replaceLast(strVal)
		b.fireComplete(strVal, b.livePath())
	case bfObjValue:
		b.completeObjectProperty(parent, strVal)
		parent.kind = bfObjKey
	}
}

func (b *builder) OnArrayStart() {
	b.checkDepth()
	newArr := newArray()
	top := b.top2()
	switch top.kind {
	case bfInitial:
		b.stack = b.stack[:len(b.stack)-1]
		b.top = newArr
	case bfInArray:
		top.arr.append(newArr)
	case bfObjValue:
		top.octx.obj.set(top.key, newArr)
	default:
		b.fail("unexpected array start in state")
	}
	b.stack = append(b.stack, &bframe{kind: bfInArray, arr: newArr})
	b.progressed = true
}

func (b *builder) OnObjectStart() {
	b.checkDepth()
	newObj := newObject()
	top := b.top2()
	switch top.kind {
	case bfInitial:
		b.stack = b.stack[:len(b.stack)-1]
		b.top = newObj
	case bfInArray:
		top.arr.append(newObj)
	case bfObjValue:
		top.octx.obj.set(top.key, newObj)
	default:
		b.fail("unexpected object start in state")
	}
	b.stack = append(b.stack, &bframe{kind: bfObjKey, octx: &objCtx{obj: newObj}})
	b.progressed = true
}

// closeRevealed runs after a container's own frame has been popped: it
// fires the container's own completion if it sits in an array (or at the
// top level), or defers to the duplicate-key machinery if it is an object
// property value.
func (b *builder) closeRevealed(container Value) {
	if len(b.stack) == 0 {
		b.fireComplete(container, b.livePath())
		return
	}
	parent := b.top2()
	switch parent.kind {
	case bfInArray:
		b.fireComplete(container, b.livePath())
	case bfObjValue:
		b.completeObjectProperty(parent, container)
		parent.kind = bfObjKey
	}
}

func (b *builder) OnArrayEnd() {
	top := b.top2()
	arr := top.arr
	b.stack = b.stack[:len(b.stack)-1]
	b.closeRevealed(arr)
}

// OnObjectEnd fires the completion callback for each of the object's
// properties, in key insertion order, using whichever value survived as
// pending for that key — a container value registered its own pending
// entry via closeRevealed without firing early, so it completes here same
// as any other property. Since a later occurrence of the same key always
// overwrites the same map entry, no matter how many other keys were read
// in between, a key's earlier, overridden value never appears here at all.
func (b *builder) OnObjectEnd() {
	top := b.top2()
	octx := top.octx
	b.stack = b.stack[:len(b.stack)-1]
	for _, k := range octx.obj.Keys() {
		v, ok := octx.pending[k]
		if !ok {
			continue
		}
		segs := append(b.liveSegments(), PathSegment{Key: k})
		b.fireComplete(v, &segmentsPath{segs: segs})
	}
	b.closeRevealed(octx.obj)
}
