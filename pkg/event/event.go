// Package event provides a map-backed implementation of types.Object.
//
// Writes are copy-on-write: every container on the written path is copied
// before it is changed, so values previously returned by Get are never
// mutated.
package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/sandrolain/goremap/pkg/path"
	"github.com/sandrolain/goremap/pkg/types"
)

// Event is a structured event whose root is a map.
type Event struct {
	root types.Map
}

var _ types.Object = (*Event)(nil)

// New returns an empty event.
func New() *Event {
	return &Event{root: types.Map{}}
}

// FromValue wraps m. The event takes ownership of m.
func FromValue(m types.Map) *Event {
	if m == nil {
		m = types.Map{}
	}
	return &Event{root: m}
}

// FromMap converts native Go data into an event.
func FromMap(m map[string]interface{}) (*Event, error) {
	v, err := types.From(m)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(types.Null); ok {
		return New(), nil
	}
	return FromValue(v.(types.Map)), nil
}

// FromJSON decodes a JSON object into an event.
func FromJSON(data []byte) (*Event, error) {
	e := New()
	if err := e.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return e, nil
}

// Value returns the root map.
func (e *Event) Value() types.Map {
	return e.root
}

// Get returns the value stored at p.
func (e *Event) Get(p path.Path) (types.Value, bool, error) {
	var cur types.Value = e.root
	for _, seg := range p {
		next, ok := child(cur, seg)
		if !ok {
			return nil, false, nil
		}
		cur = next
	}
	return cur, true, nil
}

func child(v types.Value, seg path.Segment) (types.Value, bool) {
	if seg.IsIndex {
		a, ok := v.(types.Array)
		if !ok || seg.Index < 0 || seg.Index >= len(a) {
			return nil, false
		}
		return a[seg.Index], true
	}
	m, ok := v.(types.Map)
	if !ok {
		return nil, false
	}
	item, ok := m[seg.Field]
	return item, ok
}

// Set stores v at p. Missing containers are created: maps for field
// segments, null-padded arrays for index segments. A scalar in the way is
// replaced. The root can only be replaced by a map, and negative indices are
// rejected.
func (e *Event) Set(p path.Path, v types.Value) error {
	for _, seg := range p {
		if seg.IsIndex && seg.Index < 0 {
			return types.Errorf(types.ErrPathConflict, "cannot assign %s: negative index", p)
		}
	}
	if p.IsRoot() {
		m, ok := v.(types.Map)
		if !ok {
			return types.Errorf(types.ErrPathConflict, "cannot replace event root with a %s value", v.Kind())
		}
		e.root = m
		return nil
	}
	out := insert(e.root, p, v)
	e.root = out.(types.Map)
	return nil
}

func insert(cur types.Value, p path.Path, v types.Value) types.Value {
	if len(p) == 0 {
		return v
	}
	seg := p[0]

	if seg.IsIndex {
		old, _ := cur.(types.Array)
		size := len(old)
		if seg.Index >= size {
			size = seg.Index + 1
		}
		a := make(types.Array, size)
		copy(a, old)
		for i := len(old); i < size; i++ {
			a[i] = types.Null{}
		}
		a[seg.Index] = insert(a[seg.Index], p[1:], v)
		return a
	}

	old, _ := cur.(types.Map)
	m := make(types.Map, len(old)+1)
	for k, item := range old {
		m[k] = item
	}
	m[seg.Field] = insert(m[seg.Field], p[1:], v)
	return m
}

// Remove deletes the value at p. Removing an array element shifts the
// following elements down. Removing the root empties the event.
func (e *Event) Remove(p path.Path) (types.Value, bool, error) {
	if p.IsRoot() {
		old := e.root
		e.root = types.Map{}
		return old, true, nil
	}
	out, removed, ok := remove(e.root, p)
	if !ok {
		return nil, false, nil
	}
	e.root = out.(types.Map)
	return removed, true, nil
}

func remove(cur types.Value, p path.Path) (types.Value, types.Value, bool) {
	seg := p[0]
	item, ok := child(cur, seg)
	if !ok {
		return nil, nil, false
	}

	if len(p) > 1 {
		updated, removed, ok := remove(item, p[1:])
		if !ok {
			return nil, nil, false
		}
		return replace(cur, seg, updated), removed, true
	}

	if seg.IsIndex {
		old := cur.(types.Array)
		a := make(types.Array, 0, len(old)-1)
		a = append(a, old[:seg.Index]...)
		a = append(a, old[seg.Index+1:]...)
		return a, item, true
	}
	old := cur.(types.Map)
	m := make(types.Map, len(old))
	for k, v := range old {
		if k != seg.Field {
			m[k] = v
		}
	}
	return m, item, true
}

func replace(cur types.Value, seg path.Segment, v types.Value) types.Value {
	if seg.IsIndex {
		old := cur.(types.Array)
		a := make(types.Array, len(old))
		copy(a, old)
		a[seg.Index] = v
		return a
	}
	old := cur.(types.Map)
	m := make(types.Map, len(old))
	for k, item := range old {
		m[k] = item
	}
	m[seg.Field] = v
	return m
}

// MarshalJSON encodes the event as a JSON object. Bytes become strings,
// timestamps RFC 3339 strings and regexes their pattern.
func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(types.ToNative(e.root))
}

// UnmarshalJSON replaces the event with the decoded JSON object. Integral
// numbers decode to Integer, others to Float.
func (e *Event) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decoding event: %w", err)
	}
	return e.setNative(raw)
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	opts.TimeTag = cbor.EncTagRequired
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	encMode, decMode = em, dm
}

// MarshalCBOR encodes the event with canonical CBOR. Timestamps are written
// as tagged RFC 3339 strings and survive a round trip.
func (e *Event) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(types.ToNative(e.root))
}

// UnmarshalCBOR replaces the event with the decoded CBOR map.
func (e *Event) UnmarshalCBOR(data []byte) error {
	var raw interface{}
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding event: %w", err)
	}
	return e.setNative(raw)
}

func (e *Event) setNative(raw interface{}) error {
	v, err := types.From(raw)
	if err != nil {
		return fmt.Errorf("decoding event: %w", err)
	}
	m, ok := v.(types.Map)
	if !ok {
		return fmt.Errorf("decoding event: expected an object, got %s", v.Kind())
	}
	e.root = m
	return nil
}

func (e *Event) String() string {
	return e.root.String()
}
