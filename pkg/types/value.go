package types

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Value is a runtime datum. The set of variants is closed: Bytes, Integer,
// Float, Boolean, Timestamp, Regex, Null, Map and Array.
//
// Values are immutable once produced. Operations that change a value build a
// new one instead.
type Value interface {
	Kind() Kind
	value()
}

// Bytes is an opaque byte string. Textual data is stored as Bytes.
type Bytes []byte

// Integer is a signed 64-bit integer.
type Integer int64

// Float is a 64-bit floating point number.
type Float float64

// Boolean is true or false.
type Boolean bool

// Timestamp is an instant in time, always held in UTC.
type Timestamp time.Time

// Regex is a compiled regular expression.
type Regex struct {
	*regexp.Regexp
}

// Null is the absent value.
type Null struct{}

// Map maps string keys to values. Key order carries no meaning.
type Map map[string]Value

// Array is an ordered sequence of values.
type Array []Value

func (Bytes) Kind() Kind     { return KindBytes }
func (Integer) Kind() Kind   { return KindInteger }
func (Float) Kind() Kind     { return KindFloat }
func (Boolean) Kind() Kind   { return KindBoolean }
func (Timestamp) Kind() Kind { return KindTimestamp }
func (Regex) Kind() Kind     { return KindRegex }
func (Null) Kind() Kind      { return KindNull }
func (Map) Kind() Kind       { return KindMap }
func (Array) Kind() Kind     { return KindArray }

func (Bytes) value()     {}
func (Integer) value()   {}
func (Float) value()     {}
func (Boolean) value()   {}
func (Timestamp) value() {}
func (Regex) value()     {}
func (Null) value()      {}
func (Map) value()       {}
func (Array) value()     {}

// NewTimestamp converts t to a UTC Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC())
}

// NewRegex compiles pattern into a Regex value.
func NewRegex(pattern string) (Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Regex{}, err
	}
	return Regex{re}, nil
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// Equal reports whether t and o are the same instant.
func (t Timestamp) Equal(o Timestamp) bool {
	return time.Time(t).Equal(time.Time(o))
}

// Equal reports whether r and o were compiled from the same pattern.
func (r Regex) Equal(o Regex) bool {
	if r.Regexp == nil || o.Regexp == nil {
		return r.Regexp == o.Regexp
	}
	return r.Regexp.String() == o.Regexp.String()
}

// String returns the canonical textual form of each scalar variant.

func (b Bytes) String() string   { return string(b) }
func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }
func (Null) String() string      { return "null" }

func (f Float) String() string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String renders the instant as "2006-01-02 15:04:05 UTC". Sub-second
// precision is printed in groups of three digits and only when non-zero.
func (t Timestamp) String() string {
	tt := time.Time(t).UTC()
	var sb strings.Builder
	sb.WriteString(tt.Format("2006-01-02 15:04:05"))
	if ns := tt.Nanosecond(); ns != 0 {
		switch {
		case ns%1_000_000 == 0:
			fmt.Fprintf(&sb, ".%03d", ns/1_000_000)
		case ns%1_000 == 0:
			fmt.Fprintf(&sb, ".%06d", ns/1_000)
		default:
			fmt.Fprintf(&sb, ".%09d", ns)
		}
	}
	sb.WriteString(" UTC")
	return sb.String()
}

func (r Regex) String() string {
	if r.Regexp == nil {
		return ""
	}
	return r.Regexp.String()
}

// String renders the map with sorted keys. It is meant for diagnostics.
func (m Map) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %s", k, display(m[k]))
	}
	sb.WriteByte('}')
	return sb.String()
}

// String renders the array for diagnostics.
func (a Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(display(v))
	}
	sb.WriteByte(']')
	return sb.String()
}

func display(v Value) string {
	switch v := v.(type) {
	case Bytes:
		return strconv.Quote(string(v))
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Equal reports whether a and b hold the same variant and the same data.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Bytes:
		b, ok := b.(Bytes)
		return ok && string(a) == string(b)
	case Integer:
		b, ok := b.(Integer)
		return ok && a == b
	case Float:
		b, ok := b.(Float)
		return ok && a == b
	case Boolean:
		b, ok := b.(Boolean)
		return ok && a == b
	case Timestamp:
		b, ok := b.(Timestamp)
		return ok && a.Equal(b)
	case Regex:
		b, ok := b.(Regex)
		return ok && a.Equal(b)
	case Null:
		_, ok := b.(Null)
		return ok
	case Map:
		b, ok := b.(Map)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case Array:
		b, ok := b.(Array)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// From converts native Go data into a Value. Strings and byte slices become
// Bytes, every integer type becomes Integer, maps with string keys become Map
// and slices become Array.
func From(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case string:
		return Bytes(v), nil
	case []byte:
		return Bytes(append([]byte(nil), v...)), nil
	case bool:
		return Boolean(v), nil
	case int:
		return Integer(v), nil
	case int8:
		return Integer(v), nil
	case int16:
		return Integer(v), nil
	case int32:
		return Integer(v), nil
	case int64:
		return Integer(v), nil
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return Integer(v), nil
	case uint16:
		return Integer(v), nil
	case uint32:
		return Integer(v), nil
	case uint64:
		return fromUint(v)
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Integer(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", v.String(), err)
		}
		return Float(f), nil
	case time.Time:
		return NewTimestamp(v), nil
	case *time.Time:
		if v == nil {
			return Null{}, nil
		}
		return NewTimestamp(*v), nil
	case *regexp.Regexp:
		if v == nil {
			return Null{}, nil
		}
		return Regex{v}, nil
	case map[string]interface{}:
		m := make(Map, len(v))
		for k, item := range v {
			iv, err := From(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			m[k] = iv
		}
		return m, nil
	case map[interface{}]interface{}:
		m := make(Map, len(v))
		for k, item := range v {
			key := fmt.Sprint(k)
			iv, err := From(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			m[key] = iv
		}
		return m, nil
	case []interface{}:
		a := make(Array, len(v))
		for i, item := range v {
			iv, err := From(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			a[i] = iv
		}
		return a, nil
	}

	return fromReflect(reflect.ValueOf(v))
}

// MustFrom is like From but panics on unsupported input. It is intended for
// literals in tests and static tables.
func MustFrom(v interface{}) Value {
	val, err := From(v)
	if err != nil {
		panic(fmt.Sprintf("types: From(%#v): %v", v, err))
	}
	return val
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("integer %d overflows int64", u)
	}
	return Integer(u), nil
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return From(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		a := make(Array, rv.Len())
		for i := range a {
			iv, err := From(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			a[i] = iv
		}
		return a, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		m := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			iv, err := From(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			m[key] = iv
		}
		return m, nil
	case reflect.String:
		return Bytes(rv.String()), nil
	case reflect.Bool:
		return Boolean(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	}
	return nil, fmt.Errorf("unsupported type %s", rv.Type())
}

// ToNative converts a Value back into plain Go data: Bytes become string,
// Regex becomes its pattern and Null becomes nil.
func ToNative(v Value) interface{} {
	switch v := v.(type) {
	case Bytes:
		return string(v)
	case Integer:
		return int64(v)
	case Float:
		return float64(v)
	case Boolean:
		return bool(v)
	case Timestamp:
		return time.Time(v)
	case Regex:
		return v.String()
	case Map:
		m := make(map[string]interface{}, len(v))
		for k, item := range v {
			m[k] = ToNative(item)
		}
		return m
	case Array:
		a := make([]interface{}, len(v))
		for i, item := range v {
			a[i] = ToNative(item)
		}
		return a
	default:
		return nil
	}
}
