package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goremap/pkg/event"
	"github.com/sandrolain/goremap/pkg/path"
	"github.com/sandrolain/goremap/pkg/types"
)

func mustEvent(t *testing.T, src string) *event.Event {
	t.Helper()
	e, err := event.FromJSON([]byte(src))
	require.NoError(t, err)
	return e
}

func get(t *testing.T, e *event.Event, p string) (types.Value, bool) {
	t.Helper()
	v, ok, err := e.Get(path.MustParse(p))
	require.NoError(t, err)
	return v, ok
}

func TestGet(t *testing.T) {
	e := mustEvent(t, `{"a": {"b": [10, {"c": "x"}]}, "n": null, "f": 1.5}`)

	tests := []struct {
		path string
		want types.Value
		ok   bool
	}{
		{".a.b[0]", types.Integer(10), true},
		{".a.b[1].c", types.Bytes("x"), true},
		{".n", types.Null{}, true},
		{".f", types.Float(1.5), true},
		{".a.b[2]", nil, false},
		{".a.missing", nil, false},
		{".a.b.c", nil, false},
		{".f[0]", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			v, ok := get(t, e, tc.path)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, types.Equal(tc.want, v), "got %v", v)
			}
		})
	}

	root, ok := get(t, e, ".")
	require.True(t, ok)
	assert.Equal(t, types.KindMap, root.Kind())
}

func TestSet(t *testing.T) {
	e := event.New()

	require.NoError(t, e.Set(path.MustParse(".a.b"), types.Bytes("x")))
	require.NoError(t, e.Set(path.MustParse(".list[2]"), types.Integer(1)))
	require.NoError(t, e.Set(path.MustParse(".s"), types.Bytes("scalar")))
	require.NoError(t, e.Set(path.MustParse(".s.inner"), types.Boolean(true)))

	want := types.Map{
		"a":    types.Map{"b": types.Bytes("x")},
		"list": types.Array{types.Null{}, types.Null{}, types.Integer(1)},
		"s":    types.Map{"inner": types.Boolean(true)},
	}
	assert.True(t, types.Equal(want, e.Value()), "got %s", e)
}

func TestSetRoot(t *testing.T) {
	e := event.New()
	err := e.Set(path.Root, types.Bytes("x"))
	assert.Equal(t, types.ErrPathConflict, types.CodeOf(err))

	require.NoError(t, e.Set(path.Root, types.Map{"k": types.Integer(1)}))
	v, ok := get(t, e, ".k")
	require.True(t, ok)
	assert.Equal(t, types.Integer(1), v)
}

func TestNegativeIndex(t *testing.T) {
	e := mustEvent(t, `{"a": [1, 2]}`)
	p := path.New(path.Field("a"), path.Index(-1))

	_, ok, err := e.Get(p)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = e.Remove(p)
	require.NoError(t, err)
	assert.False(t, ok)

	err = e.Set(p, types.Integer(3))
	assert.Equal(t, types.ErrPathConflict, types.CodeOf(err))

	v, _ := get(t, e, ".a")
	assert.True(t, types.Equal(types.Array{types.Integer(1), types.Integer(2)}, v), "got %v", v)
}

func TestCopyOnWrite(t *testing.T) {
	e := mustEvent(t, `{"a": {"b": 1}, "l": [1, 2, 3]}`)

	before, _ := get(t, e, ".a")
	list, _ := get(t, e, ".l")

	require.NoError(t, e.Set(path.MustParse(".a.b"), types.Integer(2)))
	_, _, err := e.Remove(path.MustParse(".l[0]"))
	require.NoError(t, err)

	assert.Equal(t, types.Integer(1), before.(types.Map)["b"])
	assert.Len(t, list.(types.Array), 3)
}

func TestRemove(t *testing.T) {
	e := mustEvent(t, `{"a": {"b": 1, "c": 2}, "l": ["x", "y", "z"]}`)

	v, ok, err := e.Remove(path.MustParse(".a.b"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.Integer(1), v)
	_, ok = get(t, e, ".a.b")
	assert.False(t, ok)
	_, ok = get(t, e, ".a.c")
	assert.True(t, ok)

	v, ok, err = e.Remove(path.MustParse(".l[1]"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.Bytes("y"), v)
	l, _ := get(t, e, ".l")
	assert.True(t, types.Equal(types.Array{types.Bytes("x"), types.Bytes("z")}, l))

	_, ok, err = e.Remove(path.MustParse(".nope.deeper"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = e.Remove(path.Root)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, e.Value())
}

func TestFromMap(t *testing.T) {
	e, err := event.FromMap(map[string]interface{}{"n": 1, "tags": []string{"a"}})
	require.NoError(t, err)
	v, ok := get(t, e, ".tags[0]")
	require.True(t, ok)
	assert.Equal(t, types.Bytes("a"), v)

	e, err = event.FromMap(nil)
	require.NoError(t, err)
	assert.Empty(t, e.Value())

	assert.NotNil(t, event.FromValue(nil).Value())
}

func TestJSON(t *testing.T) {
	_, err := event.FromJSON([]byte(`[1, 2]`))
	assert.Error(t, err)
	_, err = event.FromJSON([]byte(`{`))
	assert.Error(t, err)

	e := mustEvent(t, `{"i": 9007199254740993, "f": 0.5}`)
	v, _ := get(t, e, ".i")
	assert.Equal(t, types.Integer(9007199254740993), v, "large integers keep their precision")

	ts := time.Date(2019, 10, 16, 12, 0, 0, 0, time.UTC)
	require.NoError(t, e.Set(path.MustParse(".ts"), types.NewTimestamp(ts)))
	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"i": 9007199254740993, "f": 0.5, "ts": "2019-10-16T12:00:00Z"}`, string(out))
}

func TestCBOR(t *testing.T) {
	ts := time.Date(2019, 10, 16, 12, 0, 0, 123000000, time.UTC)
	e := event.FromValue(types.Map{
		"msg":  types.Bytes("hello"),
		"n":    types.Integer(-3),
		"ts":   types.NewTimestamp(ts),
		"list": types.Array{types.Boolean(true), types.Null{}},
		"sub":  types.Map{"f": types.Float(2.5)},
	})

	data, err := e.MarshalCBOR()
	require.NoError(t, err)

	again, err := e.MarshalCBOR()
	require.NoError(t, err)
	assert.Equal(t, data, again, "canonical encoding is deterministic")

	decoded := event.New()
	require.NoError(t, decoded.UnmarshalCBOR(data))
	if diff := cmp.Diff(types.ToNative(e.Value()), types.ToNative(decoded.Value())); diff != "" {
		t.Errorf("CBOR round trip mismatch (-want +got):\n%s", diff)
	}

	assert.Error(t, decoded.UnmarshalCBOR([]byte{0xff}))
}
