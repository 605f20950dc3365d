package stdlib

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// ── parse_json ─────────────────────────────────────────────────────────────

// ParseJSON decodes a JSON document. Integral numbers become Integer.
type ParseJSON struct{}

func (ParseJSON) Identifier() string { return "parse_json" }

func (ParseJSON) Parameters() []function.Parameter { return stringParams }

func (ParseJSON) Compile(args *function.ArgumentList) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	return &parseJSONFn{value: value}, nil
}

type parseJSONFn struct {
	value expression.Expression
}

func (f *parseJSONFn) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	v, err := f.value.Execute(st, obj)
	if err != nil {
		return nil, err
	}
	b, err := bytesArg("parse_json", "value", v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, types.NewError(types.ErrParse, "unable to parse json").
			WithFunction("parse_json").WithCause(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, types.NewError(types.ErrParse, "unable to parse json: trailing data").
			WithFunction("parse_json")
	}

	out, err := types.From(raw)
	if err != nil {
		return nil, types.NewError(types.ErrParse, "unable to parse json").
			WithFunction("parse_json").WithCause(err)
	}
	return out, nil
}

func (f *parseJSONFn) TypeDef(*state.Compiler) types.TypeDef {
	return types.Fallible(types.KindAny &^ (types.KindTimestamp | types.KindRegex))
}

// ── blake2b ────────────────────────────────────────────────────────────────

// Blake2b returns the hex-encoded BLAKE2b-256 digest of a string.
type Blake2b struct{}

func (Blake2b) Identifier() string { return "blake2b" }

func (Blake2b) Parameters() []function.Parameter { return stringParams }

func (Blake2b) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return compileMapBytes(args, "blake2b", func(b []byte) []byte {
		sum := blake2b.Sum256(b)
		out := make([]byte, hex.EncodedLen(len(sum)))
		hex.Encode(out, sum[:])
		return out
	})
}

// ── ulid ───────────────────────────────────────────────────────────────────

// ULID generates a new lexicographically sortable identifier.
type ULID struct{}

func (ULID) Identifier() string { return "ulid" }

func (ULID) Parameters() []function.Parameter { return nil }

func (ULID) Compile(*function.ArgumentList) (expression.Expression, error) {
	return ulidFn{}, nil
}

type ulidFn struct{}

func (ulidFn) Execute(*state.Program, types.Object) (types.Value, error) {
	return types.Bytes(ulid.Make().String()), nil
}

func (ulidFn) TypeDef(*state.Compiler) types.TypeDef {
	return types.Infallible(types.KindBytes)
}
