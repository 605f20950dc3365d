package ext_test

import (
	"context"
	"testing"

	"github.com/sandrolain/goremap"
	"github.com/sandrolain/goremap/pkg/event"
	"github.com/sandrolain/goremap/pkg/ext"
	"github.com/sandrolain/goremap/pkg/stdlib"
	"github.com/sandrolain/goremap/pkg/types"
)

func run(t *testing.T, doc string, opts ...goremap.Option) types.Value {
	t.Helper()
	v, err := goremap.Run(context.Background(), []byte(doc), event.New(), opts...)
	if err != nil {
		t.Fatalf("Run(%q) error: %v", doc, err)
	}
	return v
}

func call(fn string, args string) string {
	return "statements: [ { call: " + fn + ", args: " + args + " } ]"
}

// ── WithAll ────────────────────────────────────────────────────────────────

func TestWithAll_StringFunctions(t *testing.T) {
	opt := ext.WithAll()

	tests := []struct {
		fn   string
		args string
		want types.Value
	}{
		{"starts_with", `[ { literal: Hello World }, { literal: Hello } ]`, types.Boolean(true)},
		{"starts_with", `[ { literal: Hello World }, { literal: World } ]`, types.Boolean(false)},
		{"ends_with", `{ value: { literal: Hello World }, suffix: { literal: World } }`, types.Boolean(true)},
		{"camel_case", `[ { literal: hello_world } ]`, types.Bytes("helloWorld")},
		{"camel_case", `[ { literal: "" } ]`, types.Bytes("")},
		{"snake_case", `[ { literal: helloWorld } ]`, types.Bytes("hello_world")},
		{"snake_case", `[ { literal: "Hello big-World" } ]`, types.Bytes("hello_big_world")},
		{"kebab_case", `[ { literal: helloWorld } ]`, types.Bytes("hello-world")},
	}
	for _, tc := range tests {
		t.Run(tc.fn, func(t *testing.T) {
			got := run(t, call(tc.fn, tc.args), opt)
			if !types.Equal(tc.want, got) {
				t.Errorf("%s%s = %v, want %v", tc.fn, tc.args, got, tc.want)
			}
		})
	}
}

func TestWithAll_CryptoFunctions(t *testing.T) {
	opt := ext.WithAll()

	tests := []struct {
		name string
		args string
		fn   string
		want string
	}{
		{"default sha256", `[ { literal: abc } ]`, "hash", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"md5", `[ { literal: abc }, { literal: MD5 } ]`, "hash", "900150983cd24fb0d6963f7d28e17f72"},
		{"sha1", `{ value: { literal: abc }, algorithm: { literal: sha1 } }`, "hash", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"hmac sha256", `{ value: { literal: "The quick brown fox jumps over the lazy dog" }, key: { literal: key } }`, "hmac",
			"f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := run(t, call(tc.fn, tc.args), opt)
			if !types.Equal(types.Bytes(tc.want), got) {
				t.Errorf("got %v, want %s", got, tc.want)
			}
		})
	}
}

func TestUnknownAlgorithmRejectedAtCompile(t *testing.T) {
	_, err := goremap.Compile([]byte(call("hash", `[ { literal: abc }, { literal: crc32 } ]`)), ext.WithAll())
	if got := types.CodeOf(err); got != types.ErrUnacceptedArgument {
		t.Fatalf("CodeOf = %q, want %q (err %v)", got, types.ErrUnacceptedArgument, err)
	}
}

func TestComputedAlgorithmIsFallible(t *testing.T) {
	doc := `
statements:
  - target: $alg
    literal: sha256
  - call: hash
    args: { value: { literal: abc }, algorithm: { var: alg } }
`
	_, err := goremap.Compile([]byte(doc), ext.WithAll())
	if got := types.CodeOf(err); got != types.ErrFallibleProgram {
		t.Fatalf("CodeOf = %q, want %q", got, types.ErrFallibleProgram)
	}
	run(t, doc, ext.WithAll(), goremap.WithAllowFallible(true))
}

func TestByCategory(t *testing.T) {
	_, err := goremap.Compile([]byte(call("hash", `[ { literal: a } ]`)), ext.WithString())
	if got := types.CodeOf(err); got != types.ErrUnknownFunction {
		t.Fatalf("hash should not be registered by WithString, got %v", err)
	}
	run(t, call("hash", `[ { literal: a } ]`), ext.WithCrypto())
}

func TestRegistryKeepsBuiltins(t *testing.T) {
	reg := ext.Registry(ext.All()...)
	if got, want := reg.Len(), len(stdlib.Functions())+len(ext.All()); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if _, err := reg.Lookup("to_string"); err != nil {
		t.Fatal(err)
	}
}
