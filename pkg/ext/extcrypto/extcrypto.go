// Package extcrypto provides hashing functions beyond the builtin blake2b.
//
// Security note: MD5 and SHA-1 are provided for fingerprinting only and
// should NOT be used for cryptographic security purposes.
package extcrypto

import (
	"crypto/hmac"
	"crypto/md5"  //nolint:gosec // intentional: provided for non-security fingerprinting
	"crypto/sha1" //nolint:gosec // intentional
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/ext/extutil"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// Algorithms lists the accepted algorithm names.
var Algorithms = []string{"md5", "sha1", "sha256", "sha384", "sha512", "blake2b-512"}

// All returns all extended hashing functions.
func All() []function.Function {
	return []function.Function{
		Hash{},
		HMAC{},
	}
}

// acceptsAlgorithm rejects unknown algorithm literals at compile time.
func acceptsAlgorithm(v types.Value) bool {
	b, ok := v.(types.Bytes)
	if !ok {
		return false
	}
	_, err := newHasher(strings.ToLower(string(b)))
	return err == nil
}

// ── hash ───────────────────────────────────────────────────────────────────

// Hash returns the lowercase hex digest of value. The algorithm defaults to
// sha256.
type Hash struct{}

var hashParams = []function.Parameter{
	{Keyword: "value", Accepts: extutil.AcceptsBytes, Required: true},
	{Keyword: "algorithm", Accepts: acceptsAlgorithm},
}

func (Hash) Identifier() string { return "hash" }

func (Hash) Parameters() []function.Parameter { return hashParams }

func (Hash) Compile(args *function.ArgumentList) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	return &digestFn{ident: "hash", value: value, algorithm: args.Optional("algorithm")}, nil
}

// HMAC returns the lowercase hex HMAC of value under key. The algorithm
// defaults to sha256.
type HMAC struct{}

var hmacParams = []function.Parameter{
	{Keyword: "value", Accepts: extutil.AcceptsBytes, Required: true},
	{Keyword: "key", Accepts: extutil.AcceptsBytes, Required: true},
	{Keyword: "algorithm", Accepts: acceptsAlgorithm},
}

func (HMAC) Identifier() string { return "hmac" }

func (HMAC) Parameters() []function.Parameter { return hmacParams }

func (HMAC) Compile(args *function.ArgumentList) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	key, err := args.Required("key")
	if err != nil {
		return nil, err
	}
	return &digestFn{ident: "hmac", value: value, key: key, algorithm: args.Optional("algorithm")}, nil
}

// digestFn backs both functions; key is nil for a plain hash.
type digestFn struct {
	ident     string
	value     expression.Expression
	key       expression.Expression
	algorithm expression.Expression
}

func (f *digestFn) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	value, err := extutil.Bytes(st, obj, f.ident, "value", f.value)
	if err != nil {
		return nil, err
	}

	algorithm := "sha256"
	if f.algorithm != nil {
		b, err := extutil.Bytes(st, obj, f.ident, "algorithm", f.algorithm)
		if err != nil {
			return nil, err
		}
		algorithm = strings.ToLower(string(b))
	}
	if _, err := newHasher(algorithm); err != nil {
		return nil, types.NewError(types.ErrArgumentType, err.Error()).WithFunction(f.ident)
	}

	var h hash.Hash
	if f.key != nil {
		key, err := extutil.Bytes(st, obj, f.ident, "key", f.key)
		if err != nil {
			return nil, err
		}
		h = hmac.New(func() hash.Hash {
			h, _ := newHasher(algorithm)
			return h
		}, key)
	} else {
		h, _ = newHasher(algorithm)
	}
	h.Write(value)
	return types.Bytes(hex.EncodeToString(h.Sum(nil))), nil
}

// TypeDef is infallible for Bytes arguments with a literal or absent
// algorithm; a computed algorithm may name an unknown hash.
func (f *digestFn) TypeDef(st *state.Compiler) types.TypeDef {
	args := []expression.Expression{f.value}
	if f.key != nil {
		args = append(args, f.key)
	}
	td := extutil.BytesTypeDef(st, types.KindBytes, args...)
	if f.algorithm != nil {
		_, literal := f.algorithm.(*expression.Literal)
		td = td.IntoFallible(!literal)
	}
	return td
}

// ── helpers ────────────────────────────────────────────────────────────────

func newHasher(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case "md5":
		return md5.New(), nil //nolint:gosec
	case "sha1":
		return sha1.New(), nil //nolint:gosec
	case "sha256":
		return sha256.New(), nil
	case "sha384":
		return sha512.New384(), nil
	case "sha512":
		return sha512.New(), nil
	case "blake2b-512":
		return blake2b.New512(nil)
	}
	return nil, fmt.Errorf("unsupported algorithm %q; use %s", algorithm, strings.Join(Algorithms, ", "))
}
