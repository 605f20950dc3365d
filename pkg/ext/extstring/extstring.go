// Package extstring provides extra string functions beyond the builtin
// catalog. Register them with stdlib.NewRegistry or the top-level
// ext.WithString() helper.
package extstring

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/ext/extutil"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// All returns all extended string functions.
func All() []function.Function {
	return []function.Function{
		StartsWith{},
		EndsWith{},
		CamelCase{},
		SnakeCase{},
		KebabCase{},
	}
}

// ── starts_with / ends_with ────────────────────────────────────────────────

// StartsWith reports whether value begins with prefix.
type StartsWith struct{}

var startsWithParams = []function.Parameter{
	{Keyword: "value", Accepts: extutil.AcceptsBytes, Required: true},
	{Keyword: "prefix", Accepts: extutil.AcceptsBytes, Required: true},
}

func (StartsWith) Identifier() string { return "starts_with" }

func (StartsWith) Parameters() []function.Parameter { return startsWithParams }

func (StartsWith) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return compileAffix(args, "starts_with", "prefix", bytes.HasPrefix)
}

// EndsWith reports whether value ends with suffix.
type EndsWith struct{}

var endsWithParams = []function.Parameter{
	{Keyword: "value", Accepts: extutil.AcceptsBytes, Required: true},
	{Keyword: "suffix", Accepts: extutil.AcceptsBytes, Required: true},
}

func (EndsWith) Identifier() string { return "ends_with" }

func (EndsWith) Parameters() []function.Parameter { return endsWithParams }

func (EndsWith) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return compileAffix(args, "ends_with", "suffix", bytes.HasSuffix)
}

func compileAffix(args *function.ArgumentList, ident, keyword string, match func(s, affix []byte) bool) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	affix, err := args.Required(keyword)
	if err != nil {
		return nil, err
	}
	return &affixFn{ident: ident, keyword: keyword, match: match, value: value, affix: affix}, nil
}

type affixFn struct {
	ident   string
	keyword string
	match   func(s, affix []byte) bool
	value   expression.Expression
	affix   expression.Expression
}

func (f *affixFn) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	value, err := extutil.Bytes(st, obj, f.ident, "value", f.value)
	if err != nil {
		return nil, err
	}
	affix, err := extutil.Bytes(st, obj, f.ident, f.keyword, f.affix)
	if err != nil {
		return nil, err
	}
	return types.Boolean(f.match(value, affix)), nil
}

func (f *affixFn) TypeDef(st *state.Compiler) types.TypeDef {
	return extutil.BytesTypeDef(st, types.KindBoolean, f.value, f.affix)
}

// ── case conversion ────────────────────────────────────────────────────────

// CamelCase joins the words of value as lowerCamelCase.
type CamelCase struct{}

// SnakeCase joins the lower-cased words of value with underscores.
type SnakeCase struct{}

// KebabCase joins the lower-cased words of value with hyphens.
type KebabCase struct{}

var caseParams = []function.Parameter{
	{Keyword: "value", Accepts: extutil.AcceptsBytes, Required: true},
}

func (CamelCase) Identifier() string { return "camel_case" }
func (SnakeCase) Identifier() string { return "snake_case" }
func (KebabCase) Identifier() string { return "kebab_case" }

func (CamelCase) Parameters() []function.Parameter { return caseParams }
func (SnakeCase) Parameters() []function.Parameter { return caseParams }
func (KebabCase) Parameters() []function.Parameter { return caseParams }

func (CamelCase) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return compileCase(args, "camel_case", camel)
}

func (SnakeCase) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return compileCase(args, "snake_case", joinLower("_"))
}

func (KebabCase) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return compileCase(args, "kebab_case", joinLower("-"))
}

func compileCase(args *function.ArgumentList, ident string, join func([]string) string) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	return &caseFn{ident: ident, join: join, value: value}, nil
}

type caseFn struct {
	ident string
	join  func([]string) string
	value expression.Expression
}

func (f *caseFn) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	value, err := extutil.Bytes(st, obj, f.ident, "value", f.value)
	if err != nil {
		return nil, err
	}
	return types.Bytes(f.join(splitIntoWords(string(value)))), nil
}

func (f *caseFn) TypeDef(st *state.Compiler) types.TypeDef {
	return extutil.BytesTypeDef(st, types.KindBytes, f.value)
}

var splitWordsRe = regexp.MustCompile(`[_\-\s]+|([a-z])([A-Z])`)

// splitIntoWords splits on separators and at lower-to-upper case boundaries.
func splitIntoWords(s string) []string {
	expanded := splitWordsRe.ReplaceAllStringFunc(s, func(m string) string {
		if len(m) == 2 && m[0] >= 'a' && m[0] <= 'z' {
			return string(m[0]) + " " + string(m[1])
		}
		return " "
	})
	return strings.Fields(expanded)
}

func joinLower(sep string) func([]string) string {
	return func(words []string) string {
		for i, w := range words {
			words[i] = strings.ToLower(w)
		}
		return strings.Join(words, sep)
	}
}

func camel(words []string) string {
	var b strings.Builder
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if i > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		b.WriteString(string(runes))
	}
	return b.String()
}
