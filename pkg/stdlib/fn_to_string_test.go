package stdlib

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/types"
)

func TestToString_Scalars(t *testing.T) {
	ts := time.Date(2019, 10, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   types.Value
		want types.Bytes
	}{
		{"bytes", types.Bytes("hello"), types.Bytes("hello")},
		{"empty bytes", types.Bytes(""), types.Bytes("")},
		{"integer", types.Integer(-42), types.Bytes("-42")},
		{"float", types.Float(1.5), types.Bytes("1.5")},
		{"whole float", types.Float(3), types.Bytes("3")},
		{"boolean", types.Boolean(true), types.Bytes("true")},
		{"timestamp", types.NewTimestamp(ts), types.Bytes("2019-10-16 12:00:00 UTC")},
		{"regex", types.Regex{Regexp: regexp.MustCompile(`^a+b$`)}, types.Bytes("^a+b$")},
		{"null", types.Null{}, types.Bytes("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newToString(lit(tt.in))

			got, err := run(e, nil)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if diff := cmp.Diff(types.Value(tt.want), got); diff != "" {
				t.Errorf("Execute() mismatch (-want +got):\n%s", diff)
			}

			td := typeDef(e)
			if td.Fallible || td.Kind != types.KindBytes {
				t.Errorf("TypeDef() = %s, want bytes (infallible)", td)
			}
		})
	}
}

// Map and Array inputs fail at runtime while TypeDef still reports an
// infallible Bytes result.
func TestToString_ContainersFailDespiteInfallibleTypeDef(t *testing.T) {
	for _, in := range []types.Value{types.Map{}, types.Array{}} {
		t.Run(in.Kind().String(), func(t *testing.T) {
			e := newToString(lit(in))

			_, err := run(e, nil)
			if err == nil {
				t.Fatal("Execute() expected conversion error")
			}
			var te *types.Error
			if !errors.As(err, &te) || te.Code != types.ErrConversion {
				t.Fatalf("Execute() error = %v, want code %s", err, types.ErrConversion)
			}
			if te.Message != "unable to convert value to string" {
				t.Errorf("message = %q", te.Message)
			}

			td := typeDef(e)
			if td.Fallible {
				t.Errorf("TypeDef().Fallible = true, want false")
			}
			if td.Kind != types.KindBytes {
				t.Errorf("TypeDef().Kind = %s, want bytes", td.Kind)
			}
		})
	}
}

func TestToString_InheritsFallibility(t *testing.T) {
	e := newToString(field(".message"))

	td := typeDef(e)
	if !td.Fallible || td.Kind != types.KindBytes {
		t.Errorf("TypeDef() = %s, want bytes (fallible)", td)
	}

	_, err := run(e, nil)
	if types.CodeOf(err) != types.ErrMissingPath {
		t.Errorf("Execute() error = %v, want %s", err, types.ErrMissingPath)
	}
}

func TestToString_MissingArgument(t *testing.T) {
	_, err := ToString{}.Compile(function.NewArgumentList())
	if types.CodeOf(err) != types.ErrMissingArgument {
		t.Fatalf("Compile() error = %v, want %s", err, types.ErrMissingArgument)
	}
}
