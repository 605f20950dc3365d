package stdlib

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sandrolain/goremap/pkg/types"
)

func TestParseTimestamp_Bytes(t *testing.T) {
	tests := []struct {
		in     string
		format string
		want   time.Time
	}{
		{"16/10/2019:12:00:00 +0000", "%d/%m/%Y:%H:%M:%S %z", time.Date(2019, 10, 16, 12, 0, 0, 0, time.UTC)},
		{"16/10/2019:14:00:00 +0200", "%d/%m/%Y:%H:%M:%S %z", time.Date(2019, 10, 16, 12, 0, 0, 0, time.UTC)},
		{"2021-02-03 04:05:06", "%Y-%m-%d %H:%M:%S", time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := run(newParseTimestamp(lit(tt.in), lit(tt.format)), nil)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if diff := cmp.Diff(types.Value(types.NewTimestamp(tt.want)), got); diff != "" {
				t.Errorf("Execute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTimestamp_TimestampPassesThrough(t *testing.T) {
	ts := types.NewTimestamp(time.Date(2020, 1, 1, 0, 0, 0, 500, time.UTC))

	// A failing format is never evaluated on this branch.
	e := newParseTimestamp(lit(ts), stub{kind: types.KindBytes, fallible: true})

	got, err := run(e, nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if diff := cmp.Diff(types.Value(ts), got); diff != "" {
		t.Errorf("Execute() mismatch (-want +got):\n%s", diff)
	}

	td := typeDef(e)
	if td.Fallible || td.Kind != types.KindTimestamp {
		t.Errorf("TypeDef() = %s, want timestamp (infallible)", td)
	}
}

func TestParseTimestamp_Failures(t *testing.T) {
	tests := []struct {
		name   string
		value  types.Value
		format string
		msg    string
	}{
		{"integer", types.Integer(12345), "%Y", "unable to convert value to integer"},
		{"boolean", types.Boolean(true), "%Y", "unable to convert value to integer"},
		{"pattern mismatch", types.Bytes("not a date"), "%d/%m/%Y", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(newParseTimestamp(lit(tt.value), lit(tt.format)), nil)
			if err == nil {
				t.Fatal("Execute() expected error")
			}
			e, ok := err.(*types.Error)
			if !ok || e.Code != types.ErrConversion {
				t.Fatalf("Execute() error = %v, want code %s", err, types.ErrConversion)
			}
			if e.Function != "parse_timestamp" {
				t.Errorf("Function = %q, want parse_timestamp", e.Function)
			}
			if tt.msg != "" && e.Message != tt.msg {
				t.Errorf("Message = %q, want %q", e.Message, tt.msg)
			}
		})
	}
}

func TestParseTimestamp_TypeDef(t *testing.T) {
	tests := []struct {
		name     string
		kind     types.Kind
		fallible bool
	}{
		{"bytes", types.KindBytes, false},
		{"timestamp", types.KindTimestamp, false},
		{"bytes or timestamp", types.KindBytes | types.KindTimestamp, false},
		{"integer", types.KindInteger, true},
		{"bytes or null", types.KindBytes | types.KindNull, true},
		{"any", types.KindAny, true},
		{"map", types.KindMap, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := typeDef(newParseTimestamp(kinded(tt.kind), lit("%s")))
			if td.Fallible != tt.fallible {
				t.Errorf("Fallible = %v, want %v", td.Fallible, tt.fallible)
			}
			if td.Kind != types.KindTimestamp {
				t.Errorf("Kind = %s, want timestamp", td.Kind)
			}
		})
	}
}

func TestParseTimestamp_KeywordArguments(t *testing.T) {
	e := call(t, ParseTimestamp{},
		kw("format", lit("%Y-%m-%d")),
		kw("value", lit("2022-12-31")),
	)

	got, err := run(e, nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := types.NewTimestamp(time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC))
	if !types.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
