// Package conversion turns raw bytes into typed values according to a
// conversion specifier such as "int", "bool" or "timestamp|%d/%m/%Y".
//
// Specifiers:
//
//	bytes, string, asis    keep the bytes as they are
//	int, integer           base-10 signed 64-bit integer
//	float                  64-bit float
//	bool, boolean          true/t/yes/y/on/1 or false/f/no/n/off/0
//	timestamp              RFC 3339 or one of the common log formats
//	timestamp|<format>     strftime-style format, e.g. "%d/%m/%Y:%H:%M:%S %z"
//
// Timestamps without zone information are read as UTC. Every timestamp is
// normalized to UTC.
package conversion

import (
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"

	"github.com/sandrolain/goremap/pkg/types"
)

// Kind is the target of a conversion.
type Kind int

const (
	Bytes Kind = iota
	Integer
	Float
	Boolean
	Timestamp
	TimestampFormat
)

// Conversion is a parsed conversion specifier.
type Conversion struct {
	Kind   Kind
	Format string
}

// autoFormats are tried in order by the plain "timestamp" conversion, after
// RFC 3339.
var autoFormats = []string{
	"%F %T",
	"%FT%T",
	"%m/%d/%Y:%T",
	"%a, %e %b %Y %T",
	"%a %d %b %T %Y",
	"%A %d %B %T %Y",
	"%B %e %T",
	"%b %e %T",
	"%a %d %b %T %z %Y",
	"%a, %e %b %Y %T %z",
	"%d/%b/%Y:%T %z",
	"%FT%T%z",
}

// Parse parses a conversion specifier.
func Parse(rule string) (Conversion, error) {
	name, format, hasFormat := strings.Cut(rule, "|")
	if hasFormat {
		if name != "timestamp" {
			return Conversion{}, types.Errorf(types.ErrInvalidConversion,
				"conversion %q does not take a format", name)
		}
		return Conversion{Kind: TimestampFormat, Format: format}, nil
	}

	switch name {
	case "bytes", "string", "asis":
		return Conversion{Kind: Bytes}, nil
	case "int", "integer":
		return Conversion{Kind: Integer}, nil
	case "float":
		return Conversion{Kind: Float}, nil
	case "bool", "boolean":
		return Conversion{Kind: Boolean}, nil
	case "timestamp":
		return Conversion{Kind: Timestamp}, nil
	}
	return Conversion{}, types.Errorf(types.ErrInvalidConversion, "unknown conversion name %q", name)
}

// MustParse is like Parse but panics on error.
func MustParse(rule string) Conversion {
	c, err := Parse(rule)
	if err != nil {
		panic(err)
	}
	return c
}

// Convert applies the conversion to b.
func (c Conversion) Convert(b []byte) (types.Value, error) {
	s := string(b)
	switch c.Kind {
	case Bytes:
		return types.Bytes(append([]byte(nil), b...)), nil
	case Integer:
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, convError(s, "integer", err)
		}
		return types.Integer(i), nil
	case Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, convError(s, "float", err)
		}
		return types.Float(f), nil
	case Boolean:
		v, err := ParseBool(s)
		if err != nil {
			return nil, convError(s, "boolean", err)
		}
		return types.Boolean(v), nil
	case Timestamp:
		t, err := ParseTimestamp(s)
		if err != nil {
			return nil, convError(s, "timestamp", err)
		}
		return types.NewTimestamp(t), nil
	case TimestampFormat:
		t, err := timefmt.Parse(s, c.Format)
		if err != nil {
			return nil, convError(s, "timestamp with format "+strconv.Quote(c.Format), err)
		}
		return types.NewTimestamp(t), nil
	}
	return nil, types.Errorf(types.ErrInvalidConversion, "unsupported conversion %d", c.Kind)
}

func (c Conversion) String() string {
	switch c.Kind {
	case Bytes:
		return "bytes"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case Timestamp:
		return "timestamp"
	case TimestampFormat:
		return "timestamp|" + c.Format
	}
	return "unknown"
}

// ParseBool parses the boolean spellings accepted by the "bool" conversion.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "on", "1":
		return true, nil
	case "false", "f", "no", "n", "off", "0":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: s, Err: strconv.ErrSyntax}
}

// ParseTimestamp parses s as RFC 3339 or one of the common log formats.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t.UTC(), nil
	}
	first := err
	for _, format := range autoFormats {
		if t, err := timefmt.Parse(s, format); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, first
}

func convError(input, target string, cause error) error {
	return types.Errorf(types.ErrConversion, "invalid %s %q", target, input).WithCause(cause)
}
