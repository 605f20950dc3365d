// Package path parses and renders the paths used to address values inside an
// event, such as ".message", ".request.headers[0]" or `."user agent"`.
//
// A Path is a sequence of segments. A field segment selects a key of a map,
// an index segment selects an element of an array. The empty path addresses
// the event root.
package path

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Segment is one step of a Path: either a map field or an array index.
type Segment struct {
	Field string
	Index int
	// IsIndex distinguishes the index segment [0] from the field segment "".
	IsIndex bool
}

// Field returns a field segment.
func Field(name string) Segment {
	return Segment{Field: name}
}

// Index returns an index segment.
func Index(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	if isBareField(s.Field) {
		return "." + s.Field
	}
	return "." + strconv.Quote(s.Field)
}

// Path addresses a value inside an event.
type Path []Segment

// Root is the empty path, addressing the whole event.
var Root = Path{}

// New builds a path from segments.
func New(segments ...Segment) Path {
	return Path(segments)
}

// IsRoot reports whether p addresses the event root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Parent returns p without its last segment. The parent of Root is Root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// Last returns the final segment of p. It panics on the root path.
func (p Path) Last() Segment {
	return p[len(p)-1]
}

// Append returns a new path with segs appended. p is not modified.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// String renders p in its canonical form. The root path renders as ".".
func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	var sb strings.Builder
	for i, s := range p {
		if i == 0 && s.IsIndex {
			sb.WriteByte('.')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Equal reports whether p and o address the same location.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// SyntaxError describes a malformed path.
type SyntaxError struct {
	Input    string
	Position int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid path %q at position %d: %s", e.Input, e.Position, e.Msg)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses a path. The leading dot is optional: ".foo.bar" and
// "foo.bar" are the same path. Field names that are not plain identifiers
// must be double-quoted.
func Parse(s string) (Path, error) {
	sc := &scanner{input: s}
	return sc.parse()
}

type scanner struct {
	input string
	pos   int
}

func (sc *scanner) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Input: sc.input, Position: sc.pos, Msg: fmt.Sprintf(format, args...)}
}

func (sc *scanner) peek() rune {
	if sc.pos >= len(sc.input) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(sc.input[sc.pos:])
	return r
}

func (sc *scanner) parse() (Path, error) {
	if sc.input == "" {
		return nil, sc.errorf("empty path")
	}
	if sc.input == "." {
		return Root, nil
	}

	p := Path{}
	if sc.peek() != '.' && sc.peek() != '[' {
		// Implicit leading dot.
		seg, err := sc.field()
		if err != nil {
			return nil, err
		}
		p = append(p, seg)
	}

	for sc.pos < len(sc.input) {
		switch sc.peek() {
		case '.':
			sc.pos++
			if sc.peek() == '[' {
				if len(p) != 0 {
					return nil, sc.errorf("unexpected '['")
				}
				continue
			}
			seg, err := sc.field()
			if err != nil {
				return nil, err
			}
			p = append(p, seg)
		case '[':
			seg, err := sc.index()
			if err != nil {
				return nil, err
			}
			p = append(p, seg)
		default:
			return nil, sc.errorf("unexpected %q", sc.peek())
		}
	}
	return p, nil
}

func (sc *scanner) field() (Segment, error) {
	if sc.peek() == '"' {
		return sc.quoted()
	}
	start := sc.pos
	for sc.pos < len(sc.input) {
		r, w := utf8.DecodeRuneInString(sc.input[sc.pos:])
		if !isFieldRune(r) {
			break
		}
		sc.pos += w
	}
	if sc.pos == start {
		return Segment{}, sc.errorf("expected field name")
	}
	return Field(sc.input[start:sc.pos]), nil
}

func (sc *scanner) quoted() (Segment, error) {
	start := sc.pos
	sc.pos++ // opening quote
	for sc.pos < len(sc.input) {
		switch sc.input[sc.pos] {
		case '\\':
			sc.pos += 2
			continue
		case '"':
			sc.pos++
			name, err := strconv.Unquote(sc.input[start:sc.pos])
			if err != nil {
				return Segment{}, sc.errorf("bad quoted field: %v", err)
			}
			return Field(name), nil
		}
		sc.pos++
	}
	return Segment{}, sc.errorf("unterminated quoted field")
}

func (sc *scanner) index() (Segment, error) {
	sc.pos++ // '['
	start := sc.pos
	for sc.pos < len(sc.input) && sc.input[sc.pos] != ']' {
		sc.pos++
	}
	if sc.pos >= len(sc.input) {
		return Segment{}, sc.errorf("unterminated index")
	}
	raw := sc.input[start:sc.pos]
	sc.pos++ // ']'

	i, err := strconv.Atoi(raw)
	if err != nil {
		return Segment{}, sc.errorf("invalid index %q", raw)
	}
	if i < 0 {
		return Segment{}, sc.errorf("negative index %d", i)
	}
	return Index(i), nil
}

func isFieldRune(r rune) bool {
	return r == '_' || r == '-' || r == '@' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isBareField(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isFieldRune(r) {
			return false
		}
	}
	return true
}
