package types

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{0, "none"},
		{KindAny, "any"},
		{KindBytes, "bytes"},
		{KindBytes | KindInteger, "bytes | integer"},
		{KindArray | KindNull | KindTimestamp, "timestamp | null | array"},
	}
	for _, tc := range tests {
		if got := tc.k.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.k, got, tc.want)
		}
	}
}

func TestKindSetAlgebra(t *testing.T) {
	num := KindInteger | KindFloat

	if !KindInteger.IsSubsetOf(num) {
		t.Error("integer should be a subset of integer|float")
	}
	if num.IsSubsetOf(KindInteger) {
		t.Error("integer|float is not a subset of integer")
	}
	if !Kind(0).IsSubsetOf(0) {
		t.Error("the empty set is a subset of every set")
	}
	if !num.Contains(KindFloat) || num.Contains(KindBytes) {
		t.Error("Contains mismatch")
	}
	if got := KindBytes.Union(KindNull); got != KindBytes|KindNull {
		t.Errorf("Union = %s", got)
	}
	if !KindMap.IsExact() || num.IsExact() || Kind(0).IsExact() {
		t.Error("IsExact mismatch")
	}
	if KindScalar.Contains(KindMap) || KindScalar.Contains(KindArray) || !KindScalar.Contains(KindRegex) {
		t.Error("KindScalar must hold every non-container variant")
	}
}

func TestValueKinds(t *testing.T) {
	re, err := NewRegex("a+")
	if err != nil {
		t.Fatal(err)
	}
	values := []Value{Bytes("x"), Integer(1), Float(1.5), Boolean(true), NewTimestamp(testTime), re, Null{}, Map{}, Array{}}
	var seen Kind
	for _, v := range values {
		if !v.Kind().IsExact() {
			t.Errorf("%T has a non-exact kind %s", v, v.Kind())
		}
		seen |= v.Kind()
	}
	if seen != KindAny {
		t.Errorf("variants cover %s, want any", seen)
	}
}
