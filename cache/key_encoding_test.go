package cache

import (
	"strings"
	"testing"
)

func TestEncodeComponent_BasicTypes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "int", value: 42, want: "int|42"},
		{name: "string", value: "hello:world", want: "string|hello:world"},
		{name: "bool", value: true, want: "bool|true"},
		{name: "empty slice", value: []int{}, want: "[]int|slice[0]:{}"},
		{name: "int slice", value: []int{1, 2, 3}, want: "[]int|slice[3]:{1,2,3}"},
		{name: "nested slice", value: [][]int{{1, 2}, {3}}, want: "[][]int|slice[2]:{slice[2]:{1,2},slice[1]:{3}}"},
		{name: "array", value: [2]string{"a", "b"}, want: "[2]string|array[2]:{a,b}"},
		{name: "nil slice", value: []int(nil), want: "[]int|slice:nil"},
		{name: "nil map", value: map[string]int(nil), want: "map[string]int|map:nil"},
		{name: "nil pointer", value: (*int)(nil), want: "*int|nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeComponent(tt.value); got != tt.want {
				t.Errorf("encodeComponent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeComponent_MapsAreSorted(t *testing.T) {
	got := encodeComponent(map[string]int{"count": 10, "age": 25})
	want := "map[string]int|map[2]:{age=25,count=10}"
	if got != want {
		t.Errorf("encodeComponent() = %v, want %v", got, want)
	}
}

func TestEncodeComponent_StructsSkipUnexported(t *testing.T) {
	type user struct {
		ID       int
		Name     string
		password string
	}

	got := encodeComponent(user{ID: 2, Name: "bob", password: "secret"})
	if !strings.HasSuffix(got, "|struct:{ID:2,Name:bob}") {
		t.Errorf("unexpected struct encoding %v", got)
	}
}

func TestEncodeComponent_PointersDereference(t *testing.T) {
	value := 42
	if got := encodeComponent(&value); got != "*int|42" {
		t.Errorf("expected *int|42, got %v", got)
	}
}

func TestEncodeComponent_Functions(t *testing.T) {
	fn := func() {}
	a := encodeComponent(fn)
	b := encodeComponent(fn)
	if a != b {
		t.Errorf("function encoding should be stable: %v != %v", a, b)
	}
	if !strings.Contains(a, "|func:") {
		t.Errorf("function encoding should use func: prefix, got %v", a)
	}
}

type cyclic struct {
	Next *cyclic
}

func TestEncodeComponent_CyclesTerminate(t *testing.T) {
	c := &cyclic{}
	c.Next = c
	if got := encodeComponent(c); !strings.Contains(got, "deep:") {
		t.Errorf("expected depth guard marker, got %v", got)
	}
}

func TestComponentHash(t *testing.T) {
	if componentHash(nil) != nullHash {
		t.Errorf("nil must hash to %d", nullHash)
	}
	for _, v := range []any{0, "", false, 1.5, []int{}} {
		if h := componentHash(v); h%2 != 0 {
			t.Errorf("non-nil hash for %#v must be even, got %d", v, h)
		}
	}
	if componentHash("a") != componentHash("a") {
		t.Error("hash must be deterministic")
	}
}
