package cacheinfra

import (
	"strings"
	"testing"
)

func TestSameKey(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal strings", "a", "a", true},
		{"different strings", "a", "b", false},
		{"same value different types", 1, int64(1), false},
		{"hashable equal", &collidingKey{"x"}, &collidingKey{"x"}, true},
		{"hashable different", &collidingKey{"x"}, &collidingKey{"y"}, false},
		{"hashable against plain", "x", &collidingKey{"x"}, false},
		{"nil keys", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameKey(tt.a, tt.b); got != tt.want {
				t.Errorf("SameKey(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestKeyString(t *testing.T) {
	if got := KeyString(42); got != "int:42" {
		t.Errorf("expected int:42, got %s", got)
	}
	if got := KeyString("42"); got != "string:42" {
		t.Errorf("expected string:42, got %s", got)
	}
}

type namedKey string

func (n namedKey) String() string { return strings.ToUpper(string(n)) }

func TestKeyString_Stringer(t *testing.T) {
	if got := KeyString(namedKey("abc")); got != "cacheinfra.namedKey:ABC" {
		t.Errorf("unexpected key string %s", got)
	}
}

