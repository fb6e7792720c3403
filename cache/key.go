package cache

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"strings"
)

const (
	keyMultiplier uint64 = 37
	keySeed       uint64 = 17
	nullHash      uint64 = 1
)

// Key is a composite cache key built incrementally from ordered components.
// Two keys are equal when they hold the same components in the same order.
//
// A Key is append only. It is not safe for concurrent mutation, and a key
// must not be updated once it has been used to store an entry.
type Key struct {
	hashcode   uint64
	checksum   uint64
	count      int
	components []any
}

// NewKey returns a key seeded with the given components.
func NewKey(components ...any) *Key {
	k := &Key{hashcode: keySeed}
	k.UpdateAll(components...)
	return k
}

// Update folds one component into the key. Slices and arrays contribute
// each element in order; a nil slice counts as a single nil component.
func (k *Key) Update(component any) {
	if component != nil {
		rv := reflect.ValueOf(component)
		switch rv.Kind() {
		case reflect.Slice:
			if rv.IsNil() {
				k.fold(nil)
				return
			}
			k.foldSequence(rv)
			return
		case reflect.Array:
			k.foldSequence(rv)
			return
		}
	}
	k.fold(component)
}

// UpdateAll folds each component in order.
func (k *Key) UpdateAll(components ...any) {
	for _, c := range components {
		k.Update(c)
	}
}

func (k *Key) foldSequence(rv reflect.Value) {
	for i := 0; i < rv.Len(); i++ {
		k.fold(elemInterface(rv.Index(i)))
	}
}

func (k *Key) fold(component any) {
	base := componentHash(component)
	k.count++
	k.checksum += base
	k.hashcode = keyMultiplier*k.hashcode + base*uint64(k.count)
	k.components = append(k.components, component)
}

func (k *Key) HashCode() uint64 {
	return k.hashcode
}

func (k *Key) Checksum() uint64 {
	return k.checksum
}

// Count returns the number of folded components.
func (k *Key) Count() int {
	return k.count
}

// Components returns a copy of the folded components.
func (k *Key) Components() []any {
	out := make([]any, len(k.components))
	copy(out, k.components)
	return out
}

// Equal reports whether other is a *Key with the same components in the
// same order. Hash, checksum and count are compared first.
func (k *Key) Equal(other any) bool {
	o, ok := other.(*Key)
	if !ok || o == nil {
		return false
	}
	if k == o {
		return true
	}
	if k.hashcode != o.hashcode || k.checksum != o.checksum || k.count != o.count {
		return false
	}
	for i := range k.components {
		if !componentsEqual(k.components[i], o.components[i]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy; updating either side leaves the other unchanged.
func (k *Key) Clone() *Key {
	c := *k
	c.components = k.Components()
	return &c
}

// Compare orders keys by count, hash, checksum and finally their string form.
func (k *Key) Compare(other *Key) int {
	if c := cmp.Compare(k.count, other.count); c != 0 {
		return c
	}
	if c := cmp.Compare(k.hashcode, other.hashcode); c != 0 {
		return c
	}
	if c := cmp.Compare(k.checksum, other.checksum); c != 0 {
		return c
	}
	return strings.Compare(k.String(), other.String())
}

// String renders hash:checksum followed by each component.
func (k *Key) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d", k.hashcode, k.checksum)
	for _, c := range k.components {
		fmt.Fprintf(&b, ":%v", c)
	}
	return b.String()
}

func componentsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ka, ok := a.(*Key); ok {
		return ka.Equal(b)
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Float32, reflect.Float64:
		return floatsEqual(reflect.ValueOf(a).Float(), reflect.ValueOf(b).Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := reflect.ValueOf(a).Complex(), reflect.ValueOf(b).Complex()
		return floatsEqual(real(ca), real(cb)) && floatsEqual(imag(ca), imag(cb))
	}
	if ta.Comparable() {
		return comparableEqual(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// floatsEqual treats every NaN as equal so a key holding one still equals
// itself and its clones.
func floatsEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// comparableEqual falls back to DeepEqual when a comparable type holds an
// interface field whose dynamic value is not comparable.
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}
