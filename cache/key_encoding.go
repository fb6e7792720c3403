package cache

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// maxEncodeDepth stops the walk on self referencing values.
const maxEncodeDepth = 32

// componentHash returns the base hash a component contributes to a Key.
// Values that compare equal always encode to the same text, so they
// always hash the same. Non-nil hashes are even, which keeps them apart
// from the nil sentinel.
func componentHash(v any) uint64 {
	if v == nil {
		return nullHash
	}
	return xxhash.Sum64String(encodeComponent(v)) &^ 1
}

// encodeComponent renders v as type tagged canonical text.
func encodeComponent(v any) string {
	var b strings.Builder
	b.WriteString(reflect.TypeOf(v).String())
	b.WriteByte('|')
	encodeValue(&b, v, 0)
	return b.String()
}

func encodeValue(b *strings.Builder, v any, depth int) {
	if v == nil {
		b.WriteString("nil")
		return
	}
	if depth > maxEncodeDepth {
		fmt.Fprintf(b, "deep:%T", v)
		return
	}

	if k, ok := v.(*Key); ok {
		if k == nil {
			b.WriteString("nil")
			return
		}
		fmt.Fprintf(b, "key:%d:%d:%d", k.hashcode, k.checksum, k.count)
		return
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()

	switch rt.Kind() {
	case reflect.Func:
		fmt.Fprintf(b, "func:%p", v)
	case reflect.Chan, reflect.UnsafePointer:
		fmt.Fprintf(b, "%s:%p", rt.Kind(), v)
	case reflect.Pointer:
		if rv.IsNil() {
			b.WriteString("nil")
			return
		}
		encodeValue(b, rv.Elem().Interface(), depth+1)
	case reflect.Interface:
		if rv.IsNil() {
			b.WriteString("nil")
			return
		}
		encodeValue(b, rv.Elem().Interface(), depth+1)
	case reflect.Slice:
		if rv.IsNil() {
			b.WriteString("slice:nil")
			return
		}
		encodeSequence(b, "slice", rv, depth)
	case reflect.Array:
		encodeSequence(b, "array", rv, depth)
	case reflect.Map:
		if rv.IsNil() {
			b.WriteString("map:nil")
			return
		}
		encodeMap(b, rv, depth)
	case reflect.Struct:
		encodeStruct(b, rv, rt, depth)
	case reflect.Float32, reflect.Float64:
		b.WriteString(fmt.Sprint(floatBits(rv.Float())))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		fmt.Fprintf(b, "%d,%d", floatBits(real(c)), floatBits(imag(c)))
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

func encodeSequence(b *strings.Builder, tag string, rv reflect.Value, depth int) {
	fmt.Fprintf(b, "%s[%d]:{", tag, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		encodeValue(b, elemInterface(rv.Index(i)), depth+1)
	}
	b.WriteByte('}')
}

// encodeMap writes pairs sorted by their encoded key for determinism.
func encodeMap(b *strings.Builder, rv reflect.Value, depth int) {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		var kb, vb strings.Builder
		encodeValue(&kb, elemInterface(iter.Key()), depth+1)
		encodeValue(&vb, elemInterface(iter.Value()), depth+1)
		pairs = append(pairs, kb.String()+"="+vb.String())
	}
	sort.Strings(pairs)
	fmt.Fprintf(b, "map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
}

// encodeStruct covers exported fields only; equal structs still encode equally.
func encodeStruct(b *strings.Builder, rv reflect.Value, rt reflect.Type, depth int) {
	b.WriteString("struct:{")
	first := true
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(field.Name)
		b.WriteByte(':')
		encodeValue(b, elemInterface(rv.Field(i)), depth+1)
	}
	b.WriteByte('}')
}

func elemInterface(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	if v.Kind() == reflect.Interface && v.IsNil() {
		return nil
	}
	return v.Interface()
}

// floatBits folds -0.0 into 0.0 and every NaN payload into one value.
func floatBits(f float64) uint64 {
	switch {
	case f == 0:
		return 0
	case math.IsNaN(f):
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(f)
}
