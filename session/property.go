package session

import (
	"math"
	"reflect"
	"strings"
)

// PropertySetter lets a result object take deferred values without reflection.
type PropertySetter interface {
	SetProperty(name string, value any) error
}

// PropertyGetter lets a parameter object expose OUT values without reflection.
type PropertyGetter interface {
	GetProperty(name string) (any, error)
}

// setProperty assigns value to the named property of target. target may be
// a PropertySetter, a map with string keys, or a pointer to a struct.
func setProperty(target any, name string, value any) error {
	if setter, ok := target.(PropertySetter); ok {
		return setter.SetProperty(name, value)
	}

	rv := reflect.ValueOf(target)
	switch {
	case rv.Kind() == reflect.Map:
		if rv.IsNil() {
			return errProperty(name, target, "nil map")
		}
		if rv.Type().Key().Kind() != reflect.String {
			return errProperty(name, target, "map keys are not strings")
		}
		v, err := valueFor(value, rv.Type().Elem())
		if err != nil {
			return errProperty(name, target, err.Error())
		}
		rv.SetMapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()), v)
		return nil
	case rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct:
		field := structField(rv.Elem(), name)
		if !field.IsValid() {
			return errProperty(name, target, "no such field")
		}
		if !field.CanSet() {
			return errProperty(name, target, "field is not settable")
		}
		v, err := valueFor(value, field.Type())
		if err != nil {
			return errProperty(name, target, err.Error())
		}
		field.Set(v)
		return nil
	}
	return errProperty(name, target, "unsupported target")
}

// getProperty reads the named property of source.
func getProperty(source any, name string) (any, bool) {
	if getter, ok := source.(PropertyGetter); ok {
		v, err := getter.GetProperty(name)
		return v, err == nil
	}

	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		field := structField(rv, name)
		if !field.IsValid() || !field.CanInterface() {
			return nil, false
		}
		return field.Interface(), true
	}
	return nil, false
}

func structField(rv reflect.Value, name string) reflect.Value {
	if f := rv.FieldByName(name); f.IsValid() {
		return f
	}
	return rv.FieldByNameFunc(func(n string) bool {
		return strings.EqualFold(n, name)
	})
}

type conversionError struct {
	from, to reflect.Type
}

func (e conversionError) Error() string {
	return "cannot use " + e.from.String() + " as " + e.to.String()
}

// valueFor converts value to t. nil becomes the zero value of t. Numbers
// convert only when the value fits, and never to or from strings.
func valueFor(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if converted, ok := convertValue(rv, t); ok {
		return converted, nil
	}
	return reflect.Value{}, conversionError{from: rv.Type(), to: t}
}

func convertValue(rv reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if !rv.Type().ConvertibleTo(t) {
		return reflect.Value{}, false
	}
	from, to := rv.Kind(), t.Kind()
	target := reflect.Zero(t)

	switch {
	case isInt(from) && isInt(to):
		if target.OverflowInt(rv.Int()) {
			return reflect.Value{}, false
		}
	case isInt(from) && isUint(to):
		if rv.Int() < 0 || target.OverflowUint(uint64(rv.Int())) {
			return reflect.Value{}, false
		}
	case isUint(from) && isInt(to):
		if rv.Uint() > math.MaxInt64 || target.OverflowInt(int64(rv.Uint())) {
			return reflect.Value{}, false
		}
	case isUint(from) && isUint(to):
		if target.OverflowUint(rv.Uint()) {
			return reflect.Value{}, false
		}
	case (isInt(from) || isUint(from)) && isFloat(to):
	case isFloat(from) && isFloat(to):
		if target.OverflowFloat(rv.Float()) {
			return reflect.Value{}, false
		}
	case (from == reflect.Complex64 || from == reflect.Complex128) && (to == reflect.Complex64 || to == reflect.Complex128):
	case from == reflect.String && to == reflect.String:
	case isBytes(rv.Type()) && to == reflect.String:
	case from == reflect.String && isBytes(t):
	case from == to && !isNumeric(from) && from != reflect.String:
	default:
		return reflect.Value{}, false
	}
	return rv.Convert(t), true
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k) || k == reflect.Complex64 || k == reflect.Complex128
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
