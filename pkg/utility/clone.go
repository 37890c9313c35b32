package utility

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnsupportedType is returned when a value holds channels, functions or
// unsafe pointers, which cannot be copied meaningfully.
var ErrUnsupportedType = errors.New("unable to copy value: type is not supported")

// Clone returns a deep copy of v. Maps, slices, arrays, pointers and the
// exported fields of structs are copied recursively; unexported struct
// fields are copied shallowly. Cyclic values are not supported.
func Clone[T any](v T) (T, error) {
	src := reflect.ValueOf(&v).Elem()
	out, err := cloneValue(src)
	if err != nil {
		var zero T
		return zero, err
	}
	res, _ := out.Interface().(T)
	return res, nil
}

// CloneValue is Clone for untyped JSON-like trees.
func CloneValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	out, err := cloneValue(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func cloneValue(src reflect.Value) (reflect.Value, error) {
	switch src.Kind() {
	case reflect.Invalid:
		return src, nil
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, src.Type())
	case reflect.Pointer:
		if src.IsNil() {
			return reflect.Zero(src.Type()), nil
		}
		elem, err := cloneValue(src.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		dst := reflect.New(src.Type().Elem())
		dst.Elem().Set(elem)
		return dst, nil
	case reflect.Interface:
		if src.IsNil() {
			return reflect.Zero(src.Type()), nil
		}
		elem, err := cloneValue(src.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		dst := reflect.New(src.Type()).Elem()
		dst.Set(elem)
		return dst, nil
	case reflect.Map:
		if src.IsNil() {
			return reflect.Zero(src.Type()), nil
		}
		dst := reflect.MakeMapWithSize(src.Type(), src.Len())
		iter := src.MapRange()
		for iter.Next() {
			val, err := cloneValue(iter.Value())
			if err != nil {
				return reflect.Value{}, err
			}
			dst.SetMapIndex(iter.Key(), val)
		}
		return dst, nil
	case reflect.Slice:
		if src.IsNil() {
			return reflect.Zero(src.Type()), nil
		}
		dst := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			val, err := cloneValue(src.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}
			dst.Index(i).Set(val)
		}
		return dst, nil
	case reflect.Array:
		dst := reflect.New(src.Type()).Elem()
		for i := 0; i < src.Len(); i++ {
			val, err := cloneValue(src.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}
			dst.Index(i).Set(val)
		}
		return dst, nil
	case reflect.Struct:
		dst := reflect.New(src.Type()).Elem()
		dst.Set(src)
		for i := 0; i < src.NumField(); i++ {
			if !dst.Field(i).CanSet() {
				continue
			}
			val, err := cloneValue(src.Field(i))
			if err != nil {
				return reflect.Value{}, err
			}
			dst.Field(i).Set(val)
		}
		return dst, nil
	default:
		return src, nil
	}
}

// MergeMaps returns a new map holding first's entries overlaid with second's.
// Neither input is modified.
func MergeMaps[K comparable, V any](first, second map[K]V) map[K]V {
	out := make(map[K]V, len(first)+len(second))
	for k, v := range first {
		out[k] = v
	}
	for k, v := range second {
		out[k] = v
	}
	return out
}
