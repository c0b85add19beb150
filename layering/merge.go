// Package layering folds a sequence of override values into one effective
// value. Inner values override outer ones field by field: nil pointers, maps,
// slices and interfaces fall through to the outer value, everything else set
// on the inner value wins.
package layering

import "reflect"

// Merge folds values ordered outermost first, so the last value is the
// strongest. Inputs are never mutated; the result shares no references with
// them.
func Merge[T any](values ...T) T {
	var zero T
	if len(values) == 0 {
		return zero
	}
	acc := deepCopy(reflect.ValueOf(values[0]))
	for _, value := range values[1:] {
		acc = overlay(acc, reflect.ValueOf(value))
	}
	return asType[T](acc)
}

// MergeLayers folds layers ordered strongest first.
func MergeLayers[T any](layers ...T) T {
	reversed := make([]T, len(layers))
	for i, layer := range layers {
		reversed[len(layers)-1-i] = layer
	}
	return Merge(reversed...)
}

func asType[T any](v reflect.Value) T {
	var zero T
	if !v.IsValid() {
		return zero
	}
	if typed, ok := v.Interface().(T); ok {
		return typed
	}
	target := reflect.TypeOf(&zero).Elem()
	if v.Type().ConvertibleTo(target) {
		return v.Convert(target).Interface().(T)
	}
	return zero
}

// overlay returns a fresh value with over applied on top of base.
func overlay(base, over reflect.Value) reflect.Value {
	if !over.IsValid() {
		return deepCopy(base)
	}
	if base.IsValid() && base.Type() != over.Type() {
		base = reflect.Value{}
	}

	switch over.Kind() {
	case reflect.Pointer:
		if over.IsNil() {
			return fallback(base, over.Type())
		}
		out := reflect.New(over.Type().Elem())
		out.Elem().Set(overlay(elemOf(base), over.Elem()))
		return out
	case reflect.Interface:
		if over.IsNil() {
			return fallback(base, over.Type())
		}
		merged := overlay(elemOf(base), over.Elem())
		out := reflect.New(over.Type()).Elem()
		out.Set(merged)
		return out
	case reflect.Struct:
		out := reflect.New(over.Type()).Elem()
		for i := range over.NumField() {
			if !out.Field(i).CanSet() {
				continue
			}
			var baseField reflect.Value
			if base.IsValid() {
				baseField = base.Field(i)
			}
			out.Field(i).Set(overlay(baseField, over.Field(i)))
		}
		return out
	case reflect.Map:
		if over.IsNil() {
			return fallback(base, over.Type())
		}
		out := reflect.MakeMapWithSize(over.Type(), over.Len())
		if base.IsValid() && !base.IsNil() {
			iter := base.MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
			}
		}
		iter := over.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), overlay(out.MapIndex(iter.Key()), iter.Value()))
		}
		return out
	case reflect.Slice:
		if over.IsNil() {
			return fallback(base, over.Type())
		}
		return deepCopy(over)
	case reflect.Array:
		out := reflect.New(over.Type()).Elem()
		for i := range over.Len() {
			var baseElem reflect.Value
			if base.IsValid() {
				baseElem = base.Index(i)
			}
			out.Index(i).Set(overlay(baseElem, over.Index(i)))
		}
		return out
	default:
		return deepCopy(over)
	}
}

// fallback keeps base when over is unset, or the zero value of typ when
// there is nothing underneath.
func fallback(base reflect.Value, typ reflect.Type) reflect.Value {
	if !base.IsValid() {
		return reflect.Zero(typ)
	}
	return deepCopy(base)
}

func elemOf(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.IsNil() {
		return reflect.Value{}
	}
	return v.Elem()
}

func deepCopy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Interface:
		out := reflect.New(v.Type()).Elem()
		if !v.IsNil() {
			out.Set(deepCopy(v.Elem()))
		}
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		for i := range v.NumField() {
			if out.Field(i).CanSet() {
				out.Field(i).Set(deepCopy(v.Field(i)))
			}
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	default:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}
