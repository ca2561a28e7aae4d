// Package walk drives an event.Sink from a Go value or a Go type using
// reflection, the way encoding/json's default encoder drives its stream
// from a reflect.Value. It is the one generic, representative framework
// both tracing and serialization fall back to when a value does not
// implement a Serializer of its own.
package walk

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stoewer/go-strcase"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

// FieldNamer returns the wire name for a struct field, consulting an
// "arrow" tag before falling back to a snake_case rendering of the Go
// field name (spec.md's compact text grammar and the original crate both
// default struct fields to their declared name; Go's idiomatic default
// is snake_case, produced here via go-strcase, matching JSON library
// conventions for this ecosystem).
func FieldNamer(f reflect.StructField) (string, bool) {
	if tag, ok := f.Tag.Lookup("arrow"); ok {
		if tag == "-" {
			return "", false
		}
		return tag, true
	}
	if f.PkgPath != "" {
		return "", false
	}
	return strcase.SnakeCase(f.Name), true
}

// enumVariants is satisfied by any type naming its own closed set of
// data-free variants; it matches serdearrow.Enumer by method set alone,
// with no import of the root package needed.
type enumVariants interface {
	EnumVariants() []string
}

var uuidType = reflect.TypeOf(uuid.UUID{})
var timeType = reflect.TypeOf(time.Time{})
var byteSliceType = reflect.TypeOf([]byte(nil))

// Value walks v, emitting events into sink. Any supported kind is
// walked (a slice or map yields a list or map subtree). A top-level
// record handed to the tracer or to ToArrays resolves (after
// pointer/interface dereference) to a struct, mirroring how this
// ecosystem models rows instead of reaching for dynamically-shaped maps
// the way a dynamically-typed language would.
func Value(sink event.Sink, v reflect.Value) error {
	return walkValue(sink, v)
}

func walkValue(sink event.Sink, v reflect.Value) error {
	if !v.IsValid() {
		return sink.Accept(event.EvNull)
	}
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return sink.Accept(event.EvNull)
		}
		if err := sink.Accept(event.EvSome); err != nil {
			return err
		}
		return walkValue(sink, v.Elem())
	case reflect.Interface:
		if v.IsNil() {
			return sink.Accept(event.EvNull)
		}
		return walkValue(sink, v.Elem())
	}

	t := v.Type()
	switch {
	case t == uuidType:
		b := v.Interface().(uuid.UUID)
		return sink.Accept(event.Binary_(b[:]))
	case t == timeType:
		tm := v.Interface().(time.Time)
		return sink.Accept(event.Str_(tm.UTC().Format("2006-01-02T15:04:05.999999999Z")))
	case t == byteSliceType:
		return sink.Accept(event.Binary_(v.Bytes()))
	}

	if ev, ok := v.Interface().(enumVariants); ok {
		variants := ev.EnumVariants()
		name := v.String()
		for i, cand := range variants {
			if cand == name {
				if err := sink.Accept(event.VariantOf(name, i)); err != nil {
					return err
				}
				return sink.Accept(event.EvNull)
			}
		}
		return fmt.Errorf("%q is not a declared variant of %s", name, t)
	}

	switch v.Kind() {
	case reflect.Bool:
		return sink.Accept(event.Bool_(v.Bool()))
	case reflect.Int8:
		return sink.Accept(event.I8_(int8(v.Int())))
	case reflect.Int16:
		return sink.Accept(event.I16_(int16(v.Int())))
	case reflect.Int32:
		return sink.Accept(event.I32_(int32(v.Int())))
	case reflect.Int, reflect.Int64:
		return sink.Accept(event.I64_(v.Int()))
	case reflect.Uint8:
		return sink.Accept(event.U8_(uint8(v.Uint())))
	case reflect.Uint16:
		return sink.Accept(event.U16_(uint16(v.Uint())))
	case reflect.Uint32:
		return sink.Accept(event.U32_(uint32(v.Uint())))
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return sink.Accept(event.U64_(v.Uint()))
	case reflect.Float32:
		return sink.Accept(event.F32_(float32(v.Float())))
	case reflect.Float64:
		return sink.Accept(event.F64_(v.Float()))
	case reflect.String:
		return sink.Accept(event.Str_(v.String()))
	case reflect.Slice, reflect.Array:
		return walkSequence(sink, v)
	case reflect.Map:
		return walkMap(sink, v)
	case reflect.Struct:
		return walkStruct(sink, v)
	default:
		return fmt.Errorf("walk: unsupported kind %s", v.Kind())
	}
}

func walkSequence(sink event.Sink, v reflect.Value) error {
	if err := sink.Accept(event.EvStartList); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if err := sink.Accept(event.EvItem); err != nil {
			return err
		}
		if err := walkValue(sink, v.Index(i)); err != nil {
			return err
		}
	}
	return sink.Accept(event.EvEndList)
}

func walkMap(sink event.Sink, v reflect.Value) error {
	if err := sink.Accept(event.EvStartMap); err != nil {
		return err
	}
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	for _, k := range keys {
		if err := sink.Accept(event.EvItem); err != nil {
			return err
		}
		if err := walkValue(sink, k); err != nil {
			return err
		}
		if err := walkValue(sink, v.MapIndex(k)); err != nil {
			return err
		}
	}
	return sink.Accept(event.EvEndMap)
}

func walkStruct(sink event.Sink, v reflect.Value) error {
	if err := sink.Accept(event.EvStartStruct); err != nil {
		return err
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, ok := FieldNamer(sf)
		if !ok {
			continue
		}
		if err := sink.Accept(event.Str_(name)); err != nil {
			return err
		}
		if err := walkValue(sink, v.Field(i)); err != nil {
			return err
		}
	}
	return sink.Accept(event.EvEndStruct)
}
