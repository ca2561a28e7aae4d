package walk

import (
	"fmt"
	"reflect"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

// Type walks t itself rather than a value of t, emitting the same event
// shape Value would produce for a representative instance: zero scalars,
// one representative list item, one representative map entry. budget
// bounds how many composite types may be unwrapped, guarding against
// self-referential Go types (a linked list, a recursive JSON-like tree)
// that would otherwise recurse forever since there is no value depth to
// stop at.
func Type(sink event.Sink, t reflect.Type, budget *int) error {
	for t.Kind() == reflect.Ptr {
		if err := sink.Accept(event.EvSome); err != nil {
			return err
		}
		t = t.Elem()
	}

	switch {
	case t == uuidType:
		return sink.Accept(event.Binary_(make([]byte, 16)))
	case t == timeType:
		return sink.Accept(event.Str_("1970-01-01T00:00:00Z"))
	case t == byteSliceType:
		return sink.Accept(event.Binary_(nil))
	}

	if zero := reflect.New(t).Elem(); t.Kind() == reflect.String {
		if ev, ok := zero.Interface().(enumVariants); ok {
			variants := ev.EnumVariants()
			if len(variants) == 0 {
				return fmt.Errorf("walk: %s declares no enum variants", t)
			}
			if err := sink.Accept(event.VariantOf(variants[0], 0)); err != nil {
				return err
			}
			return sink.Accept(event.EvNull)
		}
	}

	switch t.Kind() {
	case reflect.Bool:
		return sink.Accept(event.Bool_(false))
	case reflect.Int8:
		return sink.Accept(event.I8_(0))
	case reflect.Int16:
		return sink.Accept(event.I16_(0))
	case reflect.Int32:
		return sink.Accept(event.I32_(0))
	case reflect.Int, reflect.Int64:
		return sink.Accept(event.I64_(0))
	case reflect.Uint8:
		return sink.Accept(event.U8_(0))
	case reflect.Uint16:
		return sink.Accept(event.U16_(0))
	case reflect.Uint32:
		return sink.Accept(event.U32_(0))
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return sink.Accept(event.U64_(0))
	case reflect.Float32:
		return sink.Accept(event.F32_(0))
	case reflect.Float64:
		return sink.Accept(event.F64_(0))
	case reflect.String:
		return sink.Accept(event.Str_(""))
	case reflect.Interface:
		return fmt.Errorf("walk: cannot trace interface type %s from type alone, provide samples instead", t)
	}

	if *budget <= 0 {
		return fmt.Errorf("walk: type recursion budget exhausted at %s", t)
	}
	*budget--

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if err := sink.Accept(event.EvStartList); err != nil {
			return err
		}
		if err := sink.Accept(event.EvItem); err != nil {
			return err
		}
		if err := Type(sink, t.Elem(), budget); err != nil {
			return err
		}
		return sink.Accept(event.EvEndList)
	case reflect.Map:
		if err := sink.Accept(event.EvStartMap); err != nil {
			return err
		}
		if err := sink.Accept(event.EvItem); err != nil {
			return err
		}
		if err := Type(sink, t.Key(), budget); err != nil {
			return err
		}
		if err := Type(sink, t.Elem(), budget); err != nil {
			return err
		}
		return sink.Accept(event.EvEndMap)
	case reflect.Struct:
		if err := sink.Accept(event.EvStartStruct); err != nil {
			return err
		}
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			name, ok := FieldNamer(sf)
			if !ok {
				continue
			}
			if err := sink.Accept(event.Str_(name)); err != nil {
				return err
			}
			if err := Type(sink, sf.Type, budget); err != nil {
				return err
			}
		}
		return sink.Accept(event.EvEndStruct)
	default:
		return fmt.Errorf("walk: unsupported type kind %s", t.Kind())
	}
}
