// Package builder turns a schema.Field tree into a tree of Arrow array
// builders and drives them from the same flat event stream the tracer
// consumes, wrapping github.com/apache/arrow-go/v18/arrow/array rather
// than re-implementing Arrow's physical buffer layout.
package builder

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// Builder is the common contract every physical-type builder satisfies.
// Accept consumes one flat event at a time; PushNull/PushDefault are the
// two ways a row can advance without a matching caller-supplied event
// (PushNull records the row as absent, PushDefault pads a row with a
// type-specific zero value while leaving its own validity bit set, used
// when a composite's null row must still advance every child builder by
// one row to keep sibling lengths equal).
type Builder interface {
	event.Sink
	Len() int
	PushNull() error
	PushDefault() error
	Finish() (arrow.Array, error)
}

// New builds the Builder tree for f, recursively, choosing the concrete
// builder from f.Type.ID() the way the original crate's
// internal/serialization module dispatches on GenericDataType.
func New(f schema.Field, mem memory.Allocator) (Builder, error) {
	switch f.Type.ID() {
	case schema.Null:
		return newNullBuilder(mem), nil
	case schema.Bool:
		return newBoolBuilder(mem), nil
	case schema.I8:
		return newI8Builder(mem), nil
	case schema.I16:
		return newI16Builder(mem), nil
	case schema.I32:
		return newI32Builder(mem), nil
	case schema.I64:
		return newI64Builder(mem), nil
	case schema.U8:
		return newU8Builder(mem), nil
	case schema.U16:
		return newU16Builder(mem), nil
	case schema.U32:
		return newU32Builder(mem), nil
	case schema.U64:
		return newU64Builder(mem), nil
	case schema.F16:
		return newFloat16Builder(mem), nil
	case schema.F32:
		return newF32Builder(mem), nil
	case schema.F64:
		return newF64Builder(mem), nil
	case schema.Utf8, schema.LargeUtf8, schema.Utf8View:
		return newStringBuilder(mem, f.Type.ID(), f.AllowToString()), nil
	case schema.Binary, schema.LargeBinary, schema.BinaryView:
		return newBinaryBuilder(mem, f.Type.ID()), nil
	case schema.FixedSizeBinary:
		return newFixedSizeBinaryBuilder(mem, f.Type.Width()), nil
	case schema.Date32:
		return newDate32Builder(mem), nil
	case schema.Date64:
		return newDate64Builder(mem, f.Strategy()), nil
	case schema.Time32:
		return newTime32Builder(mem, f.Type.Unit())
	case schema.Time64:
		return newTime64Builder(mem, f.Type.Unit())
	case schema.Timestamp:
		return newTimestampBuilder(mem, f.Type.Unit(), f.Type.Timezone()), nil
	case schema.Duration:
		return newDurationBuilder(mem, f.Type.Unit()), nil
	case schema.Decimal128:
		return newDecimal128Builder(mem, f.Type.Precision(), f.Type.Scale()), nil
	case schema.List:
		return newListBuilder(mem, f.Type, false)
	case schema.LargeList:
		return newListBuilder(mem, f.Type, true)
	case schema.FixedSizeList:
		return newFixedSizeListBuilder(mem, f.Type)
	case schema.Struct:
		return newStructBuilder(mem, f.Type)
	case schema.Map:
		return newMapBuilder(mem, f.Type)
	case schema.DenseUnion:
		return newUnionBuilder(mem, f.Type)
	case schema.Dictionary:
		return newDictionaryBuilder(mem, f.Type)
	default:
		return nil, fmt.Errorf("builder: unsupported data type %s", f.Type.ID())
	}
}

// deliverSlot feeds ev into a single logical "value slot" forwarding to
// child, tracking nesting depth so the caller learns exactly when the
// slot's one value (a scalar, Null/Default, or a whole Start..End
// subtree) has fully arrived. depth must point at an int initialized to 0
// and owned by the caller across repeated calls for the same slot
// occurrence.
//
// Some and Variant are markers rather than values in their own right:
// both are always followed by the value they modify, so neither one
// alone completes the slot. A Some at the start of the slot is consumed
// here and not forwarded, since no builder takes it as input. A union
// builder sitting behind this slot sees the Variant event and uses it to
// pick which variant child receives the rest of the stream; deliverSlot
// only needs to know not to stop there.
func deliverSlot(child event.Sink, ev event.Event, depth *int) (done bool, err error) {
	if *depth == 0 && ev.Kind == event.Some {
		return false, nil
	}
	if err := child.Accept(ev); err != nil {
		return false, err
	}
	if *depth > 0 {
		switch {
		case ev.IsStart():
			*depth++
		case ev.IsEnd():
			*depth--
			if *depth == 0 {
				return true, nil
			}
		}
		return false, nil
	}
	switch {
	case ev.IsMarker():
		return false, nil
	case ev.IsStart():
		*depth = 1
		return false, nil
	default:
		return true, nil
	}
}
