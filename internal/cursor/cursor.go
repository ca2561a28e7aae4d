// Package cursor wraps a finished Arrow array in a per-row pull-style
// reader: given a row index, it synthesizes the same flat event stream
// internal/builder consumes, so the deserialization driver can feed
// internal/walk's reverse (or a hand-written Deserializer) without ever
// materializing an intermediate tree.
package cursor

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// Cursor is the common contract every physical-type array view satisfies.
// Len and IsValid read straight off the wrapped arrow.Array, which is
// already offset/length aware (a sliced array's Len/IsNull account for
// its own window), so Cursor needs no window bookkeeping of its own.
type Cursor interface {
	Len() int
	IsValid(row int) bool
	// Read synthesizes the event subtree for a non-null row into into.
	// Callers check IsValid first; Read on an invalid row is undefined.
	Read(row int, into event.Sink) error
}

// New builds the Cursor tree for f over arr, recursively, mirroring
// builder.New's dispatch on f.Type.ID() on the way in.
func New(f schema.Field, arr arrow.Array) (Cursor, error) {
	switch f.Type.ID() {
	case schema.Null:
		return nullCursor{n: arr.Len()}, nil
	case schema.Bool:
		return boolCursor{arr.(*array.Boolean)}, nil
	case schema.I8:
		return i8Cursor{arr.(*array.Int8)}, nil
	case schema.I16:
		return i16Cursor{arr.(*array.Int16)}, nil
	case schema.I32:
		return i32Cursor{arr.(*array.Int32)}, nil
	case schema.I64:
		return i64Cursor{arr.(*array.Int64)}, nil
	case schema.U8:
		return u8Cursor{arr.(*array.Uint8)}, nil
	case schema.U16:
		return u16Cursor{arr.(*array.Uint16)}, nil
	case schema.U32:
		return u32Cursor{arr.(*array.Uint32)}, nil
	case schema.U64:
		return u64Cursor{arr.(*array.Uint64)}, nil
	case schema.F16:
		return float16Cursor{arr.(*array.Float16)}, nil
	case schema.F32:
		return f32Cursor{arr.(*array.Float32)}, nil
	case schema.F64:
		return f64Cursor{arr.(*array.Float64)}, nil
	case schema.Utf8, schema.LargeUtf8, schema.Utf8View:
		return newStringCursor(arr)
	case schema.Binary, schema.LargeBinary, schema.BinaryView:
		return newBinaryCursor(arr)
	case schema.FixedSizeBinary:
		return fixedSizeBinaryCursor{arr.(*array.FixedSizeBinary)}, nil
	case schema.Date32:
		return date32Cursor{arr.(*array.Date32)}, nil
	case schema.Date64:
		return date64Cursor{arr.(*array.Date64), f.Strategy()}, nil
	case schema.Time32:
		return time32Cursor{arr.(*array.Time32)}, nil
	case schema.Time64:
		return time64Cursor{arr.(*array.Time64)}, nil
	case schema.Timestamp:
		return timestampCursor{arr.(*array.Timestamp), f.Type.Timezone() != ""}, nil
	case schema.Duration:
		return durationCursor{arr.(*array.Duration)}, nil
	case schema.Decimal128:
		return decimal128Cursor{arr.(*array.Decimal128)}, nil
	case schema.List:
		return newListCursor(f, arr.(*array.List))
	case schema.LargeList:
		return newLargeListCursor(f, arr.(*array.LargeList))
	case schema.FixedSizeList:
		return newFixedSizeListCursor(f, arr.(*array.FixedSizeList))
	case schema.Struct:
		return newStructCursor(f, arr.(*array.Struct))
	case schema.Map:
		return newMapCursor(f, arr.(*array.Map))
	case schema.DenseUnion:
		return newUnionCursor(f, arr.(*array.DenseUnion))
	case schema.Dictionary:
		return newDictionaryCursor(f, arr.(*array.Dictionary))
	default:
		return nil, fmt.Errorf("cursor: unsupported data type %s", f.Type.ID())
	}
}

type nullCursor struct{ n int }

func (c nullCursor) Len() int               { return c.n }
func (c nullCursor) IsValid(row int) bool   { return false }
func (c nullCursor) Read(row int, into event.Sink) error {
	return into.Accept(event.EvNull)
}

type boolCursor struct{ a *array.Boolean }

func (c boolCursor) Len() int             { return c.a.Len() }
func (c boolCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c boolCursor) Read(row int, into event.Sink) error {
	return into.Accept(event.Bool_(c.a.Value(row)))
}
