package builder

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

// decimal128Builder accepts its value either as a decimal string
// ("123.45") or, for the rarer case of an already-integral Go field, as
// a plain integer carrying the numeric value itself (7 at scale 2 is
// stored as 7.00).
type decimal128Builder struct {
	b              *array.Decimal128Builder
	precision, scale int32
}

func newDecimal128Builder(mem memory.Allocator, precision, scale int32) *decimal128Builder {
	dt := &arrow.Decimal128Type{Precision: precision, Scale: scale}
	return &decimal128Builder{b: array.NewDecimal128Builder(mem, dt), precision: precision, scale: scale}
}

func (b *decimal128Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.Str:
		n, err := decimal128.FromString(ev.Str_, b.precision, b.scale)
		if err != nil {
			return fmt.Errorf("Decimal128(%d,%d): %w", b.precision, b.scale, err)
		}
		b.b.Append(n)
	case event.I64, event.I32, event.I16, event.I8:
		n, err := decimal128.FromString(strconv.FormatInt(ev.Int, 10), b.precision, b.scale)
		if err != nil {
			return fmt.Errorf("Decimal128(%d,%d): %w", b.precision, b.scale, err)
		}
		b.b.Append(n)
	case event.F64, event.F32:
		n, err := decimal128.FromString(strconv.FormatFloat(ev.Float, 'f', int(b.scale), 64), b.precision, b.scale)
		if err != nil {
			return fmt.Errorf("Decimal128(%d,%d): %w", b.precision, b.scale, err)
		}
		b.b.Append(n)
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(decimal128.Num{})
	default:
		return fmt.Errorf("Decimal128 column cannot hold %s", ev)
	}
	return nil
}
func (b *decimal128Builder) Len() int                     { return b.b.Len() }
func (b *decimal128Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *decimal128Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *decimal128Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }
