package builder

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/float16"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

// nullBuilder backs a Null-typed field: every row is absent, and the
// column is nothing but a length.
type nullBuilder struct {
	mem memory.Allocator
	n   int
}

func newNullBuilder(mem memory.Allocator) *nullBuilder { return &nullBuilder{mem: mem} }

func (b *nullBuilder) Accept(ev event.Event) error {
	if ev.Kind != event.Null && ev.Kind != event.Default {
		return fmt.Errorf("Null column cannot hold %s", ev)
	}
	b.n++
	return nil
}
func (b *nullBuilder) Len() int           { return b.n }
func (b *nullBuilder) PushNull() error    { return b.Accept(event.EvNull) }
func (b *nullBuilder) PushDefault() error { return b.Accept(event.EvDefault) }
func (b *nullBuilder) Finish() (arrow.Array, error) {
	bldr := array.NewNullBuilder(b.mem)
	defer bldr.Release()
	for i := 0; i < b.n; i++ {
		bldr.AppendNull()
	}
	return bldr.NewArray(), nil
}

type boolBuilder struct{ b *array.BooleanBuilder }

func newBoolBuilder(mem memory.Allocator) *boolBuilder {
	return &boolBuilder{b: array.NewBooleanBuilder(mem)}
}

func (b *boolBuilder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.Bool:
		b.b.Append(ev.Bool_)
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(false)
	default:
		return fmt.Errorf("Bool column cannot hold %s", ev)
	}
	return nil
}
func (b *boolBuilder) Len() int                     { return b.b.Len() }
func (b *boolBuilder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *boolBuilder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *boolBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

type i8Builder struct{ b *array.Int8Builder }
type i16Builder struct{ b *array.Int16Builder }
type i32Builder struct{ b *array.Int32Builder }
type i64Builder struct{ b *array.Int64Builder }
type u8Builder struct{ b *array.Uint8Builder }
type u16Builder struct{ b *array.Uint16Builder }
type u32Builder struct{ b *array.Uint32Builder }
type u64Builder struct{ b *array.Uint64Builder }

func newI8Builder(mem memory.Allocator) *i8Builder   { return &i8Builder{array.NewInt8Builder(mem)} }
func newI16Builder(mem memory.Allocator) *i16Builder { return &i16Builder{array.NewInt16Builder(mem)} }
func newI32Builder(mem memory.Allocator) *i32Builder { return &i32Builder{array.NewInt32Builder(mem)} }
func newI64Builder(mem memory.Allocator) *i64Builder { return &i64Builder{array.NewInt64Builder(mem)} }
func newU8Builder(mem memory.Allocator) *u8Builder   { return &u8Builder{array.NewUint8Builder(mem)} }
func newU16Builder(mem memory.Allocator) *u16Builder { return &u16Builder{array.NewUint16Builder(mem)} }
func newU32Builder(mem memory.Allocator) *u32Builder { return &u32Builder{array.NewUint32Builder(mem)} }
func newU64Builder(mem memory.Allocator) *u64Builder { return &u64Builder{array.NewUint64Builder(mem)} }

func (b *i8Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.I8, event.I16, event.I32, event.I64:
		b.b.Append(int8(ev.Int))
	case event.U8, event.U16, event.U32, event.U64:
		b.b.Append(int8(ev.Uint))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("I8 column cannot hold %s", ev)
	}
	return nil
}
func (b *i8Builder) Len() int                     { return b.b.Len() }
func (b *i8Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *i8Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *i8Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

func (b *i16Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.I8, event.I16, event.I32, event.I64:
		b.b.Append(int16(ev.Int))
	case event.U8, event.U16, event.U32, event.U64:
		b.b.Append(int16(ev.Uint))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("I16 column cannot hold %s", ev)
	}
	return nil
}
func (b *i16Builder) Len() int                     { return b.b.Len() }
func (b *i16Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *i16Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *i16Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

func (b *i32Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.I8, event.I16, event.I32, event.I64:
		b.b.Append(int32(ev.Int))
	case event.U8, event.U16, event.U32, event.U64:
		b.b.Append(int32(ev.Uint))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("I32 column cannot hold %s", ev)
	}
	return nil
}
func (b *i32Builder) Len() int                     { return b.b.Len() }
func (b *i32Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *i32Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *i32Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

func (b *i64Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.I8, event.I16, event.I32, event.I64:
		b.b.Append(ev.Int)
	case event.U8, event.U16, event.U32, event.U64:
		b.b.Append(int64(ev.Uint))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("I64 column cannot hold %s", ev)
	}
	return nil
}
func (b *i64Builder) Len() int                     { return b.b.Len() }
func (b *i64Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *i64Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *i64Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

func (b *u8Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.U8, event.U16, event.U32, event.U64:
		b.b.Append(uint8(ev.Uint))
	case event.I8, event.I16, event.I32, event.I64:
		b.b.Append(uint8(ev.Int))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("U8 column cannot hold %s", ev)
	}
	return nil
}
func (b *u8Builder) Len() int                     { return b.b.Len() }
func (b *u8Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *u8Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *u8Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

func (b *u16Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.U8, event.U16, event.U32, event.U64:
		b.b.Append(uint16(ev.Uint))
	case event.I8, event.I16, event.I32, event.I64:
		b.b.Append(uint16(ev.Int))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("U16 column cannot hold %s", ev)
	}
	return nil
}
func (b *u16Builder) Len() int                     { return b.b.Len() }
func (b *u16Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *u16Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *u16Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

func (b *u32Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.U8, event.U16, event.U32, event.U64:
		b.b.Append(uint32(ev.Uint))
	case event.I8, event.I16, event.I32, event.I64:
		b.b.Append(uint32(ev.Int))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("U32 column cannot hold %s", ev)
	}
	return nil
}
func (b *u32Builder) Len() int                     { return b.b.Len() }
func (b *u32Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *u32Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *u32Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

func (b *u64Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.U8, event.U16, event.U32, event.U64:
		b.b.Append(ev.Uint)
	case event.I8, event.I16, event.I32, event.I64:
		b.b.Append(uint64(ev.Int))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("U64 column cannot hold %s", ev)
	}
	return nil
}
func (b *u64Builder) Len() int                     { return b.b.Len() }
func (b *u64Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *u64Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *u64Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

type f32Builder struct{ b *array.Float32Builder }
type f64Builder struct{ b *array.Float64Builder }

func newF32Builder(mem memory.Allocator) *f32Builder { return &f32Builder{array.NewFloat32Builder(mem)} }
func newF64Builder(mem memory.Allocator) *f64Builder { return &f64Builder{array.NewFloat64Builder(mem)} }

func (b *f32Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.F32, event.F64:
		b.b.Append(float32(ev.Float))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("F32 column cannot hold %s", ev)
	}
	return nil
}
func (b *f32Builder) Len() int                     { return b.b.Len() }
func (b *f32Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *f32Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *f32Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

func (b *f64Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.F32, event.F64:
		b.b.Append(ev.Float)
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("F64 column cannot hold %s", ev)
	}
	return nil
}
func (b *f64Builder) Len() int                     { return b.b.Len() }
func (b *f64Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *f64Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *f64Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

type float16Builder struct{ b *array.Float16Builder }

func newFloat16Builder(mem memory.Allocator) *float16Builder {
	return &float16Builder{b: array.NewFloat16Builder(mem)}
}

func (b *float16Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.F32, event.F64:
		b.b.Append(float16.New(float32(ev.Float)))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(float16.New(0))
	default:
		return fmt.Errorf("F16 column cannot hold %s", ev)
	}
	return nil
}
func (b *float16Builder) Len() int                     { return b.b.Len() }
func (b *float16Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *float16Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *float16Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }
