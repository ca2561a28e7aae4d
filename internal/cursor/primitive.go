package cursor

import (
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

type i8Cursor struct{ a *array.Int8 }

func (c i8Cursor) Len() int             { return c.a.Len() }
func (c i8Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c i8Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.I8_(c.a.Value(row)))
}

type i16Cursor struct{ a *array.Int16 }

func (c i16Cursor) Len() int             { return c.a.Len() }
func (c i16Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c i16Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.I16_(c.a.Value(row)))
}

type i32Cursor struct{ a *array.Int32 }

func (c i32Cursor) Len() int             { return c.a.Len() }
func (c i32Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c i32Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.I32_(c.a.Value(row)))
}

type i64Cursor struct{ a *array.Int64 }

func (c i64Cursor) Len() int             { return c.a.Len() }
func (c i64Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c i64Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.I64_(c.a.Value(row)))
}

type u8Cursor struct{ a *array.Uint8 }

func (c u8Cursor) Len() int             { return c.a.Len() }
func (c u8Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c u8Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.U8_(c.a.Value(row)))
}

type u16Cursor struct{ a *array.Uint16 }

func (c u16Cursor) Len() int             { return c.a.Len() }
func (c u16Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c u16Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.U16_(c.a.Value(row)))
}

type u32Cursor struct{ a *array.Uint32 }

func (c u32Cursor) Len() int             { return c.a.Len() }
func (c u32Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c u32Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.U32_(c.a.Value(row)))
}

type u64Cursor struct{ a *array.Uint64 }

func (c u64Cursor) Len() int             { return c.a.Len() }
func (c u64Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c u64Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.U64_(c.a.Value(row)))
}

type f32Cursor struct{ a *array.Float32 }

func (c f32Cursor) Len() int             { return c.a.Len() }
func (c f32Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c f32Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.F32_(c.a.Value(row)))
}

type f64Cursor struct{ a *array.Float64 }

func (c f64Cursor) Len() int             { return c.a.Len() }
func (c f64Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c f64Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.F64_(c.a.Value(row)))
}

type float16Cursor struct{ a *array.Float16 }

func (c float16Cursor) Len() int             { return c.a.Len() }
func (c float16Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c float16Cursor) Read(row int, into event.Sink) error {
	v := c.a.Value(row)
	return into.Accept(event.F32_(float16.Num(v).Float32()))
}
