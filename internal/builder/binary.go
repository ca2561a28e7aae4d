package builder

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

type binaryAppender interface {
	array.Builder
	Append([]byte)
	AppendNull()
	NewArray() arrow.Array
}

type binaryBuilder struct{ b binaryAppender }

func newBinaryBuilder(mem memory.Allocator, id schema.ID) *binaryBuilder {
	switch id {
	case schema.LargeBinary:
		return &binaryBuilder{b: array.NewBinaryBuilder(mem, arrow.BinaryTypes.LargeBinary)}
	case schema.BinaryView:
		return &binaryBuilder{b: array.NewBinaryViewBuilder(mem)}
	default:
		return &binaryBuilder{b: array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)}
	}
}

func (b *binaryBuilder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.Binary:
		b.b.Append(ev.Bytes)
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(nil)
	default:
		return fmt.Errorf("binary column cannot hold %s", ev)
	}
	return nil
}
func (b *binaryBuilder) Len() int                     { return b.b.Len() }
func (b *binaryBuilder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *binaryBuilder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *binaryBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

// fixedSizeBinaryBuilder enforces that every non-null value is exactly
// width bytes, matching Arrow's FixedSizeBinary physical layout (used
// directly for UUID columns: see internal/walk's uuid.UUID handling).
type fixedSizeBinaryBuilder struct {
	b     *array.FixedSizeBinaryBuilder
	width int
}

func newFixedSizeBinaryBuilder(mem memory.Allocator, width int32) *fixedSizeBinaryBuilder {
	dt := &arrow.FixedSizeBinaryType{ByteWidth: int(width)}
	return &fixedSizeBinaryBuilder{b: array.NewFixedSizeBinaryBuilder(mem, dt), width: int(width)}
}

func (b *fixedSizeBinaryBuilder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.Binary:
		if len(ev.Bytes) != b.width {
			return fmt.Errorf("FixedSizeBinary(%d) cannot hold a %d byte value", b.width, len(ev.Bytes))
		}
		b.b.Append(ev.Bytes)
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(make([]byte, b.width))
	default:
		return fmt.Errorf("FixedSizeBinary column cannot hold %s", ev)
	}
	return nil
}
func (b *fixedSizeBinaryBuilder) Len() int                     { return b.b.Len() }
func (b *fixedSizeBinaryBuilder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *fixedSizeBinaryBuilder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *fixedSizeBinaryBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }
