package builder

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// stringAppender abstracts over the three UTF-8 builders arrow-go
// generates (Utf8, LargeUtf8, Utf8View), which differ only in offset
// width and share no common typed interface in the upstream package.
type stringAppender interface {
	array.Builder
	Append(string)
	AppendNull()
	NewArray() arrow.Array
}

// stringBuilder optionally coerces numeric and boolean events into their
// textual form instead of rejecting them, when the field that produced
// it was traced (or configured) with AllowToString.
type stringBuilder struct {
	b             stringAppender
	allowToString bool
}

func newStringBuilder(mem memory.Allocator, id schema.ID, allowToString bool) *stringBuilder {
	switch id {
	case schema.LargeUtf8:
		return &stringBuilder{b: array.NewLargeStringBuilder(mem), allowToString: allowToString}
	case schema.Utf8View:
		return &stringBuilder{b: array.NewStringViewBuilder(mem), allowToString: allowToString}
	default:
		return &stringBuilder{b: array.NewStringBuilder(mem), allowToString: allowToString}
	}
}

func (b *stringBuilder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.Str:
		b.b.Append(ev.Str_)
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append("")
	case event.Bool:
		if !b.allowToString {
			return fmt.Errorf("string column cannot hold %s", ev)
		}
		b.b.Append(strconv.FormatBool(ev.Bool_))
	case event.I8, event.I16, event.I32, event.I64:
		if !b.allowToString {
			return fmt.Errorf("string column cannot hold %s", ev)
		}
		b.b.Append(strconv.FormatInt(ev.Int, 10))
	case event.U8, event.U16, event.U32, event.U64:
		if !b.allowToString {
			return fmt.Errorf("string column cannot hold %s", ev)
		}
		b.b.Append(strconv.FormatUint(ev.Uint, 10))
	case event.F16, event.F32, event.F64:
		if !b.allowToString {
			return fmt.Errorf("string column cannot hold %s", ev)
		}
		b.b.Append(strconv.FormatFloat(ev.Float, 'g', -1, 64))
	default:
		return fmt.Errorf("string column cannot hold %s", ev)
	}
	return nil
}
func (b *stringBuilder) Len() int                     { return b.b.Len() }
func (b *stringBuilder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *stringBuilder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *stringBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }
