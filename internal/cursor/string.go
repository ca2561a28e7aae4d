package cursor

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

// stringReader is the subset of array.String/LargeString/StringView's
// public API a string cursor needs.
type stringReader interface {
	arrow.Array
	Value(i int) string
}

type stringCursor struct{ a stringReader }

func newStringCursor(arr arrow.Array) (Cursor, error) {
	switch a := arr.(type) {
	case *array.String:
		return stringCursor{a}, nil
	case *array.LargeString:
		return stringCursor{a}, nil
	case *array.StringView:
		return stringCursor{a}, nil
	default:
		return nil, fmt.Errorf("cursor: %T is not a string array", arr)
	}
}

func (c stringCursor) Len() int             { return c.a.Len() }
func (c stringCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c stringCursor) Read(row int, into event.Sink) error {
	return into.Accept(event.Str_(c.a.Value(row)))
}
