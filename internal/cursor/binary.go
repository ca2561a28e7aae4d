package cursor

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

type binaryReader interface {
	arrow.Array
	Value(i int) []byte
}

type binaryCursor struct{ a binaryReader }

func newBinaryCursor(arr arrow.Array) (Cursor, error) {
	switch a := arr.(type) {
	case *array.Binary:
		return binaryCursor{a}, nil
	case *array.LargeBinary:
		return binaryCursor{a}, nil
	case *array.BinaryView:
		return binaryCursor{a}, nil
	default:
		return nil, fmt.Errorf("cursor: %T is not a binary array", arr)
	}
}

func (c binaryCursor) Len() int             { return c.a.Len() }
func (c binaryCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c binaryCursor) Read(row int, into event.Sink) error {
	return into.Accept(event.Binary_(c.a.Value(row)))
}

type fixedSizeBinaryCursor struct{ a *array.FixedSizeBinary }

func (c fixedSizeBinaryCursor) Len() int             { return c.a.Len() }
func (c fixedSizeBinaryCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c fixedSizeBinaryCursor) Read(row int, into event.Sink) error {
	return into.Accept(event.Binary_(c.a.Value(row)))
}
