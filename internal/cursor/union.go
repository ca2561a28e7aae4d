package cursor

import (
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// unionCursor dispatches read(i) to the child selected by type_ids[i],
// per spec.md 4.3. Dense unions carry no top-level validity bitmap (see
// internal/builder/union.go), so IsValid is always true; a null/default
// union value round-trips through variant 0 the same way the builder
// records one.
type unionCursor struct {
	a        *array.DenseUnion
	names    []string
	variants []Cursor
}

func newUnionCursor(f schema.Field, a *array.DenseUnion) (Cursor, error) {
	children := f.Type.Children()
	c := unionCursor{
		a:        a,
		names:    make([]string, len(children)),
		variants: make([]Cursor, len(children)),
	}
	for i, cf := range children {
		vc, err := New(cf, a.Field(i))
		if err != nil {
			return nil, err
		}
		c.names[i] = cf.Name
		c.variants[i] = vc
	}
	return c, nil
}

func (c unionCursor) Len() int           { return c.a.Len() }
func (c unionCursor) IsValid(row int) bool { return true }
func (c unionCursor) Read(row int, into event.Sink) error {
	childID := c.a.ChildID(row)
	if err := into.Accept(event.VariantOf(c.names[childID], childID)); err != nil {
		return err
	}
	valueIdx := int(c.a.ValueOffset(row))
	return readSlot(c.variants[childID], valueIdx, into)
}
