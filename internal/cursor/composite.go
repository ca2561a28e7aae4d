package cursor

import (
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// itemField extracts the single synthetic child field a List/LargeList/
// FixedSizeList DataType carries, mirroring internal/builder's helper of
// the same name (kept package-local rather than shared, since the two
// packages never import each other).
func itemField(dt schema.DataType) schema.Field {
	if c := dt.Child(); c != nil {
		return *c
	}
	return schema.Field{Name: "item", Type: schema.NullType(), Nullable: true}
}

// readSlot reads row from c into into if c considers it valid, else
// emits a bare Null; shared by every composite cursor's child dispatch.
func readSlot(c Cursor, row int, into event.Sink) error {
	if !c.IsValid(row) {
		return into.Accept(event.EvNull)
	}
	return c.Read(row, into)
}

type listCursor struct {
	a    *array.List
	item Cursor
}

func newListCursor(f schema.Field, a *array.List) (Cursor, error) {
	item, err := New(itemField(f.Type), a.ListValues())
	if err != nil {
		return nil, err
	}
	return listCursor{a: a, item: item}, nil
}

func (c listCursor) Len() int             { return c.a.Len() }
func (c listCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c listCursor) Read(row int, into event.Sink) error {
	if err := into.Accept(event.EvStartList); err != nil {
		return err
	}
	offs := c.a.Offsets()
	for j := offs[row]; j < offs[row+1]; j++ {
		if err := into.Accept(event.EvItem); err != nil {
			return err
		}
		if err := readSlot(c.item, int(j), into); err != nil {
			return err
		}
	}
	return into.Accept(event.EvEndList)
}

type largeListCursor struct {
	a    *array.LargeList
	item Cursor
}

func newLargeListCursor(f schema.Field, a *array.LargeList) (Cursor, error) {
	item, err := New(itemField(f.Type), a.ListValues())
	if err != nil {
		return nil, err
	}
	return largeListCursor{a: a, item: item}, nil
}

func (c largeListCursor) Len() int             { return c.a.Len() }
func (c largeListCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c largeListCursor) Read(row int, into event.Sink) error {
	if err := into.Accept(event.EvStartList); err != nil {
		return err
	}
	offs := c.a.Offsets()
	for j := offs[row]; j < offs[row+1]; j++ {
		if err := into.Accept(event.EvItem); err != nil {
			return err
		}
		if err := readSlot(c.item, int(j), into); err != nil {
			return err
		}
	}
	return into.Accept(event.EvEndList)
}

type fixedSizeListCursor struct {
	a    *array.FixedSizeList
	item Cursor
	n    int32
}

func newFixedSizeListCursor(f schema.Field, a *array.FixedSizeList) (Cursor, error) {
	item, err := New(itemField(f.Type), a.ListValues())
	if err != nil {
		return nil, err
	}
	return fixedSizeListCursor{a: a, item: item, n: f.Type.Width()}, nil
}

func (c fixedSizeListCursor) Len() int             { return c.a.Len() }
func (c fixedSizeListCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c fixedSizeListCursor) Read(row int, into event.Sink) error {
	if err := into.Accept(event.EvStartList); err != nil {
		return err
	}
	base := int32(row) * c.n
	for k := int32(0); k < c.n; k++ {
		if err := into.Accept(event.EvItem); err != nil {
			return err
		}
		if err := readSlot(c.item, int(base+k), into); err != nil {
			return err
		}
	}
	return into.Accept(event.EvEndList)
}

type structCursor struct {
	a      *array.Struct
	names  []string
	fields []Cursor
}

func newStructCursor(f schema.Field, a *array.Struct) (Cursor, error) {
	children := f.Type.Children()
	c := structCursor{
		a:      a,
		names:  make([]string, len(children)),
		fields: make([]Cursor, len(children)),
	}
	for i, cf := range children {
		fc, err := New(cf, a.Field(i))
		if err != nil {
			return nil, err
		}
		c.names[i] = cf.Name
		c.fields[i] = fc
	}
	return c, nil
}

func (c structCursor) Len() int             { return c.a.Len() }
func (c structCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c structCursor) Read(row int, into event.Sink) error {
	if err := into.Accept(event.EvStartStruct); err != nil {
		return err
	}
	for i, fc := range c.fields {
		if err := into.Accept(event.Str_(c.names[i])); err != nil {
			return err
		}
		if err := readSlot(fc, row, into); err != nil {
			return err
		}
	}
	return into.Accept(event.EvEndStruct)
}

type mapCursor struct {
	a   *array.Map
	key Cursor
	val Cursor
}

func newMapCursor(f schema.Field, a *array.Map) (Cursor, error) {
	entries := f.Type.Child().Type
	keyField := entries.Children()[0]
	valField := entries.Children()[1]
	keyCur, err := New(keyField, a.Keys())
	if err != nil {
		return nil, err
	}
	valCur, err := New(valField, a.Items())
	if err != nil {
		return nil, err
	}
	return mapCursor{a: a, key: keyCur, val: valCur}, nil
}

func (c mapCursor) Len() int             { return c.a.Len() }
func (c mapCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c mapCursor) Read(row int, into event.Sink) error {
	if err := into.Accept(event.EvStartMap); err != nil {
		return err
	}
	offs := c.a.Offsets()
	for j := offs[row]; j < offs[row+1]; j++ {
		if err := into.Accept(event.EvItem); err != nil {
			return err
		}
		if err := readSlot(c.key, int(j), into); err != nil {
			return err
		}
		if err := readSlot(c.val, int(j), into); err != nil {
			return err
		}
	}
	return into.Accept(event.EvEndMap)
}
