package cursor

import (
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// dictionaryCursor looks up key := indices[i], then recurses into the
// shared values cursor at row key, per spec.md 4.3. With the
// EnumsWithoutDataAsStrings strategy it re-synthesizes the Variant+Null
// pair internal/builder/dictionary.go's Accept expects for that
// strategy instead of a bare Str.
type dictionaryCursor struct {
	a        *array.Dictionary
	values   Cursor
	asEnum   bool
}

func newDictionaryCursor(f schema.Field, a *array.Dictionary) (Cursor, error) {
	valueField := *f.Type.Child()
	values, err := New(valueField, a.Dictionary())
	if err != nil {
		return nil, err
	}
	return dictionaryCursor{
		a:      a,
		values: values,
		asEnum: f.Strategy() == schema.EnumsWithoutDataAsStrings,
	}, nil
}

func (c dictionaryCursor) Len() int             { return c.a.Len() }
func (c dictionaryCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c dictionaryCursor) Read(row int, into event.Sink) error {
	key := c.a.GetValueIndex(row)
	if !c.asEnum {
		return c.values.Read(key, into)
	}
	str, ok := c.values.(stringCursor)
	if !ok {
		return c.values.Read(key, into)
	}
	name := str.a.Value(key)
	if err := into.Accept(event.VariantOf(name, 0)); err != nil {
		return err
	}
	return into.Accept(event.EvNull)
}
