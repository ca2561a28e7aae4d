package cursor_test

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serde-arrow/serde-arrow-go/internal/builder"
	"github.com/serde-arrow/serde-arrow-go/internal/cursor"
	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// recorder is an event.Sink that just remembers every event it was fed,
// so a cursor's Read output can be asserted against directly.
type recorder struct {
	events []event.Event
}

func (r *recorder) Accept(ev event.Event) error {
	r.events = append(r.events, ev)
	return nil
}

func buildAndFinish(t *testing.T, f schema.Field, feed ...event.Event) arrow.Array {
	t.Helper()
	b, err := builder.New(f, memory.DefaultAllocator)
	require.NoError(t, err)
	for _, ev := range feed {
		require.NoError(t, b.Accept(ev))
	}
	arr, err := b.Finish()
	require.NoError(t, err)
	return arr
}

func TestScalarCursorRoundTripsThroughBuilder(t *testing.T) {
	f := schema.Field{Name: "n", Type: schema.I32Type(), Nullable: true}
	arr := buildAndFinish(t, f, event.I32_(9), event.EvNull, event.I32_(-1))
	defer arr.Release()

	c, err := cursor.New(f, arr)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.True(t, c.IsValid(0))
	assert.False(t, c.IsValid(1))
	assert.True(t, c.IsValid(2))

	var rec recorder
	require.NoError(t, c.Read(0, &rec))
	assert.Equal(t, []event.Event{event.I32_(9)}, rec.events)

	rec.events = nil
	require.NoError(t, c.Read(2, &rec))
	assert.Equal(t, []event.Event{event.I32_(-1)}, rec.events)
}

func TestListCursorRoundTripsThroughBuilder(t *testing.T) {
	f := schema.Field{Name: "xs", Type: schema.ListType(schema.I32Type(), false)}
	arr := buildAndFinish(t, f,
		event.EvStartList, event.EvItem, event.I32_(1), event.EvItem, event.I32_(2), event.EvEndList,
		event.EvStartList, event.EvEndList,
	)
	defer arr.Release()

	c, err := cursor.New(f, arr)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	var rec recorder
	require.NoError(t, c.Read(0, &rec))
	assert.Equal(t, []event.Event{
		event.EvStartList, event.EvItem, event.I32_(1), event.EvItem, event.I32_(2), event.EvEndList,
	}, rec.events)

	rec.events = nil
	require.NoError(t, c.Read(1, &rec))
	assert.Equal(t, []event.Event{event.EvStartList, event.EvEndList}, rec.events)
}

func TestStructCursorRoundTripsFieldNamesAndValues(t *testing.T) {
	f := schema.Field{
		Name: "p",
		Type: schema.StructType(
			schema.Field{Name: "x", Type: schema.I32Type()},
			schema.Field{Name: "y", Type: schema.I32Type()},
		),
	}
	arr := buildAndFinish(t, f,
		event.EvStartStruct, event.Str_("x"), event.I32_(1), event.Str_("y"), event.I32_(2), event.EvEndStruct,
	)
	defer arr.Release()

	c, err := cursor.New(f, arr)
	require.NoError(t, err)

	var rec recorder
	require.NoError(t, c.Read(0, &rec))
	assert.Equal(t, []event.Event{
		event.EvStartStruct,
		event.Str_("x"), event.I32_(1),
		event.Str_("y"), event.I32_(2),
		event.EvEndStruct,
	}, rec.events)
}

func TestStructCursorRoundTripsNullableFieldAndNestedStruct(t *testing.T) {
	f := schema.Field{
		Name: "p",
		Type: schema.StructType(
			schema.Field{Name: "x", Type: schema.I32Type(), Nullable: true},
			schema.Field{
				Name: "inner",
				Type: schema.StructType(schema.Field{Name: "y", Type: schema.I32Type()}),
			},
		),
	}
	arr := buildAndFinish(t, f,
		event.EvStartStruct,
		event.Str_("x"), event.EvNull,
		event.Str_("inner"), event.EvStartStruct, event.Str_("y"), event.I32_(9), event.EvEndStruct,
		event.EvEndStruct,
	)
	defer arr.Release()

	c, err := cursor.New(f, arr)
	require.NoError(t, err)

	var rec recorder
	require.NoError(t, c.Read(0, &rec))
	assert.Equal(t, []event.Event{
		event.EvStartStruct,
		event.Str_("x"), event.EvNull,
		event.Str_("inner"), event.EvStartStruct, event.Str_("y"), event.I32_(9), event.EvEndStruct,
		event.EvEndStruct,
	}, rec.events)
}

func TestListCursorRoundTripsNullableItem(t *testing.T) {
	f := schema.Field{Name: "xs", Type: schema.ListType(schema.I32Type(), true)}
	arr := buildAndFinish(t, f,
		event.EvStartList,
		event.EvItem, event.I32_(1),
		event.EvItem, event.EvNull,
		event.EvEndList,
	)
	defer arr.Release()

	c, err := cursor.New(f, arr)
	require.NoError(t, err)

	var rec recorder
	require.NoError(t, c.Read(0, &rec))
	assert.Equal(t, []event.Event{
		event.EvStartList,
		event.EvItem, event.I32_(1),
		event.EvItem, event.EvNull,
		event.EvEndList,
	}, rec.events)
}

func TestMapCursorEmitsOneItemPerEntry(t *testing.T) {
	f := schema.Field{Name: "m", Type: schema.MapType(schema.Utf8Type(), schema.I32Type(), false)}
	arr := buildAndFinish(t, f,
		event.EvStartMap,
		event.EvItem, event.Str_("a"), event.I32_(1),
		event.EvItem, event.Str_("b"), event.I32_(2),
		event.EvEndMap,
	)
	defer arr.Release()

	c, err := cursor.New(f, arr)
	require.NoError(t, err)

	var rec recorder
	require.NoError(t, c.Read(0, &rec))
	assert.Equal(t, []event.Event{
		event.EvStartMap,
		event.EvItem, event.Str_("a"), event.I32_(1),
		event.EvItem, event.Str_("b"), event.I32_(2),
		event.EvEndMap,
	}, rec.events)
}

func TestUnionCursorRoundTripsNullAndStructVariants(t *testing.T) {
	dt, err := schema.DenseUnionType([]schema.Field{
		{Name: "A", Type: schema.NullType()},
		{Name: "B", Type: schema.StructType(schema.Field{Name: "x", Type: schema.U32Type()})},
	}, []int8{0, 1})
	require.NoError(t, err)
	f := schema.Field{Name: "u", Type: dt}

	arr := buildAndFinish(t, f,
		event.VariantOf("A", 0), event.EvNull,
		event.VariantOf("B", 1), event.EvStartStruct, event.Str_("x"), event.U32_(7), event.EvEndStruct,
		event.VariantOf("A", 0), event.EvNull,
	)
	defer arr.Release()

	c, err := cursor.New(f, arr)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	var rec recorder
	require.NoError(t, c.Read(0, &rec))
	assert.Equal(t, []event.Event{event.VariantOf("A", 0), event.EvNull}, rec.events)

	rec.events = nil
	require.NoError(t, c.Read(1, &rec))
	assert.Equal(t, []event.Event{
		event.VariantOf("B", 1),
		event.EvStartStruct, event.Str_("x"), event.U32_(7), event.EvEndStruct,
	}, rec.events)

	rec.events = nil
	require.NoError(t, c.Read(2, &rec))
	assert.Equal(t, []event.Event{event.VariantOf("A", 0), event.EvNull}, rec.events)
}

func TestDictionaryCursorReadsBackUnderlyingString(t *testing.T) {
	dt, err := schema.DictionaryType(schema.U32Type(), schema.Utf8Type())
	require.NoError(t, err)
	f := schema.Field{Name: "tag", Type: dt}
	arr := buildAndFinish(t, f, event.Str_("A"), event.Str_("B"), event.Str_("A"))
	defer arr.Release()

	c, err := cursor.New(f, arr)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	var rec recorder
	require.NoError(t, c.Read(0, &rec))
	require.NoError(t, c.Read(2, &rec))
	assert.Equal(t, []event.Event{event.Str_("A"), event.Str_("A")}, rec.events)
}
