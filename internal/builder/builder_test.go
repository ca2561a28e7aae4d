package builder_test

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serde-arrow/serde-arrow-go/internal/builder"
	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

func TestI32BuilderAppendsValuesAndNulls(t *testing.T) {
	b, err := builder.New(schema.Field{Name: "n", Type: schema.I32Type(), Nullable: true}, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.I32_(7)))
	require.NoError(t, b.PushNull())
	require.NoError(t, b.Accept(event.I32_(-3)))
	assert.Equal(t, 3, b.Len())

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	i32 := arr.(*array.Int32)
	assert.Equal(t, int32(7), i32.Value(0))
	assert.True(t, i32.IsNull(1))
	assert.Equal(t, int32(-3), i32.Value(2))
}

func TestStringBuilderRejectsScalarTypeMismatch(t *testing.T) {
	b, err := builder.New(schema.Field{Name: "s", Type: schema.Utf8Type()}, memory.DefaultAllocator)
	require.NoError(t, err)
	assert.Error(t, b.Accept(event.I32_(1)))
}

func TestStringBuilderCoercesNumericAndBoolWhenAllowed(t *testing.T) {
	f := schema.Field{Name: "s", Type: schema.Utf8Type()}
	f.Metadata = schema.NewMetadata(nil)
	f.Metadata.SetAllowToString(true)

	b, err := builder.New(f, memory.DefaultAllocator)
	require.NoError(t, err)
	require.NoError(t, b.Accept(event.I32_(42)))
	require.NoError(t, b.Accept(event.Bool_(true)))
	require.NoError(t, b.Accept(event.F64_(1.5)))

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	s := arr.(*array.String)
	assert.Equal(t, "42", s.Value(0))
	assert.Equal(t, "true", s.Value(1))
	assert.Equal(t, "1.5", s.Value(2))
}

func TestListBuilderSiblingLengthsStayEqualAcrossNullRows(t *testing.T) {
	f := schema.Field{
		Name:     "xs",
		Type:     schema.ListType(schema.I32Type(), false),
		Nullable: true,
	}
	b, err := builder.New(f, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.EvStartList))
	require.NoError(t, b.Accept(event.EvItem))
	require.NoError(t, b.Accept(event.I32_(1)))
	require.NoError(t, b.Accept(event.EvItem))
	require.NoError(t, b.Accept(event.I32_(2)))
	require.NoError(t, b.Accept(event.EvEndList))

	require.NoError(t, b.PushNull())
	assert.Equal(t, 2, b.Len())

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	list := arr.(*array.List)
	assert.False(t, list.IsNull(0))
	assert.True(t, list.IsNull(1))
}

func TestStructBuilderPushDefaultAdvancesEveryChild(t *testing.T) {
	f := schema.Field{
		Name: "p",
		Type: schema.StructType(
			schema.Field{Name: "x", Type: schema.I32Type()},
			schema.Field{Name: "y", Type: schema.I32Type()},
		),
		Nullable: true,
	}
	b, err := builder.New(f, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.EvStartStruct))
	require.NoError(t, b.Accept(event.Str_("x")))
	require.NoError(t, b.Accept(event.I32_(1)))
	require.NoError(t, b.Accept(event.Str_("y")))
	require.NoError(t, b.Accept(event.I32_(2)))
	require.NoError(t, b.Accept(event.EvEndStruct))

	require.NoError(t, b.PushDefault())
	assert.Equal(t, 2, b.Len())

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	st := arr.(*array.Struct)
	assert.Equal(t, 2, st.Len())
	xCol := st.Field(0).(*array.Int32)
	assert.Equal(t, int32(0), xCol.Value(1))
}

func TestUnionBuilderTracksTypeIDsAndPerVariantOffsets(t *testing.T) {
	dt, err := schema.DenseUnionType([]schema.Field{
		{Name: "A", Type: schema.NullType()},
		{Name: "B", Type: schema.StructType(schema.Field{Name: "x", Type: schema.U32Type()})},
	}, []int8{0, 1})
	require.NoError(t, err)
	b, err := builder.New(schema.Field{Name: "u", Type: dt}, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.VariantOf("A", 0)))
	require.NoError(t, b.Accept(event.EvNull))

	require.NoError(t, b.Accept(event.VariantOf("B", 1)))
	require.NoError(t, b.Accept(event.EvStartStruct))
	require.NoError(t, b.Accept(event.Str_("x")))
	require.NoError(t, b.Accept(event.U32_(7)))
	require.NoError(t, b.Accept(event.EvEndStruct))

	require.NoError(t, b.Accept(event.VariantOf("A", 0)))
	require.NoError(t, b.Accept(event.EvNull))

	require.NoError(t, b.Accept(event.VariantOf("B", 1)))
	require.NoError(t, b.Accept(event.EvStartStruct))
	require.NoError(t, b.Accept(event.Str_("x")))
	require.NoError(t, b.Accept(event.U32_(9)))
	require.NoError(t, b.Accept(event.EvEndStruct))

	assert.Equal(t, 4, b.Len())
	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	u := arr.(*array.DenseUnion)
	codes := u.RawTypeCodes()
	assert.Equal(t, []arrow.UnionTypeCode{0, 1, 0, 1}, []arrow.UnionTypeCode{codes[0], codes[1], codes[2], codes[3]})
	assert.Equal(t, []int32{0, 0, 1, 1}, []int32{
		u.ValueOffset(0), u.ValueOffset(1), u.ValueOffset(2), u.ValueOffset(3),
	})
	bCol := u.Field(1).(*array.Struct).Field(0).(*array.Uint32)
	assert.Equal(t, uint32(7), bCol.Value(0))
	assert.Equal(t, uint32(9), bCol.Value(1))
}

func TestStructBuilderHandlesNestedStructField(t *testing.T) {
	f := schema.Field{
		Name: "outer",
		Type: schema.StructType(
			schema.Field{Name: "id", Type: schema.I32Type()},
			schema.Field{
				Name: "inner",
				Type: schema.StructType(schema.Field{Name: "x", Type: schema.I32Type()}),
			},
		),
	}
	b, err := builder.New(f, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.EvStartStruct))
	require.NoError(t, b.Accept(event.Str_("id")))
	require.NoError(t, b.Accept(event.I32_(1)))
	require.NoError(t, b.Accept(event.Str_("inner")))
	require.NoError(t, b.Accept(event.EvStartStruct))
	require.NoError(t, b.Accept(event.Str_("x")))
	require.NoError(t, b.Accept(event.I32_(7)))
	require.NoError(t, b.Accept(event.EvEndStruct))
	require.NoError(t, b.Accept(event.EvEndStruct))

	require.NoError(t, b.Accept(event.EvStartStruct))
	require.NoError(t, b.Accept(event.Str_("id")))
	require.NoError(t, b.Accept(event.I32_(2)))
	require.NoError(t, b.Accept(event.Str_("inner")))
	require.NoError(t, b.Accept(event.EvStartStruct))
	require.NoError(t, b.Accept(event.Str_("x")))
	require.NoError(t, b.Accept(event.I32_(8)))
	require.NoError(t, b.Accept(event.EvEndStruct))
	require.NoError(t, b.Accept(event.EvEndStruct))

	assert.Equal(t, 2, b.Len())

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	outer := arr.(*array.Struct)
	assert.Equal(t, 2, outer.Len())
	idCol := outer.Field(0).(*array.Int32)
	assert.Equal(t, []int32{1, 2}, idCol.Int32Values())
	inner := outer.Field(1).(*array.Struct)
	assert.Equal(t, 2, inner.Len())
	xCol := inner.Field(0).(*array.Int32)
	assert.Equal(t, []int32{7, 8}, xCol.Int32Values())
}

func TestStructBuilderDeliversBareNullFieldToChild(t *testing.T) {
	f := schema.Field{
		Name: "p",
		Type: schema.StructType(
			schema.Field{Name: "x", Type: schema.I32Type(), Nullable: true},
			schema.Field{Name: "y", Type: schema.I32Type()},
		),
	}
	b, err := builder.New(f, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.EvStartStruct))
	require.NoError(t, b.Accept(event.Str_("x")))
	require.NoError(t, b.Accept(event.EvNull))
	require.NoError(t, b.Accept(event.Str_("y")))
	require.NoError(t, b.Accept(event.I32_(5)))
	require.NoError(t, b.Accept(event.EvEndStruct))

	assert.Equal(t, 1, b.Len())

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	st := arr.(*array.Struct)
	assert.False(t, st.IsNull(0))
	xCol := st.Field(0).(*array.Int32)
	assert.True(t, xCol.IsNull(0))
	yCol := st.Field(1).(*array.Int32)
	assert.Equal(t, int32(5), yCol.Value(0))
}

func TestListBuilderDeliversBareNullItemToChild(t *testing.T) {
	f := schema.Field{
		Name: "xs",
		Type: schema.ListType(schema.I32Type(), true),
	}
	b, err := builder.New(f, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.EvStartList))
	require.NoError(t, b.Accept(event.EvItem))
	require.NoError(t, b.Accept(event.I32_(1)))
	require.NoError(t, b.Accept(event.EvItem))
	require.NoError(t, b.Accept(event.EvNull))
	require.NoError(t, b.Accept(event.EvItem))
	require.NoError(t, b.Accept(event.I32_(3)))
	require.NoError(t, b.Accept(event.EvEndList))

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	list := arr.(*array.List)
	assert.Equal(t, 1, list.Len())
	assert.False(t, list.IsNull(0))
	values := list.ListValues().(*array.Int32)
	require.Equal(t, 3, values.Len())
	assert.Equal(t, int32(1), values.Value(0))
	assert.True(t, values.IsNull(1))
	assert.Equal(t, int32(3), values.Value(2))
}

func TestMapBuilderDeliversBareNullValueToChild(t *testing.T) {
	f := schema.Field{
		Name: "m",
		Type: schema.MapType(schema.Utf8Type(), schema.I32Type(), true),
	}
	b, err := builder.New(f, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.EvStartMap))
	require.NoError(t, b.Accept(event.EvItem))
	require.NoError(t, b.Accept(event.Str_("a")))
	require.NoError(t, b.Accept(event.EvNull))
	require.NoError(t, b.Accept(event.EvItem))
	require.NoError(t, b.Accept(event.Str_("b")))
	require.NoError(t, b.Accept(event.I32_(2)))
	require.NoError(t, b.Accept(event.EvEndMap))

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	m := arr.(*array.Map)
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.IsNull(0))
	values := m.Items().(*array.Int32)
	require.Equal(t, 2, values.Len())
	assert.True(t, values.IsNull(0))
	assert.Equal(t, int32(2), values.Value(1))
}

func TestDecimal128BuilderParsesStringAndRejectsOverflow(t *testing.T) {
	dt, err := schema.Decimal128Type(5, 2)
	require.NoError(t, err)
	b, err := builder.New(schema.Field{Name: "d", Type: dt}, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.Str_("1.23")))
	require.NoError(t, b.Accept(event.Str_("4.56")))
	assert.Error(t, b.Accept(event.Str_("1234.5")))

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	dec := arr.(*array.Decimal128)
	assert.Equal(t, "123", dec.Value(0).BigInt().String())
	assert.Equal(t, "456", dec.Value(1).BigInt().String())
}

func TestDictionaryBuilderReusesKeyForRepeatedValue(t *testing.T) {
	dt, err := schema.DictionaryType(schema.U32Type(), schema.Utf8Type())
	require.NoError(t, err)
	b, err := builder.New(schema.Field{Name: "tag", Type: dt}, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.Str_("A")))
	require.NoError(t, b.Accept(event.Str_("B")))
	require.NoError(t, b.Accept(event.Str_("A")))

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	dict := arr.(*array.Dictionary)
	assert.Equal(t, dict.GetValueIndex(0), dict.GetValueIndex(2))
	assert.NotEqual(t, dict.GetValueIndex(0), dict.GetValueIndex(1))
}

func TestStructBuilderNullFillsUnseenNullableField(t *testing.T) {
	f := schema.Field{
		Name: "p",
		Type: schema.StructType(
			schema.Field{Name: "x", Type: schema.I32Type()},
			schema.Field{Name: "y", Type: schema.I32Type(), Nullable: true},
		),
	}
	b, err := builder.New(f, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.EvStartStruct))
	require.NoError(t, b.Accept(event.Str_("x")))
	require.NoError(t, b.Accept(event.I32_(1)))
	require.NoError(t, b.Accept(event.EvEndStruct))

	arr, err := b.Finish()
	require.NoError(t, err)
	defer arr.Release()

	st := arr.(*array.Struct)
	assert.Equal(t, 1, st.Len())
	yCol := st.Field(1).(*array.Int32)
	assert.True(t, yCol.IsNull(0))
}

func TestStructBuilderRejectsUnseenNonNullableField(t *testing.T) {
	f := schema.Field{
		Name: "p",
		Type: schema.StructType(
			schema.Field{Name: "x", Type: schema.I32Type()},
			schema.Field{Name: "y", Type: schema.I32Type()},
		),
	}
	b, err := builder.New(f, memory.DefaultAllocator)
	require.NoError(t, err)

	require.NoError(t, b.Accept(event.EvStartStruct))
	require.NoError(t, b.Accept(event.Str_("x")))
	require.NoError(t, b.Accept(event.I32_(1)))
	err = b.Accept(event.EvEndStruct)
	require.Error(t, err)
	assert.ErrorIs(t, err, builder.ErrMissingField)
}
