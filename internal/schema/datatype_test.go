package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

func TestTime32RejectsFineUnits(t *testing.T) {
	_, err := schema.Time32Type(schema.Microsecond)
	assert.Error(t, err)

	dt, err := schema.Time32Type(schema.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, schema.Time32, dt.ID())
}

func TestTime64RejectsCoarseUnits(t *testing.T) {
	_, err := schema.Time64Type(schema.Second)
	assert.Error(t, err)

	dt, err := schema.Time64Type(schema.Nanosecond)
	require.NoError(t, err)
	assert.Equal(t, schema.Time64, dt.ID())
}

func TestDecimal128RejectsOutOfRangeParameters(t *testing.T) {
	_, err := schema.Decimal128Type(0, 0)
	assert.Error(t, err)

	_, err = schema.Decimal128Type(39, 0)
	assert.Error(t, err)

	_, err = schema.Decimal128Type(10, 20)
	assert.Error(t, err)

	dt, err := schema.Decimal128Type(12, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(12), dt.Precision())
	assert.Equal(t, int32(3), dt.Scale())
}

func TestDenseUnionRequiresMatchingTypeIDs(t *testing.T) {
	variants := []schema.Field{
		{Name: "A", Type: schema.I32Type()},
		{Name: "B", Type: schema.Utf8Type()},
	}
	_, err := schema.DenseUnionType(variants, []int8{0})
	assert.Error(t, err)

	dt, err := schema.DenseUnionType(variants, []int8{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []int8{0, 1}, dt.TypeIDs())
}

func TestDictionaryRequiresIntegerKeyAndStringValue(t *testing.T) {
	_, err := schema.DictionaryType(schema.Utf8Type(), schema.Utf8Type())
	assert.Error(t, err)

	_, err = schema.DictionaryType(schema.U32Type(), schema.I32Type())
	assert.Error(t, err)

	dt, err := schema.DictionaryType(schema.U32Type(), schema.Utf8Type())
	require.NoError(t, err)
	assert.Equal(t, schema.Dictionary, dt.ID())
	assert.Equal(t, schema.U32, dt.KeyType().ID())
}

func TestDataTypeEqualIgnoresConstructionPath(t *testing.T) {
	a := schema.ListType(schema.I32Type(), true)
	b := schema.ListType(schema.I32Type(), true)
	assert.True(t, a.Equal(b))

	c := schema.ListType(schema.I32Type(), false)
	assert.False(t, a.Equal(c))
}

func TestParseFormatDataTypeRoundTrip(t *testing.T) {
	cases := []schema.DataType{
		schema.I32Type(),
		schema.Utf8Type(),
		mustDecimal(t, 12, 3),
		schema.ListType(schema.F64Type(), true),
		schema.TimestampType(schema.Millisecond, "UTC"),
	}
	for _, dt := range cases {
		text := schema.FormatDataType(dt)
		parsed, err := schema.ParseDataType(text)
		require.NoError(t, err, "parsing %q", text)
		assert.True(t, dt.Equal(parsed), "round trip through %q: got %v, want %v", text, parsed, dt)
	}
}

func TestParseDataTypeRejectsTrailingGarbage(t *testing.T) {
	_, err := schema.ParseDataType("I32 garbage")
	assert.Error(t, err)
}

func TestParseFormatDataTypeRoundTripsMapAndDenseUnion(t *testing.T) {
	mapDT := schema.MapType(schema.Utf8Type(), schema.I32Type(), true)
	unionDT, err := schema.DenseUnionType([]schema.Field{
		{Name: "A", Type: schema.NullType()},
		{Name: "B", Type: schema.StructType(schema.Field{Name: "x", Type: schema.U32Type(), Nullable: true})},
	}, []int8{0, 1})
	require.NoError(t, err)

	for _, dt := range []schema.DataType{mapDT, unionDT} {
		text := schema.FormatDataType(dt)
		parsed, err := schema.ParseDataType(text)
		require.NoError(t, err, "parsing %q", text)
		assert.True(t, dt.Equal(parsed), "round trip through %q: got %v, want %v", text, parsed, dt)
	}
}

func mustDecimal(t *testing.T, precision, scale int32) schema.DataType {
	dt, err := schema.Decimal128Type(precision, scale)
	require.NoError(t, err)
	return dt
}
