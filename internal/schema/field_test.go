package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

func TestStrategyValidateMatchesDataType(t *testing.T) {
	assert.NoError(t, schema.UtcStrAsDate64.Validate(schema.Date64Type()))
	assert.Error(t, schema.UtcStrAsDate64.Validate(schema.I64Type()))

	assert.NoError(t, schema.TupleAsStruct.Validate(schema.StructType()))
	assert.Error(t, schema.TupleAsStruct.Validate(schema.ListType(schema.I32Type(), false)))

	dict, err := schema.DictionaryType(schema.U32Type(), schema.Utf8Type())
	require.NoError(t, err)
	assert.NoError(t, schema.EnumsWithoutDataAsStrings.Validate(dict))
	assert.Error(t, schema.EnumsWithoutDataAsStrings.Validate(schema.Utf8Type()))

	assert.NoError(t, schema.StrategyNone.Validate(schema.I32Type()))
}

func TestMetadataSetGetOverwritesExistingKey(t *testing.T) {
	m := schema.NewMetadata(map[string]string{"a": "1"})
	m.Set("a", "2")
	m.Set("b", "3")

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, 2, m.Len())

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestMetadataStrategyRoundTrip(t *testing.T) {
	var m schema.Metadata
	assert.Equal(t, schema.StrategyNone, m.Strategy())

	m.SetStrategy(schema.NaiveStrAsDate64)
	assert.Equal(t, schema.NaiveStrAsDate64, m.Strategy())
}

func TestMetadataSetStrategyNoneIsNoop(t *testing.T) {
	var m schema.Metadata
	m.SetStrategy(schema.StrategyNone)
	assert.Equal(t, 0, m.Len())
}

func TestFieldEqualComparesNameNullabilityAndType(t *testing.T) {
	a := schema.Field{Name: "x", Type: schema.I32Type(), Nullable: true}
	b := schema.Field{Name: "x", Type: schema.I32Type(), Nullable: true}
	assert.True(t, a.Equal(b))

	c := schema.Field{Name: "x", Type: schema.I32Type(), Nullable: false}
	assert.False(t, a.Equal(c))

	d := schema.Field{Name: "y", Type: schema.I32Type(), Nullable: true}
	assert.False(t, a.Equal(d))
}

func TestFieldArrowCarriesStrategyMetadata(t *testing.T) {
	f := schema.Field{Name: "when", Type: schema.Date64Type(), Nullable: false}
	f.Metadata.SetStrategy(schema.UtcStrAsDate64)

	af, err := f.Arrow()
	require.NoError(t, err)
	idx := af.Metadata.FindKey(schema.StrategyMetadataKey)
	require.NotEqual(t, -1, idx)
	assert.Equal(t, string(schema.UtcStrAsDate64), af.Metadata.Values()[idx])
}
