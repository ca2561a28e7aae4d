package serdearrow_test

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sa "github.com/serde-arrow/serde-arrow-go"
)

// S1: flat struct.
func TestFlatStructRoundTrips(t *testing.T) {
	type record struct {
		A int32  `arrow:"a"`
		B uint32 `arrow:"b"`
	}

	schema := sa.NewSchema(
		sa.Field{Name: "a", Type: sa.I32Type()},
		sa.Field{Name: "b", Type: sa.U32Type()},
	)
	rows := []record{{A: 1, B: 2}, {A: 3, B: 4}}

	arrs, err := sa.ToArrays(schema, rows, nil)
	require.NoError(t, err)
	defer func() {
		for _, a := range arrs {
			a.Release()
		}
	}()

	aCol := arrs[0].(*array.Int32)
	bCol := arrs[1].(*array.Uint32)
	assert.Equal(t, []int32{1, 3}, aCol.Int32Values())
	assert.Equal(t, []uint32{2, 4}, bCol.Uint32Values())
	assert.Equal(t, 0, aCol.NullN())
	assert.Equal(t, 0, bCol.NullN())

	out, err := sa.FromArrays[record](schema, arrs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, rows[0], *out[0])
	assert.Equal(t, rows[1], *out[1])
}

// S2: optional string list.
func TestOptionalStringListRoundTrips(t *testing.T) {
	type record struct {
		Xs *[]string `arrow:"xs"`
	}

	schema := sa.NewSchema(
		sa.Field{Name: "xs", Type: sa.ListType(sa.Utf8Type(), false), Nullable: true},
	)
	xy := []string{"x", "y"}
	empty := []string{}
	rows := []record{{Xs: &xy}, {Xs: nil}, {Xs: &empty}}

	arrs, err := sa.ToArrays(schema, rows, nil)
	require.NoError(t, err)
	defer arrs[0].Release()

	list := arrs[0].(*array.List)
	assert.Equal(t, 3, list.Len())
	assert.True(t, list.IsValid(0))
	assert.True(t, list.IsNull(1))
	assert.True(t, list.IsValid(2))
	assert.Equal(t, []int32{0, 2, 2, 2}, list.Offsets())

	values := list.ListValues().(*array.String)
	assert.Equal(t, "x", values.Value(0))
	assert.Equal(t, "y", values.Value(1))

	out, err := sa.FromArrays[record](schema, arrs)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.NotNil(t, out[0].Xs)
	assert.Equal(t, []string{"x", "y"}, *out[0].Xs)
	assert.Nil(t, out[1].Xs)
	require.NotNil(t, out[2].Xs)
	assert.Equal(t, []string{}, *out[2].Xs)
}

// A top-level field whose Go type is itself a struct: exercises the
// field dispatcher's handling of a nested Struct's own StartStruct/
// EndStruct alongside the record's own.
func TestNestedStructFieldRoundTrips(t *testing.T) {
	type inner struct {
		X int32 `arrow:"x"`
	}
	type record struct {
		ID    int32 `arrow:"id"`
		Inner inner `arrow:"inner"`
	}
	schema := sa.NewSchema(
		sa.Field{Name: "id", Type: sa.I32Type()},
		sa.Field{Name: "inner", Type: sa.StructType(sa.Field{Name: "x", Type: sa.I32Type()})},
	)
	rows := []record{{ID: 1, Inner: inner{X: 10}}, {ID: 2, Inner: inner{X: 20}}}

	arrs, err := sa.ToArrays(schema, rows, nil)
	require.NoError(t, err)
	defer func() {
		for _, a := range arrs {
			a.Release()
		}
	}()

	idCol := arrs[0].(*array.Int32)
	assert.Equal(t, []int32{1, 2}, idCol.Int32Values())
	innerCol := arrs[1].(*array.Struct)
	xCol := innerCol.Field(0).(*array.Int32)
	assert.Equal(t, []int32{10, 20}, xCol.Int32Values())

	out, err := sa.FromArrays[record](schema, arrs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, rows[0], *out[0])
	assert.Equal(t, rows[1], *out[1])
}

// S5: dictionary-encoded strings.
func TestDictionaryEncodedStringsDedupeValues(t *testing.T) {
	type record struct {
		Tag string `arrow:"tag"`
	}

	dictDT, err := sa.DictionaryType(sa.U32Type(), sa.Utf8Type())
	require.NoError(t, err)

	schema := sa.NewSchema(sa.Field{Name: "tag", Type: dictDT})
	rows := []record{{Tag: "red"}, {Tag: "green"}, {Tag: "red"}, {Tag: "blue"}, {Tag: "green"}}

	arrs, err := sa.ToArrays(schema, rows, nil)
	require.NoError(t, err)
	defer arrs[0].Release()

	dict := arrs[0].(*array.Dictionary)
	values := dict.Dictionary().(*array.String)
	valueStrs := make([]string, values.Len())
	for i := range valueStrs {
		valueStrs[i] = values.Value(i)
	}
	assert.Equal(t, []string{"red", "green", "blue"}, valueStrs)

	keys := make([]int, dict.Len())
	for i := range keys {
		keys[i] = dict.GetValueIndex(i)
	}
	assert.Equal(t, []int{0, 1, 0, 2, 1}, keys)

	out, err := sa.FromArrays[record](schema, arrs)
	require.NoError(t, err)
	for i, r := range rows {
		assert.Equal(t, r.Tag, out[i].Tag)
	}
}
