package walk_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/walk"
)

type recorder struct {
	events []event.Event
}

func (r *recorder) Accept(ev event.Event) error {
	r.events = append(r.events, ev)
	return nil
}

type point struct {
	X int32 `arrow:"x"`
	Y int32 `arrow:"y"`
}

func TestValueWalksStructFieldsInDeclarationOrder(t *testing.T) {
	var rec recorder
	require.NoError(t, walk.Value(&rec, reflect.ValueOf(point{X: 1, Y: 2})))
	assert.Equal(t, []event.Event{
		event.EvStartStruct,
		event.Str_("x"), event.I32_(1),
		event.Str_("y"), event.I32_(2),
		event.EvEndStruct,
	}, rec.events)
}

func TestValueEmitsSomeForNonNilPointerAndNullForNil(t *testing.T) {
	type wrapper struct {
		P *int32 `arrow:"p"`
	}
	n := int32(5)

	var rec recorder
	require.NoError(t, walk.Value(&rec, reflect.ValueOf(wrapper{P: &n})))
	assert.Equal(t, []event.Event{
		event.EvStartStruct,
		event.Str_("p"), event.EvSome, event.I32_(5),
		event.EvEndStruct,
	}, rec.events)

	rec.events = nil
	require.NoError(t, walk.Value(&rec, reflect.ValueOf(wrapper{P: nil})))
	assert.Equal(t, []event.Event{
		event.EvStartStruct,
		event.Str_("p"), event.EvNull,
		event.EvEndStruct,
	}, rec.events)
}

func TestValueWalksSliceWithItemDelimiters(t *testing.T) {
	var rec recorder
	require.NoError(t, walk.Value(&rec, reflect.ValueOf([]int32{1, 2})))
	assert.Equal(t, []event.Event{
		event.EvStartList,
		event.EvItem, event.I32_(1),
		event.EvItem, event.I32_(2),
		event.EvEndList,
	}, rec.events)
}

func TestValueWalksMapWithSortedKeysForDeterminism(t *testing.T) {
	var rec recorder
	m := map[string]int32{"b": 2, "a": 1}
	require.NoError(t, walk.Value(&rec, reflect.ValueOf(m)))
	assert.Equal(t, []event.Event{
		event.EvStartMap,
		event.EvItem, event.Str_("a"), event.I32_(1),
		event.EvItem, event.Str_("b"), event.I32_(2),
		event.EvEndMap,
	}, rec.events)
}

type status string

const statusActive status = "active"

func (status) EnumVariants() []string { return []string{"active", "inactive"} }

func TestValueWalksEnumerAsVariant(t *testing.T) {
	type tagged struct {
		Status status `arrow:"status"`
	}
	var rec recorder
	require.NoError(t, walk.Value(&rec, reflect.ValueOf(tagged{Status: statusActive})))
	assert.Equal(t, []event.Event{
		event.EvStartStruct,
		event.Str_("status"), event.VariantOf("active", 0), event.EvNull,
		event.EvEndStruct,
	}, rec.events)
}

func TestFieldNamerHonorsArrowTagAndSkipsDash(t *testing.T) {
	type s struct {
		Renamed string `arrow:"custom_name"`
		Skipped string `arrow:"-"`
		Default string
		lower   string
	}

	rf := reflect.TypeOf(s{})

	name, ok := walk.FieldNamer(rf.Field(0))
	assert.True(t, ok)
	assert.Equal(t, "custom_name", name)

	_, ok = walk.FieldNamer(rf.Field(1))
	assert.False(t, ok)

	name, ok = walk.FieldNamer(rf.Field(2))
	assert.True(t, ok)
	assert.Equal(t, "default", name)

	_, ok = walk.FieldNamer(rf.Field(3))
	assert.False(t, ok)
}
