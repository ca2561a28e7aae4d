package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

func TestIsStartIsEnd(t *testing.T) {
	starts := []event.Event{
		event.EvStartSequence, event.EvStartStruct, event.EvStartList,
		event.EvStartTuple, event.EvStartMap,
	}
	for _, ev := range starts {
		assert.True(t, ev.IsStart(), "%s should be a start event", ev)
		assert.False(t, ev.IsEnd(), "%s should not be an end event", ev)
	}

	ends := []event.Event{
		event.EvEndSequence, event.EvEndStruct, event.EvEndList,
		event.EvEndTuple, event.EvEndMap,
	}
	for _, ev := range ends {
		assert.True(t, ev.IsEnd(), "%s should be an end event", ev)
		assert.False(t, ev.IsStart(), "%s should not be a start event", ev)
	}
}

func TestIsValueCoversPrimitivesAndNullDefault(t *testing.T) {
	values := []event.Event{
		event.Bool_(true), event.I64_(1), event.U64_(1), event.F64_(1),
		event.Str_("x"), event.Binary_([]byte("x")), event.EvNull, event.EvDefault,
	}
	for _, ev := range values {
		assert.True(t, ev.IsValue(), "%s should be a value", ev)
	}

	notValues := []event.Event{event.EvStartStruct, event.EvItem, event.EvSome, event.VariantOf("A", 0)}
	for _, ev := range notValues {
		assert.False(t, ev.IsValue(), "%s should not be a value", ev)
	}
}

func TestIsMarkerOnlySomeAndVariant(t *testing.T) {
	assert.True(t, event.EvSome.IsMarker())
	assert.True(t, event.VariantOf("A", 0).IsMarker())
	assert.False(t, event.EvNull.IsMarker())
	assert.False(t, event.Bool_(true).IsMarker())
}

func TestConstructorsRoundTripPayload(t *testing.T) {
	assert.Equal(t, int64(-7), event.I8_(-7).Int)
	assert.Equal(t, uint64(200), event.U8_(200).Uint)
	assert.Equal(t, "hello", event.Str_("hello").Str_)
	assert.Equal(t, []byte{1, 2, 3}, event.Binary_([]byte{1, 2, 3}).Bytes)

	v := event.VariantOf("Some", 2)
	assert.Equal(t, event.Variant, v.Kind)
	assert.Equal(t, "Some", v.Str_)
	assert.Equal(t, 2, v.VariantIndex)
}

func TestStringFormatsPayload(t *testing.T) {
	assert.Equal(t, `Str("x")`, event.Str_("x").String())
	assert.Equal(t, "Bool(true)", event.Bool_(true).String())
	assert.Equal(t, "StartStruct", event.EvStartStruct.String())
}
