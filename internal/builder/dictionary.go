package builder

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// dictionaryBuilder hash-conses string values into an insertion-ordered
// dictionary, the same approach used for the EnumsWithoutDataAsStrings
// strategy (where the dictionary key is the enum variant name rather than
// an ordinary string field's value).
type dictionaryBuilder struct {
	mem      memory.Allocator
	dt       *arrow.DictionaryType
	indexIDs array.Builder
	values   stringAppender
	seen     map[string]uint64
	order    []string

	awaitingVariantNull bool
}

func newDictionaryBuilder(mem memory.Allocator, dt schema.DataType) (Builder, error) {
	at, err := dt.Arrow()
	if err != nil {
		return nil, err
	}
	adt := at.(*arrow.DictionaryType)

	var idx array.Builder
	switch dt.KeyType().ID() {
	case schema.I8:
		idx = array.NewInt8Builder(mem)
	case schema.I16:
		idx = array.NewInt16Builder(mem)
	case schema.I32:
		idx = array.NewInt32Builder(mem)
	case schema.I64:
		idx = array.NewInt64Builder(mem)
	case schema.U8:
		idx = array.NewUint8Builder(mem)
	case schema.U16:
		idx = array.NewUint16Builder(mem)
	case schema.U32:
		idx = array.NewUint32Builder(mem)
	case schema.U64:
		idx = array.NewUint64Builder(mem)
	default:
		return nil, fmt.Errorf("dictionary builder: unsupported key type %s", dt.KeyType().ID())
	}
	return &dictionaryBuilder{
		mem:      mem,
		dt:       adt,
		indexIDs: idx,
		values:   array.NewStringBuilder(mem),
		seen:     make(map[string]uint64),
	}, nil
}

func (b *dictionaryBuilder) intern(s string) uint64 {
	if idx, ok := b.seen[s]; ok {
		return idx
	}
	idx := uint64(len(b.order))
	b.seen[s] = idx
	b.order = append(b.order, s)
	b.values.Append(s)
	return idx
}

func (b *dictionaryBuilder) appendIndex(idx uint64) {
	switch v := b.indexIDs.(type) {
	case *array.Int8Builder:
		v.Append(int8(idx))
	case *array.Int16Builder:
		v.Append(int16(idx))
	case *array.Int32Builder:
		v.Append(int32(idx))
	case *array.Int64Builder:
		v.Append(int64(idx))
	case *array.Uint8Builder:
		v.Append(uint8(idx))
	case *array.Uint16Builder:
		v.Append(uint16(idx))
	case *array.Uint32Builder:
		v.Append(uint32(idx))
	case *array.Uint64Builder:
		v.Append(idx)
	}
}

func (b *dictionaryBuilder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.Variant:
		b.appendIndex(b.intern(ev.Str_))
		b.awaitingVariantNull = true
		return nil
	case event.Null:
		if b.awaitingVariantNull {
			b.awaitingVariantNull = false
			return nil
		}
		b.indexIDs.AppendNull()
		return nil
	case event.Str:
		b.appendIndex(b.intern(ev.Str_))
		return nil
	case event.Default:
		b.appendIndex(b.intern(""))
		return nil
	default:
		return fmt.Errorf("dictionary column cannot hold %s", ev)
	}
}

func (b *dictionaryBuilder) Len() int           { return b.indexIDs.Len() }
func (b *dictionaryBuilder) PushNull() error    { return b.Accept(event.EvNull) }
func (b *dictionaryBuilder) PushDefault() error { return b.Accept(event.EvDefault) }

func (b *dictionaryBuilder) Finish() (arrow.Array, error) {
	indices := b.indexIDs.NewArray()
	defer indices.Release()
	values := b.values.NewArray()
	defer values.Release()
	return array.NewDictionaryArray(b.dt, indices, values), nil
}
