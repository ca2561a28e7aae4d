package builder

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// ErrMissingField is wrapped into the error structBuilder returns when a
// non-nullable field never arrived before EndStruct. serdearrow.go's
// asError recognizes it and reports Kind MissingField instead of the
// default SchemaMismatch.
var ErrMissingField = errors.New("builder: missing field")

// wrap adapts an array.Builder that arrow-go already constructed as part
// of a parent composite (a ListBuilder's ValueBuilder, a StructBuilder's
// FieldBuilder, a MapBuilder's Key/ItemBuilder) into our own Builder,
// so the same flat-event Accept logic drives both builders we allocate
// ourselves and ones a parent handed us.
func wrap(f schema.Field, gb array.Builder) (Builder, error) {
	switch v := gb.(type) {
	case *array.NullBuilder:
		return &nullBuilder{}, nil
	case *array.BooleanBuilder:
		return &boolBuilder{b: v}, nil
	case *array.Int8Builder:
		return &i8Builder{b: v}, nil
	case *array.Int16Builder:
		return &i16Builder{b: v}, nil
	case *array.Int32Builder:
		return &i32Builder{b: v}, nil
	case *array.Int64Builder:
		return &i64Builder{b: v}, nil
	case *array.Uint8Builder:
		return &u8Builder{b: v}, nil
	case *array.Uint16Builder:
		return &u16Builder{b: v}, nil
	case *array.Uint32Builder:
		return &u32Builder{b: v}, nil
	case *array.Uint64Builder:
		return &u64Builder{b: v}, nil
	case *array.Float16Builder:
		return &float16Builder{b: v}, nil
	case *array.Float32Builder:
		return &f32Builder{b: v}, nil
	case *array.Float64Builder:
		return &f64Builder{b: v}, nil
	case *array.StringBuilder, *array.LargeStringBuilder, *array.StringViewBuilder:
		return &stringBuilder{b: v.(stringAppender)}, nil
	case *array.BinaryBuilder, *array.BinaryViewBuilder:
		return &binaryBuilder{b: v.(binaryAppender)}, nil
	case *array.FixedSizeBinaryBuilder:
		return &fixedSizeBinaryBuilder{b: v, width: int(f.Type.Width())}, nil
	case *array.Date32Builder:
		return &date32Builder{b: v}, nil
	case *array.Date64Builder:
		return &date64Builder{b: v, strategy: f.Strategy()}, nil
	case *array.Time32Builder:
		return &time32Builder{b: v, unit: f.Type.Unit()}, nil
	case *array.Time64Builder:
		return &time64Builder{b: v, unit: f.Type.Unit()}, nil
	case *array.TimestampBuilder:
		au, _ := toArrowTimeUnit(f.Type.Unit())
		return &timestampBuilder{b: v, unit: au, naive: f.Type.Timezone() == ""}, nil
	case *array.DurationBuilder:
		return &durationBuilder{b: v, unit: f.Type.Unit()}, nil
	case *array.Decimal128Builder:
		return &decimal128Builder{b: v, precision: f.Type.Precision(), scale: f.Type.Scale()}, nil
	case *array.ListBuilder:
		return newListBuilderFrom(v, f)
	case *array.LargeListBuilder:
		return newLargeListBuilderFrom(v, f)
	case *array.StructBuilder:
		return newStructBuilderFrom(v, f)
	case *array.MapBuilder:
		return newMapBuilderFrom(v, f)
	default:
		return nil, fmt.Errorf("builder: no adapter for %T", gb)
	}
}

// itemField is the single synthetic child schema.Field of a List/LargeList/
// FixedSizeList DataType.
func itemField(dt schema.DataType) schema.Field {
	if c := dt.Child(); c != nil {
		return *c
	}
	return schema.Field{Name: "item", Type: schema.NullType(), Nullable: true}
}

type listBuilder struct {
	b      *array.ListBuilder
	item   Builder
	open   int  // nesting depth of the item currently being delivered, 0 = between items
	inList bool // true between StartList and its matching EndList
}

func newListBuilder(mem memory.Allocator, dt schema.DataType, isLarge bool) (Builder, error) {
	item := itemField(dt)
	at, err := item.Type.Arrow()
	if err != nil {
		return nil, err
	}
	if isLarge {
		return newLargeListBuilderFrom(array.NewLargeListBuilder(mem, at), schema.Field{Type: dt})
	}
	return newListBuilderFrom(array.NewListBuilder(mem, at), schema.Field{Type: dt})
}

func newListBuilderFrom(lb *array.ListBuilder, f schema.Field) (Builder, error) {
	item, err := wrap(itemField(f.Type), lb.ValueBuilder())
	if err != nil {
		return nil, err
	}
	return &listBuilder{b: lb, item: item}, nil
}

func (b *listBuilder) Accept(ev event.Event) error {
	// Once StartList has opened a row, every event up to its matching
	// EndList belongs to an item's content, even a bare Null/Default for
	// a nullable item; only a Null/Default with no open row means the
	// whole list value is absent.
	if b.inList {
		switch ev.Kind {
		case event.EndList:
			b.inList = false
			return nil
		case event.Item:
			b.open = 0
			return nil
		default:
			_, err := deliverSlot(b.item, ev, &b.open)
			return err
		}
	}
	switch ev.Kind {
	case event.StartList:
		b.b.Append(true)
		b.inList = true
		return nil
	case event.Null:
		b.b.AppendNull()
		return nil
	case event.Default:
		b.b.Append(true)
		return nil
	default:
		return fmt.Errorf("list builder: expected StartList, Null, or Default, got %s", ev)
	}
}
func (b *listBuilder) Len() int                     { return b.b.Len() }
func (b *listBuilder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *listBuilder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *listBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

type largeListBuilder struct {
	b      *array.LargeListBuilder
	item   Builder
	open   int
	inList bool
}

func newLargeListBuilderFrom(lb *array.LargeListBuilder, f schema.Field) (Builder, error) {
	item, err := wrap(itemField(f.Type), lb.ValueBuilder())
	if err != nil {
		return nil, err
	}
	return &largeListBuilder{b: lb, item: item}, nil
}

func (b *largeListBuilder) Accept(ev event.Event) error {
	if b.inList {
		switch ev.Kind {
		case event.EndList:
			b.inList = false
			return nil
		case event.Item:
			b.open = 0
			return nil
		default:
			_, err := deliverSlot(b.item, ev, &b.open)
			return err
		}
	}
	switch ev.Kind {
	case event.StartList:
		b.b.Append(true)
		b.inList = true
		return nil
	case event.Null:
		b.b.AppendNull()
		return nil
	case event.Default:
		b.b.Append(true)
		return nil
	default:
		return fmt.Errorf("large list builder: expected StartList, Null, or Default, got %s", ev)
	}
}
func (b *largeListBuilder) Len() int                     { return b.b.Len() }
func (b *largeListBuilder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *largeListBuilder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *largeListBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

// fixedSizeListBuilder enforces that every row carries exactly n items,
// the physical invariant a FixedSizeList trades flexibility for.
type fixedSizeListBuilder struct {
	b        *array.FixedSizeListBuilder
	item     Builder
	open     int
	n        int
	rowCount int
	inList   bool
}

func newFixedSizeListBuilder(mem memory.Allocator, dt schema.DataType) (Builder, error) {
	item := itemField(dt)
	at, err := item.Type.Arrow()
	if err != nil {
		return nil, err
	}
	lb := array.NewFixedSizeListBuilder(mem, dt.Width(), at)
	inner, err := wrap(item, lb.ValueBuilder())
	if err != nil {
		return nil, err
	}
	return &fixedSizeListBuilder{b: lb, item: inner, n: int(dt.Width())}, nil
}

func (b *fixedSizeListBuilder) Accept(ev event.Event) error {
	if b.inList {
		switch ev.Kind {
		case event.EndList:
			if b.rowCount != b.n {
				return fmt.Errorf("FixedSizeList(%d): got %d items", b.n, b.rowCount)
			}
			b.inList = false
			return nil
		case event.Item:
			b.open = 0
			b.rowCount++
			return nil
		default:
			_, err := deliverSlot(b.item, ev, &b.open)
			return err
		}
	}
	switch ev.Kind {
	case event.StartList:
		b.b.Append(true)
		b.rowCount = 0
		b.inList = true
		return nil
	case event.Null:
		b.b.AppendNull()
		return nil
	case event.Default:
		b.b.Append(true)
		for i := 0; i < b.n; i++ {
			if err := b.item.PushDefault(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("fixed size list builder: expected StartList, Null, or Default, got %s", ev)
	}
}
func (b *fixedSizeListBuilder) Len() int                     { return b.b.Len() }
func (b *fixedSizeListBuilder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *fixedSizeListBuilder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *fixedSizeListBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

// structBuilder mirrors the tracer's own ShapeStruct handling: a name,
// then a value, repeated, disambiguated purely by position.
type structBuilder struct {
	b        *array.StructBuilder
	dt       schema.DataType
	order    []string
	byName   map[string]Builder
	nullable map[string]bool

	awaitingName bool
	seen         map[string]bool
	target       Builder
	open         int
}

func newStructBuilder(mem memory.Allocator, dt schema.DataType) (Builder, error) {
	at, err := dt.Arrow()
	if err != nil {
		return nil, err
	}
	sb := array.NewStructBuilder(mem, at.(*arrow.StructType))
	return newStructBuilderFrom(sb, schema.Field{Type: dt})
}

func newStructBuilderFrom(sb *array.StructBuilder, f schema.Field) (Builder, error) {
	children := f.Type.Children()
	order := make([]string, len(children))
	byName := make(map[string]Builder, len(children))
	nullable := make(map[string]bool, len(children))
	for i, cf := range children {
		cb, err := wrap(cf, sb.FieldBuilder(i))
		if err != nil {
			return nil, err
		}
		order[i] = cf.Name
		byName[cf.Name] = cb
		nullable[cf.Name] = cf.Nullable
	}
	return &structBuilder{b: sb, dt: f.Type, order: order, byName: byName, nullable: nullable, awaitingName: true}, nil
}

func (b *structBuilder) Accept(ev event.Event) error {
	// While a field's value is being delivered (awaitingName false), every
	// event belongs to that field's own content — including a Null,
	// Default, or StartStruct that a nested-struct or optional field
	// produces for itself — and must go to the target, not be mistaken
	// for this struct's own row delimiter.
	if !b.awaitingName {
		done, err := deliverSlot(b.target, ev, &b.open)
		if err != nil {
			return err
		}
		if done {
			b.awaitingName = true
		}
		return nil
	}

	switch ev.Kind {
	case event.StartStruct:
		b.b.Append(true)
		b.awaitingName = true
		b.seen = map[string]bool{}
		return nil
	case event.EndStruct:
		return b.fillUnseen()
	case event.Null:
		return b.PushNull()
	case event.Default:
		return b.PushDefault()
	case event.Str:
		target, ok := b.byName[ev.Str_]
		if !ok {
			return fmt.Errorf("struct builder: unknown field %q", ev.Str_)
		}
		b.target = target
		b.open = 0
		b.awaitingName = false
		b.seen[ev.Str_] = true
		return nil
	default:
		return fmt.Errorf("struct builder: expected a field name, got %s", ev)
	}
}

// fillUnseen runs at EndStruct: any child whose name never arrived this
// row is auto-nulled if nullable, or reported missing otherwise.
func (b *structBuilder) fillUnseen() error {
	for _, name := range b.order {
		if b.seen[name] {
			continue
		}
		if !b.nullable[name] {
			return fmt.Errorf("%w: %q", ErrMissingField, name)
		}
		if err := b.byName[name].PushNull(); err != nil {
			return err
		}
	}
	return nil
}

func (b *structBuilder) Len() int { return b.b.Len() }

func (b *structBuilder) PushNull() error {
	b.b.AppendNull()
	for _, name := range b.order {
		if err := b.byName[name].PushDefault(); err != nil {
			return err
		}
	}
	return nil
}

func (b *structBuilder) PushDefault() error {
	b.b.Append(true)
	for _, name := range b.order {
		if err := b.byName[name].PushDefault(); err != nil {
			return err
		}
	}
	return nil
}

func (b *structBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

// mapBuilder represents a Map as a list of {key, value} struct entries,
// matching Arrow's physical Map layout.
type mapBuilder struct {
	b           *array.MapBuilder
	key         Builder
	val         Builder
	openKey     int
	openVal     int
	awaitingKey bool
	inMap       bool
}

func newMapBuilder(mem memory.Allocator, dt schema.DataType) (Builder, error) {
	entries := dt.Child().Type
	keyField := entries.Children()[0]
	valField := entries.Children()[1]
	kt, err := keyField.Type.Arrow()
	if err != nil {
		return nil, err
	}
	vt, err := valField.Type.Arrow()
	if err != nil {
		return nil, err
	}
	mb := array.NewMapBuilder(mem, kt, vt, false)
	return newMapBuilderFrom(mb, schema.Field{Type: dt})
}

func newMapBuilderFrom(mb *array.MapBuilder, f schema.Field) (Builder, error) {
	entries := f.Type.Child().Type
	keyField := entries.Children()[0]
	valField := entries.Children()[1]
	key, err := wrap(keyField, mb.KeyBuilder())
	if err != nil {
		return nil, err
	}
	val, err := wrap(valField, mb.ItemBuilder())
	if err != nil {
		return nil, err
	}
	return &mapBuilder{b: mb, key: key, val: val}, nil
}

func (b *mapBuilder) Accept(ev event.Event) error {
	if b.inMap {
		switch ev.Kind {
		case event.EndMap:
			b.inMap = false
			return nil
		case event.Item:
			b.awaitingKey = true
			b.openKey, b.openVal = 0, 0
			return nil
		default:
			if b.awaitingKey {
				done, err := deliverSlot(b.key, ev, &b.openKey)
				if err != nil {
					return err
				}
				if done {
					b.awaitingKey = false
				}
				return nil
			}
			_, err := deliverSlot(b.val, ev, &b.openVal)
			return err
		}
	}
	switch ev.Kind {
	case event.StartMap:
		b.b.Append(true)
		b.inMap = true
		return nil
	case event.Null:
		b.b.AppendNull()
		return nil
	case event.Default:
		b.b.Append(true)
		return nil
	default:
		return fmt.Errorf("map builder: expected StartMap, Null, or Default, got %s", ev)
	}
}
func (b *mapBuilder) Len() int                     { return b.b.Len() }
func (b *mapBuilder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *mapBuilder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *mapBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }
