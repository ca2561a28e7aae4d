package walk

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

// populateFrame is one entry of Populate's explicit stack, the decode-side
// mirror of tracer.frame: which Go value is being filled, and where the
// next event should land inside it. A discard frame has no target at
// all: it exists only to skip a subtree for a schema field that has no
// matching Go struct field, tracking nesting depth the same way
// internal/builder.deliverSlot does on the encode side.
type populateFrame struct {
	v       reflect.Value
	discard bool

	// slot absorbs exactly one following value (scalar/Null/Default, or
	// a whole Start..End subtree) and discards it, the same single-slot
	// depth tracking internal/builder.deliverSlot uses for a Variant's
	// trailing payload: a Variant's name is consumed into its target the
	// moment it arrives, so there is nothing left to deliver the payload
	// into.
	slot  bool
	depth int

	awaitingName bool          // struct: next Str is a field name
	field        reflect.Value // struct: the field selected by the last name

	idx int // list/array: next position

	awaitingKey bool          // map: next value is a key, not an entry value
	key         reflect.Value // map: key already read, awaiting its value
}

// populator is the event.Sink Populate returns. It owns an explicit stack
// of partially-filled Go values instead of recursing on the call stack,
// mirroring internal/tracer.Tracer's own explicit stack, since the event
// stream driving it may come from a cursor whose recursion has no
// relationship to the target's.
type populator struct {
	root      reflect.Value
	delivered bool
	stack     []*populateFrame
}

// Populate returns an event.Sink that fills v as it receives one
// complete event subtree, the reverse of Value's encoding walk. v must
// be addressable (typically reflect.ValueOf(ptr).Elem()).
func Populate(v reflect.Value) event.Sink {
	return &populator{root: v}
}

func (p *populator) Accept(ev event.Event) error {
	if len(p.stack) == 0 {
		if p.delivered {
			return fmt.Errorf("populate: unexpected %s, value already filled", ev)
		}
		if ev.IsEnd() {
			return fmt.Errorf("populate: unexpected %s with no open frame", ev)
		}
		if !ev.IsStart() && !ev.IsMarker() {
			p.delivered = true
		}
		return p.deliver(p.root, ev)
	}

	top := p.stack[len(p.stack)-1]

	if top.discard {
		switch {
		case ev.IsEnd():
			p.popFrame()
		case ev.IsStart():
			p.stack = append(p.stack, &populateFrame{discard: true})
		}
		return nil
	}

	if top.slot {
		switch {
		case ev.IsStart():
			top.depth++
		case ev.IsEnd():
			top.depth--
			if top.depth == 0 {
				p.popFrame()
			}
		default:
			if top.depth == 0 {
				p.popFrame()
			}
		}
		return nil
	}

	if ev.IsEnd() {
		p.popFrame()
		return nil
	}

	switch top.v.Kind() {
	case reflect.Struct:
		if top.awaitingName {
			if ev.Kind != event.Str {
				return fmt.Errorf("populate: expected a field name, got %s", ev)
			}
			top.awaitingName = false
			top.field = fieldByWireName(top.v, ev.Str_)
			return nil
		}
		f := top.field
		top.field = reflect.Value{}
		top.awaitingName = true
		return p.deliver(f, ev)

	case reflect.Map:
		if ev.Kind == event.Item {
			top.awaitingKey = true
			return nil
		}
		if top.awaitingKey {
			top.awaitingKey = false
			key := reflect.New(top.v.Type().Key()).Elem()
			if err := p.deliver(key, ev); err != nil {
				return err
			}
			top.key = key
			return nil
		}
		val := reflect.New(top.v.Type().Elem()).Elem()
		if err := p.deliver(val, ev); err != nil {
			return err
		}
		if top.v.IsNil() {
			top.v.Set(reflect.MakeMap(top.v.Type()))
		}
		top.v.SetMapIndex(top.key, val)
		return nil

	case reflect.Slice, reflect.Array:
		if ev.Kind == event.Item {
			return nil
		}
		return p.deliverIndexed(top, ev)

	default:
		return fmt.Errorf("populate: unexpected event %s at %s", ev, top.v.Type())
	}
}

// popFrame closes the current frame and, once the stack drains back to
// the root, marks the whole value delivered.
func (p *populator) popFrame() {
	p.stack = p.stack[:len(p.stack)-1]
	if len(p.stack) == 0 {
		p.delivered = true
	}
}

func (p *populator) deliverIndexed(top *populateFrame, ev event.Event) error {
	if top.v.Kind() == reflect.Slice {
		elem := reflect.New(top.v.Type().Elem()).Elem()
		if err := p.deliver(elem, ev); err != nil {
			return err
		}
		top.v.Set(reflect.Append(top.v, elem))
		return nil
	}
	if top.idx >= top.v.Len() {
		return fmt.Errorf("populate: array of length %d has no slot %d", top.v.Len(), top.idx)
	}
	slot := top.v.Index(top.idx)
	top.idx++
	return p.deliver(slot, ev)
}

// deliver folds one incoming event into target, pushing a new stack
// frame for composite shapes and filling target directly for scalars,
// Null and Default. An invalid target (an unmatched struct field name)
// discards whatever subtree follows rather than erroring, the same
// unknown-field leniency encoding/json's decoder applies.
func (p *populator) deliver(target reflect.Value, ev event.Event) error {
	if !target.IsValid() {
		if ev.IsStart() {
			p.stack = append(p.stack, &populateFrame{discard: true})
		}
		return nil
	}

	switch ev.Kind {
	case event.Null, event.Default:
		target.Set(reflect.Zero(target.Type()))
		return nil
	case event.Some:
		return nil
	case event.StartStruct:
		return p.pushStruct(target)
	case event.StartList, event.StartTuple:
		return p.pushList(target)
	case event.StartMap:
		return p.pushMap(target)
	case event.Variant:
		return p.deliverVariant(target, ev)
	default:
		return setScalar(target, ev)
	}
}

func (p *populator) pushStruct(target reflect.Value) error {
	v, err := settleTarget(target, reflect.Struct)
	if err != nil {
		return err
	}
	p.stack = append(p.stack, &populateFrame{v: v, awaitingName: true})
	return nil
}

func (p *populator) pushList(target reflect.Value) error {
	v, err := settleTarget(target, reflect.Slice, reflect.Array)
	if err != nil {
		return err
	}
	if v.Kind() == reflect.Slice {
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
	}
	p.stack = append(p.stack, &populateFrame{v: v})
	return nil
}

func (p *populator) pushMap(target reflect.Value) error {
	v, err := settleTarget(target, reflect.Map)
	if err != nil {
		return err
	}
	p.stack = append(p.stack, &populateFrame{v: v})
	return nil
}

// deliverVariant fills target for a Variant(name, index) event. The only
// defined target shape is a Go string-kind type (enumVariants, or any
// plain string): this is what the EnumsWithoutDataAsStrings round trip
// produces. Decoding a full DenseUnion payload into a Go value has no
// single natural shape and is left unsupported, matching the schema
// tracer's own treatment of unions as a dedicated shape rather than
// something every value decodes into.
func (p *populator) deliverVariant(target reflect.Value, ev event.Event) error {
	v, err := derefScalar(target)
	if err != nil || v.Kind() != reflect.String {
		return fmt.Errorf("populate: cannot decode Variant(%q) into %s", ev.Str_, target.Type())
	}
	v.SetString(ev.Str_)
	p.stack = append(p.stack, &populateFrame{slot: true})
	return nil
}

// settleTarget dereferences pointers (allocating as needed) and unwraps
// interfaces until it finds a value matching one of want, the decode-side
// mirror of walkValue's own pointer/interface dereference.
func settleTarget(v reflect.Value, want ...reflect.Kind) (reflect.Value, error) {
	for {
		switch v.Kind() {
		case reflect.Ptr:
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
			continue
		case reflect.Interface:
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("populate: cannot decode into a nil interface %s", v.Type())
			}
			v = v.Elem()
			continue
		}
		break
	}
	for _, k := range want {
		if v.Kind() == k {
			return v, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("populate: expected one of %v, got %s", want, v.Type())
}

// derefScalar unwraps pointers/interfaces without restricting the final
// Kind, since the three named-type scalar cases below (uuid.UUID,
// time.Time, []byte) have Kinds (Array, Struct, Slice) that overlap with
// how ordinary composite values are rejected elsewhere.
func derefScalar(v reflect.Value) (reflect.Value, error) {
	for {
		switch v.Kind() {
		case reflect.Ptr:
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
			continue
		case reflect.Interface:
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("populate: cannot decode into a nil interface %s", v.Type())
			}
			v = v.Elem()
			continue
		}
		return v, nil
	}
}

func setScalar(target reflect.Value, ev event.Event) error {
	v, err := derefScalar(target)
	if err != nil {
		return err
	}

	if v.Type() == uuidType && ev.Kind == event.Binary {
		var id uuid.UUID
		copy(id[:], ev.Bytes)
		v.Set(reflect.ValueOf(id))
		return nil
	}
	if v.Type() == timeType && ev.Kind == event.Str {
		t, err := time.Parse("2006-01-02T15:04:05.999999999Z07:00", ev.Str_)
		if err != nil {
			return fmt.Errorf("populate: parsing time.Time: %w", err)
		}
		v.Set(reflect.ValueOf(t.UTC()))
		return nil
	}
	if v.Type() == byteSliceType && ev.Kind == event.Binary {
		v.SetBytes(append([]byte(nil), ev.Bytes...))
		return nil
	}

	switch ev.Kind {
	case event.Bool:
		if v.Kind() != reflect.Bool {
			return fmt.Errorf("populate: cannot decode Bool into %s", v.Type())
		}
		v.SetBool(ev.Bool_)
	case event.I8, event.I16, event.I32, event.I64:
		switch v.Kind() {
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Int64:
			v.SetInt(ev.Int)
		default:
			return fmt.Errorf("populate: cannot decode %s into %s", ev.Kind, v.Type())
		}
	case event.U8, event.U16, event.U32, event.U64:
		switch v.Kind() {
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint, reflect.Uint64, reflect.Uintptr:
			v.SetUint(ev.Uint)
		default:
			return fmt.Errorf("populate: cannot decode %s into %s", ev.Kind, v.Type())
		}
	case event.F16, event.F32, event.F64:
		if v.Kind() != reflect.Float32 && v.Kind() != reflect.Float64 {
			return fmt.Errorf("populate: cannot decode %s into %s", ev.Kind, v.Type())
		}
		v.SetFloat(ev.Float)
	case event.Str:
		if v.Kind() != reflect.String {
			return fmt.Errorf("populate: cannot decode Str into %s", v.Type())
		}
		v.SetString(ev.Str_)
	case event.Binary:
		if v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("populate: cannot decode Binary into %s", v.Type())
		}
		v.SetBytes(append([]byte(nil), ev.Bytes...))
	default:
		return fmt.Errorf("populate: unexpected scalar event %s", ev)
	}
	return nil
}

// fieldByWireName finds the struct field FieldNamer would report as
// name, allocating through pointers as needed to reach the struct. It
// returns the zero Value if no field matches, which deliver treats as a
// request to discard the value that follows.
func fieldByWireName(v reflect.Value, name string) reflect.Value {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		n, ok := FieldNamer(sf)
		if ok && n == name {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}
