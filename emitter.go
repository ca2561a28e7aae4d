package serdearrow

import (
	"fmt"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

// Emitter is the typed push surface a hand-written Serializer drives
// instead of building an internal event stream directly; each method
// corresponds to one event.Kind of spec.md §3. A caller never
// constructs an Emitter itself: ToArrays passes one to every record's
// Serializer as it walks the batch.
type Emitter interface {
	StartStruct() error
	EndStruct() error
	StartList() error
	EndList() error
	StartTuple() error
	EndTuple() error
	StartMap() error
	EndMap() error
	Item() error
	Null() error
	Some() error
	Default() error
	Variant(name string, index int) error
	Bool(v bool) error
	I8(v int8) error
	I16(v int16) error
	I32(v int32) error
	I64(v int64) error
	U8(v uint8) error
	U16(v uint16) error
	U32(v uint32) error
	U64(v uint64) error
	F32(v float32) error
	F64(v float64) error
	// Str emits a string value, or, positioned directly after
	// StartStruct or the previous field's value, the name of the next
	// struct field: spec.md's event model gives both the same Kind,
	// distinguished only by position, and this interface keeps that.
	Str(v string) error
	Binary(v []byte) error
}

// Serializer lets a record type take over its own encoding rather than
// falling back to internal/walk's reflect-based default, the same role
// encoding/json.Marshaler plays relative to its own reflect encoder.
type Serializer interface {
	SerializeArrow(e Emitter) error
}

// Deserializer is the pull-style counterpart of Serializer: a record
// type implementing it receives the same typed calls Emitter defines,
// now forwarded to it as the event stream for one row arrives, rather
// than pushed outward by the type itself. FromArrays calls a
// Deserializer instead of falling back to internal/walk.Populate.
type Deserializer interface {
	Emitter
}

// emitterAdapter implements Emitter by translating each typed call into
// the one internal/event.Event it corresponds to and forwarding it to
// sink, the shape backing a Serializer's view of ToArrays.
type emitterAdapter struct {
	sink event.Sink
}

func (a emitterAdapter) StartStruct() error          { return a.sink.Accept(event.EvStartStruct) }
func (a emitterAdapter) EndStruct() error            { return a.sink.Accept(event.EvEndStruct) }
func (a emitterAdapter) StartList() error            { return a.sink.Accept(event.EvStartList) }
func (a emitterAdapter) EndList() error              { return a.sink.Accept(event.EvEndList) }
func (a emitterAdapter) StartTuple() error           { return a.sink.Accept(event.EvStartTuple) }
func (a emitterAdapter) EndTuple() error             { return a.sink.Accept(event.EvEndTuple) }
func (a emitterAdapter) StartMap() error             { return a.sink.Accept(event.EvStartMap) }
func (a emitterAdapter) EndMap() error               { return a.sink.Accept(event.EvEndMap) }
func (a emitterAdapter) Item() error                 { return a.sink.Accept(event.EvItem) }
func (a emitterAdapter) Null() error                 { return a.sink.Accept(event.EvNull) }
func (a emitterAdapter) Some() error                 { return a.sink.Accept(event.EvSome) }
func (a emitterAdapter) Default() error              { return a.sink.Accept(event.EvDefault) }
func (a emitterAdapter) Variant(name string, index int) error {
	return a.sink.Accept(event.VariantOf(name, index))
}
func (a emitterAdapter) Bool(v bool) error       { return a.sink.Accept(event.Bool_(v)) }
func (a emitterAdapter) I8(v int8) error         { return a.sink.Accept(event.I8_(v)) }
func (a emitterAdapter) I16(v int16) error       { return a.sink.Accept(event.I16_(v)) }
func (a emitterAdapter) I32(v int32) error       { return a.sink.Accept(event.I32_(v)) }
func (a emitterAdapter) I64(v int64) error       { return a.sink.Accept(event.I64_(v)) }
func (a emitterAdapter) U8(v uint8) error        { return a.sink.Accept(event.U8_(v)) }
func (a emitterAdapter) U16(v uint16) error      { return a.sink.Accept(event.U16_(v)) }
func (a emitterAdapter) U32(v uint32) error      { return a.sink.Accept(event.U32_(v)) }
func (a emitterAdapter) U64(v uint64) error      { return a.sink.Accept(event.U64_(v)) }
func (a emitterAdapter) F32(v float32) error     { return a.sink.Accept(event.F32_(v)) }
func (a emitterAdapter) F64(v float64) error     { return a.sink.Accept(event.F64_(v)) }
func (a emitterAdapter) Str(v string) error      { return a.sink.Accept(event.Str_(v)) }
func (a emitterAdapter) Binary(v []byte) error   { return a.sink.Accept(event.Binary_(v)) }

// deserializerSink adapts a Deserializer into an event.Sink: every
// incoming event.Event is translated back into the one typed call on
// Emitter it corresponds to and forwarded to dst, the reverse of
// emitterAdapter. Container events need no stack here: the Deserializer
// itself is responsible for tracking its own nesting, the same way a
// hand-written Serializer tracks its own.
type deserializerSink struct {
	dst Deserializer
}

func (d deserializerSink) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.StartStruct:
		return d.dst.StartStruct()
	case event.EndStruct:
		return d.dst.EndStruct()
	case event.StartList:
		return d.dst.StartList()
	case event.EndList:
		return d.dst.EndList()
	case event.StartTuple:
		return d.dst.StartTuple()
	case event.EndTuple:
		return d.dst.EndTuple()
	case event.StartMap:
		return d.dst.StartMap()
	case event.EndMap:
		return d.dst.EndMap()
	case event.Item:
		return d.dst.Item()
	case event.Str:
		return d.dst.Str(ev.Str_)
	case event.Null:
		return d.dst.Null()
	case event.Some:
		return d.dst.Some()
	case event.Default:
		return d.dst.Default()
	case event.Variant:
		return d.dst.Variant(ev.Str_, ev.VariantIndex)
	case event.Bool:
		return d.dst.Bool(ev.Bool_)
	case event.I8:
		return d.dst.I8(int8(ev.Int))
	case event.I16:
		return d.dst.I16(int16(ev.Int))
	case event.I32:
		return d.dst.I32(int32(ev.Int))
	case event.I64:
		return d.dst.I64(ev.Int)
	case event.U8:
		return d.dst.U8(uint8(ev.Uint))
	case event.U16:
		return d.dst.U16(uint16(ev.Uint))
	case event.U32:
		return d.dst.U32(uint32(ev.Uint))
	case event.U64:
		return d.dst.U64(ev.Uint)
	case event.F16, event.F32:
		return d.dst.F32(float32(ev.Float))
	case event.F64:
		return d.dst.F64(ev.Float)
	case event.Binary:
		return d.dst.Binary(ev.Bytes)
	default:
		return &Error{Kind: Internal, Message: fmt.Sprintf("deserializerSink: unhandled event %s", ev)}
	}
}
