// Package event defines the push/pull event vocabulary shared by the
// serialization driver and the deserialization driver: a flat, JSON-like
// stream of tokens that a row-oriented visitor and a column-oriented
// builder/cursor tree agree on.
package event

import "fmt"

// Kind discriminates the variant of an Event. Every Kind carries zero or
// one payload field, set on the Event itself; Payload-less kinds only set
// Kind.
type Kind uint8

const (
	StartSequence Kind = iota
	EndSequence
	StartStruct
	EndStruct
	StartList
	EndList
	StartTuple
	EndTuple
	StartMap
	EndMap
	Item
	Str
	Null
	Some
	Default
	Variant
	Bool
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F16
	F32
	F64
	Binary
)

func (k Kind) String() string {
	switch k {
	case StartSequence:
		return "StartSequence"
	case EndSequence:
		return "EndSequence"
	case StartStruct:
		return "StartStruct"
	case EndStruct:
		return "EndStruct"
	case StartList:
		return "StartList"
	case EndList:
		return "EndList"
	case StartTuple:
		return "StartTuple"
	case EndTuple:
		return "EndTuple"
	case StartMap:
		return "StartMap"
	case EndMap:
		return "EndMap"
	case Item:
		return "Item"
	case Str:
		return "Str"
	case Null:
		return "Null"
	case Some:
		return "Some"
	case Default:
		return "Default"
	case Variant:
		return "Variant"
	case Bool:
		return "Bool"
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return "Int"
	case F16, F32, F64:
		return "Float"
	case Binary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// Event is a single token of the row-oriented protocol. Only the fields
// relevant to Kind are meaningful; the rest are zero.
//
// Strings and byte slices are always owned by the Event (Go has no
// analog to a lifetime-scoped borrow that would be worth modeling here),
// which collapses the original protocol's Str/OwnedStr and
// Variant/OwnedVariant distinction into one representation each.
type Event struct {
	Kind         Kind
	Str_         string
	Bytes        []byte
	VariantIndex int
	Bool_        bool
	Int          int64
	Uint         uint64
	Float        float64
}

func (e Event) String() string {
	switch e.Kind {
	case Str, Variant:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Str_)
	case Bool:
		return fmt.Sprintf("Bool(%v)", e.Bool_)
	case I8, I16, I32, I64:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Int)
	case U8, U16, U32, U64:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Uint)
	case F16, F32, F64:
		return fmt.Sprintf("%s(%v)", e.Kind, e.Float)
	case Binary:
		return fmt.Sprintf("Binary(%d bytes)", len(e.Bytes))
	default:
		return e.Kind.String()
	}
}

// IsStart reports whether the event increases nesting depth.
func (e Event) IsStart() bool {
	switch e.Kind {
	case StartSequence, StartStruct, StartList, StartTuple, StartMap:
		return true
	default:
		return false
	}
}

// IsEnd reports whether the event decreases nesting depth.
func (e Event) IsEnd() bool {
	switch e.Kind {
	case EndSequence, EndStruct, EndList, EndTuple, EndMap:
		return true
	default:
		return false
	}
}

// IsPrimitive reports whether the event encodes a scalar value. Null and
// Default are not primitive; see IsValue.
func (e Event) IsPrimitive() bool {
	switch e.Kind {
	case Bool, I8, I16, I32, I64, U8, U16, U32, U64, F16, F32, F64, Str, Binary:
		return true
	default:
		return false
	}
}

// IsValue reports whether the event is a self-contained value (a
// primitive, or Null/Default).
func (e Event) IsValue() bool {
	return e.IsPrimitive() || e.Kind == Null || e.Kind == Default
}

// IsMarker reports whether the event modifies the value that follows it.
func (e Event) IsMarker() bool {
	return e.Kind == Some || e.Kind == Variant
}

func Bool_(v bool) Event     { return Event{Kind: Bool, Bool_: v} }
func I8_(v int8) Event       { return Event{Kind: I8, Int: int64(v)} }
func I16_(v int16) Event     { return Event{Kind: I16, Int: int64(v)} }
func I32_(v int32) Event     { return Event{Kind: I32, Int: int64(v)} }
func I64_(v int64) Event     { return Event{Kind: I64, Int: v} }
func U8_(v uint8) Event      { return Event{Kind: U8, Uint: uint64(v)} }
func U16_(v uint16) Event    { return Event{Kind: U16, Uint: uint64(v)} }
func U32_(v uint32) Event    { return Event{Kind: U32, Uint: uint64(v)} }
func U64_(v uint64) Event    { return Event{Kind: U64, Uint: v} }
func F32_(v float32) Event   { return Event{Kind: F32, Float: float64(v)} }
func F64_(v float64) Event   { return Event{Kind: F64, Float: v} }
func Str_(v string) Event    { return Event{Kind: Str, Str_: v} }
func Binary_(v []byte) Event { return Event{Kind: Binary, Bytes: v} }
func VariantOf(name string, index int) Event {
	return Event{Kind: Variant, Str_: name, VariantIndex: index}
}

// Sink consumes a flat event stream. The schema tracer and the array
// builder tree both implement Sink: each maintains its own explicit
// stack of "where in the tree does the next event go" instead of relying
// on the Go call stack, since the stream may originate from a hand
// written Serializer method that doesn't mirror the tree structure
// through its own recursion.
type Sink interface {
	Accept(ev Event) error
}

var (
	EvStartSequence = Event{Kind: StartSequence}
	EvEndSequence   = Event{Kind: EndSequence}
	EvStartStruct   = Event{Kind: StartStruct}
	EvEndStruct     = Event{Kind: EndStruct}
	EvStartList     = Event{Kind: StartList}
	EvEndList       = Event{Kind: EndList}
	EvStartTuple    = Event{Kind: StartTuple}
	EvEndTuple      = Event{Kind: EndTuple}
	EvStartMap      = Event{Kind: StartMap}
	EvEndMap        = Event{Kind: EndMap}
	EvItem          = Event{Kind: Item}
	EvNull          = Event{Kind: Null}
	EvSome          = Event{Kind: Some}
	EvDefault       = Event{Kind: Default}
)
