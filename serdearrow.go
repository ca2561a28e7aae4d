// Package serdearrow converts between sequences of statically-typed Go
// records and columnar Arrow arrays, in both directions, driven by an
// explicit per-field Schema (spec.md §1). ToArrays and FromArrays are
// the row<->column bridge; TraceFromSamples and TraceFromType derive a
// Schema when the caller doesn't want to write one by hand.
package serdearrow

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/serde-arrow/serde-arrow-go/internal/builder"
	"github.com/serde-arrow/serde-arrow-go/internal/cursor"
	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
	"github.com/serde-arrow/serde-arrow-go/internal/tracer"
	"github.com/serde-arrow/serde-arrow-go/internal/walk"
)

// asError normalizes err to *Error, tagging it kind if it isn't one
// already. The builder/cursor packages underneath return plain errors
// (fmt.Errorf, stdlib errors.New); this is the one seam where they're
// folded into this module's single public error type.
func asError(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, builder.ErrMissingField) {
		kind = MissingField
	}
	return newError(kind, err)
}

// ToArrays builds one Arrow array per top-level field of s from records
// (spec.md §6's to_arrays), in schema field order. Each record must be a
// struct (directly, or through a pointer): one implementing Serializer
// drives Emitter itself; any other struct is walked by reflection the
// same way internal/tracer observes samples. mem may be nil, in which
// case memory.DefaultAllocator is used.
func ToArrays[T any](s Schema, records []T, mem memory.Allocator) ([]arrow.Array, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	fb, err := newFieldBatch(s, mem)
	if err != nil {
		return nil, asError(Unsupported, err)
	}
	for i, rec := range records {
		if err := fb.acceptRecord(rec); err != nil {
			return nil, asError(SchemaMismatch, fmt.Errorf("encoding record %d: %w", i, err))
		}
	}
	arrs, err := fb.finish()
	if err != nil {
		return nil, asError(Internal, err)
	}
	return arrs, nil
}

// FromArrays reconstructs records of type T from arrays, the inverse of
// ToArrays (spec.md §6's from_arrays). len(arrays) must equal
// len(s.Fields); every array must have the same length, which becomes
// the number of records returned. A *T implementing Deserializer
// receives the decoded event stream directly; otherwise the record is
// filled by reflection via internal/walk.Populate.
func FromArrays[T any](s Schema, arrays []arrow.Array) ([]*T, error) {
	if len(arrays) != len(s.Fields) {
		return nil, &Error{
			Kind:    LengthMismatch,
			Message: fmt.Sprintf("schema has %d fields, got %d arrays", len(s.Fields), len(arrays)),
		}
	}
	cursors := make([]cursor.Cursor, len(s.Fields))
	n := -1
	for i, f := range s.Fields {
		c, err := cursor.New(f, arrays[i])
		if err != nil {
			return nil, asError(Unsupported, err)
		}
		if n == -1 {
			n = c.Len()
		} else if c.Len() != n {
			return nil, &Error{
				Kind: LengthMismatch,
				Message: fmt.Sprintf("field %q has length %d, want %d",
					f.Name, c.Len(), n),
			}
		}
		cursors[i] = c
	}
	if n == -1 {
		n = 0
	}

	out := make([]*T, n)
	for row := 0; row < n; row++ {
		rec := new(T)
		var sink event.Sink
		if d, ok := any(rec).(Deserializer); ok {
			sink = deserializerSink{dst: d}
		} else {
			sink = walk.Populate(reflect.ValueOf(rec).Elem())
		}
		if err := readRecord(s.Fields, cursors, row, sink); err != nil {
			return nil, asError(SchemaMismatch, fmt.Errorf("decoding record %d: %w", row, err))
		}
		out[row] = rec
	}
	return out, nil
}

// readRecord synthesizes one record's StartStruct..EndStruct event
// subtree from the per-field cursors at row and feeds it to into, the
// root-level mirror of internal/cursor/composite.go's structCursor.Read.
func readRecord(fields []schema.Field, cursors []cursor.Cursor, row int, into event.Sink) error {
	if err := into.Accept(event.EvStartStruct); err != nil {
		return err
	}
	for i, f := range fields {
		if err := into.Accept(event.Str_(f.Name)); err != nil {
			return err
		}
		c := cursors[i]
		if !c.IsValid(row) {
			if err := into.Accept(event.EvNull); err != nil {
				return err
			}
			continue
		}
		if err := c.Read(row, into); err != nil {
			return err
		}
	}
	return into.Accept(event.EvEndStruct)
}

// TraceFromSamples derives a Schema from representative Go records
// (spec.md §6's trace_from_samples). Each sample is walked by reflection,
// the way ToArrays serializes a record that does not implement
// Serializer; a sample's own SerializeArrow method is not consulted.
func TraceFromSamples(samples []any, opts TracingOptions) (Schema, error) {
	return tracer.TraceFromSamples(samples, opts)
}

// TraceFromType derives a Schema directly from T's declared fields,
// without any sample values (spec.md §6's trace_from_type).
func TraceFromType[T any](opts TracingOptions) (Schema, error) {
	var zero T
	return tracer.TraceFromType(reflect.TypeOf(zero), opts)
}

// fieldBatch drives one builder.Builder per top-level schema field from
// a flat event stream, the root-level mirror of
// internal/builder/composite.go's structBuilder dispatch-by-name state
// machine. It deliberately doesn't wrap the fields in an arrow
// StructBuilder: ToArrays returns one array per field, not one combined
// struct array.
type fieldBatch struct {
	order  []string
	byName map[string]builder.Builder
	fields []builder.Builder

	awaitingName bool
	target       builder.Builder
	open         int
}

func newFieldBatch(s Schema, mem memory.Allocator) (*fieldBatch, error) {
	fb := &fieldBatch{
		order:        make([]string, len(s.Fields)),
		byName:       make(map[string]builder.Builder, len(s.Fields)),
		fields:       make([]builder.Builder, len(s.Fields)),
		awaitingName: true,
	}
	for i, f := range s.Fields {
		b, err := builder.New(f, mem)
		if err != nil {
			return nil, err
		}
		fb.order[i] = f.Name
		fb.byName[f.Name] = b
		fb.fields[i] = b
	}
	return fb, nil
}

func (fb *fieldBatch) acceptRecord(rec any) error {
	if s, ok := rec.(Serializer); ok {
		return s.SerializeArrow(emitterAdapter{sink: fb})
	}
	return walk.Value(fb, reflect.ValueOf(rec))
}

// Accept implements event.Sink for exactly one top-level record's
// StartStruct..EndStruct subtree. While a field's value is being
// delivered (awaitingName false), every event belongs to that field's
// own content — including a nested Struct field's own StartStruct/
// EndStruct — and must go to the target, not be mistaken for this
// record's own delimiters.
func (fb *fieldBatch) Accept(ev event.Event) error {
	if !fb.awaitingName {
		done, err := deliverToBuilder(fb.target, ev, &fb.open)
		if err != nil {
			return err
		}
		if done {
			fb.awaitingName = true
		}
		return nil
	}

	switch ev.Kind {
	case event.Some:
		// A record passed by pointer arrives as Some before its StartStruct.
		return nil
	case event.StartStruct:
		fb.awaitingName = true
		return nil
	case event.EndStruct:
		return nil
	case event.Str:
		target, ok := fb.byName[ev.Str_]
		if !ok {
			return &Error{Kind: SchemaMismatch, Message: fmt.Sprintf("unknown field %q", ev.Str_), Field: ev.Str_}
		}
		fb.target = target
		fb.open = 0
		fb.awaitingName = false
		return nil
	default:
		return &Error{Kind: SchemaMismatch, Message: fmt.Sprintf("expected a field name, got %s", ev)}
	}
}

// deliverToBuilder is fieldBatch's own copy of
// internal/builder.deliverSlot's depth-tracked single-slot absorption,
// needed because that helper is unexported and fieldBatch lives outside
// the builder package. Like deliverSlot, it consumes a Some at the start
// of the slot instead of forwarding it.
func deliverToBuilder(child builder.Builder, ev event.Event, open *int) (done bool, err error) {
	if *open == 0 && ev.Kind == event.Some {
		return false, nil
	}
	if err := child.Accept(ev); err != nil {
		return false, err
	}
	if *open > 0 {
		switch {
		case ev.IsStart():
			*open++
		case ev.IsEnd():
			*open--
			if *open == 0 {
				return true, nil
			}
		}
		return false, nil
	}
	switch {
	case ev.IsMarker():
		return false, nil
	case ev.IsStart():
		*open = 1
		return false, nil
	default:
		return true, nil
	}
}

func (fb *fieldBatch) finish() ([]arrow.Array, error) {
	n := -1
	for i, b := range fb.fields {
		if n == -1 {
			n = b.Len()
		} else if b.Len() != n {
			return nil, &Error{
				Kind: LengthMismatch,
				Message: fmt.Sprintf("field %q has length %d, want %d",
					fb.order[i], b.Len(), n),
			}
		}
	}
	arrs := make([]arrow.Array, len(fb.fields))
	for i, b := range fb.fields {
		a, err := b.Finish()
		if err != nil {
			return nil, err
		}
		arrs[i] = a
	}
	return arrs, nil
}
