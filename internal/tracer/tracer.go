package tracer

import (
	"fmt"
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/serde-arrow/serde-arrow-go/internal/config"
	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
	"github.com/serde-arrow/serde-arrow-go/internal/walk"
)

// frame is one entry of the tracer's explicit stack: the hypothesis
// currently open, plus the bookkeeping needed to route the next event to
// the right place inside it. Unlike a recursive descent, this stack is
// maintained by hand so the tracer can be driven by a flat event stream
// from an arbitrary source, not just by walk.Value's own recursion.
type frame struct {
	hyp   *hypothesis
	shape Shape

	awaitingName bool            // ShapeStruct
	fieldHyp     *hypothesis     // ShapeStruct, once a name has been read
	seen         map[string]bool // ShapeStruct, names touched this entry

	idx int // ShapeTuple, next position

	awaitingKey bool // ShapeMap
}

// Tracer accumulates a Schema from an event stream by maintaining one
// hypothesis per schema path and unifying every new observation into it.
type Tracer struct {
	opts  config.TracingOptions
	root  *hypothesis
	stack []*frame
}

// New returns a Tracer with no observations yet.
func New(opts config.TracingOptions) *Tracer {
	return &Tracer{opts: opts, root: newHypothesis(nil)}
}

// Accept implements event.Sink.
func (t *Tracer) Accept(ev event.Event) error {
	if len(t.stack) == 0 {
		if ev.Kind == event.Some {
			// A sample passed by pointer arrives as Some before its StartStruct.
			return nil
		}
		if ev.Kind != event.StartStruct {
			return fmt.Errorf("tracer: expected a record (StartStruct), got %s", ev)
		}
		if t.root.state == Unknown {
			t.root.setKnown(ShapeStruct, schema.DataType{})
		} else if t.root.shape != ShapeStruct {
			return t.root.errf("records must consistently be structs")
		}
		t.root.timesEntered++
		t.stack = append(t.stack, &frame{hyp: t.root, shape: ShapeStruct, awaitingName: true, seen: map[string]bool{}})
		return nil
	}

	top := t.stack[len(t.stack)-1]

	if ev.IsEnd() {
		if !endMatches(top.shape, ev.Kind) {
			return top.hyp.errf("unexpected %s while inside %s", ev.Kind, top.hyp.dotPath())
		}
		t.stack = t.stack[:len(t.stack)-1]
		return t.resume()
	}

	switch top.shape {
	case ShapeStruct:
		if top.awaitingName {
			if ev.Kind != event.Str {
				return top.hyp.errf("expected a field name, got %s", ev)
			}
			top.fieldHyp = top.hyp.child(ev.Str_)
			if !top.seen[ev.Str_] {
				top.seen[ev.Str_] = true
				if top.hyp.childSeen == nil {
					top.hyp.childSeen = make(map[string]int)
				}
				top.hyp.childSeen[ev.Str_]++
			}
			top.awaitingName = false
			return nil
		}
		oc, err := t.applyValue(top.fieldHyp, ev)
		if err != nil {
			return err
		}
		if oc == outcomeDelivered {
			top.awaitingName = true
		}
		return nil

	case ShapeTuple:
		if ev.Kind == event.Item {
			return nil
		}
		target := top.hyp.child(strconv.Itoa(top.idx))
		oc, err := t.applyValue(target, ev)
		if err != nil {
			return err
		}
		if oc != outcomeSwallowed {
			top.idx++
		}
		return nil

	case ShapeList:
		if ev.Kind == event.Item {
			return nil
		}
		_, err := t.applyValue(top.hyp.listItem(), ev)
		return err

	case ShapeMap:
		if ev.Kind == event.Item {
			top.awaitingKey = true
			return nil
		}
		if top.awaitingKey {
			top.awaitingKey = false
			_, err := t.applyValue(top.hyp.mapKey(), ev)
			return err
		}
		_, err := t.applyValue(top.hyp.mapValue(), ev)
		return err

	case ShapeNone:
		// A union-variant delivery slot: whatever arrives belongs to
		// top.hyp itself, and once it's a complete value this frame's
		// only job is done.
		oc, err := t.applyValue(top.hyp, ev)
		if err != nil {
			return err
		}
		if oc == outcomeDelivered {
			t.stack = t.stack[:len(t.stack)-1]
			return t.resume()
		}
		return nil

	default:
		return top.hyp.errf("unreachable frame shape")
	}
}

// resume restores the state of the (new) top frame after a nested frame
// closed, popping any slot frames in turn since their single expected
// value has now fully arrived.
func (t *Tracer) resume() error {
	for {
		if len(t.stack) == 0 {
			return nil
		}
		top := t.stack[len(t.stack)-1]
		switch top.shape {
		case ShapeStruct:
			top.awaitingName = true
			return nil
		case ShapeTuple, ShapeList, ShapeMap:
			return nil
		case ShapeNone:
			t.stack = t.stack[:len(t.stack)-1]
			continue
		default:
			return nil
		}
	}
}

type outcome uint8

const (
	outcomeSwallowed outcome = iota // Some: marker only, caller stays put
	outcomeDelivered                // scalar/Null/Default: position satisfied
	outcomePushed                   // Start*/Variant: a new frame is now open
)

// applyValue folds a single incoming event into target, the hypothesis
// that the caller has determined should receive it.
func (t *Tracer) applyValue(target *hypothesis, ev event.Event) (outcome, error) {
	switch {
	case ev.Kind == event.Some:
		target.nullable = true
		return outcomeSwallowed, nil

	case ev.Kind == event.Null:
		target.nullable = true
		return outcomeDelivered, nil

	case ev.Kind == event.Default:
		return outcomeDelivered, nil

	case ev.Kind == event.Variant:
		if target.state == Unknown {
			target.setKnown(ShapeUnion, schema.DataType{})
		} else if target.shape != ShapeUnion {
			return 0, target.errf("conflicting shapes: %s is not a union", target.dotPath())
		}
		vh, _ := target.variant(ev.Str_)
		t.stack = append(t.stack, &frame{hyp: vh, shape: ShapeNone})
		return outcomePushed, nil

	case ev.IsStart():
		shape := startShape(ev.Kind)
		if target.state == Unknown {
			target.setKnown(shape, schema.DataType{})
		} else if target.shape != shape {
			return 0, target.errf("conflicting shapes at %s", target.dotPath())
		}
		fr := &frame{hyp: target, shape: shape}
		if shape == ShapeStruct {
			fr.awaitingName = true
			fr.seen = map[string]bool{}
			target.timesEntered++
		}
		t.stack = append(t.stack, fr)
		return outcomePushed, nil

	default:
		dt, ok := scalarEventType(ev)
		if !ok {
			return 0, target.errf("unexpected event %s", ev)
		}
		if target.state == Unknown {
			target.setKnown(ShapeNone, dt)
		} else if target.shape != ShapeNone {
			return 0, target.errf("expected a scalar, got a container")
		} else {
			u, err := unifyScalar(target.dt, dt, t.opts.CoerceNumbers)
			if err != nil {
				return 0, target.errf("%v", err)
			}
			if !u.Equal(target.dt) {
				t.opts.Log().Debug("widened hypothesis",
					zap.String("path", target.dotPath()),
					zap.String("have", target.dt.ID().String()),
					zap.String("got", dt.ID().String()),
					zap.String("widened_to", u.ID().String()))
			}
			target.dt = u
		}
		if t.opts.GuessDates && ev.Kind == event.Str {
			t.guessDate(target, ev.Str_)
		}
		return outcomeDelivered, nil
	}
}

func (t *Tracer) guessDate(target *hypothesis, s string) {
	if target.dateGuessFailed {
		return
	}
	var kind string
	switch {
	case matchesUTCDatetime(s):
		kind = "utc-datetime"
	case matchesNaiveDatetime(s):
		kind = "naive-datetime"
	case matchesDate(s):
		kind = "date"
	case matchesTime(s):
		kind = "time"
	default:
		target.dateGuessFailed = true
		return
	}
	if target.dateKind == "" {
		target.dateKind = kind
		t.opts.Log().Debug("attached date strategy",
			zap.String("path", target.dotPath()),
			zap.String("kind", kind))
	} else if target.dateKind != kind {
		target.dateGuessFailed = true
	}
}

func endMatches(shape Shape, k event.Kind) bool {
	switch shape {
	case ShapeStruct:
		return k == event.EndStruct
	case ShapeTuple:
		return k == event.EndTuple
	case ShapeList:
		return k == event.EndList
	case ShapeMap:
		return k == event.EndMap
	default:
		return false
	}
}

func startShape(k event.Kind) Shape {
	switch k {
	case event.StartStruct:
		return ShapeStruct
	case event.StartTuple:
		return ShapeTuple
	case event.StartList:
		return ShapeList
	case event.StartMap:
		return ShapeMap
	default:
		return ShapeNone
	}
}

// TraceFromSamples traces a Schema from a slice of representative Go
// records (typically structs, or pointers to structs).
func TraceFromSamples(samples []any, opts config.TracingOptions) (schema.Schema, error) {
	t := New(opts)
	for i, s := range samples {
		if err := walk.Value(t, reflect.ValueOf(s)); err != nil {
			return schema.Schema{}, fmt.Errorf("tracing sample %d: %w", i, err)
		}
	}
	return t.Finalize()
}

// TraceFromType traces a Schema directly from a Go struct type, without
// any sample values, using the declared field types in place of
// observations.
func TraceFromType(rt reflect.Type, opts config.TracingOptions) (schema.Schema, error) {
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return schema.Schema{}, fmt.Errorf("TraceFromType requires a struct type, got %s", rt.Kind())
	}
	t := New(opts)
	budget := opts.FromTypeBudget
	if err := walk.Type(t, rt, &budget); err != nil {
		return schema.Schema{}, err
	}
	return t.Finalize()
}

// Finalize converts the accumulated hypotheses into a Schema, applying
// any configured overwrites.
func (t *Tracer) Finalize() (schema.Schema, error) {
	fields := make([]schema.Field, 0, len(t.root.childOrder))
	for _, name := range t.root.childOrder {
		ch := t.root.children[name]
		f, err := ch.toField(name, t.opts)
		if err != nil {
			return schema.Schema{}, err
		}
		if t.root.childSeen[name] < t.root.timesEntered {
			f.Nullable = true
		}
		fields = append(fields, f)
	}
	s := schema.New(fields...)
	if len(t.opts.Overwrites) > 0 {
		ow := make(map[string]schema.Field, len(t.opts.Overwrites))
		for _, o := range t.opts.Overwrites {
			ow[o.Path] = o.Field
			if traced, ok := s.FieldByName(o.Path); ok {
				t.opts.Log().Debug("overwrote traced field",
					zap.String("path", o.Path),
					zap.String("traced_type", traced.Type.ID().String()),
					zap.String("overwrite_type", o.Field.Type.ID().String()))
			}
		}
		s = s.ApplyOverwrites(ow)
	}
	return s, nil
}
