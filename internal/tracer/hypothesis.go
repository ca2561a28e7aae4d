// Package tracer implements schema tracing: deriving a Schema either from
// a stream of sample events (TraceFromSamples) or from a Go type via
// reflection (TraceFromType), reconciling conflicting observations across
// samples through a numeric-coercion lattice.
package tracer

import (
	"fmt"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// State is the tri-state of a field hypothesis as it gathers observations.
type State uint8

const (
	Unknown State = iota
	Known
	Finished
)

// Shape discriminates what kind of composite (if any) a hypothesis has
// settled on, independent of its eventual DataType, so the transition
// table can check "must be same shape" without yet knowing the exact
// variant (e.g. a struct hypothesis stays "struct-shaped" regardless of
// which fields were seen first).
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeStruct
	ShapeList
	ShapeTuple
	ShapeMap
	ShapeUnion
)

// hypothesis is the partial, possibly-incomplete type guess held at a
// single schema path during sample-based tracing.
type hypothesis struct {
	path     []string
	state    State
	shape    Shape
	dt       schema.DataType // meaningful once state != Unknown for scalars
	nullable bool
	strategy schema.Strategy

	// ShapeStruct / ShapeTuple
	childOrder []string
	children   map[string]*hypothesis

	// ShapeList
	item *hypothesis

	// ShapeMap
	key   *hypothesis
	value *hypothesis

	// ShapeUnion
	variantOrder []string
	variants     map[string]*hypothesis
	variantIndex map[string]int

	// ShapeStruct / ShapeTuple presence tracking: timesEntered counts how
	// many times this hypothesis itself was opened as a struct/tuple
	// (once per record for a top-level field, possibly more for a field
	// nested inside a list); childSeen counts, per child name, how many
	// of those entries actually touched that child. A child seen fewer
	// times than its parent was entered was absent from some record and
	// is therefore nullable.
	timesEntered int
	childSeen    map[string]int

	// scalar date/time guessing (GuessDates)
	dateKind        string
	dateGuessFailed bool
}

func newHypothesis(path []string) *hypothesis {
	return &hypothesis{path: append([]string(nil), path...)}
}

func (h *hypothesis) dotPath() string {
	if len(h.path) == 0 {
		return "$"
	}
	s := "$"
	for _, p := range h.path {
		s += "." + p
	}
	return s
}

func (h *hypothesis) errf(format string, args ...any) error {
	return fmt.Errorf("%s: %s", h.dotPath(), fmt.Sprintf(format, args...))
}

func (h *hypothesis) child(name string) *hypothesis {
	if h.children == nil {
		h.children = make(map[string]*hypothesis)
	}
	if c, ok := h.children[name]; ok {
		return c
	}
	c := newHypothesis(append(append([]string(nil), h.path...), name))
	h.children[name] = c
	h.childOrder = append(h.childOrder, name)
	return c
}

func (h *hypothesis) listItem() *hypothesis {
	if h.item == nil {
		h.item = newHypothesis(append(append([]string(nil), h.path...), "item"))
	}
	return h.item
}

func (h *hypothesis) mapKey() *hypothesis {
	if h.key == nil {
		h.key = newHypothesis(append(append([]string(nil), h.path...), "key"))
	}
	return h.key
}

func (h *hypothesis) mapValue() *hypothesis {
	if h.value == nil {
		h.value = newHypothesis(append(append([]string(nil), h.path...), "value"))
	}
	return h.value
}

// variant returns the hypothesis for a named union variant, assigning a
// stable index on first sight: ties in schema tracing are broken by
// first-seen insertion order.
func (h *hypothesis) variant(name string) (*hypothesis, int) {
	if h.variants == nil {
		h.variants = make(map[string]*hypothesis)
		h.variantIndex = make(map[string]int)
	}
	if v, ok := h.variants[name]; ok {
		return v, h.variantIndex[name]
	}
	idx := len(h.variantOrder)
	v := newHypothesis(append(append([]string(nil), h.path...), name))
	h.variants[name] = v
	h.variantIndex[name] = idx
	h.variantOrder = append(h.variantOrder, name)
	return v, idx
}

// setKnown transitions Unknown -> Known(dt), or leaves a Known/Finished
// hypothesis as-is for the caller to unify against.
func (h *hypothesis) setKnown(shape Shape, dt schema.DataType) {
	h.state = Known
	h.shape = shape
	h.dt = dt
}

// scalarEvent classifies an incoming event into a proposed scalar
// DataType, or ok=false if the event isn't a scalar this function knows
// how to classify (composites are handled by the tracer's stack machine,
// not here).
func scalarEventType(ev event.Event) (schema.DataType, bool) {
	switch ev.Kind {
	case event.Bool:
		return schema.BoolType(), true
	case event.I8:
		return schema.I8Type(), true
	case event.I16:
		return schema.I16Type(), true
	case event.I32:
		return schema.I32Type(), true
	case event.I64:
		return schema.I64Type(), true
	case event.U8:
		return schema.U8Type(), true
	case event.U16:
		return schema.U16Type(), true
	case event.U32:
		return schema.U32Type(), true
	case event.U64:
		return schema.U64Type(), true
	case event.F32:
		return schema.F32Type(), true
	case event.F64:
		return schema.F64Type(), true
	case event.Str:
		return schema.Utf8Type(), true
	case event.Binary:
		return schema.BinaryType(), true
	default:
		return schema.DataType{}, false
	}
}
