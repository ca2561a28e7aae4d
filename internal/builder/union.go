package builder

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// unionBuilder builds each variant's array independently and combines
// them at Finish via the dense union array constructor, rather than
// driving arrow-go's own union builder (which has no public per-variant
// Append hook matching our event-at-a-time protocol).
type unionBuilder struct {
	mem      memory.Allocator
	names    []string
	codes    []int8
	variants []Builder
	byName   map[string]int

	typeIDs *array.Int8Builder
	offsets *array.Int32Builder

	active int
	open   int
	n      int
	inSlot bool
}

func newUnionBuilder(mem memory.Allocator, dt schema.DataType) (Builder, error) {
	children := dt.Children()
	typeIDs := dt.TypeIDs()
	u := &unionBuilder{
		mem:      mem,
		names:    make([]string, len(children)),
		codes:    make([]int8, len(children)),
		variants: make([]Builder, len(children)),
		byName:   make(map[string]int, len(children)),
		typeIDs:  array.NewInt8Builder(mem),
		offsets:  array.NewInt32Builder(mem),
	}
	for i, cf := range children {
		cb, err := New(cf, mem)
		if err != nil {
			return nil, err
		}
		u.names[i] = cf.Name
		u.codes[i] = typeIDs[i]
		u.variants[i] = cb
		u.byName[cf.Name] = i
	}
	return u, nil
}

func (u *unionBuilder) Accept(ev event.Event) error {
	// Once a Variant has picked the active child, every event up to and
	// including that child's own Null/Default belongs to its content, not
	// to the union itself; deliverSlot forwards it and reports when the
	// one value (scalar, Null/Default, or a whole Start..End subtree) is
	// fully delivered.
	if u.inSlot {
		done, err := deliverSlot(u.variants[u.active], ev, &u.open)
		if err != nil {
			return err
		}
		if done {
			u.inSlot = false
		}
		return nil
	}

	switch ev.Kind {
	case event.Variant:
		idx, ok := u.byName[ev.Str_]
		if !ok {
			return fmt.Errorf("union builder: unknown variant %q", ev.Str_)
		}
		u.active = idx
		u.open = 0
		u.inSlot = true
		u.typeIDs.Append(u.codes[idx])
		u.offsets.Append(int32(u.variants[idx].Len()))
		u.n++
		return nil
	case event.Null, event.Default:
		// Dense unions carry no top-level validity bitmap; a bare
		// Null/Default with no preceding Variant means the whole union
		// value itself is absent (e.g. PushDefault on a struct's null
		// row), recorded against the first-declared variant per
		// DESIGN.md's open-question decision.
		u.typeIDs.Append(u.codes[0])
		u.offsets.Append(int32(u.variants[0].Len()))
		u.n++
		if ev.Kind == event.Null {
			return u.variants[0].PushNull()
		}
		return u.variants[0].PushDefault()
	default:
		return fmt.Errorf("union builder: unexpected %s outside a Variant", ev)
	}
}

func (u *unionBuilder) Len() int           { return u.n }
func (u *unionBuilder) PushNull() error    { return u.Accept(event.EvNull) }
func (u *unionBuilder) PushDefault() error { return u.Accept(event.EvDefault) }

func (u *unionBuilder) Finish() (arrow.Array, error) {
	typeIDsArr := u.typeIDs.NewArray()
	defer typeIDsArr.Release()
	offsetsArr := u.offsets.NewArray()
	defer offsetsArr.Release()

	children := make([]arrow.Array, len(u.variants))
	codes := make([]arrow.UnionTypeCode, len(u.variants))
	for i, v := range u.variants {
		a, err := v.Finish()
		if err != nil {
			return nil, err
		}
		children[i] = a
		codes[i] = arrow.UnionTypeCode(u.codes[i])
		defer a.Release()
	}
	return array.NewDenseUnionFromArraysWithFieldCodes(typeIDsArr, offsetsArr, children, u.names, codes)
}
