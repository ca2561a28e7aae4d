package tracer

import (
	"fmt"

	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// unifyScalar reconciles an already-known scalar DataType with a freshly
// observed one for the same path, returning the DataType the hypothesis
// should hold afterwards.
//
// This is the single-hypothesis-vs-one-observation analogue of the
// teacher's whole-schema-tree unifier (arrow/util/schemas/unify.go):
// it keeps that function's upgrade ladder (unsigned widens to double
// width, signed widens to a wider signed or float type, Null upgrades to
// anything, Utf8 widens to LargeUtf8, Binary widens to LargeBinary) but
// applies it to one node at a time instead of grafting whole subtrees,
// since a hypothesis has no "parent composite to patch" step: callers
// patch the parent hypothesis directly once this returns.
func unifyScalar(have, got schema.DataType, coerce bool) (schema.DataType, error) {
	if have.Equal(got) {
		return have, nil
	}
	if have.ID() == schema.Null {
		return got, nil
	}
	if got.ID() == schema.Null {
		return have, nil
	}
	if !coerce {
		return schema.DataType{}, fmt.Errorf("conflicting types %s and %s", have.ID(), got.ID())
	}

	if u, ok := widenString(have, got); ok {
		return u, nil
	}
	if u, ok := widenNumeric(have, got); ok {
		return u, nil
	}
	return schema.DataType{}, fmt.Errorf("cannot unify %s and %s", have.ID(), got.ID())
}

func widenString(have, got schema.DataType) (schema.DataType, bool) {
	switch {
	case have.ID() == schema.Utf8 && got.ID() == schema.LargeUtf8:
		return got, true
	case have.ID() == schema.LargeUtf8 && got.ID() == schema.Utf8:
		return have, true
	case have.ID() == schema.Binary && got.ID() == schema.LargeBinary:
		return got, true
	case have.ID() == schema.LargeBinary && got.ID() == schema.Binary:
		return have, true
	default:
		return schema.DataType{}, false
	}
}

type numKind uint8

const (
	numNone numKind = iota
	numUnsigned
	numSigned
	numFloat
)

func classify(id schema.ID) (numKind, int) {
	switch id {
	case schema.U8:
		return numUnsigned, 8
	case schema.U16:
		return numUnsigned, 16
	case schema.U32:
		return numUnsigned, 32
	case schema.U64:
		return numUnsigned, 64
	case schema.I8:
		return numSigned, 8
	case schema.I16:
		return numSigned, 16
	case schema.I32:
		return numSigned, 32
	case schema.I64:
		return numSigned, 64
	case schema.F16:
		return numFloat, 16
	case schema.F32:
		return numFloat, 32
	case schema.F64:
		return numFloat, 64
	default:
		return numNone, 0
	}
}

func widthType(kind numKind, width int) (schema.DataType, bool) {
	switch kind {
	case numUnsigned:
		switch width {
		case 8:
			return schema.U8Type(), true
		case 16:
			return schema.U16Type(), true
		case 32:
			return schema.U32Type(), true
		case 64:
			return schema.U64Type(), true
		}
	case numSigned:
		switch width {
		case 8:
			return schema.I8Type(), true
		case 16:
			return schema.I16Type(), true
		case 32:
			return schema.I32Type(), true
		case 64:
			return schema.I64Type(), true
		}
	case numFloat:
		switch width {
		case 16:
			return schema.F16Type(), true
		case 32:
			return schema.F32Type(), true
		case 64:
			return schema.F64Type(), true
		}
	}
	return schema.DataType{}, false
}

// widenNumeric implements the lattice of spec.md's §4.1 unification
// rule, the same one the original crate's ensure_number applies:
// unsigned-vs-unsigned doubles its width and signed-vs-signed widens to
// the wider signed width (the teacher's upgradeType ladder, kept
// width-preserving rather than always jumping to the widest rank); any
// signed mixed with any unsigned widens straight to I64, and any
// integer mixed with any float (or float mixed with float) widens
// straight to F64, matching ensure_number's own match arms exactly
// regardless of the operands' widths.
func widenNumeric(have, got schema.DataType) (schema.DataType, bool) {
	hk, hw := classify(have.ID())
	gk, gw := classify(got.ID())
	if hk == numNone || gk == numNone {
		return schema.DataType{}, false
	}
	if hk == numUnsigned && gk == numUnsigned {
		if w, ok := widestOf(hw, gw); ok {
			return widthType(numUnsigned, w)
		}
		return schema.DataType{}, false
	}
	if hk == numSigned && gk == numSigned {
		w := hw
		if gw > w {
			w = gw
		}
		return widthType(numSigned, w)
	}
	if (hk == numSigned && gk == numUnsigned) || (hk == numUnsigned && gk == numSigned) {
		return schema.I64Type(), true
	}
	if hk == numFloat || gk == numFloat {
		return schema.F64Type(), true
	}
	return schema.DataType{}, false
}

// widestOf doubles the narrower of two unsigned widths if they're exactly
// one doubling apart, matching the teacher's "kt.BitWidth()*2 ==
// nt.BitWidth()" rule; equal widths unify trivially.
func widestOf(a, b int) (int, bool) {
	if a == b {
		return a, true
	}
	if a*2 == b {
		return b, true
	}
	if b*2 == a {
		return a, true
	}
	return 0, false
}
