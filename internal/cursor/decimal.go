package cursor

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
)

type decimal128Cursor struct{ a *array.Decimal128 }

func (c decimal128Cursor) Len() int             { return c.a.Len() }
func (c decimal128Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c decimal128Cursor) Read(row int, into event.Sink) error {
	dt := c.a.DataType().(*arrow.Decimal128Type)
	return into.Accept(event.Str_(formatDecimal128(c.a.Value(row), dt.Scale)))
}

// formatDecimal128 inserts a decimal point scale digits from the right
// of the unscaled integer value, the inverse of decimal128.FromString.
func formatDecimal128(n decimal128.Num, scale int32) string {
	s := n.BigInt().String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if scale <= 0 {
		if neg {
			return "-" + s
		}
		return s
	}
	for int32(len(s)) <= scale {
		s = "0" + s
	}
	out := s[:len(s)-int(scale)] + "." + s[len(s)-int(scale):]
	if neg {
		out = "-" + out
	}
	return out
}
