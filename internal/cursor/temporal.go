package cursor

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

const naiveDatetimeLayout = "2006-01-02T15:04:05.999999999"

// date32Cursor always yields the raw day count: Date32 carries no
// strategy tag, so (mirroring spec.md 4.3's "for dates/times with
// strategies" wording) there is nothing at the cursor's construction
// time to disambiguate a string rendering from the physical value.
type date32Cursor struct{ a *array.Date32 }

func (c date32Cursor) Len() int             { return c.a.Len() }
func (c date32Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c date32Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.I32_(int32(c.a.Value(row))))
}

// date64Cursor formats to the same string shape the strategy's
// corresponding builder (internal/builder/temporal.go) parses, so a
// round trip through ToArrays/FromArrays yields a string for the same
// instant. The output is normalized: trailing fractional zeros are
// dropped and the UTC form always ends in Z. Without a strategy it falls
// back to the raw tick count.
type date64Cursor struct {
	a        *array.Date64
	strategy schema.Strategy
}

func (c date64Cursor) Len() int             { return c.a.Len() }
func (c date64Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c date64Cursor) Read(row int, into event.Sink) error {
	ms := int64(c.a.Value(row))
	switch c.strategy {
	case schema.UtcStrAsDate64:
		t := time.UnixMilli(ms).UTC()
		return into.Accept(event.Str_(t.Format(naiveDatetimeLayout + "Z")))
	case schema.NaiveStrAsDate64:
		t := time.UnixMilli(ms).UTC()
		return into.Accept(event.Str_(t.Format(naiveDatetimeLayout)))
	default:
		return into.Accept(event.I64_(ms))
	}
}

type time32Cursor struct{ a *array.Time32 }

func (c time32Cursor) Len() int             { return c.a.Len() }
func (c time32Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c time32Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.I32_(int32(c.a.Value(row))))
}

type time64Cursor struct{ a *array.Time64 }

func (c time64Cursor) Len() int             { return c.a.Len() }
func (c time64Cursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c time64Cursor) Read(row int, into event.Sink) error {
	return into.Accept(event.I64_(int64(c.a.Value(row))))
}

// timestampCursor formats as a string: unlike Time32/Time64/Duration,
// Timestamp's own tz field (rather than a separate strategy tag) already
// disambiguates naive from UTC rendering, so the cursor can always take
// the string path without losing round-trip information.
type timestampCursor struct {
	a   *array.Timestamp
	utc bool
}

func (c timestampCursor) Len() int             { return c.a.Len() }
func (c timestampCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c timestampCursor) Read(row int, into event.Sink) error {
	dt := c.a.DataType().(*arrow.TimestampType)
	ts := int64(c.a.Value(row))
	var t time.Time
	switch dt.Unit {
	case arrow.Second:
		t = time.Unix(ts, 0)
	case arrow.Millisecond:
		t = time.UnixMilli(ts)
	case arrow.Microsecond:
		t = time.UnixMicro(ts)
	default:
		t = time.Unix(0, ts)
	}
	if c.utc {
		return into.Accept(event.Str_(t.UTC().Format(naiveDatetimeLayout + "Z")))
	}
	return into.Accept(event.Str_(t.UTC().Format(naiveDatetimeLayout)))
}

type durationCursor struct{ a *array.Duration }

func (c durationCursor) Len() int             { return c.a.Len() }
func (c durationCursor) IsValid(row int) bool { return c.a.IsValid(row) }
func (c durationCursor) Read(row int, into event.Sink) error {
	return into.Accept(event.I64_(int64(c.a.Value(row))))
}
