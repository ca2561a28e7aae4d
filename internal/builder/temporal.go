package builder

import (
	"fmt"
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/serde-arrow/serde-arrow-go/internal/event"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

const naiveDatetimeLayout = "2006-01-02T15:04:05.999999999"

// parseDateTimeMillis parses a date/time string into milliseconds since
// the Unix epoch, the unit Date64 stores regardless of strategy. utc
// selects between the UtcStrAsDate64 and NaiveStrAsDate64 strategies:
// the naive variant has no timezone offset and is interpreted as UTC
// without conversion.
func parseDateTimeMillis(s string, utc bool) (int64, error) {
	if utc {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return 0, err
		}
		return t.UTC().UnixMilli(), nil
	}
	t, err := time.Parse(naiveDatetimeLayout, s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

type date32Builder struct{ b *array.Date32Builder }

func newDate32Builder(mem memory.Allocator) *date32Builder {
	return &date32Builder{b: array.NewDate32Builder(mem)}
}

func (b *date32Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.I32, event.I64:
		b.b.Append(arrow.Date32(ev.Int))
	case event.Str:
		t, err := time.Parse("2006-01-02", ev.Str_)
		if err != nil {
			return fmt.Errorf("Date32: %w", err)
		}
		b.b.Append(arrow.Date32(t.Unix() / 86400))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("Date32 column cannot hold %s", ev)
	}
	return nil
}
func (b *date32Builder) Len() int                     { return b.b.Len() }
func (b *date32Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *date32Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *date32Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

// date64Builder stores milliseconds since the epoch. strategy says how a
// Str event is parsed; with StrategyNone a Date64 field is fed raw
// millisecond counts directly (I64 events).
type date64Builder struct {
	b        *array.Date64Builder
	strategy schema.Strategy
}

func newDate64Builder(mem memory.Allocator, strategy schema.Strategy) *date64Builder {
	return &date64Builder{b: array.NewDate64Builder(mem), strategy: strategy}
}

func (b *date64Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.I64, event.I32:
		b.b.Append(arrow.Date64(ev.Int))
	case event.Str:
		ms, err := parseDateTimeMillis(ev.Str_, b.strategy == schema.UtcStrAsDate64)
		if err != nil {
			return fmt.Errorf("Date64(%s): %w", b.strategy, err)
		}
		b.b.Append(arrow.Date64(ms))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("Date64 column cannot hold %s", ev)
	}
	return nil
}
func (b *date64Builder) Len() int                     { return b.b.Len() }
func (b *date64Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *date64Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *date64Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

type time32Builder struct {
	b    *array.Time32Builder
	unit schema.TimeUnit
}

func newTime32Builder(mem memory.Allocator, unit schema.TimeUnit) (*time32Builder, error) {
	au, err := toArrowTimeUnit(unit)
	if err != nil {
		return nil, err
	}
	return &time32Builder{b: array.NewTime32Builder(mem, &arrow.Time32Type{Unit: au}), unit: unit}, nil
}

func (b *time32Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.I32, event.I64:
		b.b.Append(arrow.Time32(ev.Int))
	case event.Str:
		ticks, err := parseTimeOfDay(ev.Str_, b.unit)
		if err != nil {
			return fmt.Errorf("Time32: %w", err)
		}
		b.b.Append(arrow.Time32(ticks))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("Time32 column cannot hold %s", ev)
	}
	return nil
}
func (b *time32Builder) Len() int                     { return b.b.Len() }
func (b *time32Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *time32Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *time32Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

type time64Builder struct {
	b    *array.Time64Builder
	unit schema.TimeUnit
}

func newTime64Builder(mem memory.Allocator, unit schema.TimeUnit) (*time64Builder, error) {
	au, err := toArrowTimeUnit(unit)
	if err != nil {
		return nil, err
	}
	return &time64Builder{b: array.NewTime64Builder(mem, &arrow.Time64Type{Unit: au}), unit: unit}, nil
}

func (b *time64Builder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.I32, event.I64:
		b.b.Append(arrow.Time64(ev.Int))
	case event.Str:
		ticks, err := parseTimeOfDay(ev.Str_, b.unit)
		if err != nil {
			return fmt.Errorf("Time64: %w", err)
		}
		b.b.Append(arrow.Time64(ticks))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("Time64 column cannot hold %s", ev)
	}
	return nil
}
func (b *time64Builder) Len() int                     { return b.b.Len() }
func (b *time64Builder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *time64Builder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *time64Builder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

type timestampBuilder struct {
	b    *array.TimestampBuilder
	unit arrow.TimeUnit
	naive bool
}

func newTimestampBuilder(mem memory.Allocator, unit schema.TimeUnit, tz string) *timestampBuilder {
	au, _ := toArrowTimeUnit(unit)
	if au != arrow.Second && au != arrow.Millisecond && au != arrow.Microsecond && au != arrow.Nanosecond {
		au = arrow.Nanosecond
	}
	dt := &arrow.TimestampType{Unit: au, TimeZone: tz}
	return &timestampBuilder{b: array.NewTimestampBuilder(mem, dt), unit: au, naive: tz == ""}
}

func (b *timestampBuilder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.I64, event.I32:
		b.b.Append(arrow.Timestamp(ev.Int))
	case event.Str:
		var t time.Time
		var err error
		if b.naive {
			t, err = time.Parse(naiveDatetimeLayout, ev.Str_)
		} else {
			t, err = time.Parse(time.RFC3339Nano, ev.Str_)
			t = t.UTC()
		}
		if err != nil {
			return fmt.Errorf("Timestamp: %w", err)
		}
		ts, err := arrow.TimestampFromTime(t, b.unit)
		if err != nil {
			return fmt.Errorf("Timestamp: %w", err)
		}
		b.b.Append(ts)
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("Timestamp column cannot hold %s", ev)
	}
	return nil
}
func (b *timestampBuilder) Len() int                     { return b.b.Len() }
func (b *timestampBuilder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *timestampBuilder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *timestampBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

type durationBuilder struct {
	b    *array.DurationBuilder
	unit schema.TimeUnit
}

func newDurationBuilder(mem memory.Allocator, unit schema.TimeUnit) *durationBuilder {
	au, _ := toArrowTimeUnit(unit)
	return &durationBuilder{b: array.NewDurationBuilder(mem, &arrow.DurationType{Unit: au}), unit: unit}
}

func (b *durationBuilder) Accept(ev event.Event) error {
	switch ev.Kind {
	case event.I64, event.I32:
		b.b.Append(arrow.Duration(ev.Int))
	case event.Str:
		d, err := time.ParseDuration(ev.Str_)
		if err != nil {
			return fmt.Errorf("Duration: %w", err)
		}
		b.b.Append(arrow.Duration(durationTicks(d, b.unit)))
	case event.Null:
		b.b.AppendNull()
	case event.Default:
		b.b.Append(0)
	default:
		return fmt.Errorf("Duration column cannot hold %s", ev)
	}
	return nil
}

// durationTicks converts a Go duration (always nanosecond-resolution) to
// unit's tick count, truncating precision finer than unit.
func durationTicks(d time.Duration, unit schema.TimeUnit) int64 {
	switch unit {
	case schema.Second:
		return int64(d / time.Second)
	case schema.Millisecond:
		return int64(d / time.Millisecond)
	case schema.Microsecond:
		return int64(d / time.Microsecond)
	default:
		return int64(d)
	}
}
func (b *durationBuilder) Len() int                     { return b.b.Len() }
func (b *durationBuilder) PushNull() error              { return b.Accept(event.EvNull) }
func (b *durationBuilder) PushDefault() error           { return b.Accept(event.EvDefault) }
func (b *durationBuilder) Finish() (arrow.Array, error) { return b.b.NewArray(), nil }

const timeOfDayLayout = "15:04:05.999999999"

// parseTimeOfDay parses a bare "HH:MM:SS[.fff]" string into unit's ticks
// since midnight. Sub-unit precision is truncated, matching the
// corresponding *_deserializer.rs sibling's seconds/nanoseconds split.
func parseTimeOfDay(s string, unit schema.TimeUnit) (int64, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, err
	}
	secs := int64(t.Hour())*3600 + int64(t.Minute())*60 + int64(t.Second())
	nsec := int64(t.Nanosecond())
	switch unit {
	case schema.Second:
		return secs, nil
	case schema.Millisecond:
		ticks := secs*1_000 + nsec/1_000_000
		if ticks > math.MaxInt32 {
			return 0, fmt.Errorf("Time32(Millisecond) value %d overflows int32", ticks)
		}
		return ticks, nil
	case schema.Microsecond:
		return secs*1_000_000 + nsec/1_000, nil
	case schema.Nanosecond:
		return secs*1_000_000_000 + nsec, nil
	default:
		return 0, fmt.Errorf("unknown time unit %v", unit)
	}
}

func toArrowTimeUnit(u schema.TimeUnit) (arrow.TimeUnit, error) {
	switch u {
	case schema.Second:
		return arrow.Second, nil
	case schema.Millisecond:
		return arrow.Millisecond, nil
	case schema.Microsecond:
		return arrow.Microsecond, nil
	case schema.Nanosecond:
		return arrow.Nanosecond, nil
	default:
		return 0, fmt.Errorf("unknown time unit %v", u)
	}
}
