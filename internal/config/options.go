// Package config holds the options that steer schema tracing.
package config

import (
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
	"go.uber.org/zap"
)

// Overwrite replaces, verbatim, the field found at Path after tracing
// completes. Path is matched against top-level field names only; a
// nested path matches nothing.
type Overwrite struct {
	Path  string
	Field schema.Field
}

// TracingOptions is the single options record consulted by both tracing
// entry points. It is a plain struct, not a builder or a functional-options
// chain, matching the teacher's own option-struct convention (e.g.
// parquet.ReaderProperties).
type TracingOptions struct {
	// CoerceNumbers enables the numeric unification lattice that widens
	// conflicting numeric observations to a common type instead of
	// failing tracing outright.
	CoerceNumbers bool
	// GuessDates enables date/time/datetime parsing during tracing.
	GuessDates bool
	// StringsAsLargeUtf8 routes traced strings to LargeUtf8 instead of
	// Utf8.
	StringsAsLargeUtf8 bool
	// SequenceAsLargeList routes traced sequences to LargeList instead
	// of List.
	SequenceAsLargeList bool
	// StringDictionaryEncoding wraps every traced string field in
	// Dictionary(UInt32, Utf8/LargeUtf8).
	StringDictionaryEncoding bool
	// EnumsWithoutDataAsStrings traces data-free enums as
	// dictionary-encoded strings instead of unions.
	EnumsWithoutDataAsStrings bool
	// AllowToString allows numeric/bool/char -> string coercion at
	// serialization.
	AllowToString bool
	// BytesAsLargeBinary routes traced byte sequences to LargeBinary.
	BytesAsLargeBinary bool
	// Overwrites are applied, verbatim, after tracing completes.
	Overwrites []Overwrite
	// FromTypeBudget bounds the recursion depth of structural tracing
	// (TraceFromType), guarding against self-referential Go types.
	FromTypeBudget int

	// Logger receives optional diagnostic messages from the tracer. Nil
	// disables all diagnostic logging; this never affects tracing
	// results, only observability.
	Logger *zap.Logger
}

// Default returns the option set assumed when no caller-provided options
// are given: number coercion and date guessing on, traced strings land
// in LargeUtf8, everything else off, a conservative recursion budget.
func Default() TracingOptions {
	return TracingOptions{
		CoerceNumbers:      true,
		GuessDates:         true,
		StringsAsLargeUtf8: true,
		FromTypeBudget:     32,
	}
}

func (o TracingOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Log returns a logger that is always safe to call (a no-op logger if
// the caller didn't configure one).
func (o TracingOptions) Log() *zap.Logger { return o.logger() }
