package serdearrow

import "github.com/serde-arrow/serde-arrow-go/internal/config"

// TracingOptions is the option set consulted by TraceFromSamples and
// TraceFromType (spec.md §4.4). It is a plain struct, not a builder or a
// functional-options chain, matching the option-struct convention this
// module's own dependencies use.
type TracingOptions = config.TracingOptions

// Overwrite replaces, verbatim, the field found at Path once tracing
// completes. Path is matched against top-level field names only; a
// nested path matches nothing.
type Overwrite = config.Overwrite

// DefaultOptions returns the option set assumed when no caller-provided
// options are given.
func DefaultOptions() TracingOptions { return config.Default() }
