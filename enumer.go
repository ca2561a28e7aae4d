package serdearrow

// Enumer is implemented by a Go type that names its own closed set of
// data-free variants, the Go equivalent of a Rust enum with no payload.
// With TracingOptions.EnumsWithoutDataAsStrings set, such a type traces
// to Dictionary(UInt32, Utf8) tagged with the EnumsWithoutDataAsStrings
// strategy instead of a DenseUnion; EnumVariants must return the same
// slice, in the same order, every call, since variant index assignment
// depends on first-seen order.
type Enumer interface {
	EnumVariants() []string
}
