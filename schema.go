package serdearrow

import "github.com/serde-arrow/serde-arrow-go/internal/schema"

// Schema, Field, DataType, Strategy, Metadata and TimeUnit are aliases
// for the internal schema package's own types, so a caller never needs
// to import serde-arrow-go/internal/schema directly: the schema tree
// described in spec.md §3 is exported here verbatim, constructed either
// by tracing or by the constructors below.
type (
	Schema    = schema.Schema
	Field     = schema.Field
	DataType  = schema.DataType
	Strategy  = schema.Strategy
	Metadata  = schema.Metadata
	TimeUnit  = schema.TimeUnit
	DataTypeID = schema.ID
)

const (
	Second      = schema.Second
	Millisecond = schema.Millisecond
	Microsecond = schema.Microsecond
	Nanosecond  = schema.Nanosecond
)

const (
	StrategyNone              = schema.StrategyNone
	NaiveStrAsDate64          = schema.NaiveStrAsDate64
	UtcStrAsDate64            = schema.UtcStrAsDate64
	TupleAsStruct             = schema.TupleAsStruct
	MapAsStruct               = schema.MapAsStruct
	EnumsWithoutDataAsStrings = schema.EnumsWithoutDataAsStrings
)

// NewSchema builds a Schema from an ordered field list.
func NewSchema(fields ...Field) Schema { return schema.New(fields...) }

// NewMetadata builds field-level Metadata from a plain string map.
func NewMetadata(pairs map[string]string) Metadata { return schema.NewMetadata(pairs) }

// ParseDataType parses the compact text grammar of spec.md §6, e.g.
// "Decimal128(12, 3)" or `Timestamp(Millisecond, Some("UTC"))`.
func ParseDataType(s string) (DataType, error) { return schema.ParseDataType(s) }

// FormatDataType renders dt back into the same compact text grammar
// ParseDataType accepts.
func FormatDataType(dt DataType) string { return schema.FormatDataType(dt) }

var (
	NullType            = schema.NullType
	BoolType             = schema.BoolType
	I8Type               = schema.I8Type
	I16Type              = schema.I16Type
	I32Type              = schema.I32Type
	I64Type              = schema.I64Type
	U8Type               = schema.U8Type
	U16Type              = schema.U16Type
	U32Type              = schema.U32Type
	U64Type              = schema.U64Type
	F16Type              = schema.F16Type
	F32Type              = schema.F32Type
	F64Type              = schema.F64Type
	Utf8Type             = schema.Utf8Type
	LargeUtf8Type        = schema.LargeUtf8Type
	Utf8ViewType         = schema.Utf8ViewType
	BinaryType           = schema.BinaryType
	LargeBinaryType      = schema.LargeBinaryType
	BinaryViewType       = schema.BinaryViewType
	FixedSizeBinaryType  = schema.FixedSizeBinaryType
	Date32Type           = schema.Date32Type
	Date64Type           = schema.Date64Type
	Time32Type           = schema.Time32Type
	Time64Type           = schema.Time64Type
	TimestampType        = schema.TimestampType
	DurationType         = schema.DurationType
	Decimal128Type       = schema.Decimal128Type
	ListType             = schema.ListType
	LargeListType        = schema.LargeListType
	FixedSizeListType    = schema.FixedSizeListType
	StructType           = schema.StructType
	MapType              = schema.MapType
	DenseUnionType       = schema.DenseUnionType
	DictionaryType       = schema.DictionaryType
)
