// Package schema models the Arrow-compatible field tree this module
// builds and reads: a closed sum of logical data types with their
// parameters, an ordered sequence of named nullable fields, and the
// field-level strategy metadata that disambiguates how a semantic source
// type maps onto a physical Arrow type.
package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// TimeUnit mirrors arrow.TimeUnit; kept as our own type so DataType stays
// a self-contained closed sum independent of how the physical layer
// spells its units.
type TimeUnit int8

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

func (u TimeUnit) String() string {
	switch u {
	case Second:
		return "Second"
	case Millisecond:
		return "Millisecond"
	case Microsecond:
		return "Microsecond"
	case Nanosecond:
		return "Nanosecond"
	default:
		return "Unknown"
	}
}

func (u TimeUnit) arrow() arrow.TimeUnit {
	switch u {
	case Second:
		return arrow.Second
	case Millisecond:
		return arrow.Millisecond
	case Microsecond:
		return arrow.Microsecond
	case Nanosecond:
		return arrow.Nanosecond
	default:
		return arrow.Nanosecond
	}
}

// ID discriminates the DataType sum. The members are exactly the closed
// set of physical types, one ID per constructor.
type ID uint8

const (
	Null ID = iota
	Bool
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F16
	F32
	F64
	Utf8
	LargeUtf8
	Utf8View
	Binary
	LargeBinary
	BinaryView
	FixedSizeBinary
	Date32
	Date64
	Time32
	Time64
	Timestamp
	Duration
	Decimal128
	List
	LargeList
	FixedSizeList
	Struct
	Map
	DenseUnion
	Dictionary
)

// DataType is the closed sum of Arrow logical types this module supports,
// with their parameters. It is a value type: two DataTypes built with
// equal fields are Equal.
type DataType struct {
	id ID

	// Time32/Time64/Timestamp/Duration
	unit TimeUnit
	// Timestamp only; "" means naive (no timezone)
	tz string
	// Decimal128
	precision, scale int32
	// FixedSizeBinary/FixedSizeList
	width int32
	// List/LargeList/FixedSizeList/Dictionary(value)
	child *Field
	// Struct/Map(entries)/DenseUnion(variants)
	children []Field
	// DenseUnion: stable type-id per variant, same order as children
	typeIDs []int8
	// Dictionary
	key *DataType
}

func (d DataType) ID() ID { return d.id }
func (d DataType) Unit() TimeUnit { return d.unit }
func (d DataType) Timezone() string { return d.tz }
func (d DataType) Precision() int32 { return d.precision }
func (d DataType) Scale() int32 { return d.scale }
func (d DataType) Width() int32 { return d.width }
func (d DataType) Child() *Field { return d.child }
func (d DataType) Children() []Field { return d.children }
func (d DataType) TypeIDs() []int8 { return d.typeIDs }
func (d DataType) KeyType() *DataType { return d.key }
func (d DataType) ValueType() *DataType {
	if d.child == nil {
		return nil
	}
	return &d.child.Type
}

func NullType() DataType { return DataType{id: Null} }
func BoolType() DataType { return DataType{id: Bool} }
func I8Type() DataType   { return DataType{id: I8} }
func I16Type() DataType  { return DataType{id: I16} }
func I32Type() DataType  { return DataType{id: I32} }
func I64Type() DataType  { return DataType{id: I64} }
func U8Type() DataType   { return DataType{id: U8} }
func U16Type() DataType  { return DataType{id: U16} }
func U32Type() DataType  { return DataType{id: U32} }
func U64Type() DataType  { return DataType{id: U64} }
func F16Type() DataType  { return DataType{id: F16} }
func F32Type() DataType  { return DataType{id: F32} }
func F64Type() DataType  { return DataType{id: F64} }
func Utf8Type() DataType      { return DataType{id: Utf8} }
func LargeUtf8Type() DataType { return DataType{id: LargeUtf8} }
func Utf8ViewType() DataType  { return DataType{id: Utf8View} }
func BinaryType() DataType      { return DataType{id: Binary} }
func LargeBinaryType() DataType { return DataType{id: LargeBinary} }
func BinaryViewType() DataType  { return DataType{id: BinaryView} }
func Date32Type() DataType { return DataType{id: Date32} }
func Date64Type() DataType { return DataType{id: Date64} }

func FixedSizeBinaryType(width int32) DataType {
	return DataType{id: FixedSizeBinary, width: width}
}

// Time32Type requires unit to be Second or Millisecond; the original
// serde_arrow (internal/schema/data_type.rs) rejects the finer units
// because the physical storage is a 32-bit tick count that cannot hold a
// microsecond/nanosecond-resolution day.
func Time32Type(unit TimeUnit) (DataType, error) {
	if unit != Second && unit != Millisecond {
		return DataType{}, fmt.Errorf("Time32 requires Second or Millisecond, got %s", unit)
	}
	return DataType{id: Time32, unit: unit}, nil
}

// Time64Type requires unit to be Microsecond or Nanosecond, the mirror
// image of Time32Type's restriction.
func Time64Type(unit TimeUnit) (DataType, error) {
	if unit != Microsecond && unit != Nanosecond {
		return DataType{}, fmt.Errorf("Time64 requires Microsecond or Nanosecond, got %s", unit)
	}
	return DataType{id: Time64, unit: unit}, nil
}

// TimestampType builds a Timestamp(unit, tz) type. tz == "" means naive
// (no timezone attached).
func TimestampType(unit TimeUnit, tz string) DataType {
	return DataType{id: Timestamp, unit: unit, tz: tz}
}

func DurationType(unit TimeUnit) DataType {
	return DataType{id: Duration, unit: unit}
}

func Decimal128Type(precision, scale int32) (DataType, error) {
	if precision <= 0 || precision > 38 {
		return DataType{}, fmt.Errorf("Decimal128 precision must be in 1..=38, got %d", precision)
	}
	if scale < 0 || scale > precision {
		return DataType{}, fmt.Errorf("Decimal128 scale must be in 0..=precision, got %d", scale)
	}
	return DataType{id: Decimal128, precision: precision, scale: scale}, nil
}

// ListType builds a List whose single child is named "item", following
// the usual field-tree convention for lists.
func ListType(item DataType, itemNullable bool) DataType {
	f := Field{Name: "item", Type: item, Nullable: itemNullable}
	return DataType{id: List, child: &f}
}

func LargeListType(item DataType, itemNullable bool) DataType {
	f := Field{Name: "item", Type: item, Nullable: itemNullable}
	return DataType{id: LargeList, child: &f}
}

func FixedSizeListType(item DataType, itemNullable bool, n int32) DataType {
	f := Field{Name: "item", Type: item, Nullable: itemNullable}
	return DataType{id: FixedSizeList, child: &f, width: n}
}

func StructType(children ...Field) DataType {
	return DataType{id: Struct, children: children}
}

// MapType builds a Map(entries) type where entries is a non-nullable
// struct of {key, value}.
func MapType(key, value DataType, valueNullable bool) DataType {
	entries := Field{
		Name: "entries",
		Type: StructType(
			Field{Name: "key", Type: key, Nullable: false},
			Field{Name: "value", Type: value, Nullable: valueNullable},
		),
		Nullable: false,
	}
	return DataType{id: Map, child: &entries}
}

// DenseUnionType builds a DenseUnion(variants) type. typeIDs must be the
// same length as variants and fit in an int8: union variants carry
// stable integer type-ids that must fit in a signed 8-bit range.
func DenseUnionType(variants []Field, typeIDs []int8) (DataType, error) {
	if len(variants) != len(typeIDs) {
		return DataType{}, fmt.Errorf("DenseUnion: %d variants but %d type ids", len(variants), len(typeIDs))
	}
	if len(variants) > 127 {
		return DataType{}, fmt.Errorf("DenseUnion: %d variants exceeds the 127 limit", len(variants))
	}
	return DataType{id: DenseUnion, children: variants, typeIDs: typeIDs}, nil
}

// DictionaryType builds a Dictionary(key, value) type. key must be an
// integer type and value must be string-like.
func DictionaryType(key, value DataType) (DataType, error) {
	if !isInteger(key.id) {
		return DataType{}, fmt.Errorf("Dictionary key type must be an integer type, got %s", key.id)
	}
	if !isStringLike(value.id) {
		return DataType{}, fmt.Errorf("Dictionary value type must be string-like, got %s", value.id)
	}
	k := key
	f := Field{Name: "value", Type: value}
	return DataType{id: Dictionary, key: &k, child: &f}, nil
}

func isInteger(id ID) bool {
	switch id {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

func isStringLike(id ID) bool {
	switch id {
	case Utf8, LargeUtf8, Utf8View:
		return true
	default:
		return false
	}
}

func (id ID) String() string {
	switch id {
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case I8:
		return "I8"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case I64:
		return "I64"
	case U8:
		return "U8"
	case U16:
		return "U16"
	case U32:
		return "U32"
	case U64:
		return "U64"
	case F16:
		return "F16"
	case F32:
		return "F32"
	case F64:
		return "F64"
	case Utf8:
		return "Utf8"
	case LargeUtf8:
		return "LargeUtf8"
	case Utf8View:
		return "Utf8View"
	case Binary:
		return "Binary"
	case LargeBinary:
		return "LargeBinary"
	case BinaryView:
		return "BinaryView"
	case FixedSizeBinary:
		return "FixedSizeBinary"
	case Date32:
		return "Date32"
	case Date64:
		return "Date64"
	case Time32:
		return "Time32"
	case Time64:
		return "Time64"
	case Timestamp:
		return "Timestamp"
	case Duration:
		return "Duration"
	case Decimal128:
		return "Decimal128"
	case List:
		return "List"
	case LargeList:
		return "LargeList"
	case FixedSizeList:
		return "FixedSizeList"
	case Struct:
		return "Struct"
	case Map:
		return "Map"
	case DenseUnion:
		return "DenseUnion"
	case Dictionary:
		return "Dictionary"
	default:
		return "Unknown"
	}
}

// IsNumeric reports whether the type is one of the lattice members the
// numeric-coercion unifier (internal/tracer) operates over.
func (d DataType) IsNumeric() bool {
	switch d.id {
	case I8, I16, I32, I64, U8, U16, U32, U64, F32, F64:
		return true
	default:
		return false
	}
}

// Equal reports deep structural equality.
func (d DataType) Equal(o DataType) bool {
	if d.id != o.id {
		return false
	}
	switch d.id {
	case Time32, Time64, Duration:
		return d.unit == o.unit
	case Timestamp:
		return d.unit == o.unit && d.tz == o.tz
	case Decimal128:
		return d.precision == o.precision && d.scale == o.scale
	case FixedSizeBinary:
		return d.width == o.width
	case List, LargeList:
		return d.child.Type.Equal(o.child.Type) && d.child.Nullable == o.child.Nullable
	case FixedSizeList:
		return d.width == o.width && d.child.Type.Equal(o.child.Type) && d.child.Nullable == o.child.Nullable
	case Struct:
		if len(d.children) != len(o.children) {
			return false
		}
		for i := range d.children {
			if !d.children[i].Equal(o.children[i]) {
				return false
			}
		}
		return true
	case Map:
		return d.child.Type.Equal(o.child.Type)
	case DenseUnion:
		if len(d.children) != len(o.children) {
			return false
		}
		for i := range d.children {
			if !d.children[i].Equal(o.children[i]) || d.typeIDs[i] != o.typeIDs[i] {
				return false
			}
		}
		return true
	case Dictionary:
		return d.key.Equal(*o.key) && d.child.Type.Equal(o.child.Type)
	default:
		return true
	}
}

// Arrow maps this DataType to the physical arrow.DataType it is built
// on top of. This is the one place the closed sum above touches the
// external Arrow layer; every builder/cursor goes through it to obtain
// the concrete array.Builder / array.Array type to drive.
func (d DataType) Arrow() (arrow.DataType, error) {
	switch d.id {
	case Null:
		return arrow.Null, nil
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case I8:
		return arrow.PrimitiveTypes.Int8, nil
	case I16:
		return arrow.PrimitiveTypes.Int16, nil
	case I32:
		return arrow.PrimitiveTypes.Int32, nil
	case I64:
		return arrow.PrimitiveTypes.Int64, nil
	case U8:
		return arrow.PrimitiveTypes.Uint8, nil
	case U16:
		return arrow.PrimitiveTypes.Uint16, nil
	case U32:
		return arrow.PrimitiveTypes.Uint32, nil
	case U64:
		return arrow.PrimitiveTypes.Uint64, nil
	case F16:
		return arrow.FixedWidthTypes.Float16, nil
	case F32:
		return arrow.PrimitiveTypes.Float32, nil
	case F64:
		return arrow.PrimitiveTypes.Float64, nil
	case Utf8:
		return arrow.BinaryTypes.String, nil
	case LargeUtf8:
		return arrow.BinaryTypes.LargeString, nil
	case Utf8View:
		return arrow.BinaryTypes.StringView, nil
	case Binary:
		return arrow.BinaryTypes.Binary, nil
	case LargeBinary:
		return arrow.BinaryTypes.LargeBinary, nil
	case BinaryView:
		return arrow.BinaryTypes.BinaryView, nil
	case FixedSizeBinary:
		return &arrow.FixedSizeBinaryType{ByteWidth: int(d.width)}, nil
	case Date32:
		return arrow.FixedWidthTypes.Date32, nil
	case Date64:
		return arrow.FixedWidthTypes.Date64, nil
	case Time32:
		if d.unit == Second {
			return arrow.FixedWidthTypes.Time32s, nil
		}
		return arrow.FixedWidthTypes.Time32ms, nil
	case Time64:
		if d.unit == Microsecond {
			return arrow.FixedWidthTypes.Time64us, nil
		}
		return arrow.FixedWidthTypes.Time64ns, nil
	case Timestamp:
		return &arrow.TimestampType{Unit: d.unit.arrow(), TimeZone: d.tz}, nil
	case Duration:
		return &arrow.DurationType{Unit: d.unit.arrow()}, nil
	case Decimal128:
		return &arrow.Decimal128Type{Precision: d.precision, Scale: d.scale}, nil
	case List:
		child, err := d.child.Type.Arrow()
		if err != nil {
			return nil, err
		}
		return arrow.ListOfField(arrow.Field{Name: d.child.Name, Type: child, Nullable: d.child.Nullable}), nil
	case LargeList:
		child, err := d.child.Type.Arrow()
		if err != nil {
			return nil, err
		}
		return arrow.LargeListOfField(arrow.Field{Name: d.child.Name, Type: child, Nullable: d.child.Nullable}), nil
	case FixedSizeList:
		child, err := d.child.Type.Arrow()
		if err != nil {
			return nil, err
		}
		return arrow.FixedSizeListOfField(d.width, arrow.Field{Name: d.child.Name, Type: child, Nullable: d.child.Nullable}), nil
	case Struct:
		fields := make([]arrow.Field, len(d.children))
		for i, f := range d.children {
			af, err := f.Arrow()
			if err != nil {
				return nil, err
			}
			fields[i] = af
		}
		return arrow.StructOf(fields...), nil
	case Map:
		entries := d.child.Type
		key := entries.children[0].Type
		value := entries.children[1].Type
		ak, err := key.Arrow()
		if err != nil {
			return nil, err
		}
		av, err := value.Arrow()
		if err != nil {
			return nil, err
		}
		return arrow.MapOf(ak, av), nil
	case DenseUnion:
		fields := make([]arrow.Field, len(d.children))
		codes := make([]arrow.UnionTypeCode, len(d.children))
		for i, f := range d.children {
			af, err := f.Arrow()
			if err != nil {
				return nil, err
			}
			fields[i] = af
			codes[i] = arrow.UnionTypeCode(d.typeIDs[i])
		}
		return arrow.DenseUnionOf(fields, codes), nil
	case Dictionary:
		ak, err := d.key.Arrow()
		if err != nil {
			return nil, err
		}
		av, err := d.child.Type.Arrow()
		if err != nil {
			return nil, err
		}
		return &arrow.DictionaryType{IndexType: ak, ValueType: av}, nil
	default:
		return nil, fmt.Errorf("unsupported data type %s", d.id)
	}
}
