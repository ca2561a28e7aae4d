package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// StrategyMetadataKey is the reserved field-metadata key under which a
// Strategy tag is stored.
const StrategyMetadataKey = "SERDE_ARROW:strategy"

// Strategy is a field-level hint that refines how a semantic source type
// maps onto a physical Arrow type when the DataType alone is ambiguous.
type Strategy string

const (
	StrategyNone                  Strategy = ""
	NaiveStrAsDate64              Strategy = "NaiveStrAsDate64"
	UtcStrAsDate64                Strategy = "UtcStrAsDate64"
	TupleAsStruct                 Strategy = "TupleAsStruct"
	MapAsStruct                   Strategy = "MapAsStruct"
	EnumsWithoutDataAsStrings     Strategy = "EnumsWithoutDataAsStrings"
)

// Validate checks a Strategy is compatible with the DataType it is
// attached to, the same shape as the teacher's
// extensions/timestamp_with_offset.go isDataTypeCompatible check (a
// semantic wrapper validated against its physical storage type).
func (s Strategy) Validate(dt DataType) error {
	switch s {
	case StrategyNone:
		return nil
	case NaiveStrAsDate64, UtcStrAsDate64:
		if dt.ID() != Date64 {
			return errf("strategy %s requires Date64, got %s", s, dt.ID())
		}
		return nil
	case TupleAsStruct:
		if dt.ID() != Struct {
			return errf("strategy %s requires Struct, got %s", s, dt.ID())
		}
		return nil
	case MapAsStruct:
		if dt.ID() != Struct {
			return errf("strategy %s requires Struct, got %s", s, dt.ID())
		}
		return nil
	case EnumsWithoutDataAsStrings:
		if dt.ID() != Dictionary {
			return errf("strategy %s requires Dictionary, got %s", s, dt.ID())
		}
		return nil
	default:
		return errf("unknown strategy %q", s)
	}
}

// Metadata is an ordered string->string map, mirroring arrow.Metadata's
// shape but kept local to this package so Field doesn't need to import
// array-construction concerns beyond arrow.DataType itself.
type Metadata struct {
	keys   []string
	values []string
}

func NewMetadata(pairs map[string]string) Metadata {
	m := Metadata{}
	for k, v := range pairs {
		m.Set(k, v)
	}
	return m
}

func (m *Metadata) Set(key, value string) {
	for i, k := range m.keys {
		if k == key {
			m.values[i] = value
			return
		}
	}
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

func (m Metadata) Get(key string) (string, bool) {
	for i, k := range m.keys {
		if k == key {
			return m.values[i], true
		}
	}
	return "", false
}

func (m Metadata) Len() int { return len(m.keys) }

func (m Metadata) ToMap() map[string]string {
	out := make(map[string]string, len(m.keys))
	for i, k := range m.keys {
		out[k] = m.values[i]
	}
	return out
}

// Strategy returns the field's strategy tag, or StrategyNone if absent.
func (m Metadata) Strategy() Strategy {
	v, ok := m.Get(StrategyMetadataKey)
	if !ok {
		return StrategyNone
	}
	return Strategy(v)
}

func (m *Metadata) SetStrategy(s Strategy) {
	if s == StrategyNone {
		return
	}
	m.Set(StrategyMetadataKey, string(s))
}

// AllowToStringMetadataKey is the reserved field-metadata key that
// permits a string builder to coerce a numeric or boolean event into its
// decimal/textual form instead of rejecting it, the serialization-time
// counterpart of config.TracingOptions.AllowToString. Tracing bakes this
// permission into the field it derives so ToArrays, which takes no
// options of its own, can still honor it.
const AllowToStringMetadataKey = "SERDE_ARROW:allow_to_string"

func (m Metadata) AllowToString() bool {
	v, ok := m.Get(AllowToStringMetadataKey)
	return ok && v == "true"
}

func (m *Metadata) SetAllowToString(v bool) {
	if v {
		m.Set(AllowToStringMetadataKey, "true")
	}
}

// Field is a named, nullable node of the schema field tree.
type Field struct {
	Name     string
	Type     DataType
	Nullable bool
	Metadata Metadata
}

func (f Field) Strategy() Strategy { return f.Metadata.Strategy() }

func (f Field) AllowToString() bool { return f.Metadata.AllowToString() }

func (f Field) Equal(o Field) bool {
	return f.Name == o.Name && f.Nullable == o.Nullable && f.Type.Equal(o.Type)
}

func (f Field) Arrow() (arrow.Field, error) {
	dt, err := f.Type.Arrow()
	if err != nil {
		return arrow.Field{}, err
	}
	meta := f.Metadata.ToMap()
	var am arrow.Metadata
	if len(meta) > 0 {
		keys := make([]string, 0, len(meta))
		vals := make([]string, 0, len(meta))
		for k, v := range meta {
			keys = append(keys, k)
			vals = append(vals, v)
		}
		am = arrow.NewMetadata(keys, vals)
	}
	return arrow.Field{Name: f.Name, Type: dt, Nullable: f.Nullable, Metadata: am}, nil
}

func errf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
