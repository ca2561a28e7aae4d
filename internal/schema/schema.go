package schema

import "github.com/apache/arrow-go/v18/arrow"

// Schema is an ordered sequence of named, nullable fields plus top-level
// metadata. Schemas are immutable during a serialize/deserialize call and
// freely copyable.
type Schema struct {
	Fields   []Field
	Metadata Metadata
}

func New(fields ...Field) Schema {
	return Schema{Fields: fields}
}

// FieldByName returns the field with the given name and whether it was
// found.
func (s Schema) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Arrow projects the schema onto the physical arrow.Schema it is built on
// top of.
func (s Schema) Arrow() (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(s.Fields))
	for i, f := range s.Fields {
		af, err := f.Arrow()
		if err != nil {
			return nil, err
		}
		fields[i] = af
	}
	var meta arrow.Metadata
	if s.Metadata.Len() > 0 {
		m := s.Metadata.ToMap()
		keys := make([]string, 0, len(m))
		vals := make([]string, 0, len(m))
		for k, v := range m {
			keys = append(keys, k)
			vals = append(vals, v)
		}
		meta = arrow.NewMetadata(keys, vals)
		return arrow.NewSchema(fields, &meta), nil
	}
	return arrow.NewSchema(fields, nil), nil
}

// ApplyOverwrites replaces, verbatim, the field found at each given
// top-level name with its override. Keys are matched against top-level
// field names only: a nested path such as "a.b" matches no field and
// leaves the schema unchanged, and the tracer does not resolve nested
// paths either.
func (s Schema) ApplyOverwrites(overwrites map[string]Field) Schema {
	if len(overwrites) == 0 {
		return s
	}
	out := Schema{Fields: make([]Field, len(s.Fields)), Metadata: s.Metadata}
	for i, f := range s.Fields {
		if o, ok := overwrites[f.Name]; ok {
			out.Fields[i] = o
		} else {
			out.Fields[i] = f
		}
	}
	return out
}
