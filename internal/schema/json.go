package schema

import "encoding/json"

// jsonField is the on-the-wire shape of a Field, grounded on the
// original serde_arrow crate's internal/schema/serde/{serialize,
// deserialize}.rs, which represent a field as name/data_type/nullable/
// metadata rather than as the closed Rust enum directly. The data type's
// own composite structure (struct children, list item, ...) is carried
// entirely inside the text form (internal/schema/text.go), which already
// recurses through composites, so no separate "children" array is needed
// here.
type jsonField struct {
	Name     string            `json:"name"`
	DataType string            `json:"data_type"`
	Nullable bool              `json:"nullable"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func fieldToJSON(f Field) jsonField {
	jf := jsonField{
		Name:     f.Name,
		DataType: FormatDataType(f.Type),
		Nullable: f.Nullable,
	}
	if f.Metadata.Len() > 0 {
		jf.Metadata = f.Metadata.ToMap()
	}
	return jf
}

func fieldFromJSON(jf jsonField) (Field, error) {
	dt, err := ParseDataType(jf.DataType)
	if err != nil {
		return Field{}, err
	}
	f := Field{Name: jf.Name, Type: dt, Nullable: jf.Nullable}
	if jf.Metadata != nil {
		f.Metadata = NewMetadata(jf.Metadata)
	}
	return f, nil
}

type jsonSchema struct {
	Fields   []jsonField       `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON renders the schema in the same field/data_type/nullable/
// metadata shape the original crate's serde support uses, so a traced
// schema can be persisted and reloaded across process boundaries.
func (s Schema) MarshalJSON() ([]byte, error) {
	js := jsonSchema{Fields: make([]jsonField, len(s.Fields))}
	for i, f := range s.Fields {
		js.Fields[i] = fieldToJSON(f)
	}
	if s.Metadata.Len() > 0 {
		js.Metadata = s.Metadata.ToMap()
	}
	return json.Marshal(js)
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	var js jsonSchema
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	fields := make([]Field, len(js.Fields))
	for i, jf := range js.Fields {
		f, err := fieldFromJSON(jf)
		if err != nil {
			return err
		}
		fields[i] = f
	}
	*s = Schema{Fields: fields}
	if js.Metadata != nil {
		s.Metadata = NewMetadata(js.Metadata)
	}
	return nil
}
