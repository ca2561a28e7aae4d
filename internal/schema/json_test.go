package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

func TestSchemaJSONRoundTrip(t *testing.T) {
	want := schema.New(
		schema.Field{Name: "a", Type: schema.I32Type(), Nullable: true},
		schema.Field{Name: "when", Type: schema.Date64Type()},
	)
	want.Fields[1].Metadata.SetStrategy(schema.UtcStrAsDate64)

	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got schema.Schema
	require.NoError(t, json.Unmarshal(data, &got))

	require.Equal(t, len(want.Fields), len(got.Fields))
	for i := range want.Fields {
		assert.True(t, want.Fields[i].Equal(got.Fields[i]), "field %d: got %+v, want %+v", i, got.Fields[i], want.Fields[i])
	}
	assert.Equal(t, schema.UtcStrAsDate64, got.Fields[1].Strategy())
}

func TestSchemaJSONFieldShape(t *testing.T) {
	s := schema.New(schema.Field{Name: "a", Type: schema.I32Type()})
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	fields, ok := raw["fields"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 1)

	field, ok := fields[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a", field["name"])
	assert.Equal(t, "I32", field["data_type"])
}

func TestSchemaUnmarshalRejectsBadDataType(t *testing.T) {
	var s schema.Schema
	err := json.Unmarshal([]byte(`{"fields":[{"name":"a","data_type":"NotAType","nullable":false}]}`), &s)
	assert.Error(t, err)
}
