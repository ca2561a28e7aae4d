package tracer_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serde-arrow/serde-arrow-go/internal/config"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
	"github.com/serde-arrow/serde-arrow-go/internal/tracer"
)

type point struct {
	X int32
	Y int32
}

func TestTraceFromSamplesInfersScalarFields(t *testing.T) {
	samples := []any{point{X: 1, Y: 2}, point{X: 3, Y: 4}}
	s, err := tracer.TraceFromSamples(samples, config.Default())
	require.NoError(t, err)

	x, ok := s.FieldByName("x")
	require.True(t, ok)
	assert.Equal(t, schema.I32, x.Type.ID())
	assert.False(t, x.Nullable)
}

type optionalField struct {
	A int32
	B int32
}

type withoutB struct {
	A int32
}

func TestTraceFromSamplesMarksMissingFieldNullable(t *testing.T) {
	samples := []any{optionalField{A: 1, B: 2}, withoutB{A: 3}}
	s, err := tracer.TraceFromSamples(samples, config.Default())
	require.NoError(t, err)

	b, ok := s.FieldByName("b")
	require.True(t, ok)
	assert.True(t, b.Nullable)
}

type narrowThenWide struct {
	N int32
}

type wideOnly struct {
	N int64
}

func TestTraceFromSamplesCoercesConflictingNumericWidths(t *testing.T) {
	samples := []any{narrowThenWide{N: 1}, wideOnly{N: 1 << 40}}
	s, err := tracer.TraceFromSamples(samples, config.Default())
	require.NoError(t, err)

	n, ok := s.FieldByName("n")
	require.True(t, ok)
	assert.Equal(t, schema.I64, n.Type.ID())
}

func TestTraceFromSamplesRejectsConflictingNumericWidthsWhenCoercionDisabled(t *testing.T) {
	opts := config.Default()
	opts.CoerceNumbers = false
	samples := []any{narrowThenWide{N: 1}, wideOnly{N: 1 << 40}}
	_, err := tracer.TraceFromSamples(samples, opts)
	assert.Error(t, err)
}

type signedField struct{ N int32 }
type unsignedField struct{ N uint32 }

func TestTraceFromSamplesWidensSignedAndUnsignedToI64(t *testing.T) {
	samples := []any{signedField{N: 1}, unsignedField{N: 2}}
	s, err := tracer.TraceFromSamples(samples, config.Default())
	require.NoError(t, err)

	n, ok := s.FieldByName("n")
	require.True(t, ok)
	assert.Equal(t, schema.I64, n.Type.ID())
}

type intField struct{ N int32 }
type floatField struct{ N float32 }

func TestTraceFromSamplesWidensIntAndFloatToF64(t *testing.T) {
	samples := []any{intField{N: 1}, floatField{N: 2.5}}
	s, err := tracer.TraceFromSamples(samples, config.Default())
	require.NoError(t, err)

	n, ok := s.FieldByName("n")
	require.True(t, ok)
	assert.Equal(t, schema.F64, n.Type.ID())
}

type withDate struct {
	When string
}

func TestTraceFromSamplesGuessesNaiveDatetime(t *testing.T) {
	samples := []any{withDate{When: "2024-01-02T03:04:05"}}
	s, err := tracer.TraceFromSamples(samples, config.Default())
	require.NoError(t, err)

	when, ok := s.FieldByName("when")
	require.True(t, ok)
	assert.Equal(t, schema.Date64, when.Type.ID())
	assert.Equal(t, schema.NaiveStrAsDate64, when.Strategy())
}

type withLabel struct {
	Label string
}

func TestTraceFromSamplesBakesAllowToStringIntoStringFields(t *testing.T) {
	opts := config.Default()
	opts.AllowToString = true
	opts.StringsAsLargeUtf8 = false
	samples := []any{withLabel{Label: "a"}}
	s, err := tracer.TraceFromSamples(samples, opts)
	require.NoError(t, err)

	label, ok := s.FieldByName("label")
	require.True(t, ok)
	assert.Equal(t, schema.Utf8, label.Type.ID())
	assert.True(t, label.AllowToString())
}

func TestTraceFromSamplesDefaultsStringsToLargeUtf8(t *testing.T) {
	samples := []any{withLabel{Label: "a"}}
	s, err := tracer.TraceFromSamples(samples, config.Default())
	require.NoError(t, err)

	label, ok := s.FieldByName("label")
	require.True(t, ok)
	assert.Equal(t, schema.LargeUtf8, label.Type.ID())
}

func TestTraceFromSamplesUsesUtf8WhenLargeUtf8Disabled(t *testing.T) {
	opts := config.Default()
	opts.StringsAsLargeUtf8 = false
	samples := []any{withLabel{Label: "a"}}
	s, err := tracer.TraceFromSamples(samples, opts)
	require.NoError(t, err)

	label, ok := s.FieldByName("label")
	require.True(t, ok)
	assert.Equal(t, schema.Utf8, label.Type.ID())
}

func TestTraceFromSamplesDemotesOnContradictingDateStrings(t *testing.T) {
	samples := []any{withDate{When: "2024-01-02T03:04:05"}, withDate{When: "not a date"}}
	s, err := tracer.TraceFromSamples(samples, config.Default())
	require.NoError(t, err)

	when, ok := s.FieldByName("when")
	require.True(t, ok)
	assert.Equal(t, schema.LargeUtf8, when.Type.ID())
}

func TestTraceFromTypeUsesDeclaredFieldTypesDirectly(t *testing.T) {
	s, err := tracer.TraceFromType(reflect.TypeOf(point{}), config.Default())
	require.NoError(t, err)

	x, ok := s.FieldByName("x")
	require.True(t, ok)
	assert.Equal(t, schema.I32, x.Type.ID())
}

func TestTraceFromTypeRejectsNonStruct(t *testing.T) {
	_, err := tracer.TraceFromType(reflect.TypeOf(0), config.Default())
	assert.Error(t, err)
}

func TestFinalizeAppliesOverwrites(t *testing.T) {
	opts := config.Default()
	opts.Overwrites = []config.Overwrite{
		{Path: "x", Field: schema.Field{Name: "x", Type: schema.F64Type()}},
	}
	s, err := tracer.TraceFromSamples([]any{point{X: 1, Y: 2}}, opts)
	require.NoError(t, err)

	x, ok := s.FieldByName("x")
	require.True(t, ok)
	assert.Equal(t, schema.F64, x.Type.ID())
}
