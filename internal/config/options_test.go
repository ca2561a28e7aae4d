package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/serde-arrow/serde-arrow-go/internal/config"
)

func TestDefaultEnablesCoercionAndDateGuessing(t *testing.T) {
	opts := config.Default()
	assert.True(t, opts.CoerceNumbers)
	assert.True(t, opts.GuessDates)
	assert.True(t, opts.StringsAsLargeUtf8)
	assert.False(t, opts.StringDictionaryEncoding)
	assert.Greater(t, opts.FromTypeBudget, 0)
}

func TestLogFallsBackToNopLogger(t *testing.T) {
	var opts config.TracingOptions
	assert.NotNil(t, opts.Log())

	opts.Logger = zap.NewExample()
	assert.Same(t, opts.Logger, opts.Log())
}
