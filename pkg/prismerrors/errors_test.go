package prismerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeValidation, "bad input").WithDetail("field", "scale")

	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "validation: bad input", err.Error())
	assert.Equal(t, "scale", err.Details["field"])
	assert.NotEmpty(t, err.Stack)
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, ErrorTypeData, "cannot load rows")

	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")

	assert.Nil(t, Wrap(nil, ErrorTypeData, "ignored"))
}

func TestWrapPreservesStructuredStack(t *testing.T) {
	inner := New(ErrorTypeConfig, "invalid precision")
	outer := Wrap(inner, ErrorTypeInternal, "startup failed")

	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeInternal))
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeCapability, "joins not allowed")
	wrapped := fmt.Errorf("while planning: %w", err)

	assert.True(t, IsType(wrapped, ErrorTypeCapability))
	assert.False(t, IsType(wrapped, ErrorTypeData))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeData))
}
