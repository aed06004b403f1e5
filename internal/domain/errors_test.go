package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Entity: "subscription", ID: "abc"}
	assert.Equal(t, "subscription not found with ID: abc", err.Error())
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("loading: %w", err)))
	assert.False(t, IsNotFound(fmt.Errorf("boom")))
	assert.False(t, IsNotFound(nil))
}

func TestInvalidPayloadError(t *testing.T) {
	err := &InvalidPayloadError{Message: "unexpected end of JSON input"}
	assert.Contains(t, err.Error(), "invalid JSON payload")
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("target_url is required")
	assert.Equal(t, "validation error: target_url is required", err.Error())
}
