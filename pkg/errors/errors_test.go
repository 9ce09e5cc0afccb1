package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCodeThroughWrapping(t *testing.T) {
	base := New(CodeNotFound, "Not found")
	wrapped := fmt.Errorf("lookup: %w", base)

	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.False(t, IsCode(wrapped, CodeForbidden))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "create project failed")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal: create project failed: connection refused", err.Error())
	assert.Equal(t, New(CodeInvalid, "x"), Wrap(nil, CodeInvalid, "x"))
}

func TestWithMeta(t *testing.T) {
	err := New(CodeInvalid, "Validation failed").WithMeta("name", "too long")
	assert.Equal(t, map[string]any{"name": "too long"}, err.Meta)
}
