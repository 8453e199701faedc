package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("Success_WrapPreservesSentinel", func(t *testing.T) {
		err := Wrap(ErrNotFound, "resource lookup failed")

		require.Error(t, err)
		assert.True(t, Is(err, ErrNotFound))
		assert.Equal(t, "resource lookup failed: not found", err.Error())
	})

	t.Run("Success_WrapNilReturnsNil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "ignored"))
	})

	t.Run("Success_NestedWrapPreservesSentinel", func(t *testing.T) {
		err := Wrap(Wrap(ErrPathViolation, "resolver"), "gateway")

		assert.True(t, Is(err, ErrPathViolation))
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrForbidden,
		ErrPathViolation,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, stderrors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestPathViolationIsNotNotFound(t *testing.T) {
	// A path escape must never be classified as a missing resource.
	err := Wrap(ErrPathViolation, "relative path escapes resource root")

	assert.True(t, Is(err, ErrPathViolation))
	assert.False(t, Is(err, ErrNotFound))
}
