package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatErrorUnwrap(t *testing.T) {
	err := NewFormatError("trades.pdf", "unsupported extension", ErrUnsupportedFormat)

	assert.True(t, Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "trades.pdf")

	var fe *FormatError
	wrapped := Wrap(err, "decoding upload")
	assert.True(t, As(wrapped, &fe))
	assert.Equal(t, "unsupported extension", fe.Reason)
}

func TestMissingFieldsError(t *testing.T) {
	err := NewMissingFieldsError([]string{"DATE", "SIDE"})

	assert.Equal(t, "missing required fields: DATE, SIDE", err.Error())
	assert.True(t, Is(err, ErrMissingFields))
}

func TestRowValidationErrorMessage(t *testing.T) {
	err := NewRowValidationError(3, "quantity", "-5", "must be a positive integer")

	assert.Equal(t, `quantity ("-5"): must be a positive integer`, err.Error())
	assert.True(t, Is(err, ErrInvalidTrade))

	noValue := NewRowValidationError(1, "date", "", "missing date")
	assert.Equal(t, "date: missing date", noValue.Error())
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("UNIQUE constraint failed")
	err := NewStoreError("create", "insert rejected", cause)

	assert.True(t, Is(err, cause))
	assert.Equal(t, "store error [create]: insert rejected: UNIQUE constraint failed", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
}
