package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Parallel()

	var verr ValidationError
	assert.NoError(t, verr.OrNil())

	verr.Add("amount", "must be positive")
	verr.Add("kind", "unknown kind")

	err := fmt.Errorf("record transaction: %w", verr.OrNil())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "record transaction: validation: amount: must be positive; kind: unknown kind", err.Error())

	var target *ValidationError
	assert.True(t, errors.As(err, &target))
	assert.Len(t, target.Errors, 2)
}
