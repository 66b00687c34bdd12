package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"kasir/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_UnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("create product: %w", apperrors.NewValidationError("nama", "required"))

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))

	var verr *apperrors.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["nama"])
}

func TestValidationError_MessageIsStable(t *testing.T) {
	err := &apperrors.ValidationError{Fields: map[string]string{"stok": "gte", "kode": "required"}}
	assert.Equal(t, "validation failed (kode: required; stok: gte)", err.Error())
}
