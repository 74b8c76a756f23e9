package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	custom := NewDomainError("NOT_FOUND", "order abc not found")
	wrapped := fmt.Errorf("load order: %w", custom)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrInvalidInput))
	assert.Equal(t, "order abc not found", custom.Error())
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.False(t, verr.HasErrors())
	assert.Equal(t, "validation failed", verr.Error())

	verr.Add("phone", "is required")
	verr.Add("wilaya", "unknown code")
	assert.True(t, verr.HasErrors())
	assert.Equal(t, "validation failed: phone: is required; wilaya: unknown code", verr.Error())
}

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()
	assert.NotEmpty(t, e.GetID())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	before := e.UpdatedAt
	e.Touch()
	assert.False(t, e.UpdatedAt.Before(before))
}
