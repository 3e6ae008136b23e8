package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsKind(t *testing.T) {
	err := Clone(ErrCapacity, "group G1 is full")

	assert.True(t, errors.Is(err, ErrCapacity))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "group G1 is full", err.Message)
	assert.Equal(t, "group is at full capacity", ErrCapacity.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestFromErrorFindsWrappedKind(t *testing.T) {
	inner := Clone(ErrNoActivePeriod, "")
	appErr := FromError(fmt.Errorf("assign: %w", inner))

	assert.Equal(t, ErrNoActivePeriod.Code, appErr.Code)
	assert.Equal(t, http.StatusPreconditionFailed, appErr.Status)
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(fmt.Errorf("conn reset"), ErrInternal.Code, ErrInternal.Status, "failed to load period")
	assert.Equal(t, "failed to load period: conn reset", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "conn reset")
}
