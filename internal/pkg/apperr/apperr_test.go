package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = Conflict("SAMPLE", "sample conflict")

func TestIsMatchesCopies(t *testing.T) {
	detailed := WithMessage(errSample, "only %d left", 3)

	assert.True(t, errors.Is(detailed, errSample))
	assert.Equal(t, "only 3 left", detailed.Error())
	assert.Equal(t, "sample conflict", errSample.Message)
	assert.False(t, errors.Is(detailed, NotFound("SAMPLE", "x")))
}

func TestKindOf(t *testing.T) {
	internal := Internal("INTERNAL", "internal error")
	wrapped := fmt.Errorf("%w: begin tx: %v", internal, errors.New("conn reset"))

	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("settle: %w", errSample)))
	assert.True(t, IsKind(ValidationFields(map[string]string{"amount": "required"}), KindValidation))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(Internal("STORE", "store failed"), cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store failed: disk full", err.Error())
}
