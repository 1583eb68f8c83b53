package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesKind(t *testing.T) {
	err := New(ErrSessionNotConfigured, "start a session first")
	wrapped := fmt.Errorf("submit task: %w", err)

	assert.True(t, errors.Is(wrapped, ErrSessionNotConfigured))
	assert.False(t, errors.Is(wrapped, ErrSessionNotFound))
	assert.Equal(t, ErrSessionNotConfigured, KindOf(wrapped))
	assert.Equal(t, "start a session first", Message(wrapped))
}

func TestTimeoutIsModelCallFailure(t *testing.T) {
	err := Wrap(ErrModelCallFailed, "model call exceeded deadline of 2s", ErrModelCallTimeout)

	assert.True(t, errors.Is(err, ErrModelCallFailed))
	assert.True(t, errors.Is(err, ErrModelCallTimeout))
	assert.Equal(t, ErrModelCallFailed, KindOf(err))
	assert.Equal(t, "model call exceeded deadline of 2s: model call timed out", err.Error())
}

func TestKindOfUnknown(t *testing.T) {
	assert.Nil(t, KindOf(errors.New("boom")))
	assert.Nil(t, KindOf(nil))
	assert.Equal(t, "", Message(nil))
}
