package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsInputInvalid_Wrapped(t *testing.T) {
	err := eris.Wrap(NewInputInvalid("unsupported extension", nil), "ingest: read upload")
	assert.True(t, IsInputInvalid(err))
	assert.False(t, IsExportFailure(err))
	assert.False(t, IsInferenceUnavailable(err))
}

func TestIsInferenceUnavailable_Unwrap(t *testing.T) {
	inner := errors.New("deadline exceeded")
	err := fmt.Errorf("score: %w", NewInferenceUnavailable(inner))
	assert.True(t, IsInferenceUnavailable(err))
	assert.ErrorIs(t, err, inner)
}

func TestExportFailure_Message(t *testing.T) {
	err := NewExportFailure("clipboard", errors.New("no display"))
	assert.Equal(t, "export to clipboard failed: no display", err.Error())
	assert.True(t, IsExportFailure(err))
}

func TestInputInvalid_Message(t *testing.T) {
	assert.Equal(t, "invalid input: empty file", NewInputInvalid("empty file", nil).Error())
	assert.Equal(t, "invalid input: too large: boom",
		NewInputInvalid("too large", errors.New("boom")).Error())
}

func TestNilError(t *testing.T) {
	assert.False(t, IsInputInvalid(nil))
	assert.False(t, IsInferenceUnavailable(nil))
	assert.False(t, IsExportFailure(nil))
}

func TestSentinels_SurviveErisWrap(t *testing.T) {
	assert.ErrorIs(t, eris.Wrap(ErrNoResult, "export: write"), ErrNoResult)
	assert.ErrorIs(t, eris.Wrap(ErrBusy, "session: start"), ErrBusy)
}
