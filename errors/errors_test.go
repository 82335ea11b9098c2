package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/simonhull/hatch/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "invalid choice",
			code:    errors.ErrInvalidChoice,
			message: `license: "GPL" is not one of MIT, Apache-2.0`,
			wantStr: `[INVALID_CHOICE] license: "GPL" is not one of MIT, Apache-2.0`,
		},
		{
			name:    "destination conflict",
			code:    errors.ErrDestinationConflict,
			message: "out/pkg is not empty",
			wantStr: "[DESTINATION_CONFLICT] out/pkg is not empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrMaterializeFailed, "ignored"))

	cause := fmt.Errorf("disk full")
	err := errors.Wrapf(cause, errors.ErrMaterializeFailed, "writing %s", "README.md")
	require.NotNil(t, err)
	assert.Equal(t, "[MATERIALIZE_FAILED] writing README.md: disk full", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("rendering: %w",
		errors.New(errors.ErrUndefinedVariable, "x").WithDetail(errors.DetailKey, "x"))

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrUndefinedVariable, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrInvalidChoice, "")))
	assert.True(t, errors.IsErrorCode(err, errors.ErrUndefinedVariable))
	assert.Equal(t, errors.ErrUndefinedVariable, errors.GetErrorCode(err))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(fmt.Errorf("plain")))
}

func TestDetails(t *testing.T) {
	err := errors.New(errors.ErrCyclicDerivation, "cycle").
		WithDetail(errors.DetailCycle, []string{"a", "b", "a"}).
		WithDetail(errors.DetailKey, "a")

	assert.Equal(t, "a, b, a", err.Detail(errors.DetailCycle))
	assert.Equal(t, "a", err.Detail(errors.DetailKey))
	assert.Equal(t, "", err.Detail(errors.DetailPath))
	assert.Equal(t, []string{errors.DetailCycle, errors.DetailKey}, err.DetailKeys())
}

func TestFatal(t *testing.T) {
	assert.True(t, errors.New(errors.ErrOverlappingPruneRule, "").Fatal())
	assert.False(t, errors.New(errors.ErrFinalizeWarning, "").Fatal())
}
