package errors

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewError tests the basic creation of errors.
func TestNewError(t *testing.T) {
	tests := []struct {
		name    string
		code    ErrorCode
		message string
	}{
		{
			name:    "ValidationFailed",
			code:    ValidationFailed,
			message: "validation failed",
		},
		{
			name:    "LabelAlreadyKnown",
			code:    LabelAlreadyKnown,
			message: "label 3 already covered by the ensemble",
		},
		{
			name:    "PreconditionViolated",
			code:    PreconditionViolated,
			message: "nil instance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)

			customErr, ok := err.(*Error)
			require.True(t, ok, "should be a custom *Error")

			assert.Equal(t, tt.code, customErr.Code())
			assert.Equal(t, tt.message, customErr.Error())
			assert.Nil(t, customErr.Unwrap())
		})
	}
}

func TestWrapError(t *testing.T) {
	originalErr := stderrors.New("original error")

	err := Wrap(originalErr, StorageFailed, "journal append failed")
	require.NotNil(t, err)

	customErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, StorageFailed, customErr.Code())
	assert.Equal(t, originalErr, customErr.Unwrap())
	assert.Contains(t, err.Error(), "original error")

	assert.Nil(t, Wrap(nil, StorageFailed, "ignored"))
}

func TestWithFields(t *testing.T) {
	err := New(InvalidInput, "bad threshold")
	err = WithFields(err, Fields{"threshold": -0.5})

	customErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, InvalidInput, customErr.Code())
	assert.Equal(t, -0.5, customErr.Fields()["threshold"])
	assert.Contains(t, err.Error(), "threshold=-0.5")

	// Fields on a foreign error still produce a structured error.
	foreign := WithFields(stderrors.New("plain"), Fields{"k": "v"})
	assert.Equal(t, Unknown, CodeOf(foreign))
}

func TestCodeMatching(t *testing.T) {
	err := Wrap(New(LabelAlreadyKnown, "label 2 exists"), Unknown, "growth failed")

	assert.True(t, stderrors.Is(New(Unknown, "x"), New(Unknown, "y")))
	assert.Equal(t, Unknown, CodeOf(err))
	assert.True(t, HasCode(err, Unknown))
	assert.False(t, HasCode(nil, LabelAlreadyKnown))
	assert.Equal(t, Unknown, CodeOf(nil))
}

func TestCheckContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.Nil(t, CheckContext(ctx, "evaluation"))

	cancel()
	err := CheckContext(ctx, "evaluation")
	require.NotNil(t, err)
	assert.Equal(t, Canceled, CodeOf(err))
	assert.Contains(t, err.Error(), "evaluation canceled")
}
