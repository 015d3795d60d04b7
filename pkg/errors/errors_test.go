package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSampleCount, "cannot sample %d of %d frames", 5, 3)

	if err.Code != ErrCodeInvalidSampleCount {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidSampleCount)
	}

	if err.Message != "cannot sample 5 of 3 frames" {
		t.Errorf("Message = %v, want %v", err.Message, "cannot sample 5 of 3 frames")
	}

	expected := "INVALID_SAMPLE_COUNT: cannot sample 5 of 3 frames"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrCodeRenderDispatch, cause, "blender failed")

	if err.Code != ErrCodeRenderDispatch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRenderDispatch)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidSpacing, "test"),
			code:     ErrCodeInvalidSpacing,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidSpacing, "test"),
			code:     ErrCodeUnknownCamera,
			expected: false,
		},
		{
			name:     "outer code of wrapped error",
			err:      Wrap(ErrCodeRenderDispatch, New(ErrCodeMeshRead, "inner"), "outer"),
			code:     ErrCodeRenderDispatch,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(ErrCodeRenderDispatch, New(ErrCodeMeshRead, "inner"), "outer"),
			code:     ErrCodeMeshRead,
			expected: true,
		},
		{
			name:     "wrapped with fmt.Errorf",
			err:      fmt.Errorf("layout: %w", New(ErrCodeInvalidSpacing, "spacing 0")),
			code:     ErrCodeInvalidSpacing,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidConfig,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidConfig,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeSceneInconsistency, "x")); got != ErrCodeSceneInconsistency {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeSceneInconsistency)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeUnknownCamera, "unknown camera preset %q", "top")); got != `unknown camera preset "top"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}
