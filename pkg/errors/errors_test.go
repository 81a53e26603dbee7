package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeLengthMismatch, "group %q has %d values, want %d", "G1", 2, 3)

	if err.Code != ErrCodeLengthMismatch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeLengthMismatch)
	}

	expected := `LENGTH_MISMATCH: group "G1" has 2 values, want 3`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeWriteFailure, cause, "write /tmp/x/chart.png")

	if err.Code != ErrCodeWriteFailure {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeWriteFailure)
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
			err:      New(ErrCodeEmptyDataset, "no groups"),
			code:     ErrCodeEmptyDataset,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeEmptyDataset, "no groups"),
			code:     ErrCodeMissingField,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeWriteFailure, New(ErrCodeInvalidPath, "inner"), "outer"),
			code:     ErrCodeWriteFailure,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeEmptyDataset,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeEmptyDataset,
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
	if got := GetCode(New(ErrCodeInsufficientData, "one slice")); got != ErrCodeInsufficientData {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInsufficientData)
	}

	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeDuplicateCategory, "category %q repeated", "A")); got != `category "A" repeated` {
		t.Errorf("UserMessage() = %q", got)
	}

	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(New(ErrCodeMissingField, "category_names")) {
		t.Error("IsValidation(MissingField) = false, want true")
	}
	if IsValidation(New(ErrCodeWriteFailure, "disk full")) {
		t.Error("IsValidation(WriteFailure) = true, want false")
	}
	if IsValidation(errors.New("plain")) {
		t.Error("IsValidation(plain) = true, want false")
	}
}

func TestIsRender(t *testing.T) {
	if !IsRender(New(ErrCodeUnsupportedKind, "scatter")) {
		t.Error("IsRender(UnsupportedKind) = false, want true")
	}
	if IsRender(New(ErrCodeEmptyDataset, "no groups")) {
		t.Error("IsRender(EmptyDataset) = true, want false")
	}
}
