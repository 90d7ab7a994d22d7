// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/asprules/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "key not found",
			wantStr: "[NOT_FOUND] key not found",
		},
		{
			name:    "rules_empty_error",
			code:    errors.ErrRulesEmpty,
			message: "no valid rules configured",
			wantStr: "[RULES_EMPTY] no valid rules configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrPluginIDRequired, "extensions %s use plugin mode without a plugin id", "png, jpg")
	want := "extensions png, jpg use plugin mode without a plugin id"
	if err.Message != want {
		t.Errorf("Newf() message = %q, want %q", err.Message, want)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("connection refused")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrStorageRead, "read asp:rules")

		if err.Code != errors.ErrStorageRead {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrStorageRead)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[STORAGE_READ] read asp:rules: connection refused"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrInternal, "internal error"); err != nil {
			t.Error("Wrap(nil) should return nil")
		}
		if err := errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"); err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrRegistration, "host rejected rule").
		WithDetail("index", 2).
		WithDetail("extensions", "png")

	if err.Details["index"] != 2 {
		t.Errorf("WithDetail() index = %v, want %v", err.Details["index"], 2)
	}

	if err.Details["extensions"] != "png" {
		t.Errorf("WithDetail() extensions = %v, want %v", err.Details["extensions"], "png")
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	t.Run("same_code_is_equal", func(t *testing.T) {
		if !err1.Is(err2) {
			t.Error("Is() should return true for same code")
		}
	})

	t.Run("different_code_not_equal", func(t *testing.T) {
		if err1.Is(err3) {
			t.Error("Is() should return false for different codes")
		}
	})

	t.Run("works_with_errors_Is", func(t *testing.T) {
		if !stderrors.Is(err1, err2) {
			t.Error("errors.Is() should work with *errors.Error")
		}
	})
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrNotFound, "not found"),
			code:     errors.ErrNotFound,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrNotFound, "not found"),
			code:     errors.ErrInternal,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("disk full"), errors.ErrStorageWrite, "write"),
			code:     errors.ErrStorageWrite,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{
			name:     "coded_error",
			err:      errors.New(errors.ErrCapabilityMissing, "no registry"),
			expected: errors.ErrCapabilityMissing,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			expected: errors.ErrUnknown,
		},
		{
			name:     "nil_error",
			err:      nil,
			expected: errors.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFromPanic(t *testing.T) {
	t.Run("error_value", func(t *testing.T) {
		cause := stderrors.New("boom")
		err := errors.FromPanic(cause)
		if !stderrors.Is(err, cause) {
			t.Error("FromPanic() should wrap error values")
		}
		if err.Code != errors.ErrInternal {
			t.Errorf("FromPanic() code = %v, want %v", err.Code, errors.ErrInternal)
		}
	})

	t.Run("non_error_value", func(t *testing.T) {
		err := errors.FromPanic("boom")
		want := "[INTERNAL] recovered panic: boom"
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	codecErr := errors.Wrap(rootCause, errors.ErrStorageCodec, "decode asp-rules.json")
	readErr := errors.Wrap(codecErr, errors.ErrStorageRead, "read asp:rules")

	t.Run("top_level_has_correct_code", func(t *testing.T) {
		if !errors.IsErrorCode(readErr, errors.ErrStorageRead) {
			t.Error("Top level should have ErrStorageRead code")
		}
	})

	t.Run("can_find_middle_error", func(t *testing.T) {
		var coded *errors.Error
		if !stderrors.As(readErr.Unwrap(), &coded) {
			t.Fatal("middle error should be an *errors.Error")
		}
		if !errors.IsErrorCode(coded, errors.ErrStorageCodec) {
			t.Error("Middle error should have ErrStorageCodec code")
		}
	})

	t.Run("can_find_root_cause", func(t *testing.T) {
		if !stderrors.Is(readErr, rootCause) {
			t.Error("Should find root cause with errors.Is")
		}
	})
}
