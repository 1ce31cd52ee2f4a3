package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("unexpected end of input")
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidInput, "name of %q is blank", "hdr"), `INVALID_INPUT: name of "hdr" is blank`},
		{Wrap(ErrCodeInvalidFormat, cause, "parse ui.json"), "INVALID_FORMAT: parse ui.json: unexpected end of input"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeNotFound, cause, "open ui.json")
	if errors.Unwrap(err) != cause || !errors.Is(err, cause) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestClassification(t *testing.T) {
	plain := errors.New("plain")
	tests := []struct {
		name     string
		err      error
		code     Code
		message  string
		http     int
		exitCode int
	}{
		{"invalid token", New(ErrCodeInvalidToken, "bad"), ErrCodeInvalidToken, "bad", 400, ExitUsage},
		{"unsupported", New(ErrCodeUnsupported, "xml"), ErrCodeUnsupported, "xml", 415, ExitUsage},
		{"cycle", New(ErrCodeCycle, "loop"), ErrCodeCycle, "loop", 400, ExitIntegrity},
		{"dangling", New(ErrCodeDanglingParent, "gone"), ErrCodeDanglingParent, "gone", 400, ExitIntegrity},
		{"not found", New(ErrCodeNotFound, "missing"), ErrCodeNotFound, "missing", 404, ExitNotFound},
		{"internal", Wrap(ErrCodeInternal, plain, "render"), ErrCodeInternal, "render", 500, ExitFailure},
		{"wrapped by fmt", fmt.Errorf("ui.json: %w", New(ErrCodeDuplicateID, "dup")), ErrCodeDuplicateID, "dup", 400, ExitIntegrity},
		{"plain", plain, "", "plain", 500, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
			if got := HTTPStatus(tt.err); got != tt.http {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.http)
			}
			if got := ExitCode(tt.err); got != tt.exitCode {
				t.Errorf("ExitCode() = %d, want %d", got, tt.exitCode)
			}
		})
	}

	if GetCode(nil) != "" || ExitCode(nil) != 0 {
		t.Error("nil error should have no code and exit 0")
	}
}

func TestIsOutermostCode(t *testing.T) {
	err := Wrap(ErrCodeInvalidToken, New(ErrCodeInvalidInput, "inner"), "outer")
	if !Is(err, ErrCodeInvalidToken) {
		t.Error("outer code not matched")
	}
	if Is(err, ErrCodeInvalidInput) {
		t.Error("inner code should be shadowed by the outer one")
	}
}
