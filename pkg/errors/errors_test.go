package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeMissingField, "flixel: url required for git dependencies")
	want := "MISSING_FIELD: flixel: url required for git dependencies"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeDownload, cause, "fetching format")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if got := err.Error(); got != "DOWNLOAD_FAILED: fetching format: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(ErrCodeCacheState, "unreadable marker")

	if !Is(err, ErrCodeCacheState) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeGit) {
		t.Error("Is should not match a different code")
	}

	// Matches through wrapping layers.
	wrapped := fmt.Errorf("evaluating flixel: %w", err)
	if !Is(wrapped, ErrCodeCacheState) {
		t.Error("Is should unwrap to find the code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInput, "empty commit message")); got != ErrCodeInput {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInput)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeGit, "clone failed")); got != "clone failed" {
		t.Errorf("UserMessage = %q, want %q", got, "clone failed")
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
