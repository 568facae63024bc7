package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeDuplicateCode, "duplicate code M:5")
	if !stderrors.Is(err, &Error{Code: CodeDuplicateCode}) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(err, &Error{Code: CodeUnknownCode}) {
		t.Fatal("expected errors.Is to reject a different code")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeInternal, "save logbook", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if got := err.Error(); got != "save logbook: disk full" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("replay: %w", WithMetadata(CodeCorruptRecord, "bad time", map[string]string{"line": "3"}))
	if got := GetCode(wrapped); got != CodeCorruptRecord {
		t.Fatalf("GetCode = %q, want %q", got, CodeCorruptRecord)
	}
	if got := GetCode(fmt.Errorf("plain")); got != CodeUnknown {
		t.Fatalf("GetCode(plain) = %q, want %q", got, CodeUnknown)
	}
	if !HasCode(wrapped, CodeCorruptRecord) {
		t.Fatal("expected HasCode to find corrupt record")
	}
}
