package errors

import (
	"fmt"
	"testing"
)

func TestLapseError_Error(t *testing.T) {
	err := &LapseError{
		Code:    ErrNotFound,
		Message: "frame not found",
	}

	expected := "NOT_FOUND: frame not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewAlreadyStarted(t *testing.T) {
	err := NewAlreadyStarted("apollo")

	if err.Code != ErrAlreadyStarted {
		t.Errorf("Code = %q, want %q", err.Code, ErrAlreadyStarted)
	}
	if err.Details["project"] != "apollo" {
		t.Errorf("Details[project] = %v, want %q", err.Details["project"], "apollo")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("abc123")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Details["identifier"] != "abc123" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "abc123")
	}
}

func TestNewAmbiguousID(t *testing.T) {
	err := NewAmbiguousID("abc", 2)

	if err.Code != ErrAmbiguousID {
		t.Errorf("Code = %q, want %q", err.Code, ErrAmbiguousID)
	}
	if err.Details["prefix"] != "abc" {
		t.Errorf("Details[prefix] = %v, want %q", err.Details["prefix"], "abc")
	}
	if err.Details["count"] != 2 {
		t.Errorf("Details[count] = %v, want 2", err.Details["count"])
	}
}

func TestNewRemoteRejected(t *testing.T) {
	err := NewRemoteRejected(500, "boom")

	if err.Code != ErrRemoteRejected {
		t.Errorf("Code = %q, want %q", err.Code, ErrRemoteRejected)
	}
	if err.Details["status"] != 500 {
		t.Errorf("Details[status] = %v, want 500", err.Details["status"])
	}
}

func TestNewMalformedData(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := NewMalformedData("/tmp/frames.json", cause)

	if err.Code != ErrMalformedData {
		t.Errorf("Code = %q, want %q", err.Code, ErrMalformedData)
	}
	if err.Details["path"] != "/tmp/frames.json" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "/tmp/frames.json")
	}
	if err.Details["cause"] != cause.Error() {
		t.Errorf("Details[cause] = %v, want %q", err.Details["cause"], cause.Error())
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		originalErr := fmt.Errorf("disk full")
		err := NewInternal(originalErr)

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "disk full" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "disk full")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if Is(err, ErrAmbiguousID) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-LapseError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-LapseError")
		}
	})

	t.Run("wrapped LapseError", func(t *testing.T) {
		inner := NewNotFound("test")
		wrapped := fmt.Errorf("frames[0]: %w", inner)
		if !Is(wrapped, ErrNotFound) {
			t.Error("Is() = false, want true for wrapped LapseError")
		}
		if Is(wrapped, ErrAmbiguousID) {
			t.Error("Is() = true, want false for wrong code on wrapped LapseError")
		}
	})
}
