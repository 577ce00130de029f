package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

// TestParseSessionID tests session ID parsing
func TestParseSessionID(t *testing.T) {
	valid := NewSessionID()

	tests := []struct {
		input    string
		expected SessionID
		hasError bool
	}{
		{valid.String(), valid, false},
		{"  " + valid.String() + " ", valid, false},
		{"", "", true},
		{"   ", "", true},
		{"../../etc/passwd", "", true},
	}

	for _, tt := range tests {
		result, err := ParseSessionID(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseSessionID(%q) expected error, got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSessionID(%q) unexpected error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("ParseSessionID(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(ErrNoFileSelected) || !IsValidationError(ErrEmptyText) {
		t.Error("expected pre-request failures to be validation errors")
	}
	if IsValidationError(ErrNoResults) {
		t.Error("ErrNoResults is not a validation error")
	}
}
