package errors

import (
	"strings"
	"testing"
)

func TestValidateLevelName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "level1", false},
		{"valid with underscore", "test_room", false},
		{"valid with dash", "boss-fight", false},
		{"valid unicode", "fase_única", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
		{"tab", "a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLevelName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLevelName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidArgument) {
				t.Errorf("ValidateLevelName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidArgument)
			}
		})
	}
}

func TestValidateDirection(t *testing.T) {
	for _, dir := range []int{-1, 1} {
		if err := ValidateDirection(dir); err != nil {
			t.Errorf("ValidateDirection(%d) = %v, want nil", dir, err)
		}
	}
	for _, dir := range []int{0, 2, -2} {
		if err := ValidateDirection(dir); !Is(err, ErrCodeInvalidArgument) {
			t.Errorf("ValidateDirection(%d) = %v, want INVALID_ARGUMENT", dir, err)
		}
	}
}
