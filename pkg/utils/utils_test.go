package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	id1 := GenerateID("test")
	id2 := GenerateID("test")
	
	if id1 == id2 {
		t.Error("expected different IDs")
	}
	
	if !strings.HasPrefix(id1, "test_") {
		t.Errorf("expected prefix 'test_', got %s", id1)
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal string", "hello", "hello"},
		{"with control chars", "hello\x00world", "helloworld"},
		{"with newline", "hello\nworld", "hello\nworld"},
		{"with tabs", "hello\tworld", "hello\tworld"},
		{"with whitespace", "  hello  ", "hello"},
	}
	
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeString(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short string", "hello", 10, "hello"},
		{"long string", "hello world", 5, "he..."},
		{"very short max", "hello", 2, "he"},
		{"exact length", "hello", 5, "hello"},
	}
	
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  User@Example.COM  ", "user@example.com"},
		{"test@example.com", "test@example.com"},
		{"  TEST@EXAMPLE.COM  ", "test@example.com"},
	}
	
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeEmail(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMaskSensitive(t *testing.T) {
	tests := []struct {
		input        string
		visibleChars int
		expected     string
	}{
		{"password123", 3, "pas********"},
		{"token", 2, "to***"},
		{"short", 10, "*****"},
	}
	
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := MaskSensitive(tt.input, tt.visibleChars)
			if result != tt.expected {
				t.Errorf("MaskSensitive(%q, %d) = %q, want %q", tt.input, tt.visibleChars, result, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{100 * time.Millisecond, "100ms"},
		{2 * time.Second, "2.00s"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{2*time.Hour + 30*time.Minute, "2h30m"},
	}
	
	for _, tt := range tests {
		t.Run(tt.duration.String(), func(t *testing.T) {
			result := FormatDuration(tt.duration)
			if !strings.Contains(result, tt.expected[:len(tt.expected)-1]) {
				t.Errorf("FormatDuration(%v) = %q, should contain %q", tt.duration, result, tt.expected)
			}
		})
	}
}

func TestTimeUntilExpiry(t *testing.T) {
	now := time.Now()

	if got := TimeUntilExpiry(now.Add(-time.Hour)); got != 0 {
		t.Errorf("past expiry should leave zero, got %v", got)
	}

	got := TimeUntilExpiry(now.Add(time.Hour))
	if got <= 59*time.Minute || got > time.Hour {
		t.Errorf("remaining time = %v, want just under an hour", got)
	}
}

func TestGenerateResourceID(t *testing.T) {
	id1 := GenerateResourceID()
	id2 := GenerateResourceID()

	if id1 == id2 {
		t.Error("expected different resource IDs")
	}

	if !strings.HasPrefix(id1, "res_") {
		t.Errorf("expected prefix 'res_', got %s", id1)
	}
}

func TestGenerateAccessCode(t *testing.T) {
	code1 := GenerateAccessCode()
	code2 := GenerateAccessCode()

	if code1 == code2 {
		t.Error("expected different access codes")
	}

	if len(code1) != 20 {
		t.Errorf("expected 20-character code, got %d", len(code1))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Family Photos", "family-photos"},
		{"  Team  2024  ", "team-2024"},
		{"already-sluggy", "already-sluggy"},
		{"Ünïcode Näme", "ünïcode-näme"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := Slugify(tt.input); result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", true},
		{"   ", true},
		{"hello", false},
		{"  hello  ", false},
	}
	
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := IsEmpty(tt.input)
			if result != tt.expected {
				t.Errorf("IsEmpty(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

