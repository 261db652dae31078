package sanitizer

import (
	"strings"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "valid E.164 format", input: "+16502530000", want: "+16502530000"},
		{name: "with parentheses", input: "+1 (650) 253-0000", want: "+16502530000"},
		{name: "national US format", input: "(650) 253-0000", want: "+16502530000"},
		{name: "leading and trailing spaces", input: "  +442071838750  ", want: "+442071838750"},
		{name: "international 00 prefix", input: "00442071838750", want: "+442071838750"},
		{name: "foreign number without country code", input: "2071838750", want: ""},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   ", want: ""},
		{name: "garbage", input: "call me maybe", want: ""},
		{name: "too short", input: "12", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSMSCapable(t *testing.T) {
	// US numbers do not distinguish mobile from fixed lines.
	if !SMSCapable("+16502530000") {
		t.Error("expected US number to be SMS capable")
	}
	if SMSCapable("+442071838750") {
		t.Error("expected UK landline to be rejected")
	}
	if SMSCapable("not a number") {
		t.Error("expected garbage to be rejected")
	}
}

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello   world  ", "hello world"},
		{"tab\tand\nnewline", "tab and newline"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := TrimAndNormalize(tt.input); got != tt.want {
			t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeFreeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{name: "strips control characters", input: "setup\x00 near\x07 the pool", maxRunes: 100, want: "setup near the pool"},
		{name: "strips zero width characters", input: "back\u200byard", maxRunes: 100, want: "backyard"},
		{name: "collapses newlines", input: "line one\r\n\r\nline two", maxRunes: 100, want: "line one line two"},
		{name: "truncates by runes", input: "ñññññ", maxRunes: 3, want: "ñññ"},
		{name: "no limit", input: "  keep  ", maxRunes: 0, want: "keep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFreeText(tt.input, tt.maxRunes); got != tt.want {
				t.Errorf("SanitizeFreeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	long := strings.Repeat("a", 1500)
	if got := SanitizeFreeText(long, 1000); len(got) != 1000 {
		t.Errorf("expected 1000 runes, got %d", len(got))
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"https://bouncely.example/", "/reservations/r1", "https://bouncely.example/reservations/r1"},
		{"bouncely.example", "reservations/r1", "https://bouncely.example/reservations/r1"},
		{"http://localhost:8080", "", "http://localhost:8080"},
	}

	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
