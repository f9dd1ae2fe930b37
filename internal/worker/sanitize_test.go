package worker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain", "PlayerName", "PlayerName"},
		{"Spaces inside kept", "Tevent Boss", "Tevent Boss"},
		{"Surrounding whitespace", "  Player\t", "Player"},
		{"Control characters", "Pla\x00yer\r", "Player"},
		{"Unicode kept", "Kowazan ß", "Kowazan ß"},
		{"Invalid UTF-8 dropped", "Play\xffer", "Player"},
		{"Empty", "", ""},
		{"Only whitespace", " \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeName(tt.input)
			if got != tt.expected {
				t.Errorf("sanitizeName(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeName_Truncates(t *testing.T) {
	long := strings.Repeat("é", maxNameBytes) // 2 bytes each
	got := sanitizeName(long)
	if len(got) > maxNameBytes {
		t.Errorf("len = %d, want <= %d", len(got), maxNameBytes)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation split a rune")
	}
}

func BenchmarkSanitizeName(b *testing.B) {
	input := "Some Caster Name"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sanitizeName(input)
	}
}
