package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"1,234", 1234, true},
		{"  42 ", 42, true},
		{"1,234,567.5", 1234567.5, true},
		{"-17", -17, true},
		{".5", 0.5, true},
		{"12abc", 12, true},
		{"", 0, false},
		{"   ", 0, false},
		{"n/a", 0, false},
		{"*", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.input)
		assert.Equal(t, tt.ok, ok, "ParseNumber(%q) ok", tt.input)
		assert.Equal(t, tt.want, got, "ParseNumber(%q)", tt.input)
	}
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-03-15", "2024-03"},
		{"2024-03", "2024-03"},
		{"2024-03-01T00:00:00Z", "2024-03"},
		{"2024", "2024"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MonthKey(tt.input); got != tt.want {
			t.Errorf("MonthKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input *float64
		want  string
	}{
		{nil, Missing},
		{ptr(0), "0"},
		{ptr(1234), "1,234"},
		{ptr(1234567), "1,234,567"},
		{ptr(1234.5), "1,234.5"},
		{ptr(-20), "-20"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.input))
	}
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		name      string
		cur, base *float64
		want      string
	}{
		{"increase", ptr(120), ptr(100), "20 (20.0%)"},
		{"decrease", ptr(90), ptr(120), "-30 (-25.0%)"},
		{"grouped", ptr(12000), ptr(10000), "2,000 (20.0%)"},
		{"zero base omits percentage", ptr(90), ptr(0), "90"},
		{"no change", ptr(50), ptr(50), "0 (0.0%)"},
		{"missing base", ptr(90), nil, Missing},
		{"missing current", nil, ptr(90), Missing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDelta(tt.cur, tt.base))
		})
	}
}
