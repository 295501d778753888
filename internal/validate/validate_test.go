package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"trims whitespace", "  hello  ", "hello"},
		{"strips angle brackets", "<script>alert(1)</script>", "scriptalert(1)/script"},
		{"strips javascript scheme", "javascript:alert(1)", "alert(1)"},
		{"strips scheme case-insensitively", "JaVaScRiPt:alert(1)", "alert(1)"},
		{"strips event handlers", `img onerror=alert(1)`, "img alert(1)"},
		{"strips uppercase event handlers", `a ONCLICK=x`, "a x"},
		{"strips pattern uncovered by another strip", "javasonx=cript:alert(1)", "alert(1)"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"hello",
		"<b>bold</b>",
		"javascript:javascript:x",
		"javasonx=cript:alert(1)",
		"  on click=stuff  ",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestPostalCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"K1A 0A6", true},
		{"k1a0a6", true},
		{"K1A0A6", true},
		{"D1A 0A6", false}, // D disallowed in first position
		{"W1A 0A6", false}, // W disallowed in first position
		{"K1D 0A6", false}, // D disallowed in later positions
		{"K1A 0A", false},
		{"K1A 0A66", false},
		{"12345", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PostalCode(tt.code), "code %q", tt.code)
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a.b+tag@sub.example.ca", true},
		{"no-at-sign", false},
		{"trailing@dot.", false},
		{"@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Email(tt.email), "email %q", tt.email)
	}

	long := make([]byte, 250)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, Email(string(long)+"@example.com"), "over 254 chars")
}

func TestCanadianPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"(613) 555-0134", true},
		{"6135550134", true},
		{"613.555.0134", true},
		{"123-456-7890", false}, // area code starts with 1
		{"613-155-0134", false}, // exchange starts with 1
		{"613555013", false},    // 9 digits
		{"16135550134", false},  // 11 digits
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanadianPhone(tt.phone), "phone %q", tt.phone)
	}
}

func TestCheck(t *testing.T) {
	assert.True(t, Check(RuleNone, ""))
	assert.True(t, Check(RuleNonEmpty, "value"))
	assert.False(t, Check(RuleNonEmpty, "   "))
	assert.True(t, Check(RulePostalCode, "K1A 0A6"))
	assert.False(t, Check(RulePostalCode, "nope"))
	assert.True(t, Check(RuleEmail, "a@b.ca"))
	assert.False(t, Check(RuleEmail, "a@"))
	assert.True(t, Check(RulePhone, "6135550134"))
	assert.False(t, Check(RulePhone, "1235550134"))
	// unknown rules fall back to the non-empty gate
	assert.True(t, Check(Rule("mystery"), "x"))
	assert.False(t, Check(Rule("mystery"), ""))
}
