package phonemask

import (
	"strings"
	"unicode/utf8"
)

const (
	// CountryDigit is the leading digit every valid number starts with.
	CountryDigit = '7'
	// AlternatePrefix is the domestic trunk prefix rewritten to CountryDigit.
	AlternatePrefix = '8'
	// MaxDigits is the full length of a national number including CountryDigit.
	MaxDigits = 11
)

// Digits strips every non-digit character from value
func Digits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format renders raw input into the +7 (XXX) XXX-XX-XX mask
func Format(raw string) string {
	return Normalize(raw, "")
}

// Normalize renders raw input into the mask. previous is the value shown before
// the edit and may be empty. When the edit removed only mask punctuation the
// last digit is dropped as well, so backspace deletes through the mask.
func Normalize(raw, previous string) string {
	digits := Digits(raw)

	if previous != "" && utf8.RuneCountInString(raw) < utf8.RuneCountInString(previous) &&
		len(digits) == len(Digits(previous)) && len(digits) > 0 {
		digits = digits[:len(digits)-1]
	}

	return render(canonical(digits))
}

// canonical caps digits and forces the country digit in front
func canonical(digits string) string {
	if len(digits) > MaxDigits {
		digits = digits[:MaxDigits]
	}
	if digits == "" {
		return ""
	}

	switch digits[0] {
	case CountryDigit:
	case AlternatePrefix:
		digits = string(CountryDigit) + digits[1:]
	default:
		digits = string(CountryDigit) + digits
		if len(digits) > MaxDigits {
			digits = digits[:MaxDigits]
		}
	}
	return digits
}

func render(digits string) string {
	if digits == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(18)
	b.WriteByte('+')
	b.WriteByte(digits[0])

	n := len(digits)
	if n > 1 {
		area := digits[1:min(4, n)]
		b.WriteString(" (")
		b.WriteString(area)
		if len(area) == 3 {
			b.WriteByte(')')
		}
	}
	if n > 4 {
		b.WriteByte(' ')
		b.WriteString(digits[4:min(7, n)])
	}
	if n > 7 {
		b.WriteByte('-')
		b.WriteString(digits[7:min(9, n)])
	}
	if n > 9 {
		b.WriteByte('-')
		b.WriteString(digits[9:n])
	}
	return b.String()
}

// IsValid reports whether value holds exactly 11 digits starting with CountryDigit.
// The server applies the same check to the raw submitted phone.
func IsValid(value string) bool {
	digits := Digits(value)
	return len(digits) == MaxDigits && digits[0] == CountryDigit
}

// Href returns the tel: link target for value, "+" followed by its digits.
func Href(value string) string {
	digits := Digits(value)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// IsStructural reports whether r is punctuation inserted by the mask
func IsStructural(r rune) bool {
	switch r {
	case ' ', '(', ')', '-':
		return true
	}
	return false
}
