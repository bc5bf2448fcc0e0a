package phonemask

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"Empty", "", ""},
		{"NoDigits", "abc", ""},
		{"CountryDigitOnly", "7", "+7"},
		{"AlternatePrefixOnly", "8", "+7"},
		{"ForeignFirstDigit", "9", "+7 (9"},
		{"PartialAreaCode", "78", "+7 (8"},
		{"FullAreaCode", "7863", "+7 (863)"},
		{"FirstLocalDigit", "78631", "+7 (863) 1"},
		{"LocalGroup", "7863123", "+7 (863) 123"},
		{"FirstPairStarted", "78631234", "+7 (863) 123-4"},
		{"SecondPairStarted", "7863123456", "+7 (863) 123-45-6"},
		{"Complete", "78631234567", "+7 (863) 123-45-67"},
		{"AlreadyFormatted", "+7 (863) 123-45-67", "+7 (863) 123-45-67"},
		{"AlternatePrefixRewritten", "8 863 123 45 67", "+7 (863) 123-45-67"},
		{"TenDigitsWithoutPrefix", "9281234567", "+7 (928) 123-45-67"},
		{"ElevenDigitsWithoutPrefix", "92812345678", "+7 (928) 123-45-67"},
		{"TooManyDigits", "786312345678", "+7 (863) 123-45-67"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.raw); got != tc.want {
				t.Errorf("Format(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalize_DeletesThroughMask(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		previous string
		want     string
	}{
		{"ClosingParenRemoved", "+7 (863", "+7 (863)", "+7 (86"},
		{"SpaceRemoved", "+7 (863)1", "+7 (863) 1", "+7 (863)"},
		{"DashRemoved", "+7 (863) 1234", "+7 (863) 123-4", "+7 (863) 123"},
		{"DigitRemoved", "+7 (863) 12", "+7 (863) 123", "+7 (863) 12"},
		{"Typing", "+7 (863) 1234", "+7 (863) 123", "+7 (863) 123-4"},
		{"ClearedField", "", "+7", ""},
		{"NoPrevious", "+7 (863", "", "+7 (863)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.raw, tc.previous); got != tc.want {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tc.raw, tc.previous, got, tc.want)
			}
		})
	}
}

func canonicalSamples() []string {
	bases := []string{"78631234567", "70000000000", "79999999999", "74951002030"}
	var out []string
	for _, base := range bases {
		for n := 0; n <= len(base); n++ {
			out = append(out, base[:n])
		}
	}
	return out
}

func TestFormat_IdempotentAndRoundTrips(t *testing.T) {
	for _, digits := range canonicalSamples() {
		once := Format(digits)
		if twice := Format(once); twice != once {
			t.Errorf("Format not idempotent for %q: %q then %q", digits, once, twice)
		}
		if got := Digits(once); got != digits {
			t.Errorf("Digits(Format(%q)) = %q, want %q", digits, got, digits)
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"Formatted", "+7 (863) 123-45-67", true},
		{"BareDigits", "78631234567", true},
		{"Empty", "", false},
		{"TenDigits", "+7 (863) 123-45-6", false},
		{"TwelveDigits", "786312345678", false},
		{"WrongPrefix", "88631234567", false},
		{"OtherPrefix", "18631234567", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValid(tc.value); got != tc.want {
				t.Errorf("IsValid(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestHref(t *testing.T) {
	if got := Href("+7 (863) 123-45-67"); got != "+78631234567" {
		t.Errorf("Href = %q, want %q", got, "+78631234567")
	}
	if got := Href("---"); got != "" {
		t.Errorf("Href of no digits = %q, want empty", got)
	}
}
