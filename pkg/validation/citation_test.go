package validation

import (
	"strings"
	"testing"
)

func TestValidateCitationText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		// Valid citations
		{"case citation", "410 U.S. 113 (1973)", false},
		{"statute", "35 U.S.C. § 101 (2018)", false},
		{"statute with nbsp", "35 U.S.C. §\u00a0101 (2018)", false},
		{"wrapped footnote", "Erie R.R. Co. v. Tompkins,\n304 U.S. 64 (1938)", false},
		{"tab indented", "\tMarbury v. Madison, 5 U.S. 137 (1803)", false},
		{"crlf wrapped", "U.S. Const.\r\namend. XIV, § 1", false},
		{"max length", strings.Repeat("a", MaxCitationBytes), false},

		// Invalid citations - injection attempts
		{"empty", "", true},
		{"whitespace only", "   \n\t  ", true},
		{"nul byte", "410 U.S. 113\x00(1973)", true},
		{"escape sequence", "410 U.S. 113 \x1b[31m(1973)", true},
		{"bell character", "410 U.S.\a113", true},
		{"delete character", "410 U.S. 113\x7f", true},
		{"backspace log rewrite", "good citation\x08\x08\x08bad", true},
		{"invalid utf8", "410 U.S. 113 \xff\xfe", true},
		{"too long", strings.Repeat("a", MaxCitationBytes+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCitationText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCitationText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCitationTexts(t *testing.T) {
	tests := []struct {
		name    string
		texts   []string
		wantErr bool
	}{
		{"all valid", []string{"410 U.S. 113 (1973)", "35 U.S.C. § 101 (2018)"}, false},
		{"one invalid", []string{"410 U.S. 113 (1973)", "", "35 U.S.C. § 101 (2018)"}, true},
		{"all invalid", []string{"", "\x00"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCitationTexts(tt.texts)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCitationTexts(%v) error = %v, wantErr %v", tt.texts, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCitationTexts_NamesIndexes(t *testing.T) {
	err := ValidateCitationTexts([]string{"410 U.S. 113 (1973)", "", "ok", "\x00"})
	if err == nil {
		t.Fatal("expected an error for the invalid entries")
	}
	if !strings.Contains(err.Error(), "[1 3]") {
		t.Errorf("error should name indexes 1 and 3, got: %v", err)
	}
}

func TestSanitizeCitationText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{"clean passthrough", "410 U.S. 113 (1973)", "410 U.S. 113 (1973)", false},
		{"leading whitespace trimmed", "  410 U.S. 113 (1973)", "410 U.S. 113 (1973)", false},
		{"trailing newline trimmed", "410 U.S. 113 (1973)\n", "410 U.S. 113 (1973)", false},
		{"case preserved", "erie R.R. co. v. Tompkins, 304 U.S. 64 (1938)", "erie R.R. co. v. Tompkins, 304 U.S. 64 (1938)", false},
		{"invalid rejected", "410 U.S.\x00113", "", true},
		{"empty rejected", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeCitationText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("SanitizeCitationText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("SanitizeCitationText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestValidatePosition(t *testing.T) {
	tests := []struct {
		name     string
		position string
		wantErr  bool
	}{
		{"empty is valid", "", false},
		{"section label", "Part II.A", false},
		{"footnote label", "note 45", false},
		{"page label", "page 1203", false},
		{"max length", strings.Repeat("x", MaxPositionBytes), false},

		{"too long", strings.Repeat("x", MaxPositionBytes+1), true},
		{"embedded newline", "Part II.A\nPart III", true},
		{"tab", "note\t45", true},
		{"nul byte", "note\x0045", true},
		{"invalid utf8", "note \xff", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePosition(tt.position)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePosition(%q) error = %v, wantErr %v", tt.position, err, tt.wantErr)
			}
		})
	}
}
