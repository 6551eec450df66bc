package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plumber Near Me", "plumber near me"},
		{"  plumber   near\tme ", "plumber near me"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeKeyword(tt.in); got != tt.want {
			t.Errorf("NormalizeKeyword(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateKeyword(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    bool
	}{
		{"simple", "plumber near me", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"max length", strings.Repeat("a", MaxKeywordLength), true},
		{"too long", strings.Repeat("a", MaxKeywordLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateKeyword(tt.keyword); got != tt.want {
				t.Errorf("ValidateKeyword(%q) = %v, want %v", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"plain integer", "5000", 5000, false},
		{"decimal", "15.50", 15.5, false},
		{"currency", "$1,250.75", 1250.75, false},
		{"percent", "35%", 35, false},
		{"padded", "  42 ", 42, false},
		{"blank", "", 0, false},
		{"negative", "-3", -3, false},
		{"letters", "abc", 0, true},
		{"trailing garbage", "12abc", 0, true},
		{"nan", "NaN", 0, true},
		{"inf", "Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumber(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNumber(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNotNumeric) {
				t.Errorf("ParseNumber(%q) err = %v, want ErrNotNumeric", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"5,000", 5000, false},
		{"12.9", 12, false},
		{"-2.5", -2, false},
		{"", 0, false},
		{"n/a", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseInt(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseInt(%q) = %v, %v; want %v, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"yes", "Y", "TRUE", "1", "x", "Mine"} {
		if !ParseBool(in) {
			t.Errorf("ParseBool(%q) = false, want true", in)
		}
	}
	for _, in := range []string{"", "no", "false", "0", "maybe"} {
		if ParseBool(in) {
			t.Errorf("ParseBool(%q) = true, want false", in)
		}
	}
}

func TestValidateRankAndCount(t *testing.T) {
	tests := []struct {
		n         int
		wantRank  bool
		wantCount bool
	}{
		{-1, false, false},
		{0, false, true},
		{1, true, true},
		{MaxCount, true, true},
		{MaxCount + 1, false, false},
	}

	for _, tt := range tests {
		if got := ValidateRank(tt.n); got != tt.wantRank {
			t.Errorf("ValidateRank(%d) = %v, want %v", tt.n, got, tt.wantRank)
		}
		if got := ValidateCount(tt.n); got != tt.wantCount {
			t.Errorf("ValidateCount(%d) = %v, want %v", tt.n, got, tt.wantCount)
		}
	}
}

func TestNormalizeConversionRate(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.05, 0.05},
		{1, 1},
		{5, 0.05},
		{0, 0},
	}

	for _, tt := range tests {
		if got := NormalizeConversionRate(tt.in); got != tt.want {
			t.Errorf("NormalizeConversionRate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://example.com", "https://example.com", true, ""},
		{"valid http", "http://example.com/path", "http://example.com/path", true, ""},
		{"bare host", "joesplumbing.com", "https://joesplumbing.com", true, ""},
		{"empty string", "", "", false, "URL is required"},
		{"ftp scheme", "ftp://example.com", "", false, "URL must use http:// or https:// scheme"},
		{"scheme only", "https://", "", false, "URL must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if got != tt.want {
				t.Errorf("ValidateURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}
