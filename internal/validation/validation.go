package validation

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	// MaxKeywordLength bounds stored keyword text.
	MaxKeywordLength = 200
	// MaxCount bounds search volumes and ranks, which are stored as INTEGER.
	MaxCount = math.MaxInt32
)

// ErrNotNumeric is returned when a value cannot be coerced to a number.
var ErrNotNumeric = errors.New("value is not a number")

// numberStripper removes currency symbols, thousands separators and percent signs.
var numberStripper = strings.NewReplacer("$", "", ",", "", "%", "", " ", "", "\t", "")

// NormalizeKeyword trims, collapses inner whitespace and lowercases keyword
// text so matches are case-insensitive.
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.Join(strings.Fields(keyword), " "))
}

// ValidateKeyword checks that keyword text is present and not too long.
func ValidateKeyword(keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	return keyword != "" && len(keyword) <= MaxKeywordLength
}

// ParseNumber coerces a spreadsheet-style number ("$1,250.50", "35%").
// Blank input is 0 with no error.
func ParseNumber(s string) (float64, error) {
	s = numberStripper.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotNumeric
	}
	return v, nil
}

// ParseInt coerces a number and truncates any fraction toward zero.
func ParseInt(s string) (int, error) {
	v, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	return int(math.Trunc(v)), nil
}

// IsBlank reports whether a raw cell holds no value.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseBool interprets the yes/no spellings seen in exports.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "x", "mine", "me":
		return true
	}
	return false
}

// ValidateRank checks a search position is at least 1 and fits the store.
func ValidateRank(rank int) bool {
	return rank >= 1 && rank <= MaxCount
}

// ValidateCount checks a volume or count is between 0 and MaxCount.
func ValidateCount(n int) bool {
	return n >= 0 && n <= MaxCount
}

// InRange checks min <= v <= max.
func InRange(v, min, max float64) bool {
	return v >= min && v <= max
}

// NormalizeConversionRate converts a percent (e.g. 5 for 5%) to a fraction.
// Values already at or below 1 are returned unchanged.
func NormalizeConversionRate(rate float64) float64 {
	if rate > 1 {
		return rate / 100
	}
	return rate
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// A bare host such as "example.com" is accepted and given an https scheme.
func ValidateURL(urlStr string) (string, bool, string) {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return "", false, "URL is required"
	}

	if !strings.Contains(urlStr, "://") {
		urlStr = "https://" + urlStr
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return "", false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return "", false, "URL must have a valid host"
	}

	return urlStr, true, ""
}
