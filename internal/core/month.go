// Package core holds the domain types and the stateless normalization
// helpers shared by the engine: month-key canonicalization and monetary
// parsing/rounding.
package core

import (
	"fmt"
	"regexp"
	"strings"
)

// monthNumbers maps month-name abbreviations and full names to their
// two-digit month number.
var monthNumbers = map[string]string{
	"jan": "01", "january": "01",
	"feb": "02", "february": "02",
	"mar": "03", "march": "03",
	"apr": "04", "april": "04",
	"may": "05",
	"jun": "06", "june": "06",
	"jul": "07", "july": "07",
	"aug": "08", "august": "08",
	"sep": "09", "sept": "09", "september": "09",
	"oct": "10", "october": "10",
	"nov": "11", "november": "11",
	"dec": "12", "december": "12",
}

var (
	isoPattern       = regexp.MustCompile(`^(\d{4})[\s\-/]+(\d{1,2})`)
	monthNamePattern = regexp.MustCompile(`([a-z]{3,})[\s\-/]*(\d{2,4})`)
	numericPattern   = regexp.MustCompile(`(\d{1,2})[\s\-/]+(\d{2,4})`)
)

// NormalizeMonth canonicalizes a free-form month token to the YYYY-MM key.
// Recognized shapes, tried in order:
//
//	"2025-04", "2025-04-01"       already canonical / ISO date
//	"Apr-25", "April 2025"        month name (prefix-tolerant) with 2/4-digit year
//	"4/25", "04/2025"             numeric month and year
//
// Matching is case-insensitive and ignores surrounding whitespace. Normalizing
// an already-canonical key returns it unchanged. Tokens that match none of the
// shapes return ErrUnrecognizedDateFormat.
func NormalizeMonth(token string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(token))
	if s == "" {
		return "", fmt.Errorf("%w: empty token", ErrUnrecognizedDateFormat)
	}

	if m := isoPattern.FindStringSubmatch(s); m != nil {
		month := m[2]
		if len(month) == 1 {
			month = "0" + month
		}
		if !validMonthNumber(month) {
			return "", fmt.Errorf("%w: %q", ErrUnrecognizedDateFormat, token)
		}
		return m[1] + "-" + month, nil
	}

	if m := monthNamePattern.FindStringSubmatch(s); m != nil {
		if month, ok := lookupMonthName(m[1]); ok {
			return expandYear(m[2]) + "-" + month, nil
		}
	}

	if m := numericPattern.FindStringSubmatch(s); m != nil {
		month := m[1]
		if len(month) == 1 {
			month = "0" + month
		}
		if validMonthNumber(month) {
			return expandYear(m[2]) + "-" + month, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnrecognizedDateFormat, token)
}

// NormalizeMonthStripped normalizes a token that may carry a known non-date
// prefix, e.g. "D365 Apr-25". The token is tried as-is first; on failure each
// leading prefix occurrence is stripped and the remainder re-matched.
func NormalizeMonthStripped(token string, prefixes []string) (string, error) {
	if key, err := NormalizeMonth(token); err == nil {
		return key, nil
	}
	s := strings.ToLower(strings.TrimSpace(token))
	for _, p := range prefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if idx := strings.Index(s, p); idx >= 0 {
			rest := strings.TrimSpace(s[idx+len(p):])
			if rest == "" {
				continue
			}
			if key, err := NormalizeMonth(rest); err == nil {
				return key, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedDateFormat, token)
}

// lookupMonthName resolves a month word, tolerating truncation in either
// direction ("sept" matches "sep", "mar" matches "march"). Words shorter than
// three letters are rejected by the pattern itself.
func lookupMonthName(word string) (string, bool) {
	if n, ok := monthNumbers[word]; ok {
		return n, true
	}
	for name, n := range monthNumbers {
		if strings.HasPrefix(word, name) || strings.HasPrefix(name, word) {
			return n, true
		}
	}
	return "", false
}

func validMonthNumber(mm string) bool {
	return mm >= "01" && mm <= "12"
}

// expandYear widens a 2-digit year to the 2000s.
func expandYear(y string) string {
	if len(y) == 2 {
		return "20" + y
	}
	return y
}
