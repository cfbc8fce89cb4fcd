// Package normalize converts the display strings scraped from listing pages
// into numeric form. Parsers return nil on failure instead of an error; the
// merge step decides whether a row stays viable.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRun matches the first contiguous run of digits and decimal points,
// so "$172.34" yields "172.34". A run with more than one decimal point fails
// the float parse and comes back nil.
var numericRun = regexp.MustCompile(`[0-9.]+`)

// ParsePrice extracts the leading numeric substring of a price display string.
func ParsePrice(s string) *float64 {
	m := numericRun.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseVolume expands a trailing unit suffix (case-sensitive M or K) into its
// power-of-ten exponent and parses the result. Text without a suffix parses
// as a bare number.
func ParseVolume(s string) *float64 {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "M"):
		s = s[:len(s)-1] + "e6"
	case strings.HasSuffix(s, "K"):
		s = s[:len(s)-1] + "e3"
	}
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
