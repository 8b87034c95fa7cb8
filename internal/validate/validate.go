package validate

import (
	"regexp"
	"strings"
)

var (
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reQ        = regexp.MustCompile(`^[A-Za-z0-9 ._'&-]{1,80}$`)
	reBarcode  = regexp.MustCompile(`^[0-9]{8,14}$`)
	rePlatform = regexp.MustCompile(`^[a-z0-9]{2,20}$`)
)

// ID validates a simple resource identifier (product/platform ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 80 {
		s = s[:80]
	}
	return s, reQ.MatchString(s)
}

// Barcode validates EAN/UPC-style numeric barcodes.
func Barcode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reBarcode.MatchString(s)
}

// Platform validates a platform short code.
func Platform(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && rePlatform.MatchString(s)
}

// Platforms validates an optional platform list; empty input is valid
// and means "all known platforms".
func Platforms(in []string) ([]string, bool) {
	if len(in) == 0 {
		return nil, true
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		v, ok := Platform(p)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
