package geocode

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Street, ward and district markers that confuse geocoders.
	addressMarkers = regexp.MustCompile(`(?i)\b(Duong|Phuong|Quan)\b`)
	whitespace     = regexp.MustCompile(`\s+`)

	cityVariants = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bTP\.?\s*HCM\b`),
		regexp.MustCompile(`(?i)\bHCMC\b`),
		regexp.MustCompile(`(?i)\b(?:(?:Thanh pho|TP\.?)\s*)?Ho Chi Minh(?:\s+City)?\b`),
	}
)

const canonicalCity = "Ho Chi Minh City"

// asciiFold decomposes, maps the stroked d (which has no decomposition) and
// drops everything outside ASCII, so "Đường Lê Lợi" becomes "Duong Le Loi".
func asciiFold() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Map(func(r rune) rune {
			switch r {
			case 'Đ':
				return 'D'
			case 'đ':
				return 'd'
			}
			return r
		}),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
}

// NormalizeAddress rewrites a Vietnamese address into the form geocoders match
// most often: ASCII only, without street/ward/district markers, with the city
// spelled "Ho Chi Minh City" and single spaces.
//
//	"123 Đường ABC, Phường XYZ, Quận 1, TP.HCM" -> "123 ABC, XYZ, 1, Ho Chi Minh City"
func NormalizeAddress(address string) string {
	s, _, err := transform.String(asciiFold(), address)
	if err != nil {
		s = address
	}
	s = addressMarkers.ReplaceAllString(s, "")
	for _, re := range cityVariants {
		s = re.ReplaceAllString(s, canonicalCity)
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
