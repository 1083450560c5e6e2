package steps

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yungbote/adforge-backend/internal/domain"
)

var (
	ctaRegex      = regexp.MustCompile(`(?i)\b(buy|shop|order|get|book|reserve|save|claim)\b`)
	discountRegex = regexp.MustCompile(`(?i)(\d{1,2}%|half off|bogo)`)
	productRegex  = regexp.MustCompile(`\bfor\s+([A-Za-z ]+)`)
)

// ExtractEntities pulls the first CTA verb, discount mention, and product
// phrase out of sanitized input text. Nil fields mean no match.
func ExtractEntities(text string) domain.Entities {
	var out domain.Entities
	if m := ctaRegex.FindString(text); m != "" {
		out.CTA = &m
	}
	if m := findDiscount(text); m != "" {
		out.Discount = &m
	}
	if m := productRegex.FindStringSubmatch(text); len(m) > 1 {
		product := strings.TrimSpace(m[1])
		if product != "" {
			out.Product = &product
		}
	}
	return out
}

// findDiscount matches discount tokens with manual word-boundary checks, since
// "%"-terminated tokens need a not-followed-by-word-character test that RE2
// lookaheads cannot express.
func findDiscount(text string) string {
	for _, loc := range discountRegex.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if before, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(before) {
			continue
		}
		if after, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(after) {
			continue
		}
		return text[start:end]
	}
	return ""
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
