package steps

import (
	"strings"
	"unicode"

	"github.com/yungbote/adforge-backend/internal/domain"
)

const ctaSuffix = ". Get yours today."

// ValidationResult carries the issue list alongside the repaired text; the
// caller decides whether to surface the repair.
type ValidationResult struct {
	OK           bool
	Issues       []string
	RepairedText string
}

// ValidateText checks rewritten copy against the platform constraint set and
// repairs what it can: truncates over-length text, strips disallowed emojis,
// and appends a CTA when one is required but missing. Profanity is flagged but
// left to the sanitize pass to mask.
func ValidateText(text string, constraints domain.ConstraintSet) ValidationResult {
	issues := []string{}
	repaired := text

	// Length is measured in runes so multi-byte text is not over-truncated.
	if runes := []rune(repaired); constraints.MaxLengthChars > 0 && len(runes) > constraints.MaxLengthChars {
		issues = append(issues, "MAX_LENGTH_EXCEEDED")
		repaired = strings.TrimRightFunc(string(runes[:constraints.MaxLengthChars]), unicode.IsSpace)
	}
	if !constraints.AllowEmojis && containsEmoji(repaired) {
		issues = append(issues, "EMOJI_NOT_ALLOWED")
		repaired = stripEmojis(repaired)
	}
	if constraints.CTARequired && !ctaRegex.MatchString(repaired) {
		issues = append(issues, "CTA_MISSING")
		repaired = strings.TrimRight(repaired, wordPunctuation) + ctaSuffix
	}
	if containsProfanity(repaired) {
		issues = append(issues, "PROFANITY_DETECTED")
	}

	return ValidationResult{
		OK:           len(issues) == 0,
		Issues:       issues,
		RepairedText: repaired,
	}
}

func isEmojiRune(r rune) bool {
	return r >= 0x263A && r <= 0x1F645
}

func containsEmoji(text string) bool {
	for _, r := range text {
		if isEmojiRune(r) {
			return true
		}
	}
	return false
}

func stripEmojis(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isEmojiRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
