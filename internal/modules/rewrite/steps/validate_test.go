package steps

import (
	"strings"
	"testing"

	"github.com/yungbote/adforge-backend/internal/domain"
)

func TestValidateTextAllClear(t *testing.T) {
	res := ValidateText("Shop the new collection today", domain.ConstraintSet{
		MaxLengthChars: 280,
		AllowEmojis:    true,
		CTARequired:    true,
	})
	if !res.OK {
		t.Fatalf("expected ok, issues=%v", res.Issues)
	}
	if res.RepairedText != "Shop the new collection today" {
		t.Fatalf("text must be untouched, got %q", res.RepairedText)
	}
}

func TestValidateTextTruncatesOverLength(t *testing.T) {
	res := ValidateText(strings.Repeat("a", 40)+" tail", domain.ConstraintSet{
		MaxLengthChars: 42,
		AllowEmojis:    true,
	})
	if res.OK {
		t.Fatalf("expected failure")
	}
	if len(res.Issues) != 1 || res.Issues[0] != "MAX_LENGTH_EXCEEDED" {
		t.Fatalf("issues: %v", res.Issues)
	}
	if len([]rune(res.RepairedText)) > 42 {
		t.Fatalf("repaired text too long: %d", len(res.RepairedText))
	}
	if strings.HasSuffix(res.RepairedText, " ") {
		t.Fatalf("trailing whitespace must be trimmed: %q", res.RepairedText)
	}
}

func TestValidateTextTruncationStripsAllTrailingWhitespace(t *testing.T) {
	res := ValidateText("Hello\r\nWorld", domain.ConstraintSet{
		MaxLengthChars: 6,
		AllowEmojis:    true,
	})
	if res.RepairedText != "Hello" {
		t.Fatalf("carriage return must be trimmed: got %q", res.RepairedText)
	}
}

func TestValidateTextEmojiCheckRunsOnTruncatedText(t *testing.T) {
	res := ValidateText(strings.Repeat("Nice deal \U0001F60A\U0001F60A", 3), domain.ConstraintSet{
		MaxLengthChars: 10,
		AllowEmojis:    false,
	})
	if got := len([]rune(res.RepairedText)); got > 10 {
		t.Fatalf("repaired text too long: %d runes", got)
	}
	if containsEmoji(res.RepairedText) {
		t.Fatalf("emoji survived repair: %q", res.RepairedText)
	}
	// The emojis sit past the cut, so only the length issue applies.
	if len(res.Issues) != 1 || res.Issues[0] != "MAX_LENGTH_EXCEEDED" {
		t.Fatalf("issues: want=[MAX_LENGTH_EXCEEDED] got=%v", res.Issues)
	}
}

func TestValidateTextStripsEmojis(t *testing.T) {
	res := ValidateText("Great deal \U0001F600 today", domain.ConstraintSet{
		MaxLengthChars: 280,
		AllowEmojis:    false,
	})
	if res.OK || len(res.Issues) != 1 || res.Issues[0] != "EMOJI_NOT_ALLOWED" {
		t.Fatalf("issues: %v", res.Issues)
	}
	if containsEmoji(res.RepairedText) {
		t.Fatalf("emoji survived repair: %q", res.RepairedText)
	}
}

func TestValidateTextEmojisAllowedPassThrough(t *testing.T) {
	res := ValidateText("Great deal \U0001F600", domain.ConstraintSet{
		MaxLengthChars: 280,
		AllowEmojis:    true,
	})
	if !res.OK {
		t.Fatalf("expected ok, issues=%v", res.Issues)
	}
}

func TestValidateTextAppendsMissingCTA(t *testing.T) {
	res := ValidateText("Our best coffee yet!", domain.ConstraintSet{
		MaxLengthChars: 280,
		AllowEmojis:    true,
		CTARequired:    true,
	})
	if res.OK || len(res.Issues) != 1 || res.Issues[0] != "CTA_MISSING" {
		t.Fatalf("issues: %v", res.Issues)
	}
	if res.RepairedText != "Our best coffee yet. Get yours today." {
		t.Fatalf("repaired: got %q", res.RepairedText)
	}
}

func TestValidateTextFlagsProfanityWithoutRepair(t *testing.T) {
	res := ValidateText("This is one hell of a deal. Buy now", domain.ConstraintSet{
		MaxLengthChars: 280,
		AllowEmojis:    true,
		CTARequired:    true,
	})
	if res.OK {
		t.Fatalf("expected failure")
	}
	if len(res.Issues) != 1 || res.Issues[0] != "PROFANITY_DETECTED" {
		t.Fatalf("issues: %v", res.Issues)
	}
	if !strings.Contains(res.RepairedText, "hell") {
		t.Fatalf("validation must not mask, got %q", res.RepairedText)
	}
}

func TestValidateTextStacksIssues(t *testing.T) {
	res := ValidateText(strings.Repeat("word ", 20)+"\U0001F600", domain.ConstraintSet{
		MaxLengthChars: 30,
		AllowEmojis:    false,
		CTARequired:    true,
	})
	want := map[string]bool{"MAX_LENGTH_EXCEEDED": false, "CTA_MISSING": false}
	for _, issue := range res.Issues {
		if _, ok := want[issue]; ok {
			want[issue] = true
		}
	}
	for issue, seen := range want {
		if !seen {
			t.Fatalf("missing issue %s in %v", issue, res.Issues)
		}
	}
}
