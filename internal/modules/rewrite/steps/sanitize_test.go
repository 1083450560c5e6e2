package steps

import "testing"

func TestSanitizeTextMasksProfanity(t *testing.T) {
	got, issues := SanitizeText("This deal is damn good")
	if got != "This deal is d*** good" {
		t.Fatalf("sanitized: want=%q got=%q", "This deal is d*** good", got)
	}
	if len(issues) != 1 || issues[0] != "PROFANITY_MASKED" {
		t.Fatalf("issues: want=[PROFANITY_MASKED] got=%v", issues)
	}
}

func TestSanitizeTextMasksPunctuatedProfanity(t *testing.T) {
	got, issues := SanitizeText("What the hell!")
	if got != "What the h****" {
		t.Fatalf("sanitized: want=%q got=%q", "What the h****", got)
	}
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
}

func TestSanitizeTextCleanInput(t *testing.T) {
	got, issues := SanitizeText("  Fresh coffee, delivered fast.  ")
	if got != "Fresh coffee, delivered fast." {
		t.Fatalf("sanitized: got=%q", got)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestSanitizeTextMultipleProfaneWords(t *testing.T) {
	_, issues := SanitizeText("damn this shit")
	if len(issues) != 2 {
		t.Fatalf("expected two issues, got %v", issues)
	}
}

func TestSanitizeTextIdempotentOnMaskedOutput(t *testing.T) {
	once, _ := SanitizeText("This deal is damn good, no hell of a catch")
	twice, issues := SanitizeText(once)
	if twice != once {
		t.Fatalf("second pass changed text: want=%q got=%q", once, twice)
	}
	if len(issues) != 0 {
		t.Fatalf("masked words flagged again: %v", issues)
	}
}

func TestContainsProfanityCaseInsensitive(t *testing.T) {
	if !containsProfanity("Oh HELL no") {
		t.Fatalf("expected profanity to be detected")
	}
	if containsProfanity("hello world") {
		t.Fatalf("substring should not count as profanity")
	}
}
