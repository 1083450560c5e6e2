package steps

import "strings"

const wordPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var profanityWords = map[string]struct{}{
	"damn": {},
	"hell": {},
	"shit": {},
}

// SanitizeText trims the input and masks profane words in place, keeping the
// first character and replacing the rest with asterisks. Each masked word
// appends one PROFANITY_MASKED issue.
func SanitizeText(text string) (string, []string) {
	var issues []string
	words := strings.Fields(strings.TrimSpace(text))
	for i, word := range words {
		clean := strings.ToLower(strings.Trim(word, wordPunctuation))
		if _, found := profanityWords[clean]; !found {
			continue
		}
		issues = append(issues, "PROFANITY_MASKED")
		runes := []rune(word)
		masked := len(runes) - 1
		if masked < 1 {
			masked = 1
		}
		words[i] = string(runes[0]) + strings.Repeat("*", masked)
	}
	return strings.Join(words, " "), issues
}

// containsProfanity reports whether any word in text, stripped of surrounding
// punctuation, is on the blocklist.
func containsProfanity(text string) bool {
	for _, word := range strings.Fields(text) {
		clean := strings.ToLower(strings.Trim(word, wordPunctuation))
		if _, found := profanityWords[clean]; found {
			return true
		}
	}
	return false
}
